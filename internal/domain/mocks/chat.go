package mocks

import (
	"context"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// ChatSource is a mock implementation of ports.ChatSource that replays
// scripted messages.
type ChatSource struct {
	Messages []entities.DiscordMessage
	Err      error

	FetchCallCount int
	LastChannelID  string
	LastAfterID    string
}

// FetchMessages returns the scripted messages for the channel, newer than
// afterID, capped at limit.
func (m *ChatSource) FetchMessages(_ context.Context, channelID, afterID string, limit int) ([]entities.DiscordMessage, error) {
	m.FetchCallCount++
	m.LastChannelID = channelID
	m.LastAfterID = afterID
	if m.Err != nil {
		return nil, m.Err
	}

	var out []entities.DiscordMessage
	seenAfter := afterID == ""
	for _, msg := range m.Messages {
		if !seenAfter {
			if msg.ID == afterID {
				seenAfter = true
			}
			continue
		}
		if msg.ChannelID != channelID {
			continue
		}
		out = append(out, msg)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
