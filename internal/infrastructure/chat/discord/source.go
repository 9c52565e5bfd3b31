// Package discord provides a discordgo-backed implementation of the
// ChatSource port.
package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// pageSize is the Discord API maximum for one channel-messages request.
const pageSize = 100

// Source fetches channel messages through a Discord bot session.
type Source struct {
	session *discordgo.Session
	log     *zap.Logger
}

// NewSource opens a Discord session with the given bot token. A nil logger
// disables logging.
func NewSource(token string, log *zap.Logger) (*Source, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	return &Source{session: session, log: log}, nil
}

// Close closes the underlying session.
func (s *Source) Close() error {
	return s.session.Close()
}

// FetchMessages returns up to limit messages from the channel, newer than
// afterID when non-empty, in chronological order. Bot authors and empty
// messages are skipped.
func (s *Source) FetchMessages(ctx context.Context, channelID, afterID string, limit int) ([]entities.DiscordMessage, error) {
	if limit <= 0 {
		limit = pageSize
	}

	var out []entities.DiscordMessage
	cursor := afterID

	for len(out) < limit {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		batchSize := pageSize
		if remaining := limit - len(out); remaining < batchSize {
			batchSize = remaining
		}

		batch, err := s.session.ChannelMessages(channelID, batchSize, "", cursor, "")
		if err != nil {
			return out, fmt.Errorf("fetching channel messages: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		// The API returns newest-first; walk backwards for chronological
		// order.
		for i := len(batch) - 1; i >= 0; i-- {
			m := batch[i]
			if m.Author == nil || m.Author.Bot {
				continue
			}
			if strings.TrimSpace(m.Content) == "" && len(m.Attachments) == 0 {
				continue
			}
			out = append(out, convertMessage(m, channelID))
		}

		cursor = batch[0].ID
	}

	s.log.Debug("fetched channel messages",
		zap.String("channel", channelID),
		zap.Int("count", len(out)),
	)
	return out, nil
}

// convertMessage maps a discordgo message to the domain record.
func convertMessage(m *discordgo.Message, channelID string) entities.DiscordMessage {
	msg := entities.DiscordMessage{
		ID:        m.ID,
		ChannelID: channelID,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorUsername = m.Author.Username
	}
	for _, att := range m.Attachments {
		msg.Attachments = append(msg.Attachments, att.URL)
	}
	return msg
}
