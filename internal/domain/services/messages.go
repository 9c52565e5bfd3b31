package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/ports"
)

// DefaultFetchLimit caps how many messages one sync pulls from a source.
const DefaultFetchLimit = 200

// SyncResult reports one source sync: how many messages were fetched, how
// many resolved to a character, and how many await manual selection.
type SyncResult struct {
	SourceID    string
	Fetched     int
	Resolved    int
	NeedsManual int
}

// MessageService runs the chat ingestion pipeline: fetch raw messages from a
// configured source, extract the character-name marker, resolve it, and
// merge the tagged messages into the stored archive.
type MessageService struct {
	dataset  *DatasetService
	source   ports.ChatSource
	resolver *ResolverService
	log      *zap.Logger
}

// NewMessageService creates a new MessageService. A nil logger disables
// logging.
func NewMessageService(dataset *DatasetService, source ports.ChatSource, resolver *ResolverService, log *zap.Logger) *MessageService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageService{dataset: dataset, source: source, resolver: resolver, log: log}
}

// Sync fetches new messages for one configured source and merges them into
// the archive. Sources write only messages tagged with their own id, so
// syncs of independent sources touch disjoint partitions of the message
// collection.
func (s *MessageService) Sync(ctx context.Context, source entities.DiscordSource) (*SyncResult, error) {
	data, err := s.dataset.Discord(ctx)
	if err != nil {
		return nil, err
	}

	afterID := lastMessageID(data.Messages, source.ID)
	fetched, err := s.source.FetchMessages(ctx, source.ChannelID, afterID, DefaultFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching messages for source %s: %w", source.ID, err)
	}

	result := &SyncResult{SourceID: source.ID, Fetched: len(fetched)}
	for i := range fetched {
		msg := fetched[i]
		msg.SourceID = source.ID

		if characterID, ok := data.UserMappings[msg.AuthorID]; ok {
			msg.CharacterID = characterID
			result.Resolved++
			mergeMessage(data, msg)
			continue
		}

		name := ExtractCharacterName(msg.Content)
		if name == "" {
			mergeMessage(data, msg)
			continue
		}
		msg.ExtractedCharacterName = name

		resolution, err := s.resolver.Resolve(ctx, name, msg.AuthorID)
		if err != nil {
			return nil, err
		}
		if resolution.CharacterID != "" {
			msg.CharacterID = resolution.CharacterID
			result.Resolved++
		} else {
			result.NeedsManual++
		}

		mergeMessage(data, msg)
	}

	// Resolve reloads and rewrites the Discord blob when it learns an
	// alias, so merge the message updates into the latest copy before
	// saving.
	latest, err := s.dataset.Discord(ctx)
	if err != nil {
		return nil, err
	}
	latest.Messages = data.Messages
	if err := s.dataset.SaveDiscord(ctx, latest); err != nil {
		return nil, err
	}

	s.log.Info("synced source",
		zap.String("source", source.ID),
		zap.Int("fetched", result.Fetched),
		zap.Int("resolved", result.Resolved),
		zap.Int("needs_manual", result.NeedsManual),
	)
	return result, nil
}

// Messages returns the stored archive, optionally filtered by source.
func (s *MessageService) Messages(ctx context.Context, sourceID string) ([]entities.DiscordMessage, error) {
	data, err := s.dataset.Discord(ctx)
	if err != nil {
		return nil, err
	}
	if sourceID == "" {
		return data.Messages, nil
	}

	var out []entities.DiscordMessage
	for i := range data.Messages {
		if data.Messages[i].SourceID == sourceID {
			out = append(out, data.Messages[i])
		}
	}
	return out, nil
}

// Tag sets the character id on one stored message, as a manual correction.
func (s *MessageService) Tag(ctx context.Context, messageID, characterID string) error {
	data, err := s.dataset.Discord(ctx)
	if err != nil {
		return err
	}
	for i := range data.Messages {
		if data.Messages[i].ID == messageID {
			data.Messages[i].CharacterID = characterID
			return s.dataset.SaveDiscord(ctx, data)
		}
	}
	return fmt.Errorf("message %q not found", messageID)
}

// mergeMessage upserts one message into the archive keyed by message id. An
// existing characterId or extractedCharacterName always survives an incoming
// blank: manual corrections are never lost to a machine re-extraction.
func mergeMessage(data *entities.DiscordData, incoming entities.DiscordMessage) {
	for i := range data.Messages {
		stored := &data.Messages[i]
		if stored.ID != incoming.ID {
			continue
		}
		if incoming.CharacterID == "" {
			incoming.CharacterID = stored.CharacterID
		}
		if incoming.ExtractedCharacterName == "" {
			incoming.ExtractedCharacterName = stored.ExtractedCharacterName
		}
		if stored.CharacterID != "" {
			// A previously tagged message keeps its tag.
			incoming.CharacterID = stored.CharacterID
		}
		*stored = incoming
		return
	}
	data.Messages = append(data.Messages, incoming)
}

// lastMessageID returns the id of the newest stored message for the source,
// or "" when the source has no messages yet.
func lastMessageID(messages []entities.DiscordMessage, sourceID string) string {
	last := ""
	for i := range messages {
		if messages[i].SourceID == sourceID {
			last = messages[i].ID
		}
	}
	return last
}
