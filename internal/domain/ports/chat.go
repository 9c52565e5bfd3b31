package ports

import (
	"context"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// ChatSource fetches raw messages from an external chat platform. Messages
// are returned in chronological order with bot authors already filtered out.
type ChatSource interface {
	// FetchMessages returns up to limit messages from the channel, newer
	// than afterID when it is non-empty.
	FetchMessages(ctx context.Context, channelID, afterID string, limit int) ([]entities.DiscordMessage, error)
}
