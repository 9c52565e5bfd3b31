package entities

import "time"

// DiscordMessage is an immutable chat record augmented with the character
// resolution fields once processed. CharacterID, once set, survives re-syncs
// so manual corrections are never lost.
type DiscordMessage struct {
	ID             string    `json:"id"`
	ChannelID      string    `json:"channelId"`
	SourceID       string    `json:"sourceId,omitempty"`
	AuthorID       string    `json:"authorId"`
	AuthorUsername string    `json:"authorUsername,omitempty"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
	Attachments    []string  `json:"attachments,omitempty"`

	ExtractedCharacterName string `json:"extractedCharacterName,omitempty"`
	CharacterID            string `json:"characterId,omitempty"`
}

// DiscordSource identifies one configured message source. Each source writes
// only messages tagged with its own id, so independent sources may sync
// concurrently.
type DiscordSource struct {
	ID        string `json:"id" yaml:"id"`
	ChannelID string `json:"channelId" yaml:"channel_id"`
	GuildID   string `json:"guildId,omitempty" yaml:"guild_id,omitempty"`
	Enabled   bool   `json:"enabled" yaml:"enabled"`
}

// DiscordConfig is the persisted configuration slice of the Discord dataset.
type DiscordConfig struct {
	Sources []DiscordSource `json:"sources,omitempty"`
}

// DiscordDataVersion is the current schema version of the Discord dataset.
const DiscordDataVersion = "1.0"

// DiscordData is the separately persisted Discord dataset: source config,
// direct user-to-character mappings, the message archive, and the learned
// alias table.
type DiscordData struct {
	Config DiscordConfig `json:"config"`
	// UserMappings maps a Discord user id directly to a character id for
	// users who always write as one character.
	UserMappings     map[string]string `json:"userMappings,omitempty"`
	Messages         []DiscordMessage  `json:"messages"`
	CharacterAliases []CharacterAlias  `json:"characterAliases"`
	Version          string            `json:"version"`
}

// NewDiscordData returns an empty Discord dataset stamped with the current
// version.
func NewDiscordData() *DiscordData {
	return &DiscordData{
		UserMappings:     map[string]string{},
		Messages:         []DiscordMessage{},
		CharacterAliases: []CharacterAlias{},
		Version:          DiscordDataVersion,
	}
}
