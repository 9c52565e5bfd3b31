package entities

import "time"

// CharacterAlias is a learned mapping from the shorthand one Discord user
// writes to a canonical character id. The composite key is
// (normalized alias, discord user id); the same alias from another author is
// an independent mapping.
type CharacterAlias struct {
	Alias         string    `json:"alias"`
	DiscordUserID string    `json:"discordUserId"`
	CharacterID   string    `json:"characterId"`
	Confidence    float64   `json:"confidence"`
	UsageCount    int       `json:"usageCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewAlias creates an alias with a normalized key and stamped timestamps.
func NewAlias(alias, discordUserID, characterID string, confidence float64) *CharacterAlias {
	now := time.Now()
	return &CharacterAlias{
		Alias:         NormalizeName(alias),
		DiscordUserID: discordUserID,
		CharacterID:   characterID,
		Confidence:    confidence,
		UsageCount:    1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Matches reports whether the alias covers the given name and author.
func (a *CharacterAlias) Matches(name, discordUserID string) bool {
	return a.DiscordUserID == discordUserID && a.Alias == NormalizeName(name)
}

// Reinforce records another observation of the alias. Confidence only ever
// increases; usage count is monotonically non-decreasing.
func (a *CharacterAlias) Reinforce(confidence float64) {
	if confidence > a.Confidence {
		a.Confidence = confidence
	}
	a.UsageCount++
	a.UpdatedAt = time.Now()
}
