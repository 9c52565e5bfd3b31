// Package entities contains the domain model for a campaign: characters,
// factions, locations, events, and the Discord ingestion records.
package entities

import (
	"strings"
	"time"
)

// FactionMembership records a character's affiliation with a faction.
// Name is the foreign key into the faction collection.
type FactionMembership struct {
	Name        string   `json:"name"`
	Standing    Standing `json:"standing"`
	Description string   `json:"description,omitempty"`
}

// CharacterRelationship is a directed edge from one character to another,
// keyed by the target character's name.
type CharacterRelationship struct {
	CharacterName string   `json:"characterName"`
	Type          Standing `json:"relationshipType"`
	Description   string   `json:"description,omitempty"`
}

// CyberwareItem is an installed augment with its stat modifiers.
type CyberwareItem struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	StatModifiers map[string]int `json:"statModifiers,omitempty"`
}

// Character is the central record of the tracker. Perks, distinctions, and
// locations are referenced by id, never embedded.
type Character struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Species        string                  `json:"species,omitempty"`
	PerkIDs        []string                `json:"perkIds,omitempty"`
	DistinctionIDs []string                `json:"distinctionIds,omitempty"`
	Factions       []FactionMembership     `json:"factions,omitempty"`
	Relationships  []CharacterRelationship `json:"relationships,omitempty"`
	LocationID     string                  `json:"locationId,omitempty"`
	// LegacyLocation is the deprecated free-text location field. It is
	// consumed by the legacy migration pass and cleared afterwards.
	LegacyLocation string          `json:"location,omitempty"`
	ImageURI       string          `json:"imageUri,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Cyberware      []CyberwareItem `json:"cyberware,omitempty"`
	Present        bool            `json:"present"`
	Retired        bool            `json:"retired"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewCharacter creates a character with a fresh id and stamped timestamps.
func NewCharacter(name string) *Character {
	now := time.Now()
	return &Character{
		ID:        NewID(),
		Name:      name,
		Present:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch re-stamps UpdatedAt. Every mutation path must call it before the
// record is written back.
func (c *Character) Touch() {
	c.UpdatedAt = time.Now()
}

// FindRelationship returns the relationship entry for the given target
// character name, or nil if none exists.
func (c *Character) FindRelationship(characterName string) *CharacterRelationship {
	for i := range c.Relationships {
		if c.Relationships[i].CharacterName == characterName {
			return &c.Relationships[i]
		}
	}
	return nil
}

// MemberOf reports whether the character holds a membership in the named
// faction.
func (c *Character) MemberOf(factionName string) bool {
	for i := range c.Factions {
		if c.Factions[i].Name == factionName {
			return true
		}
	}
	return false
}

// NormalizeName converts a name to lowercase and trims surrounding whitespace
// for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
