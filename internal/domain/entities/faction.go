package entities

import "time"

// FactionRelationship is one faction's stance toward another. The symmetry
// invariant requires the target faction to carry the mirrored entry with the
// same standing.
type FactionRelationship struct {
	FactionName string   `json:"factionName"`
	Type        Standing `json:"relationshipType"`
}

// Faction is keyed by its name; there is no separate id. Renames must be
// propagated to every record that references the old name.
type Faction struct {
	Name          string                `json:"name"`
	Description   string                `json:"description,omitempty"`
	Relationships []FactionRelationship `json:"relationships,omitempty"`
	Retired       bool                  `json:"retired"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// NewFaction creates a faction with stamped timestamps.
func NewFaction(name string) *Faction {
	now := time.Now()
	return &Faction{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch re-stamps UpdatedAt.
func (f *Faction) Touch() {
	f.UpdatedAt = time.Now()
}

// FindRelationship returns the relationship entry toward the named faction,
// or nil if none exists.
func (f *Faction) FindRelationship(factionName string) *FactionRelationship {
	for i := range f.Relationships {
		if f.Relationships[i].FactionName == factionName {
			return &f.Relationships[i]
		}
	}
	return nil
}
