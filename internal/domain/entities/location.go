package entities

import "time"

// MapCoordinates is a normalized position on the campaign map, both axes
// in [0,1].
type MapCoordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Valid reports whether both coordinates lie in [0,1].
func (m MapCoordinates) Valid() bool {
	return m.X >= 0 && m.X <= 1 && m.Y >= 0 && m.Y <= 1
}

// Location is a place characters can reference by id. Every locationId held
// by a character must resolve to a location record after any import or merge.
type Location struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	MapCoordinates *MapCoordinates `json:"mapCoordinates,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewLocation creates a location with a fresh id and stamped timestamps.
func NewLocation(name string) *Location {
	now := time.Now()
	return &Location{
		ID:        NewID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch re-stamps UpdatedAt.
func (l *Location) Touch() {
	l.UpdatedAt = time.Now()
}
