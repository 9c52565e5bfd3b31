package entities

import "time"

// Event is a dated campaign happening. Events are plain single-record CRUD;
// they participate in import/export but have no merge rules beyond
// last-writer-wins.
type Event struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Date           string    `json:"date,omitempty"`
	LocationID     string    `json:"locationId,omitempty"`
	ParticipantIDs []string  `json:"participantIds,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewEvent creates an event with a fresh id and stamped timestamps.
func NewEvent(name string) *Event {
	now := time.Now()
	return &Event{
		ID:        NewID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch re-stamps UpdatedAt.
func (e *Event) Touch() {
	e.UpdatedAt = time.Now()
}
