package entities

import "github.com/google/uuid"

// NewID returns a new random identifier for an entity.
func NewID() string {
	return uuid.New().String()
}
