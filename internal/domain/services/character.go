package services

import (
	"context"
	"fmt"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// CharacterService manages single-record character operations. Deletion is a
// filter-and-rewrite of the whole collection; there are no tombstones.
type CharacterService struct {
	dataset *DatasetService
}

// NewCharacterService creates a new CharacterService.
func NewCharacterService(dataset *DatasetService) *CharacterService {
	return &CharacterService{dataset: dataset}
}

// Create appends a new character to the collection.
func (s *CharacterService) Create(ctx context.Context, character *entities.Character) (*entities.Character, error) {
	if character.Name == "" {
		return nil, fmt.Errorf("character name is required")
	}

	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return nil, err
	}

	record := *character
	if record.ID == "" {
		stamped := entities.NewCharacter(record.Name)
		record.ID = stamped.ID
		record.CreatedAt = stamped.CreatedAt
		record.UpdatedAt = stamped.UpdatedAt
	}

	characters = append(characters, record)
	if err := s.dataset.SaveCharacters(ctx, characters); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update replaces the stored record with the same id and re-stamps it.
func (s *CharacterService) Update(ctx context.Context, character *entities.Character) (*entities.Character, error) {
	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return nil, err
	}

	for i := range characters {
		if characters[i].ID != character.ID {
			continue
		}
		record := *character
		record.CreatedAt = characters[i].CreatedAt
		record.Touch()
		characters[i] = record
		if err := s.dataset.SaveCharacters(ctx, characters); err != nil {
			return nil, err
		}
		return &record, nil
	}
	return nil, fmt.Errorf("character %q not found", character.ID)
}

// Retire marks the character retired without removing it.
func (s *CharacterService) Retire(ctx context.Context, id string) error {
	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return err
	}
	for i := range characters {
		if characters[i].ID == id {
			characters[i].Retired = true
			characters[i].Touch()
			return s.dataset.SaveCharacters(ctx, characters)
		}
	}
	return fmt.Errorf("character %q not found", id)
}

// Delete removes the character from the collection.
func (s *CharacterService) Delete(ctx context.Context, id string) error {
	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return err
	}

	kept := make([]entities.Character, 0, len(characters))
	found := false
	for i := range characters {
		if characters[i].ID == id {
			found = true
			continue
		}
		kept = append(kept, characters[i])
	}
	if !found {
		return fmt.Errorf("character %q not found", id)
	}
	return s.dataset.SaveCharacters(ctx, kept)
}

// List returns the stored characters.
func (s *CharacterService) List(ctx context.Context) ([]entities.Character, error) {
	return s.dataset.Characters(ctx)
}

// Find returns the character with the given id, or nil.
func (s *CharacterService) Find(ctx context.Context, id string) (*entities.Character, error) {
	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range characters {
		if characters[i].ID == id {
			return &characters[i], nil
		}
	}
	return nil, nil
}

// FindByName returns the character whose name matches case-insensitively, or
// nil.
func (s *CharacterService) FindByName(ctx context.Context, name string) (*entities.Character, error) {
	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return nil, err
	}
	needle := entities.NormalizeName(name)
	for i := range characters {
		if entities.NormalizeName(characters[i].Name) == needle {
			return &characters[i], nil
		}
	}
	return nil, nil
}
