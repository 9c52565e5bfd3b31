// Package services contains the domain business logic: dataset persistence,
// the merge engine, faction relationship consistency, location referential
// integrity, and chat identity resolution.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/ports"
)

// Storage keys for the campaign collections. Each collection is one
// JSON-serialized blob in the key-value store.
const (
	KeyCharacters = "campaign.characters"
	KeyFactions   = "campaign.factions"
	KeyLocations  = "campaign.locations"
	KeyEvents     = "campaign.events"
	KeyDiscord    = "campaign.discord"
	KeyConflicts  = "campaign.conflicts"
)

// DatasetService is the typed repository over the key-value store port.
// All domain services read and write collections through it, so the core
// never touches the store directly and tests run against an in-memory fake.
type DatasetService struct {
	store ports.Store
}

// NewDatasetService creates a new DatasetService.
func NewDatasetService(store ports.Store) *DatasetService {
	return &DatasetService{store: store}
}

// loadCollection unmarshals the blob under key into out. An absent key
// leaves out untouched.
func (s *DatasetService) loadCollection(ctx context.Context, key string, out any) error {
	data, err := s.store.GetItem(ctx, key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// saveCollection marshals value and writes it under key.
func (s *DatasetService) saveCollection(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.store.SetItem(ctx, key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Characters loads the character collection.
func (s *DatasetService) Characters(ctx context.Context) ([]entities.Character, error) {
	var characters []entities.Character
	if err := s.loadCollection(ctx, KeyCharacters, &characters); err != nil {
		return nil, err
	}
	return characters, nil
}

// SaveCharacters writes the character collection.
func (s *DatasetService) SaveCharacters(ctx context.Context, characters []entities.Character) error {
	return s.saveCollection(ctx, KeyCharacters, characters)
}

// Factions loads the faction collection.
func (s *DatasetService) Factions(ctx context.Context) ([]entities.Faction, error) {
	var factions []entities.Faction
	if err := s.loadCollection(ctx, KeyFactions, &factions); err != nil {
		return nil, err
	}
	return factions, nil
}

// SaveFactions writes the faction collection.
func (s *DatasetService) SaveFactions(ctx context.Context, factions []entities.Faction) error {
	return s.saveCollection(ctx, KeyFactions, factions)
}

// Locations loads the location collection.
func (s *DatasetService) Locations(ctx context.Context) ([]entities.Location, error) {
	var locations []entities.Location
	if err := s.loadCollection(ctx, KeyLocations, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// SaveLocations writes the location collection.
func (s *DatasetService) SaveLocations(ctx context.Context, locations []entities.Location) error {
	return s.saveCollection(ctx, KeyLocations, locations)
}

// Events loads the event collection.
func (s *DatasetService) Events(ctx context.Context) ([]entities.Event, error) {
	var events []entities.Event
	if err := s.loadCollection(ctx, KeyEvents, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// SaveEvents writes the event collection.
func (s *DatasetService) SaveEvents(ctx context.Context, events []entities.Event) error {
	return s.saveCollection(ctx, KeyEvents, events)
}

// Discord loads the Discord dataset, returning an initialized empty dataset
// when none has been stored yet.
func (s *DatasetService) Discord(ctx context.Context) (*entities.DiscordData, error) {
	data := entities.NewDiscordData()
	if err := s.loadCollection(ctx, KeyDiscord, data); err != nil {
		return nil, err
	}
	if data.UserMappings == nil {
		data.UserMappings = map[string]string{}
	}
	return data, nil
}

// SaveDiscord writes the Discord dataset.
func (s *DatasetService) SaveDiscord(ctx context.Context, data *entities.DiscordData) error {
	return s.saveCollection(ctx, KeyDiscord, data)
}

// Conflicts loads the pending merge conflicts left by the last imports.
func (s *DatasetService) Conflicts(ctx context.Context) ([]MergeConflict, error) {
	var conflicts []MergeConflict
	if err := s.loadCollection(ctx, KeyConflicts, &conflicts); err != nil {
		return nil, err
	}
	return conflicts, nil
}

// SaveConflicts writes the pending merge conflict list.
func (s *DatasetService) SaveConflicts(ctx context.Context, conflicts []MergeConflict) error {
	return s.saveCollection(ctx, KeyConflicts, conflicts)
}

// Export assembles the full dataset in its stable export shape.
func (s *DatasetService) Export(ctx context.Context) (*entities.Dataset, error) {
	dataset := entities.NewDataset()

	var err error
	if dataset.Characters, err = s.Characters(ctx); err != nil {
		return nil, err
	}
	if dataset.Factions, err = s.Factions(ctx); err != nil {
		return nil, err
	}
	if dataset.Locations, err = s.Locations(ctx); err != nil {
		return nil, err
	}
	if dataset.Events, err = s.Events(ctx); err != nil {
		return nil, err
	}

	if dataset.Characters == nil {
		dataset.Characters = []entities.Character{}
	}
	if dataset.Factions == nil {
		dataset.Factions = []entities.Faction{}
	}
	if dataset.Locations == nil {
		dataset.Locations = []entities.Location{}
	}
	if dataset.Events == nil {
		dataset.Events = []entities.Event{}
	}

	dataset.Version = entities.DatasetVersion
	dataset.LastUpdated = time.Now()
	return dataset, nil
}

// Replace overwrites every campaign collection with the imported dataset.
// Unlike a merge import, absent arrays clear the stored collections.
func (s *DatasetService) Replace(ctx context.Context, dataset *entities.Dataset) error {
	if err := s.SaveCharacters(ctx, dataset.Characters); err != nil {
		return err
	}
	if err := s.SaveFactions(ctx, dataset.Factions); err != nil {
		return err
	}
	if err := s.SaveLocations(ctx, dataset.Locations); err != nil {
		return err
	}
	return s.SaveEvents(ctx, dataset.Events)
}
