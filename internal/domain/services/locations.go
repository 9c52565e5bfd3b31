package services

import (
	"context"
	"fmt"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// LocationIntegrityService guarantees that every locationId held by a
// character resolves to a location record. Both passes are pure and
// idempotent: they return new records to persist and never mutate the
// locations they are given.
type LocationIntegrityService struct{}

// NewLocationIntegrityService creates a new LocationIntegrityService.
func NewLocationIntegrityService() *LocationIntegrityService {
	return &LocationIntegrityService{}
}

// MigrateLegacy resolves the deprecated free-text location field on the
// given characters. A case-insensitive name match against known locations
// wins; on a miss a new location is synthesized once per distinct name, so
// characters sharing a legacy name converge on one record. The legacy field
// is cleared on every migrated character.
func (s *LocationIntegrityService) MigrateLegacy(characters []entities.Character, locations []entities.Location) ([]entities.Character, []entities.Location) {
	byName := make(map[string]string, len(locations))
	for i := range locations {
		byName[entities.NormalizeName(locations[i].Name)] = locations[i].ID
	}

	migrated := make([]entities.Character, len(characters))
	copy(migrated, characters)

	var created []entities.Location
	for i := range migrated {
		legacy := migrated[i].LegacyLocation
		if legacy == "" {
			continue
		}
		if migrated[i].LocationID != "" {
			migrated[i].LegacyLocation = ""
			continue
		}

		key := entities.NormalizeName(legacy)
		id, ok := byName[key]
		if !ok {
			loc := entities.NewLocation(legacy)
			loc.Description = "Migrated from legacy location field"
			created = append(created, *loc)
			byName[key] = loc.ID
			id = loc.ID
		}

		migrated[i].LocationID = id
		migrated[i].LegacyLocation = ""
	}

	return migrated, created
}

// HealOrphans synthesizes a placeholder location for every locationId that
// has no matching record, so the UI can prompt for correction instead of
// carrying a dangling reference.
func (s *LocationIntegrityService) HealOrphans(characters []entities.Character, locations []entities.Location) []entities.Location {
	known := make(map[string]struct{}, len(locations))
	for i := range locations {
		known[locations[i].ID] = struct{}{}
	}

	var created []entities.Location
	for i := range characters {
		id := characters[i].LocationID
		if id == "" {
			continue
		}
		if _, ok := known[id]; ok {
			continue
		}

		loc := placeholderLocation(id)
		created = append(created, loc)
		known[id] = struct{}{}
	}

	return created
}

// Heal runs the orphan pass against the stored collections and persists any
// placeholders it creates, returning them for reporting.
func (s *LocationIntegrityService) Heal(ctx context.Context, dataset *DatasetService) ([]entities.Location, error) {
	characters, err := dataset.Characters(ctx)
	if err != nil {
		return nil, err
	}
	locations, err := dataset.Locations(ctx)
	if err != nil {
		return nil, err
	}

	created := s.HealOrphans(characters, locations)
	if len(created) == 0 {
		return nil, nil
	}

	if err := dataset.SaveLocations(ctx, append(locations, created...)); err != nil {
		return nil, err
	}
	return created, nil
}

// placeholderLocation builds the synthetic record for a dangling location
// reference, naming it after the first 8 characters of the id.
func placeholderLocation(id string) entities.Location {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}

	loc := entities.NewLocation(fmt.Sprintf("Unknown Location (%s)", short))
	loc.ID = id
	loc.Description = "Auto-created for a missing location reference. Please update."
	return *loc
}
