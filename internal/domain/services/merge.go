package services

import (
	"context"
	"reflect"
	"time"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// MergeConflict reports the scalar fields of one character that differ
// between the existing and imported records. Conflicts are advisory: the
// existing value is kept as the merged value and the caller resolves fields
// one at a time.
type MergeConflict struct {
	ID       string             `json:"id"`
	Existing entities.Character `json:"existing"`
	Imported entities.Character `json:"imported"`
	Fields   []string           `json:"conflicts"`
}

// MergeResult is the outcome of reconciling an imported dataset against the
// stored one. Added and updated are reported per collection so import can
// show counts rather than an opaque success flag.
type MergeResult struct {
	Characters []entities.Character
	Factions   []entities.Faction
	Locations  []entities.Location
	Events     []entities.Event

	Conflicts []MergeConflict

	AddedCharacters []string
	AddedFactions   []string
	AddedLocations  []string
	AddedEvents     []string

	UpdatedCharacters int
	UpdatedFactions   int
	UpdatedLocations  int
	UpdatedEvents     int
}

// MergeService reconciles two independently edited copies of the campaign
// dataset. Character records are merged field by field; factions, locations,
// and events are last-writer-wins at whole-record granularity. Merging a
// dataset into itself is a no-op.
type MergeService struct {
	dataset   *DatasetService
	integrity *LocationIntegrityService
}

// NewMergeService creates a new MergeService.
func NewMergeService(dataset *DatasetService, integrity *LocationIntegrityService) *MergeService {
	return &MergeService{dataset: dataset, integrity: integrity}
}

// Merge reconciles imported against existing as a pure function. Neither
// input is mutated. Referential integrity over locations is the caller's
// concern; MergeInto runs the integrity passes around this.
func (s *MergeService) Merge(existing, imported *entities.Dataset) *MergeResult {
	result := &MergeResult{}
	s.mergeCharacters(result, existing.Characters, imported.Characters)
	s.mergeFactions(result, existing.Factions, imported.Factions)
	s.mergeLocations(result, existing.Locations, imported.Locations)
	s.mergeEvents(result, existing.Events, imported.Events)
	return result
}

// MergeInto loads the stored dataset, runs the legacy-location migration on
// the incoming characters, merges, heals orphaned location references, and
// persists the merged collections. The stored state is untouched until every
// collection has merged cleanly in memory.
func (s *MergeService) MergeInto(ctx context.Context, imported *entities.Dataset) (*MergeResult, error) {
	existing := &entities.Dataset{}
	var err error
	if existing.Characters, err = s.dataset.Characters(ctx); err != nil {
		return nil, err
	}
	if existing.Factions, err = s.dataset.Factions(ctx); err != nil {
		return nil, err
	}
	if existing.Locations, err = s.dataset.Locations(ctx); err != nil {
		return nil, err
	}
	if existing.Events, err = s.dataset.Events(ctx); err != nil {
		return nil, err
	}

	// Resolve deprecated free-text locations on the incoming characters
	// before they enter the merge. Known locations span both copies so the
	// migration never duplicates a place that already exists.
	known := append(append([]entities.Location{}, existing.Locations...), imported.Locations...)
	migrated, created := s.integrity.MigrateLegacy(imported.Characters, known)

	incoming := &entities.Dataset{
		Characters: migrated,
		Factions:   imported.Factions,
		Locations:  append(append([]entities.Location{}, imported.Locations...), created...),
		Events:     imported.Events,
	}

	result := s.Merge(existing, incoming)

	// Heal any locationId that still resolves to nothing with a placeholder.
	placeholders := s.integrity.HealOrphans(result.Characters, result.Locations)
	for i := range placeholders {
		result.Locations = append(result.Locations, placeholders[i])
		result.AddedLocations = append(result.AddedLocations, placeholders[i].ID)
	}

	if err := s.dataset.SaveCharacters(ctx, result.Characters); err != nil {
		return nil, err
	}
	if err := s.dataset.SaveFactions(ctx, result.Factions); err != nil {
		return nil, err
	}
	if err := s.dataset.SaveLocations(ctx, result.Locations); err != nil {
		return nil, err
	}
	if err := s.dataset.SaveEvents(ctx, result.Events); err != nil {
		return nil, err
	}

	return result, nil
}

// mergeCharacters merges imported characters into existing, keyed by id.
// Unknown ids are appended verbatim; known ids go through the field-level
// merge.
func (s *MergeService) mergeCharacters(result *MergeResult, existing, imported []entities.Character) {
	merged := make([]entities.Character, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].ID] = i
	}

	for i := range imported {
		record := imported[i]
		pos, ok := index[record.ID]
		if !ok {
			merged = append(merged, record)
			index[record.ID] = len(merged) - 1
			result.AddedCharacters = append(result.AddedCharacters, record.ID)
			continue
		}

		before := merged[pos]
		mergedChar, conflicts := mergeCharacter(before, record)
		merged[pos] = mergedChar
		if !reflect.DeepEqual(before, mergedChar) {
			result.UpdatedCharacters++
		}
		if len(conflicts) > 0 {
			result.Conflicts = append(result.Conflicts, MergeConflict{
				ID:       record.ID,
				Existing: before,
				Imported: record,
				Fields:   conflicts,
			})
		}
	}

	result.Characters = merged
}

// mergeCharacter computes the field-level merge of one character pair and
// the list of conflicting scalar fields. Array fields union without
// conflict; scalars keep the existing value when both sides disagree.
func mergeCharacter(existing, imported entities.Character) (entities.Character, []string) {
	merged := existing
	var conflicts []string

	merged.PerkIDs = unionIDs(existing.PerkIDs, imported.PerkIDs)
	merged.DistinctionIDs = unionIDs(existing.DistinctionIDs, imported.DistinctionIDs)
	merged.Factions = mergeMemberships(existing.Factions, imported.Factions)
	merged.Relationships = mergeRelationships(existing.Relationships, imported.Relationships)

	mergeScalar(&merged.Name, imported.Name, "name", &conflicts)
	mergeScalar(&merged.Species, imported.Species, "species", &conflicts)
	mergeScalar(&merged.LocationID, imported.LocationID, "locationId", &conflicts)
	mergeScalar(&merged.ImageURI, imported.ImageURI, "imageUri", &conflicts)
	mergeScalar(&merged.Notes, imported.Notes, "notes", &conflicts)

	if len(existing.Cyberware) == 0 {
		merged.Cyberware = imported.Cyberware
	}

	merged.UpdatedAt = laterTime(existing.UpdatedAt, imported.UpdatedAt)

	return merged, conflicts
}

// mergeScalar adopts the imported value when the existing one is empty. When
// both are non-empty and differ, the field name is recorded as a conflict
// and the existing value stands.
func mergeScalar(existing *string, imported, field string, conflicts *[]string) {
	if imported == "" || imported == *existing {
		return
	}
	if *existing == "" {
		*existing = imported
		return
	}
	*conflicts = append(*conflicts, field)
}

// unionIDs unions two id lists by value: existing order preserved, new
// values appended in import order, no duplicates.
func unionIDs(existing, imported []string) []string {
	if len(imported) == 0 {
		return existing
	}

	seen := make(map[string]struct{}, len(existing)+len(imported))
	union := make([]string, 0, len(existing)+len(imported))
	for _, id := range existing {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		union = append(union, id)
	}
	for _, id := range imported {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		union = append(union, id)
	}
	return union
}

// mergeMemberships unions faction memberships by faction name. Existing
// entries are retained as-is; new names from the import are appended with
// their standing.
func mergeMemberships(existing, imported []entities.FactionMembership) []entities.FactionMembership {
	if len(imported) == 0 {
		return existing
	}

	seen := make(map[string]struct{}, len(existing))
	merged := make([]entities.FactionMembership, len(existing))
	copy(merged, existing)
	for i := range existing {
		seen[existing[i].Name] = struct{}{}
	}
	for i := range imported {
		if _, ok := seen[imported[i].Name]; ok {
			continue
		}
		seen[imported[i].Name] = struct{}{}
		merged = append(merged, imported[i])
	}
	return merged
}

// mergeRelationships merges relationship lists keyed by target character
// name. Entries present on both sides are updated in place; imported values
// win, but a blank import never overwrites an existing non-empty value.
// Import-only entries are appended.
func mergeRelationships(existing, imported []entities.CharacterRelationship) []entities.CharacterRelationship {
	if len(imported) == 0 {
		return existing
	}

	merged := make([]entities.CharacterRelationship, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].CharacterName] = i
	}

	for i := range imported {
		rel := imported[i]
		pos, ok := index[rel.CharacterName]
		if !ok {
			merged = append(merged, rel)
			index[rel.CharacterName] = len(merged) - 1
			continue
		}
		if rel.Type != "" {
			merged[pos].Type = rel.Type
		}
		if rel.Description != "" {
			merged[pos].Description = rel.Description
		}
	}
	return merged
}

// mergeFactions merges imported factions keyed by name. A strictly newer
// imported record replaces the existing one wholesale, relationships
// included; otherwise the existing record stands.
func (s *MergeService) mergeFactions(result *MergeResult, existing, imported []entities.Faction) {
	merged := make([]entities.Faction, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].Name] = i
	}

	for i := range imported {
		record := imported[i]
		pos, ok := index[record.Name]
		if !ok {
			merged = append(merged, record)
			index[record.Name] = len(merged) - 1
			result.AddedFactions = append(result.AddedFactions, record.Name)
			continue
		}
		if record.UpdatedAt.After(merged[pos].UpdatedAt) {
			merged[pos] = record
			result.UpdatedFactions++
		}
	}

	result.Factions = merged
}

// mergeLocations merges imported locations keyed by id with the same
// last-writer-wins rule as factions.
func (s *MergeService) mergeLocations(result *MergeResult, existing, imported []entities.Location) {
	merged := make([]entities.Location, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].ID] = i
	}

	for i := range imported {
		record := imported[i]
		pos, ok := index[record.ID]
		if !ok {
			merged = append(merged, record)
			index[record.ID] = len(merged) - 1
			result.AddedLocations = append(result.AddedLocations, record.ID)
			continue
		}
		if record.UpdatedAt.After(merged[pos].UpdatedAt) {
			merged[pos] = record
			result.UpdatedLocations++
		}
	}

	result.Locations = merged
}

// mergeEvents merges imported events keyed by id, last-writer-wins.
func (s *MergeService) mergeEvents(result *MergeResult, existing, imported []entities.Event) {
	merged := make([]entities.Event, len(existing))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i := range merged {
		index[merged[i].ID] = i
	}

	for i := range imported {
		record := imported[i]
		pos, ok := index[record.ID]
		if !ok {
			merged = append(merged, record)
			index[record.ID] = len(merged) - 1
			result.AddedEvents = append(result.AddedEvents, record.ID)
			continue
		}
		if record.UpdatedAt.After(merged[pos].UpdatedAt) {
			merged[pos] = record
			result.UpdatedEvents++
		}
	}

	result.Events = merged
}

// laterTime returns the later of two timestamps.
func laterTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
