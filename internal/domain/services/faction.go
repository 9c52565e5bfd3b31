package services

import (
	"context"
	"fmt"

	"github.com/ersonp/campaign-core/internal/domain/entities"
)

// DanglingEdge is a relationship entry whose target faction no longer
// exists, typically left behind by a faction deletion.
type DanglingEdge struct {
	FactionName string `json:"factionName"`
	TargetName  string `json:"targetName"`
}

// FactionService maintains the faction collection and its symmetry
// invariant: if faction A lists an edge to B with some standing, B lists the
// mirrored edge back to A with the same standing. Every create and update
// outside of a raw merge goes through here.
type FactionService struct {
	dataset *DatasetService
}

// NewFactionService creates a new FactionService.
func NewFactionService(dataset *DatasetService) *FactionService {
	return &FactionService{dataset: dataset}
}

// Create adds a new faction. For each declared relationship whose target
// exists, the reciprocal edge is written on the target as well.
func (s *FactionService) Create(ctx context.Context, faction *entities.Faction) (*entities.Faction, error) {
	if faction.Name == "" {
		return nil, fmt.Errorf("faction name is required")
	}

	factions, err := s.dataset.Factions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range factions {
		if factions[i].Name == faction.Name {
			return nil, fmt.Errorf("faction %q already exists", faction.Name)
		}
	}

	record := *faction
	if record.CreatedAt.IsZero() {
		stamped := entities.NewFaction(record.Name)
		record.CreatedAt = stamped.CreatedAt
		record.UpdatedAt = stamped.UpdatedAt
	}

	declared := record.Relationships
	record.Relationships = nil

	graph := newRelationshipGraph(factions)
	graph.Add(&record)
	for _, rel := range declared {
		graph.SetEdge(record.Name, rel.FactionName, rel.Type)
	}

	updated := graph.Materialize()
	if err := s.dataset.SaveFactions(ctx, updated); err != nil {
		return nil, err
	}

	saved := *graph.Faction(record.Name)
	return &saved, nil
}

// Update applies changes to the faction stored under oldName. A rename is
// propagated to every other faction's edges and every character's
// membership list; a rename that collides with a different existing faction
// is a no-op and returns nil. Relationship changes are diffed by target name
// and mirrored on the affected factions.
func (s *FactionService) Update(ctx context.Context, oldName string, updated *entities.Faction) (*entities.Faction, error) {
	factions, err := s.dataset.Factions(ctx)
	if err != nil {
		return nil, err
	}

	graph := newRelationshipGraph(factions)
	current := graph.Faction(oldName)
	if current == nil {
		return nil, fmt.Errorf("faction %q not found", oldName)
	}

	name := updated.Name
	if name == "" {
		name = oldName
	}
	if name != oldName {
		if graph.Faction(name) != nil {
			return nil, nil
		}
		graph.Rename(oldName, name)
		if err := s.renameMemberships(ctx, oldName, name); err != nil {
			return nil, err
		}
	}

	// Diff the relationship lists by target name and push every change
	// through the graph so reciprocal edges stay mirrored.
	before := relationshipsByName(current.Relationships)
	after := relationshipsByName(updated.Relationships)

	for target := range before {
		if _, keep := after[target]; !keep {
			graph.RemoveEdge(name, target)
		}
	}
	for _, rel := range updated.Relationships {
		if prev, ok := before[rel.FactionName]; !ok || prev != rel.Type {
			graph.SetEdge(name, rel.FactionName, rel.Type)
		}
	}

	current.Description = updated.Description
	current.Retired = updated.Retired
	current.Touch()

	materialized := graph.Materialize()
	if err := s.dataset.SaveFactions(ctx, materialized); err != nil {
		return nil, err
	}

	saved := *graph.Faction(name)
	return &saved, nil
}

// Rename changes only the faction's name, keeping everything else.
func (s *FactionService) Rename(ctx context.Context, oldName, newName string) (*entities.Faction, error) {
	factions, err := s.dataset.Factions(ctx)
	if err != nil {
		return nil, err
	}
	var current *entities.Faction
	for i := range factions {
		if factions[i].Name == oldName {
			current = &factions[i]
			break
		}
	}
	if current == nil {
		return nil, fmt.Errorf("faction %q not found", oldName)
	}

	renamed := *current
	renamed.Name = newName
	return s.Update(ctx, oldName, &renamed)
}

// Delete removes the faction entirely, first stripping it from every
// character's membership list. It returns the number of characters updated.
// Reciprocal edges on other factions that still reference the deleted name
// are left in place; DanglingEdges reports them for later cleanup.
func (s *FactionService) Delete(ctx context.Context, name string) (int, error) {
	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return 0, err
	}

	charactersUpdated := 0
	for i := range characters {
		if !characters[i].MemberOf(name) {
			continue
		}
		kept := characters[i].Factions[:0:0]
		for _, m := range characters[i].Factions {
			if m.Name != name {
				kept = append(kept, m)
			}
		}
		characters[i].Factions = kept
		characters[i].Touch()
		charactersUpdated++
	}
	if charactersUpdated > 0 {
		if err := s.dataset.SaveCharacters(ctx, characters); err != nil {
			return 0, err
		}
	}

	factions, err := s.dataset.Factions(ctx)
	if err != nil {
		return charactersUpdated, err
	}
	kept := make([]entities.Faction, 0, len(factions))
	found := false
	for i := range factions {
		if factions[i].Name == name {
			found = true
			continue
		}
		kept = append(kept, factions[i])
	}
	if !found {
		return charactersUpdated, fmt.Errorf("faction %q not found", name)
	}

	if err := s.dataset.SaveFactions(ctx, kept); err != nil {
		return charactersUpdated, err
	}
	return charactersUpdated, nil
}

// List returns the stored factions.
func (s *FactionService) List(ctx context.Context) ([]entities.Faction, error) {
	return s.dataset.Factions(ctx)
}

// Find returns the faction with the given name, or nil.
func (s *FactionService) Find(ctx context.Context, name string) (*entities.Faction, error) {
	factions, err := s.dataset.Factions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range factions {
		if factions[i].Name == name {
			return &factions[i], nil
		}
	}
	return nil, nil
}

// DanglingEdges lists relationship entries whose target faction does not
// exist.
func (s *FactionService) DanglingEdges(ctx context.Context) ([]DanglingEdge, error) {
	factions, err := s.dataset.Factions(ctx)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(factions))
	for i := range factions {
		known[factions[i].Name] = struct{}{}
	}

	var dangling []DanglingEdge
	for i := range factions {
		for _, rel := range factions[i].Relationships {
			if _, ok := known[rel.FactionName]; !ok {
				dangling = append(dangling, DanglingEdge{
					FactionName: factions[i].Name,
					TargetName:  rel.FactionName,
				})
			}
		}
	}
	return dangling, nil
}

// renameMemberships rewrites character faction memberships from oldName to
// newName.
func (s *FactionService) renameMemberships(ctx context.Context, oldName, newName string) error {
	characters, err := s.dataset.Characters(ctx)
	if err != nil {
		return err
	}

	changed := false
	for i := range characters {
		for j := range characters[i].Factions {
			if characters[i].Factions[j].Name == oldName {
				characters[i].Factions[j].Name = newName
				characters[i].Touch()
				changed = true
			}
		}
	}
	if !changed {
		return nil
	}
	return s.dataset.SaveCharacters(ctx, characters)
}

// relationshipsByName indexes a relationship list by target faction name.
func relationshipsByName(rels []entities.FactionRelationship) map[string]entities.Standing {
	index := make(map[string]entities.Standing, len(rels))
	for _, rel := range rels {
		index[rel.FactionName] = rel.Type
	}
	return index
}
