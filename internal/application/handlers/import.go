// Package handlers wires the domain services to the CLI commands.
package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/services"
	"github.com/ersonp/campaign-core/internal/infrastructure/parsers"
)

// ImportMode selects how the imported dataset is applied.
type ImportMode string

const (
	// ImportMerge reconciles the payload against the stored dataset.
	ImportMerge ImportMode = "merge"
	// ImportReplace overwrites the stored dataset wholesale.
	ImportReplace ImportMode = "replace"
)

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string     // "json", "csv", or "auto"
	Mode   ImportMode // merge (default) or replace
	DryRun bool       // Validate and report without saving
}

// ImportResult reports what an import did. OK is false when the payload was
// malformed; in that case the stored state is untouched.
type ImportResult struct {
	OK      bool
	Failure string // human-readable parse failure when !OK

	AddedCharacters   int
	UpdatedCharacters int
	AddedFactions     int
	UpdatedFactions   int
	AddedLocations    int
	UpdatedLocations  int
	AddedEvents       int
	UpdatedEvents     int
	Conflicts         []services.MergeConflict
}

// ImportHandler handles importing a campaign dataset from a file.
type ImportHandler struct {
	dataset   *services.DatasetService
	merge     *services.MergeService
	integrity *services.LocationIntegrityService
}

// NewImportHandler creates a new import handler.
func NewImportHandler(dataset *services.DatasetService, merge *services.MergeService, integrity *services.LocationIntegrityService) *ImportHandler {
	return &ImportHandler{dataset: dataset, merge: merge, integrity: integrity}
}

// Handle imports a dataset from a file. A payload that cannot be parsed
// yields an ImportResult with OK=false rather than an error, leaving prior
// stored state untouched; storage failures are returned as errors.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}
	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	dataset, err := parser.Parse(file)
	if err != nil {
		return &ImportResult{OK: false, Failure: err.Error()}, nil
	}

	if opts.Mode == ImportReplace {
		return h.replace(ctx, dataset, opts)
	}
	return h.mergeInto(ctx, dataset, opts)
}

// mergeInto runs the merge engine over the parsed payload.
func (h *ImportHandler) mergeInto(ctx context.Context, dataset *entities.Dataset, opts ImportOptions) (*ImportResult, error) {
	if opts.DryRun {
		existing, err := h.dataset.Export(ctx)
		if err != nil {
			return nil, err
		}
		known := append(append([]entities.Location{}, existing.Locations...), dataset.Locations...)
		migrated, created := h.integrity.MigrateLegacy(dataset.Characters, known)
		dataset.Characters = migrated
		dataset.Locations = append(dataset.Locations, created...)
		return summarize(h.merge.Merge(existing, dataset)), nil
	}

	result, err := h.merge.MergeInto(ctx, dataset)
	if err != nil {
		return nil, err
	}
	if err := h.recordConflicts(ctx, result.Conflicts); err != nil {
		return nil, err
	}
	return summarize(result), nil
}

// recordConflicts persists the advisory conflicts so they can be resolved
// field by field later. A fresh conflict for a character supersedes any
// pending one for the same character.
func (h *ImportHandler) recordConflicts(ctx context.Context, conflicts []services.MergeConflict) error {
	if len(conflicts) == 0 {
		return nil
	}

	pending, err := h.dataset.Conflicts(ctx)
	if err != nil {
		return err
	}

	superseded := make(map[string]struct{}, len(conflicts))
	for _, c := range conflicts {
		superseded[c.ID] = struct{}{}
	}

	kept := make([]services.MergeConflict, 0, len(pending)+len(conflicts))
	for _, c := range pending {
		if _, ok := superseded[c.ID]; !ok {
			kept = append(kept, c)
		}
	}
	kept = append(kept, conflicts...)

	return h.dataset.SaveConflicts(ctx, kept)
}

// replace overwrites the stored collections, healing location references on
// the way in.
func (h *ImportHandler) replace(ctx context.Context, dataset *entities.Dataset, opts ImportOptions) (*ImportResult, error) {
	migrated, created := h.integrity.MigrateLegacy(dataset.Characters, dataset.Locations)
	dataset.Characters = migrated
	dataset.Locations = append(dataset.Locations, created...)
	placeholders := h.integrity.HealOrphans(dataset.Characters, dataset.Locations)
	dataset.Locations = append(dataset.Locations, placeholders...)

	result := &ImportResult{
		OK:              true,
		AddedCharacters: len(dataset.Characters),
		AddedFactions:   len(dataset.Factions),
		AddedLocations:  len(dataset.Locations),
		AddedEvents:     len(dataset.Events),
	}
	if opts.DryRun {
		return result, nil
	}

	if err := h.dataset.Replace(ctx, dataset); err != nil {
		return nil, err
	}
	return result, nil
}

// summarize converts a merge result into import counts.
func summarize(merged *services.MergeResult) *ImportResult {
	return &ImportResult{
		OK:                true,
		AddedCharacters:   len(merged.AddedCharacters),
		UpdatedCharacters: merged.UpdatedCharacters,
		AddedFactions:     len(merged.AddedFactions),
		UpdatedFactions:   merged.UpdatedFactions,
		AddedLocations:    len(merged.AddedLocations),
		UpdatedLocations:  merged.UpdatedLocations,
		AddedEvents:       len(merged.AddedEvents),
		UpdatedEvents:     merged.UpdatedEvents,
		Conflicts:         merged.Conflicts,
	}
}
