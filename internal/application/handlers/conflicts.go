package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/services"
)

// ConflictChoice selects how one conflicting field is resolved.
type ConflictChoice string

const (
	// ChoiceKeep keeps the stored value and closes the field.
	ChoiceKeep ConflictChoice = "keep"
	// ChoiceImported overwrites the stored value with the imported one.
	ChoiceImported ConflictChoice = "imported"
	// ChoiceSkip leaves the field pending for a later pass.
	ChoiceSkip ConflictChoice = "skip"
)

// Conflicts lists the pending merge conflicts left by earlier imports.
func (h *ImportHandler) Conflicts(ctx context.Context) ([]services.MergeConflict, error) {
	return h.dataset.Conflicts(ctx)
}

// ResolveConflict settles one conflicting field of one character. Keep closes
// the field with the stored value standing; imported copies the imported value
// onto the stored character; skip leaves the field pending. A conflict record
// is dropped once its last field is settled.
func (h *ImportHandler) ResolveConflict(ctx context.Context, characterID, field string, choice ConflictChoice) error {
	if choice != ChoiceKeep && choice != ChoiceImported && choice != ChoiceSkip {
		return fmt.Errorf("invalid choice %q (valid: keep, imported, skip)", choice)
	}
	if choice == ChoiceSkip {
		return nil
	}

	pending, err := h.dataset.Conflicts(ctx)
	if err != nil {
		return err
	}

	pos := -1
	for i := range pending {
		if pending[i].ID == characterID {
			pos = i
			break
		}
	}
	if pos == -1 {
		return fmt.Errorf("no pending conflict for character %q", characterID)
	}

	conflict := pending[pos]
	if !containsField(conflict.Fields, field) {
		return fmt.Errorf("field %q is not in conflict for character %q", field, characterID)
	}

	if choice == ChoiceImported {
		if err := h.applyImportedField(ctx, characterID, field, &conflict.Imported); err != nil {
			return err
		}
		// Adopting an imported location id can introduce a reference the
		// merge never healed; every referenced location must resolve.
		if field == "locationId" {
			if _, err := h.integrity.Heal(ctx, h.dataset); err != nil {
				return err
			}
		}
	}

	conflict.Fields = removeField(conflict.Fields, field)
	if len(conflict.Fields) == 0 {
		pending = append(pending[:pos], pending[pos+1:]...)
	} else {
		pending[pos] = conflict
	}
	return h.dataset.SaveConflicts(ctx, pending)
}

// applyImportedField copies one scalar field from the imported record onto the
// stored character.
func (h *ImportHandler) applyImportedField(ctx context.Context, characterID, field string, imported *entities.Character) error {
	characters, err := h.dataset.Characters(ctx)
	if err != nil {
		return err
	}

	for i := range characters {
		if characters[i].ID != characterID {
			continue
		}
		if err := setScalarField(&characters[i], field, imported); err != nil {
			return err
		}
		characters[i].Touch()
		return h.dataset.SaveCharacters(ctx, characters)
	}
	return fmt.Errorf("character %q not found", characterID)
}

// setScalarField writes one named scalar field, matching the field names the
// merge engine reports.
func setScalarField(character *entities.Character, field string, imported *entities.Character) error {
	switch field {
	case "name":
		character.Name = imported.Name
	case "species":
		character.Species = imported.Species
	case "locationId":
		character.LocationID = imported.LocationID
	case "imageUri":
		character.ImageURI = imported.ImageURI
	case "notes":
		character.Notes = imported.Notes
	default:
		return fmt.Errorf("unknown conflict field %q", field)
	}
	return nil
}

func containsField(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

func removeField(fields []string, field string) []string {
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != field {
			kept = append(kept, f)
		}
	}
	return kept
}
