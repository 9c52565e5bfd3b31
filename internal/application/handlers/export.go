package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ersonp/campaign-core/internal/domain/services"
)

// ExportResult reports what an export wrote.
type ExportResult struct {
	FilePath   string
	Characters int
	Factions   int
	Locations  int
	Events     int
}

// ExportHandler handles exporting the stored dataset to a file.
type ExportHandler struct {
	dataset *services.DatasetService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(dataset *services.DatasetService) *ExportHandler {
	return &ExportHandler{dataset: dataset}
}

// Handle writes the current dataset to filePath as indented JSON.
func (h *ExportHandler) Handle(ctx context.Context, filePath string) (*ExportResult, error) {
	dataset, err := h.dataset.Export(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding dataset: %w", err)
	}

	if err := os.WriteFile(filePath, payload, 0o644); err != nil {
		return nil, fmt.Errorf("writing file: %w", err)
	}

	return &ExportResult{
		FilePath:   filePath,
		Characters: len(dataset.Characters),
		Factions:   len(dataset.Factions),
		Locations:  len(dataset.Locations),
		Events:     len(dataset.Events),
	}, nil
}
