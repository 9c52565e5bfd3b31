package handlers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/mocks"
	"github.com/ersonp/campaign-core/internal/domain/services"
)

func TestExportHandler_WritesDataset(t *testing.T) {
	store := mocks.NewStore()
	dataset := services.NewDatasetService(store)
	handler := NewExportHandler(dataset)
	ctx := context.Background()

	rook := entities.NewCharacter("Rook")
	require.NoError(t, dataset.SaveCharacters(ctx, []entities.Character{*rook}))
	reds := entities.NewFaction("Reds")
	require.NoError(t, dataset.SaveFactions(ctx, []entities.Faction{*reds}))

	path := filepath.Join(t.TempDir(), "export.json")
	result, err := handler.Handle(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Characters)
	assert.Equal(t, 1, result.Factions)

	payload, err := os.ReadFile(path)
	require.NoError(t, err)

	var exported entities.Dataset
	require.NoError(t, json.Unmarshal(payload, &exported))
	require.Len(t, exported.Characters, 1)
	assert.Equal(t, "Rook", exported.Characters[0].Name)
	assert.Equal(t, entities.DatasetVersion, exported.Version)
	assert.False(t, exported.LastUpdated.IsZero())
}

func TestExportHandler_EmptyCampaign(t *testing.T) {
	store := mocks.NewStore()
	dataset := services.NewDatasetService(store)
	handler := NewExportHandler(dataset)

	path := filepath.Join(t.TempDir(), "export.json")
	result, err := handler.Handle(context.Background(), path)
	require.NoError(t, err)
	assert.Zero(t, result.Characters)

	var exported entities.Dataset
	payload, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &exported))
	assert.NotNil(t, exported.Characters)
}
