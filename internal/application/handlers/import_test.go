package handlers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/mocks"
	"github.com/ersonp/campaign-core/internal/domain/services"
)

func newImportFixture() (*ImportHandler, *services.DatasetService, *mocks.Store) {
	store := mocks.NewStore()
	dataset := services.NewDatasetService(store)
	integrity := services.NewLocationIntegrityService()
	merge := services.NewMergeService(dataset, integrity)
	return NewImportHandler(dataset, merge, integrity), dataset, store
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportHandler_MergeJSON(t *testing.T) {
	handler, dataset, _ := newImportFixture()
	ctx := context.Background()

	existing := entities.NewCharacter("Vex")
	require.NoError(t, dataset.SaveCharacters(ctx, []entities.Character{*existing}))

	path := writeTempFile(t, "import.json", `{
		"characters": [{"id": "c-new", "name": "Rook"}],
		"factions": [{"name": "Reds"}]
	}`)

	result, err := handler.Handle(ctx, path, ImportOptions{})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 1, result.AddedCharacters)
	assert.Equal(t, 1, result.AddedFactions)

	characters, err := dataset.Characters(ctx)
	require.NoError(t, err)
	assert.Len(t, characters, 2)
}

func TestImportHandler_MalformedPayloadLeavesStateUntouched(t *testing.T) {
	handler, dataset, _ := newImportFixture()
	ctx := context.Background()

	existing := entities.NewCharacter("Vex")
	require.NoError(t, dataset.SaveCharacters(ctx, []entities.Character{*existing}))

	path := writeTempFile(t, "broken.json", `{"characters": [{"name": `)

	result, err := handler.Handle(ctx, path, ImportOptions{})
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Failure)

	characters, err := dataset.Characters(ctx)
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "Vex", characters[0].Name)
}

func TestImportHandler_DryRunDoesNotSave(t *testing.T) {
	handler, dataset, _ := newImportFixture()
	ctx := context.Background()

	path := writeTempFile(t, "import.json", `{"characters": [{"id": "c1", "name": "Rook"}]}`)

	result, err := handler.Handle(ctx, path, ImportOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 1, result.AddedCharacters)

	characters, err := dataset.Characters(ctx)
	require.NoError(t, err)
	assert.Empty(t, characters)
}

func TestImportHandler_ReplaceOverwrites(t *testing.T) {
	handler, dataset, _ := newImportFixture()
	ctx := context.Background()

	existing := entities.NewCharacter("Vex")
	require.NoError(t, dataset.SaveCharacters(ctx, []entities.Character{*existing}))

	path := writeTempFile(t, "import.json", `{"characters": [{"id": "c1", "name": "Rook"}]}`)

	result, err := handler.Handle(ctx, path, ImportOptions{Mode: ImportReplace})
	require.NoError(t, err)
	assert.True(t, result.OK)

	characters, err := dataset.Characters(ctx)
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "Rook", characters[0].Name)
}

func TestImportHandler_ReplaceHealsLegacyLocations(t *testing.T) {
	handler, dataset, _ := newImportFixture()
	ctx := context.Background()

	path := writeTempFile(t, "import.json", `{
		"characters": [{"id": "c1", "name": "Rook", "location": "The Docks"}]
	}`)

	result, err := handler.Handle(ctx, path, ImportOptions{Mode: ImportReplace})
	require.NoError(t, err)
	assert.True(t, result.OK)

	characters, err := dataset.Characters(ctx)
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.NotEmpty(t, characters[0].LocationID)
	assert.Empty(t, characters[0].LegacyLocation)

	locations, err := dataset.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "The Docks", locations[0].Name)
}

func TestImportHandler_CSVRoster(t *testing.T) {
	handler, dataset, _ := newImportFixture()
	ctx := context.Background()

	path := writeTempFile(t, "roster.csv", "name,species\nRook,Human\nVex,Android\n")

	result, err := handler.Handle(ctx, path, ImportOptions{})
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, 2, result.AddedCharacters)

	characters, err := dataset.Characters(ctx)
	require.NoError(t, err)
	assert.Len(t, characters, 2)
}

func TestImportHandler_ConflictsReported(t *testing.T) {
	handler, dataset, _ := newImportFixture()
	ctx := context.Background()

	existing := entities.NewCharacter("Rook")
	existing.ID = "c1"
	existing.Species = "Human"
	require.NoError(t, dataset.SaveCharacters(ctx, []entities.Character{*existing}))

	path := writeTempFile(t, "import.json", `{
		"characters": [{"id": "c1", "name": "Rook", "species": "Android"}]
	}`)

	result, err := handler.Handle(ctx, path, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "c1", result.Conflicts[0].ID)

	// Existing value wins; conflicts are advisory.
	characters, err := dataset.Characters(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Human", characters[0].Species)
}

func TestImportHandler_UnsupportedFormat(t *testing.T) {
	handler, _, _ := newImportFixture()

	path := writeTempFile(t, "import.xml", "<dataset/>")

	_, err := handler.Handle(context.Background(), path, ImportOptions{})
	assert.Error(t, err)
}

func TestImportHandler_MissingFile(t *testing.T) {
	handler, _, _ := newImportFixture()

	_, err := handler.Handle(context.Background(), filepath.Join(t.TempDir(), "nope.json"), ImportOptions{})
	assert.Error(t, err)
}
