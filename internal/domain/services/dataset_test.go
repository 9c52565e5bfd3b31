package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/mocks"
)

func TestDatasetService_RoundTrip(t *testing.T) {
	store := mocks.NewStore()
	service := NewDatasetService(store)
	ctx := context.Background()

	characters, err := service.Characters(ctx)
	require.NoError(t, err)
	assert.Empty(t, characters)

	alice := entities.NewCharacter("Alice")
	require.NoError(t, service.SaveCharacters(ctx, []entities.Character{*alice}))
	assert.Equal(t, KeyCharacters, store.LastSetKey)

	characters, err = service.Characters(ctx)
	require.NoError(t, err)
	require.Len(t, characters, 1)
	assert.Equal(t, "Alice", characters[0].Name)
	assert.Equal(t, alice.ID, characters[0].ID)
}

func TestDatasetService_Discord_InitializedWhenAbsent(t *testing.T) {
	service := NewDatasetService(mocks.NewStore())

	data, err := service.Discord(context.Background())
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, entities.DiscordDataVersion, data.Version)
	assert.NotNil(t, data.UserMappings)
	assert.Empty(t, data.Messages)
}

func TestDatasetService_Export_AssemblesAllCollections(t *testing.T) {
	service := NewDatasetService(mocks.NewStore())
	ctx := context.Background()

	require.NoError(t, service.SaveCharacters(ctx, []entities.Character{*entities.NewCharacter("Alice")}))
	require.NoError(t, service.SaveFactions(ctx, []entities.Faction{*entities.NewFaction("Reds")}))

	dataset, err := service.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, dataset.Characters, 1)
	assert.Len(t, dataset.Factions, 1)
	assert.NotNil(t, dataset.Locations)
	assert.NotNil(t, dataset.Events)
	assert.Equal(t, entities.DatasetVersion, dataset.Version)
	assert.False(t, dataset.LastUpdated.IsZero())
}

func TestDatasetService_Replace_ClearsAbsentCollections(t *testing.T) {
	service := NewDatasetService(mocks.NewStore())
	ctx := context.Background()

	require.NoError(t, service.SaveLocations(ctx, []entities.Location{*entities.NewLocation("Docks")}))

	require.NoError(t, service.Replace(ctx, &entities.Dataset{
		Characters: []entities.Character{*entities.NewCharacter("Alice")},
	}))

	locations, err := service.Locations(ctx)
	require.NoError(t, err)
	assert.Empty(t, locations)

	characters, err := service.Characters(ctx)
	require.NoError(t, err)
	assert.Len(t, characters, 1)
}

func TestDatasetService_StorageFailurePropagates(t *testing.T) {
	store := mocks.NewStore()
	store.Err = assert.AnError
	service := NewDatasetService(store)

	_, err := service.Characters(context.Background())
	require.Error(t, err)

	err = service.SaveCharacters(context.Background(), nil)
	require.Error(t, err)
}

func TestDatasetService_CorruptBlobFails(t *testing.T) {
	store := mocks.NewStore()
	store.Items[KeyCharacters] = []byte("{not json")
	service := NewDatasetService(store)

	_, err := service.Characters(context.Background())
	require.Error(t, err)
}
