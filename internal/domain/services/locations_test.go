package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/mocks"
)

func TestLocationIntegrity_MigrateLegacy_MatchesExistingByName(t *testing.T) {
	service := NewLocationIntegrityService()
	docks := entities.NewLocation("The Docks")

	characters := []entities.Character{
		{ID: "1", Name: "Alice", LegacyLocation: "the docks"},
	}

	migrated, created := service.MigrateLegacy(characters, []entities.Location{*docks})

	assert.Empty(t, created)
	assert.Equal(t, docks.ID, migrated[0].LocationID)
	assert.Empty(t, migrated[0].LegacyLocation)
	// Input slice is not mutated.
	assert.Equal(t, "the docks", characters[0].LegacyLocation)
}

func TestLocationIntegrity_MigrateLegacy_SynthesizesOnce(t *testing.T) {
	service := NewLocationIntegrityService()

	characters := []entities.Character{
		{ID: "1", LegacyLocation: "Uptown"},
		{ID: "2", LegacyLocation: "uptown "},
		{ID: "3", LegacyLocation: "下町"},
	}

	migrated, created := service.MigrateLegacy(characters, nil)

	require.Len(t, created, 2)
	assert.Equal(t, "Uptown", created[0].Name)
	assert.Contains(t, created[0].Description, "legacy")
	// Characters sharing a legacy name converge on one new location.
	assert.Equal(t, migrated[0].LocationID, migrated[1].LocationID)
	assert.NotEqual(t, migrated[0].LocationID, migrated[2].LocationID)
}

func TestLocationIntegrity_MigrateLegacy_ExistingIDWinsOverLegacy(t *testing.T) {
	service := NewLocationIntegrityService()

	characters := []entities.Character{
		{ID: "1", LocationID: "loc-1", LegacyLocation: "Uptown"},
	}

	migrated, created := service.MigrateLegacy(characters, nil)

	assert.Empty(t, created)
	assert.Equal(t, "loc-1", migrated[0].LocationID)
	assert.Empty(t, migrated[0].LegacyLocation)
}

func TestLocationIntegrity_MigrateLegacy_Idempotent(t *testing.T) {
	service := NewLocationIntegrityService()

	characters := []entities.Character{{ID: "1", LegacyLocation: "Uptown"}}
	migrated, created := service.MigrateLegacy(characters, nil)
	require.Len(t, created, 1)

	again, createdAgain := service.MigrateLegacy(migrated, created)
	assert.Empty(t, createdAgain)
	assert.Equal(t, migrated, again)
}

func TestLocationIntegrity_HealOrphans_SynthesizesPlaceholder(t *testing.T) {
	service := NewLocationIntegrityService()

	characters := []entities.Character{
		{ID: "1", LocationID: "abcdef1234567890"},
		{ID: "2", LocationID: "abcdef1234567890"}, // same orphan, one placeholder
		{ID: "3"}, // no reference, nothing to heal
	}

	created := service.HealOrphans(characters, nil)

	require.Len(t, created, 1)
	assert.Equal(t, "abcdef1234567890", created[0].ID)
	assert.Equal(t, "Unknown Location (abcdef12)", created[0].Name)
	assert.Contains(t, created[0].Description, "Auto-created")
}

func TestLocationIntegrity_HealOrphans_NoOpWhenClosed(t *testing.T) {
	service := NewLocationIntegrityService()
	docks := entities.NewLocation("Docks")

	characters := []entities.Character{{ID: "1", LocationID: docks.ID}}

	created := service.HealOrphans(characters, []entities.Location{*docks})
	assert.Empty(t, created)
}

func TestLocationIntegrity_Heal_PersistsPlaceholders(t *testing.T) {
	store := mocks.NewStore()
	dataset := NewDatasetService(store)
	service := NewLocationIntegrityService()
	ctx := context.Background()

	require.NoError(t, dataset.SaveCharacters(ctx, []entities.Character{
		{ID: "1", LocationID: "orphan-id"},
	}))

	created, err := service.Heal(ctx, dataset)
	require.NoError(t, err)
	require.Len(t, created, 1)

	locations, err := dataset.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "orphan-id", locations[0].ID)

	// Second pass finds nothing to heal.
	created, err = service.Heal(ctx, dataset)
	require.NoError(t, err)
	assert.Empty(t, created)
}
