package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/campaign-core/internal/domain/entities"
	"github.com/ersonp/campaign-core/internal/domain/mocks"
)

func newResolverFixture(t *testing.T, characters ...entities.Character) (*ResolverService, *DatasetService) {
	t.Helper()
	dataset := NewDatasetService(mocks.NewStore())
	if len(characters) > 0 {
		require.NoError(t, dataset.SaveCharacters(context.Background(), characters))
	}
	return NewResolverService(dataset, ResolverOptions{}), dataset
}

func TestExtractCharacterName(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"bracketed", ">[Bob] hello", "Bob"},
		{"legacy double marker", ">>[Bob] hello", "Bob"},
		{"bare token", ">Bob hello there", "Bob"},
		{"bare token at newline", ">Bob\nhello", "Bob"},
		{"markdown stripped", ">[*Bob*] hello", "Bob"},
		{"underscores stripped", ">__Bob__ hello", "Bob"},
		{"spaces inside brackets", ">[Bob the Brave] says hi", "Bob the Brave"},
		{"no marker", "no marker here", ""},
		{"marker mid-message ignored", "well >[Bob] hello", ""},
		{"empty", "", ""},
		{"lone marker", ">", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractCharacterName(tc.text))
		})
	}
}

func TestFuzzyMatch_ConfidenceTiers(t *testing.T) {
	roster := []entities.Character{
		{ID: "c1", Name: "Bobby"},
		{ID: "c2", Name: "Robert"},
		{ID: "c3", Name: "Big Bobby"},
	}

	// Scenario D: starts-with ranks at 0.8, Robert does not match.
	matches := FuzzyMatch("Bob", roster)
	require.Len(t, matches, 2)
	assert.Equal(t, "c1", matches[0].CharacterID)
	assert.Equal(t, 0.8, matches[0].Confidence)
	assert.Equal(t, "c3", matches[1].CharacterID)
	assert.Equal(t, 0.6, matches[1].Confidence)

	matches = FuzzyMatch("bobby", roster)
	require.Len(t, matches, 2)
	assert.Equal(t, 1.0, matches[0].Confidence)
	assert.Equal(t, "c1", matches[0].CharacterID)
}

func TestFuzzyMatch_TiesKeepRosterOrder(t *testing.T) {
	roster := []entities.Character{
		{ID: "c1", Name: "Bob One"},
		{ID: "c2", Name: "Bob Two"},
	}

	matches := FuzzyMatch("Bob", roster)
	require.Len(t, matches, 2)
	assert.Equal(t, "c1", matches[0].CharacterID)
	assert.Equal(t, "c2", matches[1].CharacterID)
}

func TestResolver_Resolve_ExactMatchAutoAcceptsAndLearns(t *testing.T) {
	resolver, dataset := newResolverFixture(t, entities.Character{ID: "c1", Name: "Bobby"})
	ctx := context.Background()

	res, err := resolver.Resolve(ctx, "bobby", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "c1", res.CharacterID)
	assert.Equal(t, 1.0, res.Confidence)
	assert.False(t, res.NeedsManualSelection)

	aliases, err := resolver.Aliases(ctx)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	assert.Equal(t, "bobby", aliases[0].Alias)
	assert.Equal(t, "user-1", aliases[0].DiscordUserID)
	assert.Equal(t, 1.0, aliases[0].Confidence)

	_ = dataset
}

func TestResolver_Resolve_AliasHitShortCircuits(t *testing.T) {
	store := mocks.NewStore()
	dataset := NewDatasetService(store)
	resolver := NewResolverService(dataset, ResolverOptions{})
	ctx := context.Background()

	require.NoError(t, dataset.SaveCharacters(ctx, []entities.Character{{ID: "c1", Name: "Bobby"}}))

	data, err := dataset.Discord(ctx)
	require.NoError(t, err)
	data.CharacterAliases = []entities.CharacterAlias{
		*entities.NewAlias("shadow", "user-1", "c1", 0.9),
	}
	require.NoError(t, dataset.SaveDiscord(ctx, data))

	writesBefore := store.SetCallCount
	res, err := resolver.Resolve(ctx, "Shadow", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "c1", res.CharacterID)
	assert.True(t, res.ViaAlias)

	// A hit is a pure read; nothing is written back.
	assert.Equal(t, writesBefore, store.SetCallCount)

	aliases, err := resolver.Aliases(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, aliases[0].UsageCount)
}

func TestResolver_Resolve_AliasScopedToAuthor(t *testing.T) {
	resolver, dataset := newResolverFixture(t, entities.Character{ID: "c1", Name: "Bobby"})
	ctx := context.Background()

	data, err := dataset.Discord(ctx)
	require.NoError(t, err)
	data.CharacterAliases = []entities.CharacterAlias{
		*entities.NewAlias("shadow", "user-1", "c1", 1.0),
	}
	require.NoError(t, dataset.SaveDiscord(ctx, data))

	// Another author's identical shorthand is not trusted.
	res, err := resolver.Resolve(ctx, "Shadow", "user-2")
	require.NoError(t, err)
	assert.True(t, res.NeedsManualSelection)
	assert.Empty(t, res.CharacterID)
}

func TestResolver_Resolve_LowConfidenceAliasIgnored(t *testing.T) {
	resolver, dataset := newResolverFixture(t, entities.Character{ID: "c1", Name: "Bobby"})
	ctx := context.Background()

	data, err := dataset.Discord(ctx)
	require.NoError(t, err)
	data.CharacterAliases = []entities.CharacterAlias{
		*entities.NewAlias("bobby", "user-1", "c9", 0.4),
	}
	require.NoError(t, dataset.SaveDiscord(ctx, data))

	// The weak alias is skipped; fuzzy matching resolves to the roster.
	res, err := resolver.Resolve(ctx, "Bobby", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "c1", res.CharacterID)
	assert.False(t, res.ViaAlias)
}

func TestResolver_Resolve_BelowThresholdNeedsManualSelection(t *testing.T) {
	resolver, _ := newResolverFixture(t,
		entities.Character{ID: "c1", Name: "Bobby"},
		entities.Character{ID: "c2", Name: "Big Bobby"},
	)
	ctx := context.Background()

	res, err := resolver.Resolve(ctx, "Bob", "user-1")
	require.NoError(t, err)
	assert.True(t, res.NeedsManualSelection)
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, 0.8, res.Candidates[0].Confidence)

	// No alias is written until a human confirms.
	aliases, err := resolver.Aliases(ctx)
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestResolver_Resolve_NoMatch(t *testing.T) {
	resolver, _ := newResolverFixture(t, entities.Character{ID: "c1", Name: "Bobby"})

	res, err := resolver.Resolve(context.Background(), "Zed", "user-1")
	require.NoError(t, err)
	assert.True(t, res.NeedsManualSelection)
	assert.Empty(t, res.Candidates)
}

func TestResolver_Resolve_ThresholdsConfigurable(t *testing.T) {
	dataset := NewDatasetService(mocks.NewStore())
	ctx := context.Background()
	require.NoError(t, dataset.SaveCharacters(ctx, []entities.Character{{ID: "c1", Name: "Bobby"}}))

	resolver := NewResolverService(dataset, ResolverOptions{AutoAcceptThreshold: 0.7})

	// A prefix match at 0.8 clears the lowered threshold.
	res, err := resolver.Resolve(ctx, "Bob", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "c1", res.CharacterID)
	assert.Equal(t, 0.8, res.Confidence)
}

func TestResolver_ConfirmMapping_ConfidenceNeverDecreases(t *testing.T) {
	resolver, _ := newResolverFixture(t, entities.Character{ID: "c1", Name: "Bobby"})
	ctx := context.Background()

	alias, err := resolver.ConfirmMapping(ctx, "Shadow", "c1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, alias.Confidence)
	assert.Equal(t, 1, alias.UsageCount)

	// Repeated confirmations only reinforce.
	alias, err = resolver.ConfirmMapping(ctx, "shadow ", "c1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, alias.Confidence)
	assert.Equal(t, 2, alias.UsageCount)

	aliases, err := resolver.Aliases(ctx)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
}

func TestResolver_ApplyAliasToMessages(t *testing.T) {
	resolver, dataset := newResolverFixture(t)
	ctx := context.Background()

	data, err := dataset.Discord(ctx)
	require.NoError(t, err)
	data.Messages = []entities.DiscordMessage{
		{ID: "m1", AuthorID: "user-1", ExtractedCharacterName: "Shadow"},
		{ID: "m2", AuthorID: "user-1", ExtractedCharacterName: " shadow "},
		{ID: "m3", AuthorID: "user-2", ExtractedCharacterName: "Shadow"},
		{ID: "m4", AuthorID: "user-1", ExtractedCharacterName: "Ghost"},
	}
	require.NoError(t, dataset.SaveDiscord(ctx, data))

	tagged, err := resolver.ApplyAliasToMessages(ctx, "shadow", "c1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, tagged)

	stored, err := dataset.Discord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c1", stored.Messages[0].CharacterID)
	assert.Equal(t, "c1", stored.Messages[1].CharacterID)
	assert.Empty(t, stored.Messages[2].CharacterID)
	assert.Empty(t, stored.Messages[3].CharacterID)
}
