package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForFormat(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFormat("json"))
	assert.IsType(t, &JSONParser{}, ForFormat("JSON"))
	assert.IsType(t, &CSVParser{}, ForFormat("csv"))
	assert.Nil(t, ForFormat("xml"))
}

func TestForFile(t *testing.T) {
	assert.IsType(t, &JSONParser{}, ForFile("export.json"))
	assert.IsType(t, &CSVParser{}, ForFile("roster.CSV"))
	assert.Nil(t, ForFile("notes.txt"))
}

func TestJSONParser_ParseDataset(t *testing.T) {
	payload := `{
		"characters": [{"id": "1", "name": "Alice", "perkIds": ["p1"]}],
		"factions": [{"name": "Reds"}],
		"version": "1.0"
	}`

	dataset, err := (&JSONParser{}).Parse(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, dataset.Characters, 1)
	assert.Equal(t, "Alice", dataset.Characters[0].Name)
	assert.Equal(t, []string{"p1"}, dataset.Characters[0].PerkIDs)
	require.Len(t, dataset.Factions, 1)
	// Absent arrays stay nil rather than clearing stored collections.
	assert.Nil(t, dataset.Locations)
	assert.Nil(t, dataset.Events)
}

func TestJSONParser_MalformedFails(t *testing.T) {
	_, err := (&JSONParser{}).Parse(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestCSVParser_ParseRoster(t *testing.T) {
	payload := "name,species,perk_ids,location\n" +
		"Alice,human,p1;p2,The Docks\n" +
		"Bob,android,,\n"

	dataset, err := (&CSVParser{}).Parse(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, dataset.Characters, 2)

	alice := dataset.Characters[0]
	assert.NotEmpty(t, alice.ID)
	assert.Equal(t, "human", alice.Species)
	assert.Equal(t, []string{"p1", "p2"}, alice.PerkIDs)
	assert.Equal(t, "The Docks", alice.LegacyLocation)

	bob := dataset.Characters[1]
	assert.Nil(t, bob.PerkIDs)
	assert.Empty(t, bob.LegacyLocation)
}

func TestCSVParser_MissingNameColumnFails(t *testing.T) {
	_, err := (&CSVParser{}).Parse(strings.NewReader("species\nhuman\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestCSVParser_BlankNameFails(t *testing.T) {
	_, err := (&CSVParser{}).Parse(strings.NewReader("name\n\"\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}
