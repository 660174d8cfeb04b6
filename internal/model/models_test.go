package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("composer")
	assert.True(t, ok)
	assert.Equal(t, CategoryComposer, c)

	c, ok = ParseCategory("PASTA")
	assert.True(t, ok)
	assert.Equal(t, CategoryPasta, c)

	_, ok = ParseCategory("pizza")
	assert.False(t, ok)
}

func TestDetailsUnmarshal(t *testing.T) {
	var catalog map[string]Details
	require.NoError(t, yaml.Unmarshal([]byte(`
Bach: German
Verdi: [Italian, 1813-1901]
Satie:
`), &catalog))

	assert.Equal(t, Details{"German"}, catalog["Bach"])
	assert.Equal(t, Details{"Italian", "1813-1901"}, catalog["Verdi"])
	assert.Empty(t, catalog["Satie"])

	var bad map[string]Details
	assert.Error(t, yaml.Unmarshal([]byte("Bach: {born: 1685}\n"), &bad))
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(
		map[string]Details{"Verdi": {"Italian"}, "Bach": nil, "Penne": nil},
		map[string]string{"Penne": "Tube.", "Farfalle": "Bow tie."},
	)

	assert.Equal(t, []string{"Bach", "Penne", "Verdi"}, c.ComposerNames())
	assert.Equal(t, []string{"Farfalle", "Penne"}, c.PastaNames())
	assert.Equal(t, []string{"Penne"}, c.Clashes())
	assert.Equal(t, "Italian", c.Detail(CategoryComposer, "Verdi"))
	assert.Equal(t, "", c.Detail(CategoryComposer, "Unknown"))
	assert.Equal(t, "Tube.", c.Detail(CategoryPasta, "Penne"))

	empty := NewCatalog(nil, nil)
	assert.Empty(t, empty.ComposerNames())
	assert.Empty(t, empty.Clashes())
}

func TestPlayerRecordFields(t *testing.T) {
	r := PlayerRecord{Name: "Alice", HighScore: 4, GamesPlayed: 2}
	assert.Equal(t, [][2]string{
		{"High score", "4"},
		{"Name", "Alice"},
		{"Number of games played", "2"},
	}, r.Fields())
}
