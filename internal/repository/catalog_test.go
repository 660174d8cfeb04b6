package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"composer-pasta-bot/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	composers := writeFile(t, dir, "composer_data.yaml", `Bach: German composer of the Baroque period.
Verdi:
  - Italian
  - 1813-1901
`)
	pastas := writeFile(t, dir, "pasta_data.yaml", `Farfalle: Bow-tie shaped pasta.
Gemelli: Twisted pasta.
`)

	catalog, err := LoadCatalog(composers, pastas)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bach", "Verdi"}, catalog.ComposerNames())
	assert.Equal(t, []string{"Farfalle", "Gemelli"}, catalog.PastaNames())
	assert.Equal(t, "Italian, 1813-1901", catalog.Detail(model.CategoryComposer, "Verdi"))
	assert.Equal(t, "Bow-tie shaped pasta.", catalog.Detail(model.CategoryPasta, "Farfalle"))
	assert.Empty(t, catalog.Clashes())
}

func TestLoadCatalog_MissingFilesAreEmpty(t *testing.T) {
	dir := t.TempDir()

	catalog, err := LoadCatalog(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "nada.yaml"))
	require.NoError(t, err)
	assert.Empty(t, catalog.ComposerNames())
	assert.Empty(t, catalog.PastaNames())
}

func TestLoadCatalog_Clashes(t *testing.T) {
	dir := t.TempDir()
	composers := writeFile(t, dir, "c.yaml", "Rigatoni: A made-up composer.\nBach: Composer.\n")
	pastas := writeFile(t, dir, "p.yaml", "Rigatoni: Tube pasta.\n")

	catalog, err := LoadCatalog(composers, pastas)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rigatoni"}, catalog.Clashes())
}

func TestLoadCatalog_ParseError(t *testing.T) {
	dir := t.TempDir()
	composers := writeFile(t, dir, "c.yaml", "Bach: [unclosed\n")
	pastas := writeFile(t, dir, "p.yaml", "Penne: Tube.\n")

	_, err := LoadCatalog(composers, pastas)
	assert.Error(t, err)
}
