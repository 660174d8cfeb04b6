package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"composer-pasta-bot/internal/model"
)

// LoadCatalog reads the composer and pasta catalogs from YAML files.
// A missing file is logged and treated as an empty catalog; a file that
// exists but cannot be parsed is an error.
func LoadCatalog(composerPath, pastaPath string) (*model.Catalog, error) {
	composers := make(map[string]model.Details)
	if err := loadYAMLFile(composerPath, &composers); err != nil {
		return nil, fmt.Errorf("failed to load composer catalog: %w", err)
	}

	pastas := make(map[string]string)
	if err := loadYAMLFile(pastaPath, &pastas); err != nil {
		return nil, fmt.Errorf("failed to load pasta catalog: %w", err)
	}

	log.Info().
		Int("composers", len(composers)).
		Int("pastas", len(pastas)).
		Msg("Catalogs loaded")

	return model.NewCatalog(composers, pastas), nil
}

// loadYAMLFile decodes path into out, leaving out untouched when the file is missing.
func loadYAMLFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Error().Str("path", path).Msg("Catalog file not found")
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, out)
}
