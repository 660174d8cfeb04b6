// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"composer-pasta-bot/internal/model"
)

// YAMLRecordRepository stores player records in a single YAML file keyed by player id.
type YAMLRecordRepository struct {
	path string
	mu   sync.Mutex
}

// NewYAMLRecordRepository creates a repository backed by the file at path.
func NewYAMLRecordRepository(path string) *YAMLRecordRepository {
	return &YAMLRecordRepository{path: path}
}

// Path returns the backing file path.
func (r *YAMLRecordRepository) Path() string {
	return r.path
}

// LoadAll reads every record. A missing or empty file yields an empty map.
func (r *YAMLRecordRepository) LoadAll(ctx context.Context) (map[int64]model.PlayerRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[int64]model.PlayerRecord), nil
		}
		return nil, fmt.Errorf("failed to read player records: %w", err)
	}

	records := make(map[int64]model.PlayerRecord)
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse player records: %w", err)
	}
	if records == nil {
		records = make(map[int64]model.PlayerRecord)
	}
	return records, nil
}

// SaveAll replaces the file contents with records.
// The file is written to a temporary sibling first and renamed into place.
func (r *YAMLRecordRepository) SaveAll(ctx context.Context, records map[int64]model.PlayerRecord) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode player records: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write player records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close player records file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace player records file: %w", err)
	}
	return nil
}
