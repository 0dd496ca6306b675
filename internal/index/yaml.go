package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"banner-cache/internal/logging"

	"gopkg.in/yaml.v3"
)

// YAMLStore keeps all records in one YAML file, keyed by source path.
type YAMLStore struct {
	path string
}

// NewYAMLStore creates a store backed by path. Nothing is read until Read.
func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

// Location returns the index file path.
func (s *YAMLStore) Location() string {
	return s.path
}

// Read loads the whole file.
func (s *YAMLStore) Read() (map[string]Record, error) {
	records := make(map[string]Record)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Debug("Banner index %s does not exist yet", s.path)
		return records, nil
	}
	if err != nil {
		return records, fmt.Errorf("failed to read index %s: %w", s.path, err)
	}

	if err := yaml.Unmarshal(data, &records); err != nil {
		return make(map[string]Record), fmt.Errorf("failed to parse index %s: %w", s.path, err)
	}
	if records == nil {
		records = make(map[string]Record)
	}
	return records, nil
}

// Write rewrites the whole file. The new contents are written to a temporary
// file first so a crash never leaves a truncated index behind.
func (s *YAMLStore) Write(records map[string]Record) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".banners-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp index: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp index: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace index %s: %w", s.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Read and Write.
func (s *YAMLStore) Close() error {
	return nil
}
