package save

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manager persists the save record as one YAML file in the data
// directory.
type Manager struct {
	Path string
}

// NewManager returns a Manager writing to save.yaml under dataDir.
func NewManager(dataDir string) *Manager {
	return &Manager{Path: filepath.Join(dataDir, "save.yaml")}
}

// Load returns the previously saved record, or nil when no save exists.
func (m *Manager) Load() (*Data, error) {
	raw, err := os.ReadFile(m.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read save file: %w", err)
	}
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse save file: %w", err)
	}
	return &d, nil
}

// Save writes the record to disk.
func (m *Manager) Save(d *Data) error {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode save data: %w", err)
	}
	if err := os.WriteFile(m.Path, raw, 0o644); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	return nil
}

// Cleanup removes the save file if it exists. The save is consumed on
// load; keeping it around would replay a stale diff on the next start.
func (m *Manager) Cleanup() {
	if err := os.Remove(m.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Best effort; a leftover file is re-read and overwritten later.
		_ = err
	}
}
