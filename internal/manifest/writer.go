package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrUnsupportedVersion is returned by ReadJSON for a manifest written by
// a newer schema.
var ErrUnsupportedVersion = errors.New("unsupported manifest version")

// New creates an empty manifest with defaults.
func New(profileName string) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		BasePath:    "./",
		Assets:      make(map[string]Asset),
	}
}

// ComputeStats recalculates aggregate statistics from assets.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalAssets = len(m.Assets)
	for _, a := range m.Assets {
		s.TotalInputBytes += a.Original.Size
		s.TotalHashBytes += len(a.BlurHash)
		if s.Grids == nil {
			s.Grids = make(map[string]int)
		}
		s.Grids[GridKey(a.ComponentsX, a.ComponentsY)]++
	}
	m.Stats = s
}

// GridKey formats a component grid as "XxY".
func GridKey(x, y int) string {
	return fmt.Sprintf("%dx%d", x, y)
}

// WriteJSON serializes the manifest to a JSON file with stable ordering.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest written by WriteJSON.  Unknown fields are
// ignored so older binaries can read newer minor revisions.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version > SupportedManifestVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	if m.Assets == nil {
		m.Assets = make(map[string]Asset)
	}
	return &m, nil
}
