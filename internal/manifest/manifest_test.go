package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestManifestRoundtrip(t *testing.T) {
	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, MaxSize: 128, Cached: 1}
	m.Assets["test/image"] = Asset{
		Original: OriginalInfo{
			Width: 800, Height: 600,
			Format: "jpeg", Size: 100000, Path: "test/image.jpg",
		},
		ContentHash: "ef46db3751d8e999",
		BlurHash:    "LlMF%n00%#MwS|WCWEM{R*bbWBbH",
		ComponentsX: 4,
		ComponentsY: 3,
		AspectRatio: 1.3333,
		AvgColor:    &[3]uint8{0xc1, 0x9a, 0x8a},
	}
	m.ComputeStats()

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(m, m2); diff != "" {
		t.Errorf("round trip (-wrote +read):\n%s", diff)
	}

	if m2.Stats.TotalAssets != 1 {
		t.Errorf("total_assets: got %d", m2.Stats.TotalAssets)
	}
	if m2.Stats.TotalHashBytes != 28 {
		t.Errorf("total_hash_bytes: got %d", m2.Stats.TotalHashBytes)
	}
	if m2.Stats.Grids["4x3"] != 1 {
		t.Errorf("grids: got %v", m2.Stats.Grids)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestReadJSON_RejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`{"version": 2, "assets": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(path); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("got %v, want ErrUnsupportedVersion", err)
	}
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ReadJSON(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"version":`), 0o644); err != nil {
		t.Fatal(err)
	}
	var syntaxErr *json.SyntaxError
	if _, err := ReadJSON(bad); !errors.As(err, &syntaxErr) {
		t.Errorf("truncated json: got %v", err)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2025-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "max_size": 128, "new_flag": true },
		"stats": { "total_input_bytes": 0, "total_assets": 0, "new_stat": 42 }
	}`
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
	if m.Assets == nil {
		t.Error("missing assets should read as an empty map")
	}
}
