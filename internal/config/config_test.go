package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/gostl3mf/pkg/errors"
	"github.com/philipparndt/gostl3mf/pkg/layout"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Layout.SpacingFactor != 1.1 {
		t.Errorf("expected spacing factor 1.1, got %v", cfg.Layout.SpacingFactor)
	}
	if !cfg.Layout.Center {
		t.Error("expected center to be true by default")
	}
	if !cfg.Output.Metadata || !cfg.Output.Thumbnail {
		t.Error("expected metadata and thumbnail to be enabled by default")
	}
	if cfg.Output.ThumbnailSize != 256 {
		t.Errorf("expected thumbnail size 256, got %d", cfg.Output.ThumbnailSize)
	}
	if cfg.Output.ShareMeshes || cfg.Output.UUIDs {
		t.Error("expected share_meshes and uuids to be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	spec, err := cfg.LayoutSpec()
	if err != nil {
		t.Fatal(err)
	}
	if spec != layout.DefaultSpec() {
		t.Errorf("expected default layout spec, got %+v", spec)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[layout]
mode = "linear"
spacing_factor = 1.5

[output]
thumbnail = false
uuids = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Mode != "linear" || cfg.Layout.SpacingFactor != 1.5 {
		t.Errorf("layout not loaded: %+v", cfg.Layout)
	}
	if !cfg.Layout.Center {
		t.Error("center should keep its default")
	}
	if cfg.Output.Thumbnail || !cfg.Output.UUIDs {
		t.Errorf("output not loaded: %+v", cfg.Output)
	}
	if cfg.Output.ThumbnailSize != 256 {
		t.Errorf("thumbnail size should keep its default, got %d", cfg.Output.ThumbnailSize)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[layout\nmode = 1"},
		{"mode", "[layout]\nmode = \"spiral\""},
		{"spacing", "[layout]\nspacing_factor = 0.5"},
		{"thumbnail size", "[output]\nthumbnail_size = 0"},
		{"log level", "[log]\nlevel = \"chatty\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Layout.Columns = 3
	cfg.Output.ShareMeshes = true
	cfg.Log.Level = "debug"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != filepath.Join("/tmp/xdg", "gostl3mf", FileName) {
		t.Errorf("unexpected path %s", got)
	}
}

func TestValidateReportsValidationCode(t *testing.T) {
	cfg := Default()
	cfg.Layout.Mode = "spiral"
	if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("expected VALIDATION, got %v", err)
	}
}

func TestLayoutSpecRejectsNonFiniteSpacing(t *testing.T) {
	for _, sf := range []float64{math.Inf(1), math.NaN()} {
		cfg := Default()
		cfg.Layout.SpacingFactor = sf
		if _, err := cfg.LayoutSpec(); !errors.Is(err, errors.ErrCodeLayout) {
			t.Errorf("spacing %v: expected LAYOUT, got %v", sf, err)
		}
		if err := cfg.Validate(); !errors.Is(err, errors.ErrCodeValidation) {
			t.Errorf("spacing %v: expected VALIDATION, got %v", sf, err)
		}
	}
}
