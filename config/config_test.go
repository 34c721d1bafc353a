package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Screen.Width != 800 || cfg.Screen.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Screen.Width, cfg.Screen.Height)
	}
	if cfg.Render.ShapeExponent != 3 {
		t.Errorf("expected shape exponent 3, got %v", cfg.Render.ShapeExponent)
	}
	if cfg.Scheduler.Stepping != SteppingFixed {
		t.Errorf("expected fixed stepping by default, got %q", cfg.Scheduler.Stepping)
	}
	if got := cfg.Input.Keys["z"]; got != "zoom_in" {
		t.Errorf("expected z to zoom in, got %q", got)
	}
	if len(cfg.Scenario.Particles) == 0 {
		t.Error("expected default scenario particles")
	}
	if cfg.Derived.ViewportW != 800 || cfg.Derived.Fill.A != 255 {
		t.Errorf("derived values not computed: %+v", cfg.Derived)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeFile(t, `
render:
  shape_exponent: 2
scheduler:
  dt: 0.01
input:
  keys:
    q: zoom_in
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Render.ShapeExponent != 2 {
		t.Errorf("expected override shape exponent 2, got %v", cfg.Render.ShapeExponent)
	}
	if cfg.Scheduler.DT != 0.01 {
		t.Errorf("expected dt 0.01, got %v", cfg.Scheduler.DT)
	}
	// Untouched sections keep defaults.
	if cfg.Screen.Width != 800 {
		t.Errorf("expected default width, got %d", cfg.Screen.Width)
	}
	if cfg.Input.Keys["q"] != "zoom_in" || cfg.Input.Keys["a"] != "pan_left" {
		t.Errorf("expected merged key map, got %v", cfg.Input.Keys)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero shape exponent", "render:\n  shape_exponent: 0\n"},
		{"unknown stepping", "scheduler:\n  stepping: turbo\n"},
		{"zero window", "telemetry:\n  window: 0\n"},
		{"negative dt", "scheduler:\n  dt: -1\n"},
		{"multi-char key", "input:\n  keys:\n    up: pan_up\n"},
		{"inverted clamp", "camera:\n  min_ratio_exp: 5\n  max_ratio_exp: 4\n"},
		{"clamp below float range", "camera:\n  min_ratio_exp: -2000\n"},
		{"clamp above float range", "camera:\n  max_ratio_exp: 2000\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.yaml))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Camera.PanStep = 42

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.Camera.PanStep != 42 {
		t.Errorf("expected pan step 42 after round trip, got %v", back.Camera.PanStep)
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatal(err)
	}
	if Cfg().Screen.Width != 800 {
		t.Errorf("expected global config to be defaults")
	}
}
