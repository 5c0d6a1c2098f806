package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Grid.Width != 38 || cfg.Grid.Height != 38 {
		t.Errorf("grid = %dx%d, want 38x38", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Engine.Radius != 2 {
		t.Errorf("radius = %d, want 2", cfg.Engine.Radius)
	}
	if cfg.Observer.Interval != 30*time.Millisecond {
		t.Errorf("observer interval = %s, want 30ms", cfg.Observer.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/wfcgen.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Grid.Width != 38 {
		t.Errorf("expected default width, got %d", cfg.Grid.Width)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "wfcgen.yaml")

	content := `
grid:
  width: 12
  height: 8
  seed: 42
engine:
  radius: 3
  decay: [3, 2, 1]
  zero_floor: true
driver:
  yield_pause: 2ms
  max_steps: 5000
  timeout: 10s
catalog:
  path: tiles.yaml
store:
  driver: sqlite
  dsn: runs.db
observer:
  addr: ":8080"
  allowed_origins:
    - "https://example.com"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Grid.Width != 12 || cfg.Grid.Height != 8 || cfg.Grid.Seed != 42 {
		t.Errorf("grid = %+v, want 12x8 seed 42", cfg.Grid)
	}
	if cfg.Engine.Radius != 3 || len(cfg.Engine.Decay) != 3 || !cfg.Engine.ZeroFloor {
		t.Errorf("engine = %+v, want radius 3, decay [3 2 1], zero floor", cfg.Engine)
	}
	if cfg.Driver.YieldPause != 2*time.Millisecond {
		t.Errorf("yield pause = %s, want 2ms", cfg.Driver.YieldPause)
	}
	if cfg.Driver.Timeout != 10*time.Second {
		t.Errorf("timeout = %s, want 10s", cfg.Driver.Timeout)
	}
	if cfg.Catalog.Tolerance != 0.35 {
		t.Errorf("tolerance = %g, want default 0.35", cfg.Catalog.Tolerance)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "runs.db" {
		t.Errorf("store = %+v, want sqlite runs.db", cfg.Store)
	}
	if cfg.Observer.Interval != 30*time.Millisecond {
		t.Errorf("observer interval = %s, want default 30ms", cfg.Observer.Interval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config should validate, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "wfcgen.yaml")
	if err := os.WriteFile(configPath, []byte("grid: [oops"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg == nil || cfg.Grid.Width != 38 {
		t.Error("expected defaults alongside the parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GenConfig)
		errSub string
	}{
		{"zero width", func(c *GenConfig) { c.Grid.Width = 0 }, "grid size"},
		{"negative height", func(c *GenConfig) { c.Grid.Height = -3 }, "grid size"},
		{"negative radius", func(c *GenConfig) { c.Engine.Radius = -1 }, "radius"},
		{"negative steps", func(c *GenConfig) { c.Driver.MaxSteps = -1 }, "max_steps"},
		{"no catalog", func(c *GenConfig) { c.Catalog.Path = "" }, "catalog path"},
		{"bad driver", func(c *GenConfig) { c.Store.Driver = "mysql"; c.Store.DSN = "x" }, "unknown store driver"},
		{"driver without dsn", func(c *GenConfig) { c.Store.Driver = "sqlite" }, "dsn"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.errSub) {
				t.Errorf("error %q does not mention %q", err, tc.errSub)
			}
		})
	}
}

func TestIsOriginAllowed(t *testing.T) {
	sameOrigin := ObserverConfig{}
	wildcard := ObserverConfig{AllowedOrigins: []string{"*"}}
	listed := ObserverConfig{AllowedOrigins: []string{"https://example.com"}}

	tests := []struct {
		name   string
		cfg    ObserverConfig
		origin string
		want   bool
	}{
		{"no origin header", sameOrigin, "", true},
		{"same host", sameOrigin, "http://localhost:8080", true},
		{"same host trailing slash", sameOrigin, "http://localhost:8080/", true},
		{"different host", sameOrigin, "http://evil.com", false},
		{"wildcard", wildcard, "http://anything.com", true},
		{"listed", listed, "https://example.com", true},
		{"unlisted", listed, "https://example.com:8443", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.IsOriginAllowed(tc.origin, "localhost:8080"); got != tc.want {
				t.Errorf("IsOriginAllowed(%q) = %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}

func TestShippedConfig(t *testing.T) {
	cfg, err := LoadConfig("../../data/wfcgen.yaml")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("shipped config is invalid: %v", err)
	}

	// The shipped file spells out the defaults
	def := DefaultConfig()
	if cfg.Grid != def.Grid || cfg.Catalog != def.Catalog {
		t.Errorf("grid/catalog = %+v %+v, want %+v %+v", cfg.Grid, cfg.Catalog, def.Grid, def.Catalog)
	}
	if cfg.Driver.MaxSteps != def.Driver.MaxSteps || cfg.Driver.YieldPause != def.Driver.YieldPause {
		t.Errorf("driver = %+v, want %+v", cfg.Driver, def.Driver)
	}
	if cfg.Observer.Interval != 30*time.Millisecond || cfg.Observer.MaxClients != 32 {
		t.Errorf("observer = %+v", cfg.Observer)
	}
}
