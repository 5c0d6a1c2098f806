// Package config loads generation settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GenConfig holds all settings for a generation run.
type GenConfig struct {
	Grid     GridConfig     `yaml:"grid"`
	Engine   EngineConfig   `yaml:"engine"`
	Driver   DriverConfig   `yaml:"driver"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Output   OutputConfig   `yaml:"output"`
	Store    StoreConfig    `yaml:"store"`
	Observer ObserverConfig `yaml:"observer"`
}

// GridConfig holds grid dimensions and the seed.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Seed for the engine's random source. 0 picks one from the clock.
	Seed int64 `yaml:"seed"`
}

// EngineConfig holds entropy propagation settings.
type EngineConfig struct {
	// Radius is how many rings around a placement lose entropy (0 = none).
	Radius int `yaml:"radius"`

	// Decay is the penalty per ring, nearest first.
	Decay []int `yaml:"decay"`

	// ZeroFloor clamps entropy at zero.
	ZeroFloor bool `yaml:"zero_floor"`
}

// DriverConfig holds pacing and budget settings for the step loop.
type DriverConfig struct {
	// YieldEvery pauses after this many steps. 0 derives it from the catalog size.
	YieldEvery int `yaml:"yield_every"`

	// YieldPause is how long each pause lasts.
	YieldPause time.Duration `yaml:"yield_pause"`

	// MaxSteps gives up after this many steps. 0 means unlimited.
	MaxSteps int `yaml:"max_steps"`

	// Timeout gives up after this long. 0 means unlimited.
	Timeout time.Duration `yaml:"timeout"`
}

// CatalogConfig describes where tiles come from.
type CatalogConfig struct {
	// Path is a directory of PNG tiles or a YAML edge-code catalog.
	Path string `yaml:"path"`

	// Tolerance is the hue-difference threshold for matching edge colors.
	Tolerance float64 `yaml:"tolerance"`
}

// OutputConfig holds result rendering settings.
type OutputConfig struct {
	ASCII bool   `yaml:"ascii"`
	Color bool   `yaml:"color"`
	PNG   string `yaml:"png"`
	Live  bool   `yaml:"live"`
}

// StoreConfig holds run persistence settings.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres". Empty disables persistence.
	Driver string `yaml:"driver"`

	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string `yaml:"dsn"`
}

// ObserverConfig holds websocket snapshot streaming settings.
type ObserverConfig struct {
	// Addr to listen on. Empty disables the observer.
	Addr string `yaml:"addr"`

	// Interval between snapshot polls.
	Interval time.Duration `yaml:"interval"`

	// AllowedOrigins for websocket upgrades. Empty enforces same-origin.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Linger keeps serving the final snapshot after generation ends.
	Linger time.Duration `yaml:"linger"`

	// MaxPerIP limits concurrent viewers from one address (0 = unlimited).
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxClients limits concurrent viewers overall (0 = unlimited).
	MaxClients int `yaml:"max_clients"`
}

// DefaultConfig returns a GenConfig with the defaults of the original generator.
func DefaultConfig() *GenConfig {
	return &GenConfig{
		Grid: GridConfig{
			Width:  38,
			Height: 38,
		},
		Engine: EngineConfig{
			Radius: 2,
			Decay:  []int{2, 1},
		},
		Driver: DriverConfig{
			YieldPause: time.Millisecond,
			MaxSteps:   DefaultMaxSteps(38, 38),
		},
		Catalog: CatalogConfig{
			Path:      "samples/circuit",
			Tolerance: 0.35,
		},
		Output: OutputConfig{
			ASCII: true,
			Color: true,
		},
		Observer: ObserverConfig{
			Interval:   30 * time.Millisecond,
			MaxPerIP:   4,
			MaxClients: 32,
		},
	}
}

// DefaultMaxSteps is the step budget for a grid of the given size. Repairs can
// reopen cells, so it leaves generous headroom over one step per cell.
func DefaultMaxSteps(width, height int) int {
	return width * height * 1000
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns the default config.
func LoadConfig(path string) (*GenConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("config: parse %s: %w", path, err)
	}

	return config, nil
}

// Validate reports configuration errors that must stop a run before it starts.
func (c *GenConfig) Validate() error {
	var errs []error

	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid size must be positive, got %dx%d", c.Grid.Width, c.Grid.Height))
	}
	if c.Engine.Radius < 0 {
		errs = append(errs, fmt.Errorf("engine radius must not be negative, got %d", c.Engine.Radius))
	}
	if c.Driver.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("driver max_steps must not be negative, got %d", c.Driver.MaxSteps))
	}
	if c.Catalog.Path == "" {
		errs = append(errs, errors.New("catalog path is required"))
	}
	if c.Catalog.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("catalog tolerance must not be negative, got %g", c.Catalog.Tolerance))
	}
	switch c.Store.Driver {
	case "", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.Store.Driver != "" && c.Store.DSN == "" {
		errs = append(errs, errors.New("store dsn is required when a driver is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// IsOriginAllowed checks if a websocket origin may connect.
// An empty list allows only same-origin requests; "*" allows everything.
func (c *ObserverConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // Non-browser clients send no Origin header
	}

	// "http://localhost:3000/" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
