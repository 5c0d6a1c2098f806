package main

import (
	"flag"
	"time"

	"github.com/lawnchairsociety/wfcgen/internal/config"
)

// flagValues holds command-line overrides for the loaded config
type flagValues struct {
	catalog   string
	width     int
	height    int
	seed      int64
	maxSteps  int
	timeout   time.Duration
	ascii     bool
	png       string
	live      bool
	serveAddr string
	db        string
}

// isFlagSet reports whether a flag was given on the command line
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// applyFlags copies every explicitly set flag over the config
func applyFlags(cfg *config.GenConfig, set func(string) bool, v flagValues) {
	scaledBudget := cfg.Driver.MaxSteps == config.DefaultMaxSteps(cfg.Grid.Width, cfg.Grid.Height)

	if set("catalog") {
		cfg.Catalog.Path = v.catalog
	}
	if set("width") {
		cfg.Grid.Width = v.width
	}
	if set("height") {
		cfg.Grid.Height = v.height
	}
	if set("seed") {
		cfg.Grid.Seed = v.seed
	}
	if set("max-steps") {
		cfg.Driver.MaxSteps = v.maxSteps
	} else if scaledBudget && (set("width") || set("height")) {
		cfg.Driver.MaxSteps = config.DefaultMaxSteps(cfg.Grid.Width, cfg.Grid.Height)
	}
	if set("timeout") {
		cfg.Driver.Timeout = v.timeout
	}
	if set("ascii") {
		cfg.Output.ASCII = v.ascii
	}
	if set("png") {
		cfg.Output.PNG = v.png
	}
	if set("live") {
		cfg.Output.Live = v.live
	}
	if set("serve") {
		cfg.Observer.Addr = v.serveAddr
	}
	if set("db") {
		cfg.Store.Driver = "sqlite"
		cfg.Store.DSN = v.db
	}

	// The live view already shows the grid; printing it again would scroll it away
	if cfg.Output.Live && !set("ascii") {
		cfg.Output.ASCII = false
	}
}
