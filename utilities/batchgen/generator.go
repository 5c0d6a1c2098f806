package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/lawnchairsociety/wfcgen/internal/catalog"
	"github.com/lawnchairsociety/wfcgen/internal/store"
	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

// BatchGenerator generates one grid per seed and writes each to YAML
type BatchGenerator struct {
	Catalog     *catalog.Catalog
	CatalogPath string
	Width       int
	Height      int
	MaxSteps    int // 0 keeps the generator default
	OutputDir   string
	Store       *store.Store // Optional; records every run when set
}

// GenerateSeed runs one generation and writes grid_<seed>.yaml, named after the
// seed the run actually used (seed 0 picks one from the clock). Runs that do
// not converge are still recorded in the store but produce no file.
func (g *BatchGenerator) GenerateSeed(ctx context.Context, seed int64) (*store.Run, error) {
	cfg := wfc.DefaultGeneratorConfig(g.Width, g.Height, seed)
	cfg.YieldPause = 0 // Nobody is watching
	if g.MaxSteps > 0 {
		cfg.MaxSteps = g.MaxSteps
	}

	gen, err := wfc.NewGenerator(cfg, g.Catalog.Tiles)
	if err != nil {
		return nil, err
	}

	result, runErr := gen.Run(ctx, nil)
	run := store.NewRun(g.CatalogPath, result, runErr)

	if g.Store != nil {
		if err := g.Store.SaveRun(run); err != nil {
			return run, fmt.Errorf("failed to record run: %w", err)
		}
	}
	if runErr != nil {
		return run, fmt.Errorf("generation failed: %w", runErr)
	}

	path := filepath.Join(g.OutputDir, fmt.Sprintf("grid_%d.yaml", run.Seed))
	if err := WriteGridYAML(g.convertToYAML(run), path); err != nil {
		return run, fmt.Errorf("failed to write YAML: %w", err)
	}
	return run, nil
}

// convertToYAML converts a finished run to the file format
func (g *BatchGenerator) convertToYAML(run *store.Run) *GridYAML {
	grid := &GridYAML{
		Width:   run.Width,
		Height:  run.Height,
		Seed:    run.Seed,
		Catalog: g.CatalogPath,
		Steps:   run.Steps,
		Repairs: run.Repairs,
		Digest:  run.Digest,
		Legend:  make([]string, len(g.Catalog.Tiles)),
		Rows:    make([][]int, run.Height),
	}

	for i, t := range g.Catalog.Tiles {
		grid.Legend[i] = t.Name
	}
	for y := 0; y < run.Height; y++ {
		grid.Rows[y] = run.Cells[y*run.Width : (y+1)*run.Width]
	}
	return grid
}
