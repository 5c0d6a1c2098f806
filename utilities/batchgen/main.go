package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/lawnchairsociety/wfcgen/internal/catalog"
	"github.com/lawnchairsociety/wfcgen/internal/store"
)

func main() {
	catalogPath := flag.String("catalog", "samples/circuit", "Directory of PNG tiles or YAML catalog")
	tolerance := flag.Float64("tolerance", catalog.DefaultTolerance, "Edge colour matching tolerance")
	seeds := flag.String("seeds", "", "Seed range to generate (e.g., 1-25 or 5)")
	width := flag.Int("width", 38, "Grid width in cells")
	height := flag.Int("height", 38, "Grid height in cells")
	maxSteps := flag.Int("max-steps", 0, "Give up on a seed after this many steps (0 = width*height*1000)")
	outDir := flag.String("out", "out/grids", "Output directory")
	dbFile := flag.String("db", "", "Also record every run in this SQLite database")
	flag.Parse()

	if *seeds == "" {
		fmt.Fprintln(os.Stderr, "Error: --seeds is required (e.g., --seeds=1-25 or --seeds=5)")
		flag.Usage()
		os.Exit(1)
	}

	startSeed, endSeed, err := parseSeedRange(*seeds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid seed range: %v\n", err)
		os.Exit(1)
	}

	cat, err := catalog.Load(*catalogPath, *tolerance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	gen := &BatchGenerator{
		Catalog:     cat,
		CatalogPath: *catalogPath,
		Width:       *width,
		Height:      *height,
		MaxSteps:    *maxSteps,
		OutputDir:   *outDir,
	}
	if *dbFile != "" {
		db, err := store.Open(*dbFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		gen.Store = db
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Generating seeds %d-%d from %s (%d tiles, %dx%d)\n", startSeed, endSeed, *catalogPath, len(cat.Tiles), *width, *height)
	fmt.Printf("Output directory: %s\n\n", *outDir)

	failed := 0
	for seed := startSeed; seed <= endSeed; seed++ {
		fmt.Printf("Generating seed %d... ", seed)
		run, err := gen.GenerateSeed(ctx, seed)
		if err != nil {
			fmt.Printf("FAILED: %v\n", err)
			failed++
			if ctx.Err() != nil {
				break
			}
			continue
		}
		fmt.Printf("OK (%d steps, %d repairs)\n", run.Steps, run.Repairs)
	}

	total := endSeed - startSeed + 1
	fmt.Printf("\nGenerated %d of %d grid(s)\n", total-int64(failed), total)
	if failed > 0 {
		os.Exit(1)
	}
}

// parseSeedRange parses a seed range string like "1-25" or "5"
func parseSeedRange(s string) (start, end int64, err error) {
	if before, after, found := strings.Cut(s, "-"); found {
		start, err = strconv.ParseInt(strings.TrimSpace(before), 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid start seed: %w", err)
		}
		end, err = strconv.ParseInt(strings.TrimSpace(after), 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid end seed: %w", err)
		}
	} else {
		start, err = strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid seed: %w", err)
		}
		end = start
	}

	if start < 1 {
		return 0, 0, fmt.Errorf("seeds must be >= 1 (seed 0 means random)")
	}
	if end < start {
		return 0, 0, fmt.Errorf("end seed must be >= start seed")
	}
	return start, end, nil
}
