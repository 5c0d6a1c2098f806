package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lawnchairsociety/wfcgen/internal/catalog"
	"github.com/lawnchairsociety/wfcgen/internal/config"
	"github.com/lawnchairsociety/wfcgen/internal/logger"
	"github.com/lawnchairsociety/wfcgen/internal/observer"
	"github.com/lawnchairsociety/wfcgen/internal/render"
	"github.com/lawnchairsociety/wfcgen/internal/store"
	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/wfcgen.yaml", "Path to generation config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	catalogPath := flag.String("catalog", "", "Directory of PNG tiles or YAML catalog (overrides config)")
	width := flag.Int("width", 0, "Grid width in cells (overrides config)")
	height := flag.Int("height", 0, "Grid height in cells (overrides config)")
	seed := flag.Int64("seed", 0, "Random seed (default: from config, or random based on current time)")
	maxSteps := flag.Int("max-steps", -1, "Give up after this many steps, 0 for unlimited (overrides config)")
	timeout := flag.Duration("timeout", -1, "Give up after this long, 0 for unlimited (overrides config)")
	ascii := flag.Bool("ascii", true, "Print the finished grid as text")
	pngFile := flag.String("png", "", "Write the finished grid to this PNG file")
	live := flag.Bool("live", false, "Watch the grid fill in a full-screen terminal view")
	serveAddr := flag.String("serve", "", "Stream snapshots over WebSocket on this address (e.g. :8080)")
	dbFile := flag.String("db", "", "Record the run in this SQLite database")
	listRuns := flag.Int("list", 0, "Print the N most recent stored runs and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, isFlagSet, flagValues{
		catalog:   *catalogPath,
		width:     *width,
		height:    *height,
		seed:      *seed,
		maxSteps:  *maxSteps,
		timeout:   *timeout,
		ascii:     *ascii,
		png:       *pngFile,
		live:      *live,
		serveAddr: *serveAddr,
		db:        *dbFile,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Handle -list (prints stored runs and exits)
	if *listRuns > 0 {
		handleListRuns(cfg.Store, *listRuns)
		return
	}

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Fatalf("Failed to load logging config: %v", err)
	}
	if cfg.Output.Live {
		// The terminal belongs to the live view
		logConfig.ConsoleEnabled = false
		logConfig.FileEnabled = true
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	cat, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.Tolerance)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	genConfig := &wfc.GeneratorConfig{
		Width:       cfg.Grid.Width,
		Height:      cfg.Grid.Height,
		Seed:        cfg.Grid.Seed,
		Radius:      cfg.Engine.Radius,
		Decay:       cfg.Engine.Decay,
		ZeroFloor:   cfg.Engine.ZeroFloor,
		YieldEvery:  cfg.Driver.YieldEvery,
		YieldPause:  cfg.Driver.YieldPause,
		MaxSteps:    cfg.Driver.MaxSteps,
		MaxDuration: cfg.Driver.Timeout,
	}
	gen, err := wfc.NewGenerator(genConfig, cat.Tiles)
	if err != nil {
		log.Fatalf("Failed to create generator: %v", err)
	}

	// Cancel the run on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	palette := render.NewPalette(cat)

	// Start the observer in a goroutine
	var obsDone chan error
	obsCtx, stopObserver := context.WithCancel(context.Background())
	defer stopObserver()
	if cfg.Observer.Addr != "" {
		obs := observer.New(cfg.Observer, gen.Engine())
		obsDone = make(chan error, 1)
		go func() {
			obsDone <- obs.Serve(obsCtx, cfg.Observer.Addr)
		}()
	}

	// Start the live view in a goroutine
	var liveDone chan error
	var screen tcell.Screen
	if cfg.Output.Live {
		screen, err = tcell.NewScreen()
		if err != nil {
			log.Fatalf("Failed to create screen: %v", err)
		}
		if err := screen.Init(); err != nil {
			log.Fatalf("Failed to initialize screen: %v", err)
		}
		view := render.NewLive(screen, gen.Engine(), palette, cfg.Observer.Interval)
		liveDone = make(chan error, 1)
		go func() {
			err := view.Run(ctx)
			if errors.Is(err, render.ErrQuit) {
				cancelRun()
			}
			liveDone <- err
		}()
	}

	result, runErr := gen.Run(runCtx, nil)

	if screen != nil {
		// Keep the finished grid on screen until the user closes it
		<-liveDone
		screen.Fini()
	}

	if obsDone != nil {
		if cfg.Observer.Linger > 0 && ctx.Err() == nil {
			logger.Info("Observer lingering", "duration", cfg.Observer.Linger)
			select {
			case <-ctx.Done():
			case <-time.After(cfg.Observer.Linger):
			}
		}
		stopObserver()
		if err := <-obsDone; err != nil {
			logger.Error("Observer stopped with error", "error", err)
		}
	}

	if cfg.Output.ASCII {
		opts := render.ASCIIOptions{
			Color:    cfg.Output.Color,
			MaxWidth: render.TerminalWidth(),
			Status:   true,
		}
		if err := render.ASCII(os.Stdout, result.Snapshot, palette, opts); err != nil {
			logger.Error("Failed to print grid", "error", err)
		}
	}

	if cfg.Output.PNG != "" {
		if err := writePNG(cfg.Output.PNG, result.Snapshot, cat, palette); err != nil {
			logger.Error("Failed to write PNG", "path", cfg.Output.PNG, "error", err)
		} else {
			logger.Info("PNG written", "path", cfg.Output.PNG)
		}
	}

	if cfg.Store.Driver != "" {
		saveRun(cfg.Store, store.NewRun(cfg.Catalog.Path, result, runErr))
	}

	if runErr != nil {
		logger.Error("Generation failed", "error", runErr, "seed", result.Seed)
		logger.Close()
		os.Exit(1)
	}
}

func writePNG(path string, snap wfc.Snapshot, cat *catalog.Catalog, palette *render.Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.PNG(f, snap, cat, palette); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// saveRun records the run and reports earlier runs that produced the same grid
func saveRun(cfg config.StoreConfig, run *store.Run) {
	db, err := store.OpenWithConfig(cfg)
	if err != nil {
		logger.Error("Failed to open run store", "error", err)
		return
	}
	defer db.Close()

	if err := db.SaveRun(run); err != nil {
		logger.Error("Failed to save run", "error", err)
		return
	}

	matches, err := db.FindByDigest(run.Digest)
	if err != nil {
		logger.Warning("Failed to look up identical runs", "error", err)
		return
	}
	if len(matches) > 1 {
		logger.Info("Grid was generated before", "digest", run.Digest, "first_run", matches[0].ID, "first_seed", matches[0].Seed)
	}
}

// handleListRuns prints stored runs and exits
func handleListRuns(cfg config.StoreConfig, limit int) {
	if cfg.Driver == "" {
		fmt.Fprintln(os.Stderr, "Error: no run store configured (use -db or store.driver)")
		os.Exit(1)
	}

	db, err := store.OpenWithConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open run store: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	runs, err := db.ListRuns(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%-6s %-20s %-9s %-12s %8s %8s  %s\n", "ID", "SEED", "SIZE", "STATUS", "STEPS", "REPAIRS", "DIGEST")
	for _, r := range runs {
		fmt.Printf("%-6d %-20d %-9s %-12s %8d %8d  %s\n",
			r.ID, r.Seed, fmt.Sprintf("%dx%d", r.Width, r.Height), r.Status, r.Steps, r.Repairs, shortDigest(r.Digest))
	}
}

// shortDigest returns the leading 16 characters of a run digest
func shortDigest(digest string) string {
	if len(digest) > 16 {
		return digest[:16]
	}
	return digest
}
