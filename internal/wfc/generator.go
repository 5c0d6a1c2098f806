package wfc

import (
	"context"
	"fmt"
	"time"

	"github.com/lawnchairsociety/wfcgen/internal/logger"
)

// GeneratorConfig contains parameters for a generation run
type GeneratorConfig struct {
	Width, Height int
	Seed          int64 // 0 picks a seed from the clock

	Radius    int   // Propagation radius (0 disables propagation, negative = default)
	Decay     []int // Per-ring entropy penalty
	ZeroFloor bool  // Clamp entropy at zero

	YieldEvery int           // Pause after this many steps (0 = catalog size / 4)
	YieldPause time.Duration // How long to pause

	MaxSteps    int           // Give up after this many steps (0 = unlimited)
	MaxDuration time.Duration // Give up after this long (0 = unlimited)
}

// DefaultGeneratorConfig returns reasonable defaults for a grid
func DefaultGeneratorConfig(width, height int, seed int64) *GeneratorConfig {
	return &GeneratorConfig{
		Width:      width,
		Height:     height,
		Seed:       seed,
		Radius:     DefaultRadius,
		Decay:      DefaultDecay(),
		YieldPause: time.Millisecond,
		// Repairs can reopen cells, so allow generous headroom over one step per cell
		MaxSteps: width * height * 1000,
	}
}

// Result is the outcome of a finished run
type Result struct {
	Snapshot   Snapshot
	Seed       int64
	Steps      int
	Placements int
	Repairs    int
	Elapsed    time.Duration
}

// Generator drives an engine until the grid is fully collapsed
type Generator struct {
	config *GeneratorConfig
	engine *Engine
	yield  int
}

// NewGenerator validates the config and builds the engine
func NewGenerator(config *GeneratorConfig, tiles []*Tile) (*Generator, error) {
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
		logger.Info("Generation seed selected", "seed", config.Seed, "random", true)
	}

	propagator := &Propagator{Decay: config.Decay, ZeroFloor: config.ZeroFloor}
	if propagator.Decay == nil {
		propagator.Decay = DefaultDecay()
	}
	radius := config.Radius
	if radius < 0 {
		radius = DefaultRadius
	}

	engine, err := NewEngine(tiles, config.Width, config.Height,
		WithSeed(config.Seed),
		WithRadius(radius),
		WithPropagator(propagator),
	)
	if err != nil {
		return nil, err
	}

	yield := config.YieldEvery
	if yield <= 0 {
		yield = len(tiles) / 4
	}
	if yield < 1 {
		yield = 1
	}

	return &Generator{
		config: config,
		engine: engine,
		yield:  yield,
	}, nil
}

// Engine returns the engine being driven, for observers that poll Snapshot
func (g *Generator) Engine() *Engine {
	return g.engine
}

// Run steps the engine until it reports Done, the context is cancelled, or a
// budget runs out. onStep, if non-nil, sees every step result in order.
func (g *Generator) Run(ctx context.Context, onStep func(StepResult)) (*Result, error) {
	start := time.Now()
	var deadline time.Time
	if g.config.MaxDuration > 0 {
		deadline = start.Add(g.config.MaxDuration)
	}

	logger.Info("Generation started",
		"width", g.config.Width,
		"height", g.config.Height,
		"tiles", len(g.engine.Tiles()),
		"seed", g.config.Seed)

	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			logger.Warning("Generation cancelled", "steps", steps, "error", err)
			return g.result(steps, start), err
		}

		res := g.engine.Step()
		if onStep != nil {
			onStep(res)
		}
		if res.Kind == StepDone {
			break
		}
		steps++

		if res.Kind == StepRepaired {
			logger.Debug("Cell repaired", "x", res.X, "y", res.Y, "step", steps)
		}

		if g.config.MaxSteps > 0 && steps >= g.config.MaxSteps {
			logger.Warning("Generation did not converge", "reason", "step budget", "steps", steps)
			return g.result(steps, start), fmt.Errorf("%w: %d steps", ErrStepBudget, steps)
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			logger.Warning("Generation did not converge", "reason", "time budget", "steps", steps)
			return g.result(steps, start), fmt.Errorf("%w: %s", ErrTimeBudget, g.config.MaxDuration)
		}

		// Give polling consumers a chance to run
		if steps%g.yield == 0 && g.config.YieldPause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(g.config.YieldPause):
			}
		}
	}

	result := g.result(steps, start)
	logger.Info("Generation finished",
		"steps", result.Steps,
		"placements", result.Placements,
		"repairs", result.Repairs,
		"elapsed", result.Elapsed)
	return result, nil
}

func (g *Generator) result(steps int, start time.Time) *Result {
	snap := g.engine.Snapshot()
	return &Result{
		Snapshot:   snap,
		Seed:       g.engine.Seed(),
		Steps:      steps,
		Placements: snap.Placements,
		Repairs:    snap.Repairs,
		Elapsed:    time.Since(start),
	}
}
