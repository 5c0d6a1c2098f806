package wfc

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrEmptyCatalog = errors.New("wfc: tile catalog is empty")
	ErrInvalidSize  = errors.New("wfc: invalid grid size")
	ErrStepBudget   = errors.New("wfc: step budget exhausted before the grid collapsed")
	ErrTimeBudget   = errors.New("wfc: time budget exhausted before the grid collapsed")
)

// State is the engine's lifecycle state
type State int

const (
	Running State = iota
	Done
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "running":
		*s = Running
	case "done":
		*s = Done
	default:
		return fmt.Errorf("wfc: unknown state %q", text)
	}
	return nil
}

// StepKind identifies what a single Step accomplished
type StepKind int

const (
	StepPlaced StepKind = iota
	StepRepaired
	StepDone
)

// String returns the string representation of a StepKind
func (k StepKind) String() string {
	switch k {
	case StepPlaced:
		return "placed"
	case StepRepaired:
		return "repaired"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

// StepResult reports the outcome of one Step.
// For StepPlaced, (X, Y) is the collapsed cell and TileID its tile.
// For StepRepaired, (X, Y) is the cell that was cleared, or the target cell if
// there was nothing to clear. TileID is -1 for everything but StepPlaced.
type StepResult struct {
	Kind   StepKind
	X, Y   int
	TileID int
}

// Option configures an Engine
type Option func(*Engine)

// WithSeed seeds the engine's random source
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithRadius sets the propagation radius
func WithRadius(radius int) Option {
	return func(e *Engine) {
		e.radius = radius
	}
}

// WithPropagator replaces the default propagator
func WithPropagator(p *Propagator) Option {
	return func(e *Engine) {
		e.propagator = p
	}
}

// Engine runs the collapse algorithm over a fixed grid.
//
// A single lock guards each Step as a whole. Readers never see the live grid;
// they get a copy from Snapshot taken under the same lock.
type Engine struct {
	mu sync.RWMutex

	tiles      []*Tile
	grid       *Grid
	rng        *rand.Rand
	seed       int64
	propagator *Propagator
	radius     int

	state      State
	version    uint64
	placements int
	repairs    int
}

// NewEngine validates the catalog and dimensions and returns an engine ready to step
func NewEngine(tiles []*Tile, width, height int, opts ...Option) (*Engine, error) {
	if len(tiles) == 0 {
		return nil, ErrEmptyCatalog
	}
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}

	e := &Engine{
		tiles:      tiles,
		seed:       time.Now().UnixNano(),
		propagator: NewPropagator(),
		radius:     DefaultRadius,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.rng = rand.New(rand.NewSource(e.seed))
	e.grid = NewGrid(width, height, len(tiles))
	e.state = Running
	return e, nil
}

// Reset clears the grid and reseeds the engine for a new generation
func (e *Engine) Reset(seed int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seed = seed
	e.rng = rand.New(rand.NewSource(seed))
	e.grid.Reset(len(e.tiles))
	e.state = Running
	e.version++
	e.placements = 0
	e.repairs = 0
}

// Step advances the generation by exactly one unit of work
func (e *Engine) Step() StepResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	result := e.step()
	if result.Kind != StepDone {
		e.version++
	}
	return result
}

func (e *Engine) step() StepResult {
	if e.state == Done {
		return StepResult{Kind: StepDone, TileID: -1}
	}

	open := e.grid.UncollapsedCells()
	if len(open) == 0 {
		e.state = Done
		e.version++
		return StepResult{Kind: StepDone, TileID: -1}
	}

	target := e.pickTarget(open)
	neighbors := e.grid.Neighbors(target)

	// Untried tile indices; picked uniformly and swap-removed once tried.
	untried := make([]int, len(e.tiles))
	for i := range untried {
		untried[i] = i
	}

	for len(untried) > 0 {
		i := e.rng.Intn(len(untried))
		tile := e.tiles[untried[i]]
		untried[i] = untried[len(untried)-1]
		untried = untried[:len(untried)-1]

		if CanPlace(tile, neighbors) {
			target.Collapse(tile)
			e.propagator.Propagate(e.grid, target, e.radius)
			e.placements++
			return StepResult{Kind: StepPlaced, X: target.X, Y: target.Y, TileID: tile.ID}
		}
	}

	e.repairs++
	if len(neighbors) == 0 {
		return StepResult{Kind: StepRepaired, X: target.X, Y: target.Y, TileID: -1}
	}
	r := neighbors[e.rng.Intn(len(neighbors))].Cell
	e.repair(r)
	return StepResult{Kind: StepRepaired, X: r.X, Y: r.Y, TileID: -1}
}

// pickTarget chooses uniformly among the cells sharing the minimum entropy
func (e *Engine) pickTarget(open []*Cell) *Cell {
	lowest := open[0].Entropy
	for _, c := range open[1:] {
		if c.Entropy < lowest {
			lowest = c.Entropy
		}
	}

	ties := make([]*Cell, 0, len(open))
	for _, c := range open {
		if c.Entropy == lowest {
			ties = append(ties, c)
		}
	}
	return ties[e.rng.Intn(len(ties))]
}

// repair reopens a collapsed cell and gives it an approximate entropy.
// An already-open cell is left untouched.
func (e *Engine) repair(c *Cell) {
	if !c.Collapsed {
		return
	}
	c.Reset()
	c.Entropy = len(e.tiles) - len(e.grid.Neighbors(c))
}

// State returns the engine's current state
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Seed returns the seed of the current generation
func (e *Engine) Seed() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seed
}

// Tiles returns the catalog the engine was built with
func (e *Engine) Tiles() []*Tile {
	return e.tiles
}

// Stats returns placement and repair counts for the current generation
func (e *Engine) Stats() (placements, repairs int) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.placements, e.repairs
}

// Mismatches returns every adjacent pair of collapsed cells whose edges disagree
func (e *Engine) Mismatches() []Mismatch {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Mismatches(e.grid)
}
