package wfc

import (
	"github.com/zyedidia/generic/mapset"
)

// DefaultRadius is how far a placement pushes entropy outward
const DefaultRadius = 2

// DefaultDecay returns the per-ring penalty schedule: ring 1 loses 2, ring 2 loses 1
func DefaultDecay() []int {
	return []int{2, 1}
}

// Propagator lowers the entropy of cells around a fresh placement
type Propagator struct {
	// Decay[k-1] is subtracted from every uncollapsed cell at ring distance k.
	// Rings past the end of the schedule are not penalized.
	Decay []int

	// ZeroFloor clamps entropy at zero instead of letting it go negative.
	ZeroFloor bool
}

// NewPropagator creates a propagator with the default decay schedule
func NewPropagator() *Propagator {
	return &Propagator{Decay: DefaultDecay()}
}

// penalty returns the entropy reduction for ring distance k
func (p *Propagator) penalty(k int) int {
	if k < 1 || k > len(p.Decay) {
		return 0
	}
	return p.Decay[k-1]
}

// Propagate walks the grid breadth-first from origin and penalizes every
// uncollapsed cell within Manhattan distance radius exactly once. Collapsed
// cells are walked through but keep their entropy.
func (p *Propagator) Propagate(g *Grid, origin *Cell, radius int) {
	if radius < 1 {
		return
	}

	type visit struct {
		cell *Cell
		dist int
	}

	visited := mapset.New[*Cell]()
	visited.Put(origin)
	queue := []visit{{origin, 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.dist == radius {
			continue
		}

		for _, n := range g.Neighbors(current.cell) {
			if visited.Has(n.Cell) {
				continue
			}
			visited.Put(n.Cell)

			dist := current.dist + 1
			if !n.Cell.Collapsed {
				n.Cell.Entropy -= p.penalty(dist)
				if p.ZeroFloor && n.Cell.Entropy < 0 {
					n.Cell.Entropy = 0
				}
			}
			queue = append(queue, visit{n.Cell, dist})
		}
	}
}
