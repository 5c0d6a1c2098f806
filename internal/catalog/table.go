// Package catalog turns tile images or YAML descriptions into the immutable
// tile list consumed by the collapse engine.
package catalog

import (
	"errors"
	"image/color"
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultTolerance is the hue-error threshold under which two edges are equivalent
const DefaultTolerance = 0.35

var ErrTableFrozen = errors.New("catalog: edge table is frozen")

// Edge is the pixel run along one side of a tile
type Edge []color.NRGBA

// EdgeTable assigns a shared integer code to every group of equivalent edges.
// It is built once while the catalog is assembled and frozen afterwards.
type EdgeTable struct {
	Tolerance float64

	mu         sync.Mutex
	signatures []Edge
	frozen     bool
}

// NewEdgeTable creates an empty table
func NewEdgeTable(tolerance float64) *EdgeTable {
	return &EdgeTable{Tolerance: tolerance}
}

// Resolve returns the code of the first stored edge that matches, adding the
// edge as a new code if none does.
func (t *EdgeTable) Resolve(edge Edge) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, sig := range t.signatures {
		if t.Match(edge, sig) {
			return i, nil
		}
	}

	if t.frozen {
		return -1, ErrTableFrozen
	}

	t.signatures = append(t.signatures, append(Edge(nil), edge...))
	return len(t.signatures) - 1, nil
}

// Freeze stops the table from accepting new codes
func (t *EdgeTable) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frozen = true
}

// Len returns the number of distinct codes
func (t *EdgeTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.signatures)
}

// Match reports whether two edges are equivalent. Pixels that differ add their
// hue distance (degrees) to an error sum; the edges match when the sum divided
// by 1000 stays under the tolerance.
func (t *EdgeTable) Match(a, b Edge) bool {
	if len(a) != len(b) {
		return false
	}

	var errSum float64
	for i := range a {
		if a[i] == b[i] {
			continue
		}
		errSum += math.Abs(hue(a[i]) - hue(b[i]))
	}
	return errSum/1000.0 < t.Tolerance
}

// hue returns the HSV hue of c in degrees; fully transparent pixels have hue 0
func hue(c color.NRGBA) float64 {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return 0
	}
	h, _, _ := cf.Hsv()
	return h
}
