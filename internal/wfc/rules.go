package wfc

// CanPlace returns true if the tile's edges agree with every collapsed neighbor.
// The candidate's edge facing the neighbor must equal the neighbor's edge on the
// opposite side. Uncollapsed neighbors impose nothing.
func CanPlace(t *Tile, neighbors []Neighbor) bool {
	for _, n := range neighbors {
		if !n.Cell.Collapsed {
			continue
		}
		if t.Edge(n.Dir) != n.Cell.Tile.Edge(n.Dir.Opposite()) {
			return false
		}
	}
	return true
}

// CanConnect returns true if b may sit on side d of a
func CanConnect(a, b *Tile, d Direction) bool {
	return a.Edge(d) == b.Edge(d.Opposite())
}

// Mismatch describes two adjacent collapsed cells whose edges disagree
type Mismatch struct {
	X, Y int
	Dir  Direction
}

// Mismatches scans the grid for adjacent collapsed cells with disagreeing edges.
// Each pair is reported once, from the cell on its top or left side.
func Mismatches(g *Grid) []Mismatch {
	var out []Mismatch
	for _, c := range g.Cells() {
		if !c.Collapsed {
			continue
		}
		for _, dir := range []Direction{Right, Bottom} {
			dx, dy := dir.Offset()
			n := g.At(c.X+dx, c.Y+dy)
			if n == nil || !n.Collapsed {
				continue
			}
			if !CanConnect(c.Tile, n.Tile, dir) {
				out = append(out, Mismatch{X: c.X, Y: c.Y, Dir: dir})
			}
		}
	}
	return out
}
