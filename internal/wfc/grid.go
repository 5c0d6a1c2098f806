package wfc

// Cell represents a single cell in the grid during generation
type Cell struct {
	X, Y      int
	Entropy   int   // Lower is more constrained; may go negative
	Collapsed bool  // Whether a tile has been assigned
	Tile      *Tile // The assigned tile (nil unless collapsed)
}

// Neighbor pairs an in-bounds adjacent cell with the side it sits on
type Neighbor struct {
	Cell *Cell
	Dir  Direction
}

// Collapse assigns a tile to the cell
func (c *Cell) Collapse(t *Tile) {
	c.Tile = t
	c.Collapsed = true
}

// Reset clears the cell's assignment. Entropy is left to the caller.
func (c *Cell) Reset() {
	c.Tile = nil
	c.Collapsed = false
}

// Grid is a fixed-size 2D array of cells
type Grid struct {
	Width, Height int
	cells         []*Cell
}

// NewGrid allocates a grid with every cell uncollapsed at entropy tileCount
func NewGrid(width, height, tileCount int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		cells:  make([]*Cell, width*height),
	}
	g.Reset(tileCount)
	return g
}

// Reset returns every cell to its initial state
func (g *Grid) Reset(tileCount int) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.cells[y*g.Width+x] = &Cell{X: x, Y: y, Entropy: tileCount}
		}
	}
}

// InBounds reports whether (x, y) lies inside the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at (x, y), or nil if out of bounds
func (g *Grid) At(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.cells[y*g.Width+x]
}

// Cells returns all cells in row-major order
func (g *Grid) Cells() []*Cell {
	return g.cells
}

// Neighbors returns the in-bounds neighbors of a cell, tagged with direction
func (g *Grid) Neighbors(c *Cell) []Neighbor {
	neighbors := make([]Neighbor, 0, 4)
	for _, dir := range AllDirections() {
		dx, dy := dir.Offset()
		if n := g.At(c.X+dx, c.Y+dy); n != nil {
			neighbors = append(neighbors, Neighbor{Cell: n, Dir: dir})
		}
	}
	return neighbors
}

// UncollapsedCells returns all cells without an assigned tile
func (g *Grid) UncollapsedCells() []*Cell {
	var cells []*Cell
	for _, c := range g.cells {
		if !c.Collapsed {
			cells = append(cells, c)
		}
	}
	return cells
}

// CollapsedCount returns the number of cells with an assigned tile
func (g *Grid) CollapsedCount() int {
	count := 0
	for _, c := range g.cells {
		if c.Collapsed {
			count++
		}
	}
	return count
}
