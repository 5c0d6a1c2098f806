package wfc

import "testing"

func TestNewGrid(t *testing.T) {
	g := NewGrid(4, 3, 7)

	if g.Width != 4 || g.Height != 3 {
		t.Errorf("size = %dx%d, want 4x3", g.Width, g.Height)
	}
	if len(g.Cells()) != 12 {
		t.Fatalf("len(Cells()) = %d, want 12", len(g.Cells()))
	}

	for _, c := range g.Cells() {
		if c.Entropy != 7 {
			t.Errorf("cell (%d,%d) entropy = %d, want 7", c.X, c.Y, c.Entropy)
		}
		if c.Collapsed || c.Tile != nil {
			t.Errorf("cell (%d,%d) should start uncollapsed with no tile", c.X, c.Y)
		}
		if g.At(c.X, c.Y) != c {
			t.Errorf("At(%d,%d) does not return the cell at that position", c.X, c.Y)
		}
	}
}

func TestGridAtOutOfBounds(t *testing.T) {
	g := NewGrid(2, 2, 1)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if g.At(p[0], p[1]) != nil {
			t.Errorf("At(%d,%d) should be nil", p[0], p[1])
		}
	}
}

func TestGridNeighbors(t *testing.T) {
	g := NewGrid(3, 3, 1)

	tests := []struct {
		name string
		x, y int
		want []Direction
	}{
		{"center", 1, 1, []Direction{Top, Right, Bottom, Left}},
		{"top-left corner", 0, 0, []Direction{Right, Bottom}},
		{"bottom-right corner", 2, 2, []Direction{Top, Left}},
		{"top edge", 1, 0, []Direction{Right, Bottom, Left}},
		{"left edge", 0, 1, []Direction{Top, Right, Bottom}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			neighbors := g.Neighbors(g.At(tc.x, tc.y))
			if len(neighbors) != len(tc.want) {
				t.Fatalf("got %d neighbors, want %d", len(neighbors), len(tc.want))
			}
			for i, n := range neighbors {
				if n.Dir != tc.want[i] {
					t.Errorf("neighbor %d dir = %s, want %s", i, n.Dir, tc.want[i])
				}
				dx, dy := n.Dir.Offset()
				if n.Cell.X != tc.x+dx || n.Cell.Y != tc.y+dy {
					t.Errorf("neighbor %s at (%d,%d), want (%d,%d)",
						n.Dir, n.Cell.X, n.Cell.Y, tc.x+dx, tc.y+dy)
				}
			}
		})
	}
}

func TestGridNeighborsSingleCell(t *testing.T) {
	g := NewGrid(1, 1, 1)

	if n := g.Neighbors(g.At(0, 0)); len(n) != 0 {
		t.Errorf("1x1 grid cell has %d neighbors, want 0", len(n))
	}
}

func TestGridUncollapsedCells(t *testing.T) {
	g := NewGrid(2, 2, 1)
	tile := NewTile(0, "a", 0, 0, 0, 0)

	g.At(0, 0).Collapse(tile)
	g.At(1, 1).Collapse(tile)

	open := g.UncollapsedCells()
	if len(open) != 2 {
		t.Fatalf("UncollapsedCells() = %d cells, want 2", len(open))
	}
	for _, c := range open {
		if c.Collapsed {
			t.Errorf("cell (%d,%d) is collapsed but was returned", c.X, c.Y)
		}
	}
	if got := g.CollapsedCount(); got != 2 {
		t.Errorf("CollapsedCount() = %d, want 2", got)
	}
}

func TestCellCollapseAndReset(t *testing.T) {
	tile := NewTile(0, "a", 0, 0, 0, 0)
	c := &Cell{Entropy: 3}

	c.Collapse(tile)
	if !c.Collapsed || c.Tile != tile {
		t.Error("Collapse should set both Collapsed and Tile")
	}

	c.Reset()
	if c.Collapsed || c.Tile != nil {
		t.Error("Reset should clear both Collapsed and Tile")
	}
	if c.Entropy != 3 {
		t.Errorf("Reset changed entropy to %d, want 3", c.Entropy)
	}
}
