package wfc

import "testing"

func manhattan(a, b *Cell) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

func TestPropagateDefaultSchedule(t *testing.T) {
	g := NewGrid(7, 7, 10)
	origin := g.At(3, 3)
	origin.Collapse(NewTile(0, "a", 0, 0, 0, 0))

	NewPropagator().Propagate(g, origin, DefaultRadius)

	for _, c := range g.Cells() {
		want := 10
		switch manhattan(c, origin) {
		case 1:
			want = 8
		case 2:
			want = 9
		}
		if c.Entropy != want {
			t.Errorf("cell (%d,%d) at distance %d entropy = %d, want %d",
				c.X, c.Y, manhattan(c, origin), c.Entropy, want)
		}
	}
}

func TestPropagateLocality(t *testing.T) {
	for radius := 0; radius <= 4; radius++ {
		g := NewGrid(9, 9, 20)
		origin := g.At(4, 4)
		p := &Propagator{Decay: []int{3, 2, 1, 1}}

		p.Propagate(g, origin, radius)

		for _, c := range g.Cells() {
			if manhattan(c, origin) > radius && c.Entropy != 20 {
				t.Errorf("radius %d: cell (%d,%d) outside radius changed to %d",
					radius, c.X, c.Y, c.Entropy)
			}
		}
	}
}

func TestPropagateCountsEachCellOnce(t *testing.T) {
	g := NewGrid(5, 5, 10)
	origin := g.At(2, 2)

	NewPropagator().Propagate(g, origin, 2)

	// Diagonal cells are reachable by two shortest paths
	for _, p := range [][2]int{{1, 1}, {3, 1}, {1, 3}, {3, 3}} {
		if got := g.At(p[0], p[1]).Entropy; got != 9 {
			t.Errorf("diagonal cell (%d,%d) entropy = %d, want 9", p[0], p[1], got)
		}
	}
}

func TestPropagateSkipsCollapsedCells(t *testing.T) {
	g := NewGrid(5, 1, 10)
	origin := g.At(0, 0)
	blocker := g.At(1, 0)
	blocker.Collapse(NewTile(0, "a", 0, 0, 0, 0))

	NewPropagator().Propagate(g, origin, 2)

	if blocker.Entropy != 10 {
		t.Errorf("collapsed cell entropy = %d, want 10", blocker.Entropy)
	}
	// Propagation still walks through the collapsed cell
	if got := g.At(2, 0).Entropy; got != 9 {
		t.Errorf("cell behind collapsed neighbor entropy = %d, want 9", got)
	}
}

func TestPropagateShortScheduleStopsPenalizing(t *testing.T) {
	g := NewGrid(7, 1, 10)
	origin := g.At(0, 0)
	p := &Propagator{Decay: []int{4}}

	p.Propagate(g, origin, 3)

	want := []int{10, 6, 10, 10, 10, 10, 10}
	for x, w := range want {
		if got := g.At(x, 0).Entropy; got != w {
			t.Errorf("cell %d entropy = %d, want %d", x, got, w)
		}
	}
}

func TestPropagateNegativeEntropy(t *testing.T) {
	g := NewGrid(3, 1, 1)
	origin := g.At(1, 0)

	NewPropagator().Propagate(g, origin, 1)

	if got := g.At(0, 0).Entropy; got != -1 {
		t.Errorf("entropy = %d, want -1 (unclamped)", got)
	}
}

func TestPropagateZeroFloor(t *testing.T) {
	g := NewGrid(3, 1, 1)
	origin := g.At(1, 0)
	p := NewPropagator()
	p.ZeroFloor = true

	p.Propagate(g, origin, 1)

	if got := g.At(0, 0).Entropy; got != 0 {
		t.Errorf("entropy = %d, want 0 with zero floor", got)
	}
}
