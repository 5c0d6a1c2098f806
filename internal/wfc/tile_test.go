package wfc

import "testing"

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{Top, "top"},
		{Right, "right"},
		{Bottom, "bottom"},
		{Left, "left"},
		{Direction(99), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.d.String(); got != tc.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		d    Direction
		want Direction
	}{
		{Top, Bottom},
		{Right, Left},
		{Bottom, Top},
		{Left, Right},
	}

	for _, tc := range tests {
		if got := tc.d.Opposite(); got != tc.want {
			t.Errorf("%s.Opposite() = %s, want %s", tc.d, got, tc.want)
		}
		if got := tc.d.Opposite().Opposite(); got != tc.d {
			t.Errorf("%s.Opposite().Opposite() = %s, want %s", tc.d, got, tc.d)
		}
	}
}

func TestDirectionOffset(t *testing.T) {
	tests := []struct {
		d      Direction
		dx, dy int
	}{
		{Top, 0, -1},
		{Right, 1, 0},
		{Bottom, 0, 1},
		{Left, -1, 0},
	}

	for _, tc := range tests {
		dx, dy := tc.d.Offset()
		if dx != tc.dx || dy != tc.dy {
			t.Errorf("%s.Offset() = (%d, %d), want (%d, %d)", tc.d, dx, dy, tc.dx, tc.dy)
		}
	}
}

func TestAllDirectionsMatchesEdgeIndex(t *testing.T) {
	for i, d := range AllDirections() {
		if int(d) != i {
			t.Errorf("AllDirections()[%d] = %s, want edge index %d", i, d, i)
		}
	}
}

func TestNewTile(t *testing.T) {
	tile := NewTile(3, "cross", 1, 2, 3, 4)

	if tile.ID != 3 {
		t.Errorf("ID = %d, want 3", tile.ID)
	}
	if tile.Name != "cross" {
		t.Errorf("Name = %q, want %q", tile.Name, "cross")
	}

	want := map[Direction]int{Top: 1, Right: 2, Bottom: 3, Left: 4}
	for d, code := range want {
		if got := tile.Edge(d); got != code {
			t.Errorf("Edge(%s) = %d, want %d", d, got, code)
		}
	}
}
