package wfc

// Direction represents one side of a cell. The numeric value doubles as the
// index into a tile's edge codes.
type Direction int

const (
	Top Direction = iota
	Right
	Bottom
	Left
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case Top:
		return Bottom
	case Right:
		return Left
	case Bottom:
		return Top
	case Left:
		return Right
	default:
		return d
	}
}

// Offset returns the grid delta for one step in this direction (y grows downward).
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case Top:
		return 0, -1
	case Right:
		return 1, 0
	case Bottom:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// AllDirections returns all four directions in edge-index order
func AllDirections() []Direction {
	return []Direction{Top, Right, Bottom, Left}
}

// Tile is an immutable catalog entry. Two tiles meant to connect carry the
// same edge code on their facing sides.
type Tile struct {
	ID        int    // Index in the catalog
	Name      string // Source name plus orientation
	EdgeCodes [4]int // top, right, bottom, left
	Rotations int    // Size of the rotation group this tile came from
}

// NewTile creates a tile with the given edge codes
func NewTile(id int, name string, top, right, bottom, left int) *Tile {
	return &Tile{
		ID:        id,
		Name:      name,
		EdgeCodes: [4]int{top, right, bottom, left},
		Rotations: 1,
	}
}

// Edge returns the edge code on the given side
func (t *Tile) Edge(d Direction) int {
	return t.EdgeCodes[d]
}
