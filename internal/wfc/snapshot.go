package wfc

// NoTile marks an uncollapsed cell in a snapshot
const NoTile = -1

// CellState is the read-only view of one cell
type CellState struct {
	Collapsed bool `json:"collapsed"`
	TileID    int  `json:"tile"`
	Entropy   int  `json:"entropy"`
}

// Snapshot is an immutable copy of the grid taken between steps.
// Version increases with every step that changed the grid.
type Snapshot struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Version    uint64      `json:"version"`
	State      State       `json:"state"`
	Placements int         `json:"placements"`
	Repairs    int         `json:"repairs"`
	Cells      []CellState `json:"cells"`
}

// Snapshot copies the grid under the engine lock
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	cells := e.grid.Cells()
	snap := Snapshot{
		Width:      e.grid.Width,
		Height:     e.grid.Height,
		Version:    e.version,
		State:      e.state,
		Placements: e.placements,
		Repairs:    e.repairs,
		Cells:      make([]CellState, len(cells)),
	}
	for i, c := range cells {
		cs := CellState{Collapsed: c.Collapsed, TileID: NoTile, Entropy: c.Entropy}
		if c.Tile != nil {
			cs.TileID = c.Tile.ID
		}
		snap.Cells[i] = cs
	}
	return snap
}

// At returns the state of the cell at (x, y)
func (s Snapshot) At(x, y int) CellState {
	return s.Cells[y*s.Width+x]
}

// Done reports whether the snapshot was taken after the grid fully collapsed
func (s Snapshot) Done() bool {
	return s.State == Done
}

// TileIDs returns the tile of every cell in row-major order, NoTile where open
func (s Snapshot) TileIDs() []int {
	ids := make([]int, len(s.Cells))
	for i, c := range s.Cells {
		ids[i] = c.TileID
	}
	return ids
}

// Progress returns the fraction of collapsed cells
func (s Snapshot) Progress() float64 {
	if len(s.Cells) == 0 {
		return 0
	}
	collapsed := 0
	for _, c := range s.Cells {
		if c.Collapsed {
			collapsed++
		}
	}
	return float64(collapsed) / float64(len(s.Cells))
}
