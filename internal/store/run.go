package store

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/lawnchairsociety/wfcgen/internal/wfc"
)

// Run status values
const (
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
	StatusStepBudget = "step_budget"
	StatusTimeBudget = "time_budget"
	StatusFailed     = "failed"
)

// Run is one persisted generation run
type Run struct {
	ID         int64
	Catalog    string
	Seed       int64
	Width      int
	Height     int
	Steps      int
	Placements int
	Repairs    int
	Status     string
	Digest     string
	Cells      []int // Tile ID per cell in row-major order, wfc.NoTile where open
	CreatedAt  time.Time
}

// NewRun builds a record from a generator result and the error Run returned
func NewRun(catalog string, result *wfc.Result, runErr error) *Run {
	cells := result.Snapshot.TileIDs()
	return &Run{
		Catalog:    catalog,
		Seed:       result.Seed,
		Width:      result.Snapshot.Width,
		Height:     result.Snapshot.Height,
		Steps:      result.Steps,
		Placements: result.Placements,
		Repairs:    result.Repairs,
		Status:     StatusFor(runErr),
		Digest:     Digest(result.Snapshot.Width, result.Snapshot.Height, cells),
		Cells:      cells,
	}
}

// StatusFor maps a generator error to a run status
func StatusFor(err error) string {
	switch {
	case err == nil:
		return StatusDone
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	case errors.Is(err, wfc.ErrStepBudget):
		return StatusStepBudget
	case errors.Is(err, wfc.ErrTimeBudget):
		return StatusTimeBudget
	default:
		return StatusFailed
	}
}

// Digest is the hex BLAKE2b-256 of the grid size and cell tile IDs. Two runs
// with the same digest produced the same grid.
func Digest(width, height int, cells []int) string {
	buf := make([]byte, 0, 8*(len(cells)+2))
	buf = binary.BigEndian.AppendUint64(buf, uint64(width))
	buf = binary.BigEndian.AppendUint64(buf, uint64(height))
	for _, id := range cells {
		buf = binary.BigEndian.AppendUint64(buf, uint64(int64(id)))
	}
	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

// encodeCells stores tile IDs as a comma-separated list
func encodeCells(cells []int) string {
	parts := make([]string, len(cells))
	for i, id := range cells {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func decodeCells(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	cells := make([]int, len(parts))
	for i, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		cells[i] = id
	}
	return cells, nil
}
