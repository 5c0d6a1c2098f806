package store

import (
	"fmt"

	"github.com/lawnchairsociety/wfcgen/internal/logger"
)

// CopyResult counts what CopyRuns did
type CopyResult struct {
	Copied  int
	Skipped int // Already present in the destination
}

// CopyRuns copies every run from src into dst, oldest first, keeping creation
// times. A run is skipped when dst already holds one with the same digest and
// seed. With dryRun nothing is written.
func CopyRuns(src, dst *Store, dryRun bool) (CopyResult, error) {
	var res CopyResult

	runs, err := src.ListRuns(0)
	if err != nil {
		return res, err
	}

	// ListRuns is newest first
	for i := len(runs) - 1; i >= 0; i-- {
		r := runs[i]

		existing, err := dst.FindByDigest(r.Digest)
		if err != nil {
			return res, err
		}
		if containsSeed(existing, r.Seed) {
			res.Skipped++
			continue
		}

		if !dryRun {
			srcID := r.ID
			if err := dst.insert(r, true); err != nil {
				return res, fmt.Errorf("failed to copy run %d: %w", srcID, err)
			}
			logger.Debug("Run copied", "source_id", srcID, "id", r.ID)
		}
		res.Copied++
	}
	return res, nil
}

func containsSeed(runs []*Run, seed int64) bool {
	for _, r := range runs {
		if r.Seed == seed {
			return true
		}
	}
	return false
}
