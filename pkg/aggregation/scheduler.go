package aggregation

import (
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"sgmstereo/internal/logging"
	"sgmstereo/internal/models"
	"sgmstereo/pkg/paths"
)

// Scheduler runs Aggregate once per direction. Directions share nothing but
// the read-only cost volume, so they can run concurrently; each result is
// owned by the direction that produced it until Run returns.
type Scheduler struct {
	// Workers caps the number of directions computed at the same time.
	// Zero or negative means GOMAXPROCS.
	Workers int

	// Sequential runs the directions one at a time in order
	Sequential bool
}

// Run aggregates every path set over c and returns the Lr volumes in the
// same order as sets. Sequential and concurrent runs produce identical
// volumes. If any direction fails the whole run fails and no volumes are
// returned; in concurrent mode the error wraps models.ErrWorkerFailure.
func (s Scheduler) Run(sets []paths.PathSet, c *models.Volume, pen Penalties) ([]*models.Volume, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: no directions to aggregate", models.ErrInvalidDirectionCount)
	}

	results := make([]*models.Volume, len(sets))

	if s.Sequential {
		for i, ps := range sets {
			lr, err := runDirection(ps, c, pen)
			if err != nil {
				return nil, err
			}
			results[i] = lr
		}
		return results, nil
	}

	workers := s.workerCount(len(sets))
	logging.Logger().Debug("aggregating directions concurrently",
		"directions", len(sets), "workers", workers)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, ps := range sets {
		g.Go(func() error {
			lr, err := runDirection(ps, c, pen)
			if err != nil {
				return err
			}
			results[i] = lr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrWorkerFailure, err)
	}

	return results, nil
}

// workerCount sizes the pool to min(available workers, directions)
func (s Scheduler) workerCount(directions int) int {
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return max(1, min(workers, directions))
}

// runDirection aggregates one direction, turning a panic (for example an
// allocation failure) into an error
func runDirection(ps paths.PathSet, c *models.Volume, pen Penalties) (lr *models.Volume, err error) {
	defer func() {
		if r := recover(); r != nil {
			lr = nil
			err = fmt.Errorf("direction %v: panic: %v", ps.Direction, r)
		}
	}()

	start := time.Now()
	lr, err = Aggregate(ps, c, pen)
	if err != nil {
		return nil, fmt.Errorf("direction %v: %w", ps.Direction, err)
	}
	logging.Logger().Debug("direction aggregated",
		"direction", ps.Direction.String(), "paths", len(ps.Starts), "elapsed", time.Since(start))
	return lr, nil
}
