// Package aggregation implements the Semi-Global Matching cost aggregation:
// the per-direction path recurrence, the scheduler that runs one aggregation
// per direction, and the reduction of all directions to a disparity map.
package aggregation

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"sgmstereo/internal/models"
	"sgmstereo/pkg/paths"
)

// NeighborMode selects how the d-1 and d+1 neighbours are chosen at the ends
// of the disparity axis
type NeighborMode int

const (
	// NeighborClamp reuses d itself when d-1 or d+1 falls outside the range
	NeighborClamp NeighborMode = iota

	// NeighborWrap wraps around: d=0 is a neighbour of numDisp-1.
	// Kept for comparison with outputs produced by earlier versions.
	NeighborWrap
)

// String returns the configuration name of the mode
func (m NeighborMode) String() string {
	switch m {
	case NeighborClamp:
		return "clamp"
	case NeighborWrap:
		return "wrap"
	default:
		return fmt.Sprintf("NeighborMode(%d)", int(m))
	}
}

// ParseNeighborMode converts a configuration name into a NeighborMode
func ParseNeighborMode(name string) (NeighborMode, error) {
	switch strings.ToLower(name) {
	case "", "clamp":
		return NeighborClamp, nil
	case "wrap":
		return NeighborWrap, nil
	default:
		return NeighborClamp, fmt.Errorf("unknown neighbor mode %q (must be clamp or wrap)", name)
	}
}

// Penalties holds the smoothness parameters of the recurrence
type Penalties struct {
	// P1 is charged when the disparity changes by one between neighbours
	P1 float64

	// P2 is charged for any larger disparity change
	P2 float64

	// Neighbors controls the d-1/d+1 lookup at the disparity range ends
	Neighbors NeighborMode
}

// Validate checks that both penalties are non-negative
func (p Penalties) Validate() error {
	if p.P1 < 0 || p.P2 < 0 {
		return fmt.Errorf("%w: P1=%g, P2=%g (both must be >= 0)", models.ErrInvalidPenalty, p.P1, p.P2)
	}
	return nil
}

func (p Penalties) neighbors(d, n int) (lo, hi int) {
	if p.Neighbors == NeighborWrap {
		return (d - 1 + n) % n, (d + 1) % n
	}
	return max(d-1, 0), min(d+1, n-1)
}

// Aggregate runs the path recurrence for every path of one direction and
// returns the aggregated cost volume Lr, of the same shape as c.
//
// The first pixel of a path takes its matching cost unchanged. Every later
// pixel p with predecessor q gets
//
//	Lr(p,d) = C(p,d) + min(Lr(q,d), Lr(q,d-1)+P1, Lr(q,d+1)+P1, min_k Lr(q,k)+P2) - min_k Lr(q,k)
//
// Subtracting min_k Lr(q,k) keeps values bounded along long paths and,
// because it is one of the minimised terms, keeps them non-negative.
//
// Paths are disjoint and each pixel depends only on its predecessor, so
// walking them one after the other gives the same result as advancing all
// path fronts in lockstep.
func Aggregate(ps paths.PathSet, c *models.Volume, pen Penalties) (*models.Volume, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: missing cost volume", models.ErrShapeMismatch)
	}
	if c.Depth < 1 {
		return nil, fmt.Errorf("%w: cost volume has no disparities", models.ErrInvalidDisparityRange)
	}
	if ps.Direction.IsZero() {
		return nil, fmt.Errorf("%w: zero direction vector", models.ErrInvalidDirectionCount)
	}
	if ps.Width != c.Width || ps.Height != c.Height {
		return nil, fmt.Errorf("%w: paths cover %dx%d, cost volume is %dx%d",
			models.ErrShapeMismatch, ps.Height, ps.Width, c.Height, c.Width)
	}
	if err := pen.Validate(); err != nil {
		return nil, err
	}

	lr := models.NewVolume(c.Height, c.Width, c.Depth)
	for _, start := range ps.Starts {
		ps.Walk(start, func(p, prev paths.Point, first bool) {
			cur := lr.Pixel(p.V, p.U)
			local := c.Pixel(p.V, p.U)
			if first {
				copy(cur, local)
				return
			}
			step(cur, local, lr.Pixel(prev.V, prev.U), pen)
		})
	}

	return lr, nil
}

// step computes the aggregated costs of one pixel from its predecessor's
func step(cur, local, prev []float64, pen Penalties) {
	n := len(prev)
	minPrev := floats.Min(prev)
	jump := minPrev + pen.P2

	for d := 0; d < n; d++ {
		lo, hi := pen.neighbors(d, n)
		best := min(prev[d], prev[lo]+pen.P1, prev[hi]+pen.P1, jump)
		cur[d] = local[d] + best - minPrev
	}
}
