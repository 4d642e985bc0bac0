package models

import "errors"

// Error kinds reported by the matching pipeline. Callers test for them with
// errors.Is; the returned errors wrap these with the failing detail.
var (
	// ErrShapeMismatch means two images or volumes do not share dimensions.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidDirectionCount means the direction count is not 1, 2, 4, 8 or 16.
	ErrInvalidDirectionCount = errors.New("invalid direction count")

	// ErrInvalidDisparityRange means min > max or fewer than one disparity.
	ErrInvalidDisparityRange = errors.New("invalid disparity range")

	// ErrWorkerFailure means one of the concurrent direction computations failed.
	ErrWorkerFailure = errors.New("worker failure")

	// ErrInvalidPenalty means P1 or P2 is negative.
	ErrInvalidPenalty = errors.New("invalid penalty")

	// ErrUnknownCostFunction means no cost function is registered under the name.
	ErrUnknownCostFunction = errors.New("unknown cost function")
)
