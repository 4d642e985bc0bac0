package stereo

import (
	"log/slog"

	"sgmstereo/internal/logging"
	"sgmstereo/internal/models"
)

// Error kinds returned by the matcher, for use with errors.Is
var (
	ErrShapeMismatch         = models.ErrShapeMismatch
	ErrInvalidDirectionCount = models.ErrInvalidDirectionCount
	ErrInvalidDisparityRange = models.ErrInvalidDisparityRange
	ErrWorkerFailure         = models.ErrWorkerFailure
	ErrInvalidPenalty        = models.ErrInvalidPenalty
	ErrUnknownCostFunction   = models.ErrUnknownCostFunction
)

// SetLogger configures the logger used by the matcher and the aggregation
// workers. By default nothing is logged; pass nil to restore that.
//
// Log levels used:
//   - [slog.LevelDebug]: per-direction timings and worker counts
//   - [slog.LevelInfo]: pipeline stages
//   - [slog.LevelWarn]: intermediary results that could not be written
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}
