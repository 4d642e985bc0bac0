package aggregation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"sgmstereo/internal/models"
)

// Sum adds the aggregated volumes elementwise. A single volume is returned
// as-is without copying.
func Sum(volumes []*models.Volume) (*models.Volume, error) {
	if len(volumes) == 0 {
		return nil, errors.New("no volumes to sum")
	}
	if len(volumes) == 1 {
		return volumes[0], nil
	}

	sum := volumes[0].Clone()
	for i, vol := range volumes[1:] {
		if err := sum.CheckShape(vol); err != nil {
			return nil, fmt.Errorf("volume %d: %w", i+1, err)
		}
		floats.Add(sum.Data, vol.Data)
	}
	return sum, nil
}

// Reduce sums the per-direction volumes and picks, for every pixel, the
// disparity index with the lowest summed cost
func Reduce(volumes []*models.Volume, rng models.DisparityRange) (*models.DisparityMap, error) {
	sum, err := Sum(volumes)
	if err != nil {
		return nil, err
	}
	return WinnerTakeAll(sum, rng)
}

// WinnerTakeAll returns the per-pixel argmin of a volume. Ties go to the
// lowest disparity index. No filtering is applied.
func WinnerTakeAll(vol *models.Volume, rng models.DisparityRange) (*models.DisparityMap, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if vol.Depth != rng.NumDisp() {
		return nil, fmt.Errorf("%w: volume has %d disparities, range %s has %d",
			models.ErrShapeMismatch, vol.Depth, rng, rng.NumDisp())
	}

	dm := models.NewDisparityMap(vol.Width, vol.Height, rng)
	for v := 0; v < vol.Height; v++ {
		for u := 0; u < vol.Width; u++ {
			dm.Index[v*vol.Width+u] = floats.MinIdx(vol.Pixel(v, u))
		}
	}
	return dm, nil
}
