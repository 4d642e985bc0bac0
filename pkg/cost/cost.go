// Package cost builds matching cost volumes from a rectified stereo pair.
//
// A cost volume holds, for every pixel of the right image and every candidate
// disparity d, the dissimilarity between R(v,u) and L(v,u+d). The aggregation
// stage only depends on the Function interface, so cost metrics can be
// swapped without touching it.
package cost

import (
	"fmt"
	"sort"

	"sgmstereo/internal/models"
)

// Function computes a cost volume of shape (H, W, numDisp) for a stereo pair
type Function interface {
	Compute(left, right *models.Image, numDisp int) (*models.Volume, error)
}

// Default is the name of the cost function used when none is configured
const Default = "absdiff"

var registry = map[string]Function{
	"absdiff": ShiftedAbsDiff{},
	"clamped": ClampedAbsDiff{},
	"bt":      BirchfieldTomasi{},
}

// Lookup returns the cost function registered under name
func Lookup(name string) (Function, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", models.ErrUnknownCostFunction, name, Names())
	}
	return fn, nil
}

// Names lists the registered cost function names in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkInputs validates the pair and the disparity count and allocates the
// output volume
func checkInputs(left, right *models.Image, numDisp int) (*models.Volume, error) {
	if err := models.CheckPair(left, right); err != nil {
		return nil, err
	}
	if numDisp < 1 {
		return nil, fmt.Errorf("%w: need at least one disparity, got %d", models.ErrInvalidDisparityRange, numDisp)
	}
	return models.NewVolume(right.Height, right.Width, numDisp), nil
}

func absDiff(a, b uint16) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}
