package cost

import "sgmstereo/internal/models"

// ShiftedAbsDiff is the absolute intensity difference between the right image
// and the left image shifted d columns to the left.
//
// The shifted image is zero-filled where u+d runs past the right border, so
// the last numDisp-1 columns compare against 0 instead of a real pixel. This
// reproduces shifting the left image one column per disparity step and is the
// reference behaviour of the pipeline.
type ShiftedAbsDiff struct{}

// Compute implements Function
func (ShiftedAbsDiff) Compute(left, right *models.Image, numDisp int) (*models.Volume, error) {
	vol, err := checkInputs(left, right, numDisp)
	if err != nil {
		return nil, err
	}

	w := right.Width
	for v := 0; v < right.Height; v++ {
		row := v * w
		for u := 0; u < w; u++ {
			r := right.Pix[row+u]
			costs := vol.Pixel(v, u)
			for d := range costs {
				var l uint16
				if u+d < w {
					l = left.Pix[row+u+d]
				}
				costs[d] = absDiff(r, l)
			}
		}
	}

	return vol, nil
}

// ClampedAbsDiff is ShiftedAbsDiff with the left image clamped at its right
// border instead of zero-filled: L(v, min(u+d, W-1)).
type ClampedAbsDiff struct{}

// Compute implements Function
func (ClampedAbsDiff) Compute(left, right *models.Image, numDisp int) (*models.Volume, error) {
	vol, err := checkInputs(left, right, numDisp)
	if err != nil {
		return nil, err
	}

	w := right.Width
	for v := 0; v < right.Height; v++ {
		row := v * w
		for u := 0; u < w; u++ {
			r := right.Pix[row+u]
			costs := vol.Pixel(v, u)
			for d := range costs {
				costs[d] = absDiff(r, left.Pix[row+min(u+d, w-1)])
			}
		}
	}

	return vol, nil
}
