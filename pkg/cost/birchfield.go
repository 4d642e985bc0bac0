package cost

import "sgmstereo/internal/models"

// BirchfieldTomasi is the sampling-insensitive dissimilarity of Birchfield and
// Tomasi. Each pixel is compared against the linearly interpolated intensity
// range spanned by its counterpart and the half-pixel points on either side,
// which removes most of the cost caused by sub-pixel sampling offsets.
// Rows are clamped at the image border.
type BirchfieldTomasi struct{}

// Compute implements Function
func (BirchfieldTomasi) Compute(left, right *models.Image, numDisp int) (*models.Volume, error) {
	vol, err := checkInputs(left, right, numDisp)
	if err != nil {
		return nil, err
	}

	w := right.Width
	rMin := make([]float64, w)
	rMax := make([]float64, w)
	lMin := make([]float64, w)
	lMax := make([]float64, w)

	for v := 0; v < right.Height; v++ {
		rowR := right.Pix[v*w : (v+1)*w]
		rowL := left.Pix[v*w : (v+1)*w]
		halfPixelRange(rowR, rMin, rMax)
		halfPixelRange(rowL, lMin, lMax)

		for u := 0; u < w; u++ {
			r := float64(rowR[u])
			costs := vol.Pixel(v, u)
			for d := range costs {
				y := min(u+d, w-1)
				l := float64(rowL[y])

				dRL := max(0, r-lMax[y], lMin[y]-r)
				dLR := max(0, l-rMax[u], rMin[u]-l)
				costs[d] = min(dRL, dLR)
			}
		}
	}

	return vol, nil
}

// halfPixelRange fills lo/hi with the min and max of each sample and the
// interpolated values half a pixel to its left and right
func halfPixelRange(row []uint16, lo, hi []float64) {
	n := len(row)
	for x := 0; x < n; x++ {
		c := float64(row[x])
		minus := (c + float64(row[max(x-1, 0)])) / 2
		plus := (c + float64(row[min(x+1, n-1)])) / 2
		lo[x] = min(c, minus, plus)
		hi[x] = max(c, minus, plus)
	}
}
