package stereo

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"sgmstereo/internal/models"
)

// Metrics holds summary measures of a disparity map and of the run that
// produced it. None of them need ground truth.
type Metrics struct {
	// MeanDisparity and StdDevDisparity describe the actual disparities
	// (Range.Min + index) over all pixels
	MeanDisparity   float64
	StdDevDisparity float64

	// MeanMatchingCost is the mean local cost C at the chosen disparity.
	// Lower values mean the chosen correspondences look alike.
	MeanMatchingCost float64

	// MeanAggregatedCost is the mean summed cost S at the chosen disparity
	MeanAggregatedCost float64

	// Entropy is the Shannon entropy (nats) of the disparity histogram
	Entropy float64

	// NeighborAgreement is the fraction of horizontally or vertically
	// adjacent pixel pairs that share a disparity index. Values close to 1
	// mean a smooth map.
	NeighborAgreement float64

	// Stage timings
	CostVolumeTime  time.Duration
	AggregationTime time.Duration
	ReductionTime   time.Duration
}

// calculateMetrics fills the map statistics from the final result
func (m *Matcher) calculateMetrics(sum *models.Volume) {
	dm := m.disparity
	n := len(dm.Index)
	if n == 0 {
		return
	}

	disparities := make([]float64, n)
	matching := make([]float64, n)
	aggregated := make([]float64, n)
	for i, d := range dm.Index {
		disparities[i] = float64(dm.Range.Min + d)
		matching[i] = m.costVolume.Data[i*m.costVolume.Depth+d]
		aggregated[i] = sum.Data[i*sum.Depth+d]
	}

	if n > 1 {
		m.metrics.MeanDisparity, m.metrics.StdDevDisparity = stat.MeanStdDev(disparities, nil)
	} else {
		m.metrics.MeanDisparity = disparities[0]
		m.metrics.StdDevDisparity = 0
	}
	m.metrics.MeanMatchingCost = stat.Mean(matching, nil)
	m.metrics.MeanAggregatedCost = stat.Mean(aggregated, nil)
	m.metrics.Entropy = DisparityEntropy(dm)
	m.metrics.NeighborAgreement = NeighborAgreement(dm)
}

// DisparityEntropy returns the Shannon entropy of the disparity histogram
func DisparityEntropy(dm *models.DisparityMap) float64 {
	if len(dm.Index) == 0 {
		return 0
	}
	hist := make([]float64, dm.Range.NumDisp())
	for _, d := range dm.Index {
		hist[d]++
	}
	total := float64(len(dm.Index))
	for i := range hist {
		hist[i] /= total
	}
	return stat.Entropy(hist)
}

// NeighborAgreement returns the fraction of 4-connected neighbour pairs with
// equal disparity index. A map without neighbour pairs counts as fully smooth.
func NeighborAgreement(dm *models.DisparityMap) float64 {
	pairs, equal := 0, 0
	for v := 0; v < dm.Height; v++ {
		for u := 0; u < dm.Width; u++ {
			d := dm.At(v, u)
			if u+1 < dm.Width {
				pairs++
				if dm.At(v, u+1) == d {
					equal++
				}
			}
			if v+1 < dm.Height {
				pairs++
				if dm.At(v+1, u) == d {
					equal++
				}
			}
		}
	}
	if pairs == 0 {
		return 1
	}
	return float64(equal) / float64(pairs)
}
