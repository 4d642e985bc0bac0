// Package stereo runs Semi-Global Matching on a rectified stereo pair.
//
// The pipeline consists of five steps:
//  1. Validating the pair, the direction count, the disparity range and the penalties
//  2. Building the matching cost volume with the configured cost function
//  3. Generating the scan paths for every direction
//  4. Aggregating costs along each direction, sequentially or concurrently
//  5. Summing the directions and picking the cheapest disparity per pixel
//
// The disparity map is expressed in the right image's frame: index d at
// (v,u) means R(v,u) matched L(v,u+Min+d).
package stereo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sgmstereo/internal/logging"
	"sgmstereo/internal/models"
	"sgmstereo/pkg/aggregation"
	"sgmstereo/pkg/config"
	"sgmstereo/pkg/cost"
	"sgmstereo/pkg/imageio"
	"sgmstereo/pkg/paths"
	"sgmstereo/pkg/visualization"
)

// Params holds the matching parameters
type Params struct {
	// LeftPath and RightPath are the input image files used by Process
	LeftPath  string
	RightPath string

	// OutputFile is where Process writes the disparity map image
	OutputFile string

	// Range is the inclusive interval of candidate disparities
	Range models.DisparityRange

	// Directions is the number of aggregation directions: 1, 2, 4, 8 or 16
	Directions int

	// P1 and P2 are the small and large smoothness penalties
	P1 float64
	P2 float64

	// CostFunction names the matching cost (see cost.Names)
	CostFunction string

	// NeighborMode selects clamping or wrap-around at the disparity range ends
	NeighborMode aggregation.NeighborMode

	// NumCores caps how many directions are aggregated at the same time
	NumCores int

	// Sequential aggregates one direction at a time
	Sequential bool

	// Scale resizes both inputs before matching; 0 or 1 keeps them as loaded.
	// Negative values are rejected.
	Scale float64

	// SaveIntermediaryResults writes cost slices and per-direction maps
	// to IntermediaryDir
	SaveIntermediaryResults bool
	IntermediaryDir         string

	// Format is the output image format: png or jpeg
	Format string
}

// ParamsFromConfig builds matcher parameters from a loaded configuration
func ParamsFromConfig(cfg *config.Config) (*Params, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, err := aggregation.ParseNeighborMode(cfg.Matching.NeighborMode)
	if err != nil {
		return nil, err
	}

	return &Params{
		Range:                   cfg.DisparityRange(),
		Directions:              cfg.Matching.Directions,
		P1:                      cfg.Matching.P1,
		P2:                      cfg.Matching.P2,
		CostFunction:            cfg.Matching.CostFunction,
		NeighborMode:            mode,
		NumCores:                cfg.Processing.NumCores,
		Sequential:              cfg.Processing.Sequential,
		Scale:                   cfg.Processing.Scale,
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
		IntermediaryDir:         cfg.Output.IntermediaryDir,
		Format:                  cfg.Output.Format,
	}, nil
}

// Matcher computes disparity maps with Semi-Global Matching
type Matcher struct {
	// params stores the matching configuration
	params *Params

	// costVolume is the matching cost of every pixel and disparity
	costVolume *models.Volume

	// aggregated holds one Lr volume per direction, in direction order
	aggregated []*models.Volume

	// pathSets holds the directions matching aggregated
	pathSets []paths.PathSet

	// disparity is the final result
	disparity *models.DisparityMap

	// metrics stores the quality measures after matching
	metrics Metrics
}

// NewMatcher creates a matcher with the provided parameters
func NewMatcher(params *Params) *Matcher {
	return &Matcher{params: params}
}

// Process runs the complete pipeline on the configured image files and
// writes the disparity map to OutputFile
func (m *Matcher) Process() error {
	log := logging.Logger()

	if m.params.Scale < 0 {
		return fmt.Errorf("scale factor must not be negative, got %g", m.params.Scale)
	}

	log.Info("loading stereo pair", "left", m.params.LeftPath, "right", m.params.RightPath)
	left, err := imageio.Load(m.params.LeftPath)
	if err != nil {
		return fmt.Errorf("failed to load left image: %w", err)
	}
	right, err := imageio.Load(m.params.RightPath)
	if err != nil {
		return fmt.Errorf("failed to load right image: %w", err)
	}

	if m.params.Scale > 0 && m.params.Scale != 1 {
		// Resizing mismatched inputs could make them equal; check before.
		if err := models.CheckPair(left, right); err != nil {
			return err
		}
		if left, err = imageio.Scale(left, m.params.Scale); err != nil {
			return err
		}
		if right, err = imageio.Scale(right, m.params.Scale); err != nil {
			return err
		}
	}

	dm, err := m.Compute(left, right)
	if err != nil {
		return err
	}

	if m.params.OutputFile != "" {
		log.Info("saving disparity map", "file", m.params.OutputFile)
		if err := visualization.NewViewer(m.params.Format).SaveDisparityMap(dm, m.params.OutputFile); err != nil {
			return fmt.Errorf("failed to save disparity map: %w", err)
		}
	}

	return nil
}

// Compute matches an in-memory pair and returns the disparity map. All
// inputs are validated before any cost-volume work starts.
func (m *Matcher) Compute(left, right *models.Image) (*models.DisparityMap, error) {
	log := logging.Logger()

	// Step 1: validate
	if err := models.CheckPair(left, right); err != nil {
		return nil, err
	}
	if _, err := paths.Directions(m.params.Directions); err != nil {
		return nil, err
	}
	if err := m.params.Range.Validate(); err != nil {
		return nil, err
	}
	penalties := aggregation.Penalties{P1: m.params.P1, P2: m.params.P2, Neighbors: m.params.NeighborMode}
	if err := penalties.Validate(); err != nil {
		return nil, err
	}
	costFn, err := cost.Lookup(m.params.CostFunction)
	if err != nil {
		return nil, err
	}

	m.metrics = Metrics{}
	numDisp := m.params.Range.NumDisp()
	log.Info("matching", "width", right.Width, "height", right.Height,
		"disparities", m.params.Range.String(), "directions", m.params.Directions)

	// Step 2: cost volume
	start := time.Now()
	m.costVolume, err = costFn.Compute(left, right, numDisp)
	if err != nil {
		return nil, fmt.Errorf("failed to build cost volume: %w", err)
	}
	m.metrics.CostVolumeTime = time.Since(start)

	// Step 3: paths
	m.pathSets, err = paths.Generate(right.Height, right.Width, m.params.Directions)
	if err != nil {
		return nil, err
	}

	// Step 4: aggregation
	start = time.Now()
	scheduler := aggregation.Scheduler{Workers: m.params.NumCores, Sequential: m.params.Sequential}
	m.aggregated, err = scheduler.Run(m.pathSets, m.costVolume, penalties)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate costs: %w", err)
	}
	m.metrics.AggregationTime = time.Since(start)

	// Step 5: reduction
	start = time.Now()
	sum, err := aggregation.Sum(m.aggregated)
	if err != nil {
		return nil, fmt.Errorf("failed to sum directions: %w", err)
	}
	m.disparity, err = aggregation.WinnerTakeAll(sum, m.params.Range)
	if err != nil {
		return nil, err
	}
	m.metrics.ReductionTime = time.Since(start)

	m.calculateMetrics(sum)

	if m.params.SaveIntermediaryResults {
		m.saveIntermediaryResults()
	}

	return m.disparity, nil
}

// GetMetrics returns the quality measures of the last run
func (m *Matcher) GetMetrics() Metrics {
	return m.metrics
}

// DisparityMap returns the result of the last run, or nil
func (m *Matcher) DisparityMap() *models.DisparityMap {
	return m.disparity
}

// CostVolume returns the matching cost volume of the last run, or nil
func (m *Matcher) CostVolume() *models.Volume {
	return m.costVolume
}

// saveIntermediaryResults writes the cost planes and the winner-take-all map
// of every single direction. Failures are logged, not returned.
func (m *Matcher) saveIntermediaryResults() {
	log := logging.Logger()
	viewer := visualization.NewViewer(m.params.Format)

	costDir := filepath.Join(m.params.IntermediaryDir, "01_cost_volume")
	log.Info("saving cost volume slices", "dir", costDir)
	if err := viewer.SaveSliceSequence(m.costVolume, costDir); err != nil {
		log.Warn("failed to save cost volume slices", "err", err)
	}

	dirDir := filepath.Join(m.params.IntermediaryDir, "02_directions")
	if err := os.MkdirAll(dirDir, 0755); err != nil {
		log.Warn("failed to create directions directory", "err", err)
		return
	}
	for i, lr := range m.aggregated {
		dm, err := aggregation.WinnerTakeAll(lr, m.params.Range)
		if err != nil {
			log.Warn("failed to reduce direction", "direction", m.pathSets[i].Direction.String(), "err", err)
			continue
		}
		d := m.pathSets[i].Direction
		name := filepath.Join(dirDir, fmt.Sprintf("direction_%02d_%d_%d%s", i, d.DX, d.DY, viewer.Extension()))
		if err := viewer.SaveDisparityMap(dm, name); err != nil {
			log.Warn("failed to save direction map", "file", name, "err", err)
		}
	}

	name := filepath.Join(m.params.IntermediaryDir, "03_disparity"+viewer.Extension())
	if err := viewer.SaveDisparityMap(m.disparity, name); err != nil {
		log.Warn("failed to save disparity map", "file", name, "err", err)
	}
}
