package models

import "fmt"

// Volume is a dense (height, width, disparity) array of costs. It is used for
// the matching cost volume, for every per-direction aggregated volume and for
// their sum.
type Volume struct {
	// Data holds the costs with the disparity axis innermost, so the costs of
	// one pixel are contiguous: index = (v*Width+u)*Depth + d
	Data []float64

	// Height, Width are the image dimensions; Depth is the number of disparities
	Height, Width, Depth int
}

// NewVolume allocates a zero-filled volume
func NewVolume(height, width, depth int) *Volume {
	return &Volume{
		Data:   make([]float64, height*width*depth),
		Height: height,
		Width:  width,
		Depth:  depth,
	}
}

// Index returns the offset of (v, u, d) in Data
func (vol *Volume) Index(v, u, d int) int {
	return (v*vol.Width+u)*vol.Depth + d
}

// At returns the cost at row v, column u, disparity index d
func (vol *Volume) At(v, u, d int) float64 {
	return vol.Data[vol.Index(v, u, d)]
}

// Pixel returns the disparity vector of a pixel. The slice aliases Data.
func (vol *Volume) Pixel(v, u int) []float64 {
	start := (v*vol.Width + u) * vol.Depth
	return vol.Data[start : start+vol.Depth : start+vol.Depth]
}

// SameShape reports whether both volumes have identical dimensions
func (vol *Volume) SameShape(other *Volume) bool {
	return vol.Height == other.Height && vol.Width == other.Width && vol.Depth == other.Depth
}

// CheckShape returns ErrShapeMismatch when other differs from vol
func (vol *Volume) CheckShape(other *Volume) error {
	if other == nil || !vol.SameShape(other) {
		return fmt.Errorf("%w: expected volume %s", ErrShapeMismatch, vol.shapeString())
	}
	return nil
}

// Clone returns a deep copy of the volume
func (vol *Volume) Clone() *Volume {
	out := &Volume{
		Data:   make([]float64, len(vol.Data)),
		Height: vol.Height,
		Width:  vol.Width,
		Depth:  vol.Depth,
	}
	copy(out.Data, vol.Data)
	return out
}

// DisparitySlice extracts the (height, width) plane at disparity index d in
// row-major order
func (vol *Volume) DisparitySlice(d int) []float64 {
	plane := make([]float64, vol.Height*vol.Width)
	for i := range plane {
		plane[i] = vol.Data[i*vol.Depth+d]
	}
	return plane
}

func (vol *Volume) shapeString() string {
	return fmt.Sprintf("%dx%dx%d", vol.Height, vol.Width, vol.Depth)
}

// DisparityMap is the per-pixel result of matching: the winning index into
// the disparity axis for each pixel
type DisparityMap struct {
	// Width and Height are the dimensions of the map
	Width, Height int

	// Index holds the winning disparity indices in row-major order.
	// Every value lies in [0, Range.NumDisp()).
	Index []int

	// Range maps an index d to the actual disparity Range.Min + d
	Range DisparityRange
}

// NewDisparityMap allocates a map filled with index 0
func NewDisparityMap(width, height int, rng DisparityRange) *DisparityMap {
	return &DisparityMap{
		Width:  width,
		Height: height,
		Index:  make([]int, width*height),
		Range:  rng,
	}
}

// At returns the disparity index at row v, column u
func (m *DisparityMap) At(v, u int) int {
	return m.Index[v*m.Width+u]
}

// Disparity returns the actual disparity at row v, column u
func (m *DisparityMap) Disparity(v, u int) int {
	return m.Range.Min + m.At(v, u)
}

// Equal reports whether two maps hold the same indices
func (m *DisparityMap) Equal(other *DisparityMap) bool {
	if m.Width != other.Width || m.Height != other.Height || len(m.Index) != len(other.Index) {
		return false
	}
	for i := range m.Index {
		if m.Index[i] != other.Index[i] {
			return false
		}
	}
	return true
}
