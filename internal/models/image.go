package models

import "fmt"

// Image represents a single grayscale image of a stereo pair
type Image struct {
	// Width and Height are the dimensions of the image in pixels
	Width, Height int

	// Pix holds the intensity samples in row-major order
	Pix []uint16
}

// NewImage allocates a zero-filled image with the given dimensions
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]uint16, width*height),
	}
}

// At returns the intensity at row v, column u
func (img *Image) At(v, u int) uint16 {
	return img.Pix[v*img.Width+u]
}

// Set stores the intensity at row v, column u
func (img *Image) Set(v, u int, value uint16) {
	img.Pix[v*img.Width+u] = value
}

// SameShape reports whether both images have identical dimensions
func (img *Image) SameShape(other *Image) bool {
	return img.Width == other.Width && img.Height == other.Height
}

// CheckPair verifies that a left/right pair can be matched against each other
func CheckPair(left, right *Image) error {
	if left == nil || right == nil {
		return fmt.Errorf("%w: missing image", ErrShapeMismatch)
	}
	if !left.SameShape(right) {
		return fmt.Errorf("%w: left is %dx%d, right is %dx%d",
			ErrShapeMismatch, left.Width, left.Height, right.Width, right.Height)
	}
	if len(left.Pix) != left.Width*left.Height || len(right.Pix) != right.Width*right.Height {
		return fmt.Errorf("%w: pixel buffer does not match dimensions", ErrShapeMismatch)
	}
	return nil
}

// DisparityRange is the inclusive interval of candidate disparities
type DisparityRange struct {
	Min int
	Max int
}

// NumDisp returns the number of candidate disparities in the range
func (r DisparityRange) NumDisp() int {
	return r.Max - r.Min + 1
}

// Validate checks that the range holds at least one disparity and that the
// disparity count fits in an int
func (r DisparityRange) Validate() error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: min %d is greater than max %d", ErrInvalidDisparityRange, r.Min, r.Max)
	}
	if r.NumDisp() < 1 {
		return fmt.Errorf("%w: range %s is too wide", ErrInvalidDisparityRange, r)
	}
	return nil
}

// String formats the range as "min..max"
func (r DisparityRange) String() string {
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}
