package cost

import (
	"errors"
	"testing"

	"sgmstereo/internal/models"
)

// createTestImage creates an image filled by the given pattern
func createTestImage(width, height int, pattern func(v, u int) uint16) *models.Image {
	img := models.NewImage(width, height)
	for v := 0; v < height; v++ {
		for u := 0; u < width; u++ {
			img.Set(v, u, pattern(v, u))
		}
	}
	return img
}

func gradient(v, u int) uint16 {
	return uint16(10*u + 3*v + (u*v)%7)
}

// TestShiftedAbsDiff verifies the shifted absolute difference, including the
// zero-filled columns past the right border
func TestShiftedAbsDiff(t *testing.T) {
	left := createTestImage(6, 3, gradient)
	right := createTestImage(6, 3, func(v, u int) uint16 { return gradient(v, u) + 5 })
	numDisp := 4

	vol, err := ShiftedAbsDiff{}.Compute(left, right, numDisp)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	if vol.Height != 3 || vol.Width != 6 || vol.Depth != numDisp {
		t.Fatalf("Expected volume 3x6x%d, got %dx%dx%d", numDisp, vol.Height, vol.Width, vol.Depth)
	}

	for v := 0; v < 3; v++ {
		for u := 0; u < 6; u++ {
			for d := 0; d < numDisp; d++ {
				var l float64
				if u+d < 6 {
					l = float64(left.At(v, u+d))
				}
				expected := float64(right.At(v, u)) - l
				if expected < 0 {
					expected = -expected
				}
				if got := vol.At(v, u, d); got != expected {
					t.Errorf("C[%d,%d,%d] = %f, expected %f", v, u, d, got, expected)
				}
			}
		}
	}
}

// TestShiftedAbsDiffMatchesRepeatedShift checks the indexed computation against
// shifting the left image one column per disparity
func TestShiftedAbsDiffMatchesRepeatedShift(t *testing.T) {
	left := createTestImage(7, 4, gradient)
	right := createTestImage(7, 4, func(v, u int) uint16 { return gradient(v, (u+2)%7) })
	numDisp := 5

	vol, err := ShiftedAbsDiff{}.Compute(left, right, numDisp)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	shifted := make([]uint16, len(left.Pix))
	copy(shifted, left.Pix)
	for d := 0; d < numDisp; d++ {
		if d > 0 {
			for v := 0; v < left.Height; v++ {
				row := shifted[v*left.Width : (v+1)*left.Width]
				copy(row, row[1:])
				row[len(row)-1] = 0
			}
		}
		for i, r := range right.Pix {
			expected := absDiff(r, shifted[i])
			v, u := i/left.Width, i%left.Width
			if got := vol.At(v, u, d); got != expected {
				t.Fatalf("d=%d (%d,%d): got %f, expected %f", d, v, u, got, expected)
			}
		}
	}
}

// TestIdenticalImagesZeroCost verifies C[:,:,0] = 0 when both images are equal
func TestIdenticalImagesZeroCost(t *testing.T) {
	img := createTestImage(5, 5, gradient)

	for _, name := range Names() {
		fn, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) failed: %v", name, err)
		}
		vol, err := fn.Compute(img, img, 3)
		if err != nil {
			t.Fatalf("%s: Compute failed: %v", name, err)
		}
		for v := 0; v < 5; v++ {
			for u := 0; u < 5; u++ {
				if c := vol.At(v, u, 0); c != 0 {
					t.Errorf("%s: C[%d,%d,0] = %f, expected 0", name, v, u, c)
				}
			}
		}
	}
}

// TestNonNegative verifies every registered cost function produces costs >= 0
func TestNonNegative(t *testing.T) {
	left := createTestImage(9, 6, func(v, u int) uint16 { return uint16((u*37 + v*11) % 256) })
	right := createTestImage(9, 6, func(v, u int) uint16 { return uint16((u*53 + v*29) % 256) })

	for _, name := range Names() {
		fn, _ := Lookup(name)
		vol, err := fn.Compute(left, right, 6)
		if err != nil {
			t.Fatalf("%s: Compute failed: %v", name, err)
		}
		for i, c := range vol.Data {
			if c < 0 {
				t.Fatalf("%s: negative cost %f at %d", name, c, i)
			}
		}
	}
}

// TestClampedAbsDiffBorder verifies the border column is reused past the edge
func TestClampedAbsDiffBorder(t *testing.T) {
	left := createTestImage(4, 1, func(v, u int) uint16 { return uint16(100 + u) })
	right := createTestImage(4, 1, func(v, u int) uint16 { return 110 })

	vol, err := ClampedAbsDiff{}.Compute(left, right, 3)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// column 3: every disparity reads L(0,3) = 103
	for d := 0; d < 3; d++ {
		if got := vol.At(0, 3, d); got != 7 {
			t.Errorf("C[0,3,%d] = %f, expected 7", d, got)
		}
	}
	// column 2, d=2 clamps to column 3
	if got := vol.At(0, 2, 2); got != 7 {
		t.Errorf("C[0,2,2] = %f, expected 7", got)
	}
}

// TestBirchfieldTomasiHalfPixel verifies that a half-pixel offset on a linear
// ramp costs nothing, while plain absolute difference does not
func TestBirchfieldTomasiHalfPixel(t *testing.T) {
	left := createTestImage(8, 1, func(v, u int) uint16 { return uint16(20 * u) })
	right := createTestImage(8, 1, func(v, u int) uint16 { return uint16(20*u + 10) })

	bt, err := BirchfieldTomasi{}.Compute(left, right, 2)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	ad, err := ShiftedAbsDiff{}.Compute(left, right, 2)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	for u := 1; u < 6; u++ {
		if got := bt.At(0, u, 0); got != 0 {
			t.Errorf("BT cost at u=%d d=0 is %f, expected 0", u, got)
		}
		if got := ad.At(0, u, 0); got != 10 {
			t.Errorf("absdiff cost at u=%d d=0 is %f, expected 10", u, got)
		}
	}
}

// TestShapeMismatch verifies mismatched images are rejected
func TestShapeMismatch(t *testing.T) {
	left := models.NewImage(4, 4)
	right := models.NewImage(5, 4)

	for _, name := range Names() {
		fn, _ := Lookup(name)
		if _, err := fn.Compute(left, right, 2); !errors.Is(err, models.ErrShapeMismatch) {
			t.Errorf("%s: expected ErrShapeMismatch, got %v", name, err)
		}
	}
}

// TestInvalidDisparityCount verifies numDisp < 1 is rejected
func TestInvalidDisparityCount(t *testing.T) {
	img := models.NewImage(3, 3)
	if _, err := (ShiftedAbsDiff{}).Compute(img, img, 0); !errors.Is(err, models.ErrInvalidDisparityRange) {
		t.Errorf("Expected ErrInvalidDisparityRange, got %v", err)
	}
}

// TestLookup verifies name resolution
func TestLookup(t *testing.T) {
	fn, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup of default failed: %v", err)
	}
	if _, ok := fn.(ShiftedAbsDiff); !ok {
		t.Errorf("Expected default to be ShiftedAbsDiff, got %T", fn)
	}

	if _, err := Lookup("census"); !errors.Is(err, models.ErrUnknownCostFunction) {
		t.Errorf("Expected ErrUnknownCostFunction, got %v", err)
	}
}
