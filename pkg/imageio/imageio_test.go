package imageio

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"sgmstereo/internal/models"
)

// createTestImage creates a grayscale image with a horizontal ramp
func createTestImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x*10 + y)})
		}
	}
	return img
}

// TestLoadPNG verifies a PNG file is decoded into the expected grid
func TestLoadPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "left.png")
	src := createTestImage(8, 5)

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		f.Close()
		t.Fatalf("Failed to encode test image: %v", err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Width != 8 || img.Height != 5 {
		t.Fatalf("Expected 8x5, got %dx%d", img.Width, img.Height)
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 8; x++ {
			if got, expected := img.At(y, x), uint16(x*10+y); got != expected {
				t.Errorf("Pixel (%d,%d) = %d, expected %d", y, x, got, expected)
			}
		}
	}
}

// TestLoadBMP verifies formats registered from golang.org/x/image decode too
func TestLoadBMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "right.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	if err := bmp.Encode(f, createTestImage(6, 4)); err != nil {
		f.Close()
		t.Fatalf("Failed to encode test image: %v", err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Width != 6 || img.Height != 4 {
		t.Errorf("Expected 6x4, got %dx%d", img.Width, img.Height)
	}
	if got := img.At(3, 5); got != 53 {
		t.Errorf("Pixel (3,5) = %d, expected 53", got)
	}
}

// TestLoadErrors verifies missing and undecodable files are reported
func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected an error for a missing file")
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := Load(garbage); err == nil {
		t.Error("Expected an error for an undecodable file")
	}
}

// TestFromImageColor verifies color images are converted to luminance
func TestFromImageColor(t *testing.T) {
	src := image.NewRGBA(image.Rect(2, 3, 4, 5))
	src.Set(2, 3, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	src.Set(3, 4, color.RGBA{A: 255})

	img := FromImage(src)
	if img.Width != 2 || img.Height != 2 {
		t.Fatalf("Expected 2x2, got %dx%d", img.Width, img.Height)
	}
	if got := img.At(0, 0); got != 255 {
		t.Errorf("White pixel converted to %d", got)
	}
	if got := img.At(1, 1); got != 0 {
		t.Errorf("Black pixel converted to %d", got)
	}
}

// TestFromImage16 verifies 16-bit sources keep their full precision
func TestFromImage16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 2, 1))
	src.SetGray16(0, 0, color.Gray16{Y: 1000})
	src.SetGray16(1, 0, color.Gray16{Y: 1100})

	img := FromImage(src)
	if img.At(0, 0) != 1000 || img.At(0, 1) != 1100 {
		t.Errorf("Expected [1000 1100], got %v", img.Pix)
	}
}

// TestLoadPNG16 verifies 16-bit PNG files are not reduced to 8 bits
func TestLoadPNG16(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep.png")
	src := image.NewGray16(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			src.SetGray16(x, y, color.Gray16{Y: uint16(1000 + 300*x + y)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		f.Close()
		t.Fatalf("Failed to encode test image: %v", err)
	}
	f.Close()

	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got, expected := img.At(y, x), uint16(1000+300*x+y); got != expected {
				t.Errorf("Pixel (%d,%d) = %d, expected %d", y, x, got, expected)
			}
		}
	}
}

// TestScale16 verifies resizing keeps values above 255
func TestScale16(t *testing.T) {
	img := models.NewImage(8, 6)
	for i := range img.Pix {
		img.Pix[i] = 1000
	}

	half, err := Scale(img, 0.5)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if half.Width != 4 || half.Height != 3 {
		t.Fatalf("Expected 4x3, got %dx%d", half.Width, half.Height)
	}
	for i, value := range half.Pix {
		if value != 1000 {
			t.Fatalf("Pixel %d = %d, expected 1000", i, value)
		}
	}
}

// TestScale verifies resizing and the identity factor
func TestScale(t *testing.T) {
	img := FromImage(createTestImage(16, 10))

	same, err := Scale(img, 1)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if same != img {
		t.Error("Scale(1) should return the input unchanged")
	}

	half, err := Scale(img, 0.5)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if half.Width != 8 || half.Height != 5 {
		t.Errorf("Expected 8x5, got %dx%d", half.Width, half.Height)
	}

	if _, err := Scale(img, 0); err == nil {
		t.Error("Expected an error for a zero scale factor")
	}
}

// TestToImage verifies saturation above 255
func TestToImage(t *testing.T) {
	img := models.NewImage(2, 1)
	img.Set(0, 0, 12)
	img.Set(0, 1, 999)

	out := ToImage(img)
	if out.GrayAt(0, 0).Y != 12 || out.GrayAt(1, 0).Y != 255 {
		t.Errorf("Unexpected conversion: %v", out.Pix)
	}
}
