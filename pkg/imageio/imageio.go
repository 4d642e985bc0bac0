// Package imageio converts between image files and the grayscale grids the
// matcher works on.
package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"slices"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"sgmstereo/internal/models"
)

// Load decodes an image file (png, jpeg, gif, bmp, tiff or webp) and converts
// it to grayscale. 16-bit files keep their full precision.
func Load(path string) (*models.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if img == nil {
		return nil, fmt.Errorf("decoding %s (%s) produced no image", path, format)
	}

	return FromImage(img), nil
}

// FromImage converts any image to grayscale intensities. Sources with a
// 16-bit color model map to [0, 65535], all others to [0, 255].
func FromImage(img image.Image) *models.Image {
	bounds := img.Bounds()
	out := models.NewImage(bounds.Dx(), bounds.Dy())
	wide := is16Bit(img.ColorModel())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var value uint16
			if wide {
				value = color.Gray16Model.Convert(img.At(x, y)).(color.Gray16).Y
			} else {
				value = uint16(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
			}
			out.Set(y-bounds.Min.Y, x-bounds.Min.X, value)
		}
	}

	return out
}

func is16Bit(m color.Model) bool {
	switch m {
	case color.Gray16Model, color.RGBA64Model, color.NRGBA64Model:
		return true
	}
	return false
}

// ToImage converts a grid back to an 8-bit grayscale image. Values above 255
// saturate.
func ToImage(img *models.Image) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	for i, value := range img.Pix {
		out.Pix[i] = uint8(min(value, 255))
	}
	return out
}

// ToImage16 converts a grid to a 16-bit grayscale image without loss
func ToImage16(img *models.Image) *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
	for v := 0; v < img.Height; v++ {
		for u := 0; u < img.Width; u++ {
			out.SetGray16(u, v, color.Gray16{Y: img.At(v, u)})
		}
	}
	return out
}

// Scale resizes a grayscale grid by factor using bilinear interpolation.
// A factor of 1 returns img unchanged. Grids with values above 255 are
// resized at 16-bit precision.
func Scale(img *models.Image, factor float64) (*models.Image, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("scale factor must be positive, got %g", factor)
	}
	if factor == 1 {
		return img, nil
	}

	width := max(1, uint(float64(img.Width)*factor+0.5))
	height := max(1, uint(float64(img.Height)*factor+0.5))

	var src image.Image = ToImage(img)
	if len(img.Pix) > 0 && slices.Max(img.Pix) > 255 {
		src = ToImage16(img)
	}
	resized := resize.Resize(width, height, src, resize.Bilinear)
	return FromImage(resized), nil
}
