package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"

	"sgmstereo/internal/models"
)

// Viewer renders cost volumes and disparity maps as grayscale images
type Viewer struct {
	// format is the file format used when saving: "png" or "jpeg"
	format string
}

// NewViewer creates a viewer that saves images in the given format
func NewViewer(format string) *Viewer {
	format = strings.ToLower(format)
	if format == "jpg" {
		format = "jpeg"
	}
	if format == "" {
		format = "png"
	}
	return &Viewer{format: format}
}

// Extension returns the file extension for the viewer's format
func (v *Viewer) Extension() string {
	if v.format == "jpeg" {
		return ".jpg"
	}
	return "." + v.format
}

// DisparityImage rescales a disparity map to the full 8-bit range: index 0
// maps to black and the highest index to white
func (v *Viewer) DisparityImage(dm *models.DisparityMap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, dm.Width, dm.Height))
	top := dm.Range.NumDisp() - 1
	for i, d := range dm.Index {
		if top > 0 {
			img.Pix[i] = uint8(d * 255 / top)
		}
	}
	return img
}

// DisparityImage16 is DisparityImage with 16-bit output, for ranges wider
// than 256 disparities
func (v *Viewer) DisparityImage16(dm *models.DisparityMap) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, dm.Width, dm.Height))
	top := dm.Range.NumDisp() - 1
	for y := 0; y < dm.Height; y++ {
		for x := 0; x < dm.Width; x++ {
			var value uint16
			if top > 0 {
				value = uint16(dm.At(y, x) * 65535 / top)
			}
			img.SetGray16(x, y, color.Gray16{Y: value})
		}
	}
	return img
}

// ExtractSlice extracts the cost plane at disparity index d, normalised so
// that the lowest cost is black and the highest white
func (v *Viewer) ExtractSlice(vol *models.Volume, d int) (image.Image, error) {
	if d < 0 || d >= vol.Depth {
		return nil, fmt.Errorf("disparity index %d outside [0,%d)", d, vol.Depth)
	}

	plane := vol.DisparitySlice(d)
	img := image.NewGray16(image.Rect(0, 0, vol.Width, vol.Height))
	if len(plane) == 0 {
		return img, nil
	}

	lo, hi := floats.Min(plane), floats.Max(plane)
	span := hi - lo
	for i, c := range plane {
		var value uint16
		if span > 0 {
			value = uint16((c - lo) / span * 65535)
		}
		img.SetGray16(i%vol.Width, i/vol.Width, color.Gray16{Y: value})
	}

	return img, nil
}

// SaveImage writes an image in the viewer's format
func (v *Viewer) SaveImage(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch v.format {
	case "png":
		return png.Encode(file, img)
	case "jpeg":
		return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	default:
		return fmt.Errorf("invalid format: %s (must be png or jpeg)", v.format)
	}
}

// SaveDisparityMap writes the disparity map rescaled to 8 bits, or 16 bits
// when the range holds more than 256 disparities and the format allows it
func (v *Viewer) SaveDisparityMap(dm *models.DisparityMap, filename string) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if dm.Range.NumDisp() > 256 && v.format == "png" {
		return v.SaveImage(v.DisparityImage16(dm), filename)
	}
	return v.SaveImage(v.DisparityImage(dm), filename)
}

// SaveSliceSequence extracts and saves every disparity plane of a volume
func (v *Viewer) SaveSliceSequence(vol *models.Volume, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for d := 0; d < vol.Depth; d++ {
		img, err := v.ExtractSlice(vol, d)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_d_%03d%s", d, v.Extension()))
		if err := v.SaveImage(img, filename); err != nil {
			return err
		}
	}

	return nil
}
