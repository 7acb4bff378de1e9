package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/spot-tools-mcp/internal/blob"
)

// Region is a rectangle in source-image pixel coordinates. (X1, Y1) is
// inclusive and (X2, Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// ThresholdOptions controls how a frame is reduced to a binary mask.
type ThresholdOptions struct {
	// Level is the grey value at or above which a pixel is foreground.
	// 0 selects a level automatically with Otsu's method.
	Level uint8

	// Invert makes dark features foreground, for drops and flies imaged
	// against a bright backlight.
	Invert bool

	// BlurSigma applies a Gaussian blur before thresholding. 0 disables.
	BlurSigma float64

	// ROI restricts processing to one well or plate area. Nil means the
	// whole frame.
	ROI *Region
}

// Binarized is a thresholded frame.
type Binarized struct {
	// Mask holds 255 for foreground and 0 for background. Its bounds start
	// at (0, 0).
	Mask *image.Gray

	// Gray is the pre-threshold grey image, inverted when requested. It
	// shares Mask's geometry.
	Gray *image.Gray

	// Level is the threshold that was applied.
	Level uint8

	// Offset maps mask coordinates back to the source frame.
	Offset image.Point
}

// Binarize crops, smooths and thresholds img.
//
// # Pipeline
//
//  1. Crop to ROI (if set); the ROI must lie inside the frame
//  2. Gaussian blur with BlurSigma (if > 0)
//  3. Greyscale conversion
//  4. Inversion (if Invert)
//  5. Threshold at Level, or at the Otsu level when Level is 0
func Binarize(img image.Image, opts ThresholdOptions) (*Binarized, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("cannot binarize empty image")
	}
	if opts.BlurSigma < 0 {
		return nil, fmt.Errorf("blur sigma must not be negative, got %g", opts.BlurSigma)
	}

	var src image.Image = img
	offset := bounds.Min
	if opts.ROI != nil {
		roi := opts.ROI.Rect()
		if roi.Empty() {
			return nil, fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
		}
		if !roi.In(bounds) {
			return nil, fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				roi.Min.X, roi.Min.Y, roi.Max.X, roi.Max.Y,
				bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		src = imaging.Crop(img, roi)
		offset = roi.Min
	}

	if opts.BlurSigma > 0 {
		src = imaging.Blur(src, opts.BlurSigma)
	}

	lum := effect.Grayscale(src)
	if opts.Invert {
		lum = effect.Invert(lum)
	}
	gray := toGray(lum)

	level := opts.Level
	if level == 0 {
		level = OtsuLevel(gray)
	}

	return &Binarized{
		Mask:   threshold(gray, level),
		Gray:   gray,
		Level:  level,
		Offset: offset,
	}, nil
}

// threshold sets pixels at or above level to 255 and the rest to 0.
func threshold(gray *image.Gray, level uint8) *image.Gray {
	out := image.NewGray(gray.Rect)
	for i, v := range gray.Pix {
		if v >= level {
			out.Pix[i] = 0xFF
		}
	}
	return out
}

// OtsuLevel picks the threshold that maximises the between-class variance of
// the grey histogram. The returned level is the first grey value of the
// bright class, so it can be passed straight to Binarize.
func OtsuLevel(gray *image.Gray) uint8 {
	var hist [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	total := b.Dx() * b.Dy()
	sumAll := 0.0
	for v, n := range hist {
		sumAll += float64(v * n)
	}

	var (
		best     float64
		split    int
		weightBg int
		sumBg    float64
	)
	for t := 0; t < 255; t++ {
		weightBg += hist[t]
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(t * hist[t])
		meanBg := sumBg / float64(weightBg)
		meanFg := (sumAll - sumBg) / float64(weightFg)
		between := float64(weightBg) * float64(weightFg) * (meanBg - meanFg) * (meanBg - meanFg)
		if between > best {
			best = between
			split = t
		}
	}
	return uint8(split + 1)
}

// ToRaster converts a thresholded mask to an engine raster, keeping the grey
// value of each pixel as its intensity.
func ToRaster(gray *image.Gray) (*blob.Raster, error) {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", blob.ErrInvalidDimensions, w, h)
	}
	pix := make([]int32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix[y*w+x] = int32(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return blob.NewRaster(w, h, pix)
}

// toGray copies the red channel of a greyscale RGBA image into an
// *image.Gray whose bounds start at (0, 0).
func toGray(src *image.RGBA) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = row[x*4]
		}
	}
	return out
}
