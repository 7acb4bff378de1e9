package blob

import (
	"fmt"
	"math"
)

// Raster is a read-only view of a binary image. Pixels are stored row-major;
// values greater than zero are foreground.
//
// The engine never writes to the pixel slice. The slice is not copied, so the
// caller must leave it untouched while the raster is in use.
type Raster struct {
	width, height int
	pix           []int32
}

// NewRaster validates the dimensions and wraps pixels as a Raster.
//
// Returns ErrInvalidDimensions if width or height is not positive or if
// len(pixels) != width*height, including when width*height does not fit in
// an int. Validation happens before any allocation.
func NewRaster(width, height int, pixels []int32) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > math.MaxInt/height {
		return nil, fmt.Errorf("%w: %dx%d overflows the pixel count", ErrInvalidDimensions, width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: got %d pixels for %dx%d, want %d",
			ErrInvalidDimensions, len(pixels), width, height, width*height)
	}
	return &Raster{width: width, height: height, pix: pixels}, nil
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.width }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.height }

// At returns the raw pixel value at (x, y). No bounds checking is performed.
func (r *Raster) At(x, y int) int32 {
	return r.pix[y*r.width+x]
}

// Foreground reports whether the pixel at (x, y) is foreground.
func (r *Raster) Foreground(x, y int) bool {
	return r.pix[y*r.width+x] > 0
}
