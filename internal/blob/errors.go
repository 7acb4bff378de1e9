package blob

import "errors"

var (
	// ErrInvalidDimensions indicates a zero-sized raster or a pixel slice
	// whose length does not equal width×height.
	ErrInvalidDimensions = errors.New("blob: invalid raster dimensions")
	// ErrRegionNotFound indicates a region ID that is absent from the catalog.
	ErrRegionNotFound = errors.New("blob: region not found")
)
