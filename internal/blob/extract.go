package blob

// Extract validates the input, labels it, and returns the region catalog.
//
// pixels is row-major with len(pixels) == width*height; values > 0 are
// foreground. Invalid dimensions return ErrInvalidDimensions before any
// buffer is allocated. A raster without foreground yields an empty catalog,
// not an error.
func Extract(width, height int, pixels []int32, opts Options) (*Catalog, error) {
	r, err := NewRaster(width, height, pixels)
	if err != nil {
		return nil, err
	}
	return ExtractRaster(r, opts), nil
}

// ExtractRaster labels an already validated raster and returns its catalog.
func ExtractRaster(r *Raster, opts Options) *Catalog {
	grid, _ := Label(r)
	return NewCatalog(grid, opts)
}
