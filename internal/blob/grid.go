package blob

// LabelGrid assigns a region identifier to every pixel of a raster.
// Zero means background; positive values are region IDs.
//
// Only the labeller writes to a grid. Everything exported is read-only.
type LabelGrid struct {
	width, height int
	cells         []int
}

func newLabelGrid(width, height int) *LabelGrid {
	return &LabelGrid{
		width:  width,
		height: height,
		cells:  make([]int, width*height),
	}
}

// Width returns the grid width in pixels.
func (g *LabelGrid) Width() int { return g.width }

// Height returns the grid height in pixels.
func (g *LabelGrid) Height() int { return g.height }

// At returns the label at (x, y), or 0 when (x, y) lies outside the grid.
func (g *LabelGrid) At(x, y int) int {
	if !g.InBounds(x, y) {
		return 0
	}
	return g.cells[g.index(x, y)]
}

// InBounds reports whether (x, y) lies within the grid.
func (g *LabelGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Coordinate converts a row-major index back to (x, y).
func (g *LabelGrid) Coordinate(idx int) (x, y int) {
	return idx % g.width, idx / g.width
}

// Clone returns an independent copy of the grid.
func (g *LabelGrid) Clone() *LabelGrid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return &LabelGrid{width: g.width, height: g.height, cells: cells}
}

// Values returns a copy of the labels in row-major order.
func (g *LabelGrid) Values() []int {
	out := make([]int, len(g.cells))
	copy(out, g.cells)
	return out
}

func (g *LabelGrid) index(x, y int) int {
	return y*g.width + x
}
