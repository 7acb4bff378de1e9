package blob

import (
	"fmt"
	"sort"
)

// Options tunes how a catalog derives its outlines. Connectivity is fixed at
// 4-connectivity and is not configurable.
type Options struct {
	// Boundary selects the outline algorithm. Masks and bounds are exact
	// regardless of this setting.
	Boundary BoundaryMode
}

// DefaultOptions returns Options with Boundary=RowSimple.
func DefaultOptions() Options {
	return Options{Boundary: RowSimple}
}

// Catalog is the set of regions found in one labelled grid.
type Catalog struct {
	grid *LabelGrid
	ids  []int
	opts Options
}

// Region identifies one connected component of a catalog. Its shapes are
// recomputed from the label grid on every call.
type Region struct {
	ID   int `json:"id"`
	grid *LabelGrid
	mode BoundaryMode
}

// Description holds all three shapes of one region.
type Description struct {
	ID       int      `json:"id"`
	Boundary []Vertex `json:"boundary"`
	Mask     Mask     `json:"mask"`
	Bounds   Bounds   `json:"bounds"`
}

// NewCatalog collects the distinct positive labels of grid in ascending
// order. No region is created for label 0.
func NewCatalog(grid *LabelGrid, opts Options) *Catalog {
	seen := make(map[int]struct{})
	for _, l := range grid.cells {
		if l > 0 {
			seen[l] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return &Catalog{grid: grid, ids: ids, opts: opts}
}

// Len returns the number of regions.
func (c *Catalog) Len() int { return len(c.ids) }

// IDs returns the region IDs in ascending order.
func (c *Catalog) IDs() []int {
	out := make([]int, len(c.ids))
	copy(out, c.ids)
	return out
}

// Regions returns every region in ascending ID order.
func (c *Catalog) Regions() []Region {
	out := make([]Region, len(c.ids))
	for i, id := range c.ids {
		out[i] = c.region(id)
	}
	return out
}

// Region returns the region with the given ID, or ErrRegionNotFound.
func (c *Catalog) Region(id int) (Region, error) {
	if !c.has(id) {
		return Region{}, fmt.Errorf("%w: %d", ErrRegionNotFound, id)
	}
	return c.region(id), nil
}

// Boundary returns the outline of region id.
func (c *Catalog) Boundary(id int) ([]Vertex, error) {
	r, err := c.Region(id)
	if err != nil {
		return nil, err
	}
	return r.Boundary(), nil
}

// Mask returns the pixel mask of region id.
func (c *Catalog) Mask(id int) (Mask, error) {
	r, err := c.Region(id)
	if err != nil {
		return Mask{}, err
	}
	return r.Mask(), nil
}

// Bounds returns the bounding box of region id.
func (c *Catalog) Bounds(id int) (Bounds, error) {
	r, err := c.Region(id)
	if err != nil {
		return Bounds{}, err
	}
	return r.Bounds(), nil
}

// Labels returns a copy of the labelled grid.
func (c *Catalog) Labels() *LabelGrid {
	return c.grid.Clone()
}

// Describe builds the boundary, mask and bounds of every region from a
// single scan of the label grid. The result matches the per-region methods
// exactly and is ordered by ascending ID.
func (c *Catalog) Describe() []Description {
	pos := make(map[int]int, len(c.ids))
	out := make([]Description, len(c.ids))
	for i, id := range c.ids {
		pos[id] = i
		out[i].ID = id
	}

	g := c.grid
	for y := 0; y < g.height; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for x := 0; x < g.width; {
			l := row[x]
			if l == 0 {
				x++
				continue
			}
			start := x
			for x < g.width && row[x] == l {
				x++
			}
			d := &out[pos[l]]
			d.Mask.Runs = append(d.Mask.Runs, Run{Y: y, X: start, Length: x - start})
		}
	}

	for i := range out {
		d := &out[i]
		d.Bounds = boundsOfRuns(d.Mask.Runs)
		switch c.opts.Boundary {
		case ContourTrace:
			d.Boundary = traceOutline(g, d.ID, d.Bounds)
		default:
			d.Boundary = rowSimpleOutline(spansOfRuns(d.Mask.Runs))
		}
	}
	return out
}

func (c *Catalog) has(id int) bool {
	i := sort.SearchInts(c.ids, id)
	return i < len(c.ids) && c.ids[i] == id
}

func (c *Catalog) region(id int) Region {
	return Region{ID: id, grid: c.grid, mode: c.opts.Boundary}
}

// Boundary returns the region outline in pixel-centre coordinates. A
// single-pixel region yields exactly one vertex.
func (r Region) Boundary() []Vertex {
	switch r.mode {
	case ContourTrace:
		return traceOutline(r.grid, r.ID, extractBounds(r.grid, r.ID))
	default:
		return rowSimpleOutline(scanRowSpans(r.grid, r.ID))
	}
}

// Mask returns every pixel of the region as horizontal runs.
func (r Region) Mask() Mask {
	return extractMask(r.grid, r.ID)
}

// Bounds returns the tight bounding box of the region.
func (r Region) Bounds() Bounds {
	return extractBounds(r.grid, r.ID)
}
