package blob

import (
	"fmt"
	"strings"
)

// BoundaryMode selects how a region outline is derived.
type BoundaryMode int

const (
	// RowSimple takes the leftmost and rightmost pixel of every row. It is
	// exact for regions with one run per row and collapses concavities
	// otherwise.
	RowSimple BoundaryMode = iota
	// ContourTrace follows the outer boundary with Moore-neighbour tracing.
	ContourTrace
)

// String returns the name used in configuration files and tool arguments.
func (m BoundaryMode) String() string {
	switch m {
	case RowSimple:
		return "row-simple"
	case ContourTrace:
		return "contour"
	default:
		return fmt.Sprintf("BoundaryMode(%d)", int(m))
	}
}

// ParseBoundaryMode converts a name produced by String back to a mode.
// The empty string selects RowSimple.
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "row-simple", "rowsimple", "row_simple":
		return RowSimple, nil
	case "contour", "contour-trace", "moore":
		return ContourTrace, nil
	default:
		return RowSimple, fmt.Errorf("blob: unknown boundary mode %q", s)
	}
}

// Vertex is an outline point in pixel-centre coordinates: the pixel at
// (x, y) is drawn at (x+0.5, y+0.5).
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func pixelCentre(x, y int) Vertex {
	return Vertex{X: float64(x) + 0.5, Y: float64(y) + 0.5}
}

// rowSpan holds the outermost columns of a region on one row.
type rowSpan struct {
	y, left, right int
}

// scanRowSpans collects one span per row that contains label id.
func scanRowSpans(g *LabelGrid, id int) []rowSpan {
	var spans []rowSpan
	for y := 0; y < g.height; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		left, right := -1, -1
		for x, l := range row {
			if l != id {
				continue
			}
			if left < 0 {
				left = x
			}
			right = x
		}
		if left >= 0 {
			spans = append(spans, rowSpan{y: y, left: left, right: right})
		}
	}
	return spans
}

// spansOfRuns derives the same spans from an ordered run list.
func spansOfRuns(runs []Run) []rowSpan {
	var spans []rowSpan
	for _, r := range runs {
		end := r.X + r.Length - 1
		if n := len(spans); n > 0 && spans[n-1].y == r.Y {
			spans[n-1].right = end
			continue
		}
		spans = append(spans, rowSpan{y: r.Y, left: r.X, right: end})
	}
	return spans
}

// rowSimpleOutline walks the left edge top-to-bottom and then the right edge
// bottom-to-top. A row whose left and right columns coincide contributes a
// single vertex.
func rowSimpleOutline(spans []rowSpan) []Vertex {
	if len(spans) == 0 {
		return nil
	}
	left := make([]Vertex, 0, 2*len(spans))
	right := make([]Vertex, 0, len(spans))
	for _, s := range spans {
		left = append(left, pixelCentre(s.left, s.y))
		if s.right != s.left {
			right = append(right, pixelCentre(s.right, s.y))
		}
	}
	for i := len(right) - 1; i >= 0; i-- {
		left = append(left, right[i])
	}
	return left
}

// mooreOffsets is the 8-neighbourhood in clockwise order (image
// coordinates, Y down): E, SE, S, SW, W, NW, N, NE.
var mooreOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

func mooreDirection(dx, dy int) int {
	for i, d := range mooreOffsets {
		if d[0] == dx && d[1] == dy {
			return i
		}
	}
	return 0
}

// traceOutline follows the outer boundary of region id clockwise, starting
// at its top-most, left-most pixel. box restricts the start search.
//
// Tracing stops when the walk is back at the start pixel and about to repeat
// its first move, which closes the loop even when the start pixel is visited
// more than once.
func traceOutline(g *LabelGrid, id int, box Bounds) []Vertex {
	sx, sy, ok := firstPixel(g, id, box)
	if !ok {
		return nil
	}
	member := func(x, y int) bool {
		return g.InBounds(x, y) && g.cells[g.index(x, y)] == id
	}

	pts := []Vertex{pixelCentre(sx, sy)}
	// The start pixel is the first in scan order, so its west neighbour is
	// never part of the region.
	cx, cy, bx, by := sx, sy, sx-1, sy
	fx, fy := 0, 0
	maxSteps := 4*box.Width*box.Height + 8

	for step := 0; step < maxSteps; step++ {
		nx, ny, found := nextContourPixel(member, cx, cy, bx, by)
		if !found {
			break
		}
		if step == 0 {
			fx, fy = nx, ny
		} else if cx == sx && cy == sy && nx == fx && ny == fy {
			break
		}
		bx, by, cx, cy = cx, cy, nx, ny
		pts = append(pts, pixelCentre(cx, cy))
	}

	if n := len(pts); n > 1 && pts[0] == pts[n-1] {
		pts = pts[:n-1]
	}
	return pts
}

// nextContourPixel sweeps the neighbours of (cx, cy) clockwise, starting just
// after the backtrack pixel (bx, by), and returns the first member found.
func nextContourPixel(member func(x, y int) bool, cx, cy, bx, by int) (int, int, bool) {
	start := (mooreDirection(bx-cx, by-cy) + 1) % 8
	for k := 0; k < 8; k++ {
		d := mooreOffsets[(start+k)%8]
		if tx, ty := cx+d[0], cy+d[1]; member(tx, ty) {
			return tx, ty, true
		}
	}
	return 0, 0, false
}

func firstPixel(g *LabelGrid, id int, box Bounds) (int, int, bool) {
	for y := box.Y; y < box.Y+box.Height; y++ {
		for x := box.X; x < box.X+box.Width; x++ {
			if g.At(x, y) == id {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}
