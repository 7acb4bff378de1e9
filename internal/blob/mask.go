package blob

import "image"

// Run is a horizontal span of Length pixels starting at (X, Y).
type Run struct {
	Y      int `json:"y"`
	X      int `json:"x"`
	Length int `json:"length"`
}

// Mask lists every pixel of a region as horizontal runs, ordered by row and
// then by column. A row may hold several runs.
type Mask struct {
	Runs []Run `json:"runs"`
}

// Area returns the number of pixels covered by the mask.
func (m Mask) Area() int {
	n := 0
	for _, r := range m.Runs {
		n += r.Length
	}
	return n
}

// Points expands the runs into individual pixel coordinates.
func (m Mask) Points() []image.Point {
	pts := make([]image.Point, 0, m.Area())
	for _, r := range m.Runs {
		for x := r.X; x < r.X+r.Length; x++ {
			pts = append(pts, image.Point{X: x, Y: r.Y})
		}
	}
	return pts
}

// Contains reports whether (x, y) is covered by the mask.
func (m Mask) Contains(x, y int) bool {
	for _, r := range m.Runs {
		if r.Y == y && x >= r.X && x < r.X+r.Length {
			return true
		}
	}
	return false
}

// Bounds is an axis-aligned box. (X, Y) is the top-left pixel; Width and
// Height count pixels, so a single pixel has Width == Height == 1.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect converts b to an image.Rectangle with an exclusive maximum.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// extractMask scans every row for runs of label id.
func extractMask(g *LabelGrid, id int) Mask {
	var runs []Run
	for y := 0; y < g.height; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]
		for x := 0; x < g.width; {
			if row[x] != id {
				x++
				continue
			}
			start := x
			for x < g.width && row[x] == id {
				x++
			}
			runs = append(runs, Run{Y: y, X: start, Length: x - start})
		}
	}
	return Mask{Runs: runs}
}

// extractBounds projects the region onto per-column and per-row histograms
// and reads the box from the first and last non-empty bins.
func extractBounds(g *LabelGrid, id int) Bounds {
	cols := make([]int, g.width)
	rows := make([]int, g.height)
	for idx, l := range g.cells {
		if l != id {
			continue
		}
		x, y := g.Coordinate(idx)
		cols[x]++
		rows[y]++
	}
	x0, x1 := occupiedSpan(cols)
	y0, y1 := occupiedSpan(rows)
	if x0 < 0 || y0 < 0 {
		return Bounds{}
	}
	return Bounds{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
}

// occupiedSpan returns the first and last non-zero bins, or (-1, -1).
func occupiedSpan(hist []int) (first, last int) {
	first, last = -1, -1
	for i, n := range hist {
		if n == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last
}

// boundsOfRuns computes the tight box of an ordered run list.
func boundsOfRuns(runs []Run) Bounds {
	if len(runs) == 0 {
		return Bounds{}
	}
	minX, maxX := runs[0].X, runs[0].X+runs[0].Length-1
	for _, r := range runs[1:] {
		if r.X < minX {
			minX = r.X
		}
		if end := r.X + r.Length - 1; end > maxX {
			maxX = end
		}
	}
	minY, maxY := runs[0].Y, runs[len(runs)-1].Y
	return Bounds{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}
