package blob

// Label assigns a region ID to every foreground pixel of r and returns the
// labelled grid together with the number of regions found.
//
// Region IDs run from 1 to the returned count, numbered by the first pixel of
// each region met in row-major order. An all-background raster yields an
// empty grid and a count of zero.
//
// Time: O(W×H·α(n)). Memory: O(W×H) for the grid plus one slot per
// provisional label.
func Label(r *Raster) (*LabelGrid, int) {
	g := newLabelGrid(r.width, r.height)
	eq := newEquivalences()

	// Causal neighbours in priority order. Of up-left, up, up-right and left
	// only up and left are 4-adjacent; the diagonals would join blobs that
	// merely touch at a corner.
	causal := [...][2]int{{0, -1}, {-1, 0}}

	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			if !r.Foreground(x, y) {
				continue
			}
			assigned := 0
			for _, d := range causal {
				nx, ny := x+d[0], y+d[1]
				if !g.InBounds(nx, ny) {
					continue
				}
				n := g.cells[g.index(nx, ny)]
				if n == 0 {
					continue
				}
				if assigned == 0 {
					assigned = n
				} else if n != assigned {
					eq.union(assigned, n)
				}
			}
			if assigned == 0 {
				assigned = eq.mint()
			}
			g.cells[g.index(x, y)] = assigned
		}
	}

	// Rewrite each cell once to its compacted canonical ID.
	canonical := make([]int, len(eq.parent))
	count := 0
	for i, l := range g.cells {
		if l == 0 {
			continue
		}
		root := eq.find(l)
		if canonical[root] == 0 {
			count++
			canonical[root] = count
		}
		g.cells[i] = canonical[root]
	}

	return g, count
}

// equivalences is a union-find forest over provisional labels. Slot 0 is
// reserved for background and never joined.
type equivalences struct {
	parent []int
}

func newEquivalences() *equivalences {
	return &equivalences{parent: []int{0}}
}

// mint allocates the next provisional label as its own root.
func (e *equivalences) mint() int {
	l := len(e.parent)
	e.parent = append(e.parent, l)
	return l
}

// find returns the root of l, halving the path on the way up.
func (e *equivalences) find(l int) int {
	for e.parent[l] != l {
		e.parent[l] = e.parent[e.parent[l]]
		l = e.parent[l]
	}
	return l
}

// union joins the sets of a and b. The smaller root wins.
func (e *equivalences) union(a, b int) {
	ra, rb := e.find(a), e.find(b)
	switch {
	case ra == rb:
	case ra < rb:
		e.parent[rb] = ra
	default:
		e.parent[ra] = rb
	}
}
