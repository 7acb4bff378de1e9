package blob

import "testing"

// rasterFromRows builds a raster from a literal grid of 0/1 rows.
func rasterFromRows(t *testing.T, rows [][]int32) *Raster {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	pix := make([]int32, 0, w*h)
	for _, row := range rows {
		if len(row) != w {
			t.Fatalf("ragged test grid: row has %d columns, want %d", len(row), w)
		}
		pix = append(pix, row...)
	}
	r, err := NewRaster(w, h, pix)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	return r
}

func catalogFromRows(t *testing.T, rows [][]int32, mode BoundaryMode) *Catalog {
	t.Helper()
	return ExtractRaster(rasterFromRows(t, rows), Options{Boundary: mode})
}

func centres(pts ...[2]int) []Vertex {
	out := make([]Vertex, len(pts))
	for i, p := range pts {
		out[i] = pixelCentre(p[0], p[1])
	}
	return out
}
