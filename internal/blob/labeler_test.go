package blob

import (
	"math/rand"
	"testing"
)

func TestLabel_Counts(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int32
		want int
	}{
		{
			"all background",
			[][]int32{
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
				{0, 0, 0, 0, 0},
			},
			0,
		},
		{
			"single pixel",
			[][]int32{
				{0, 0, 0},
				{0, 1, 0},
				{0, 0, 0},
			},
			1,
		},
		{
			"diagonal neighbours stay apart",
			[][]int32{
				{1, 0},
				{0, 1},
			},
			2,
		},
		{
			"U shape merges at the bottom",
			[][]int32{
				{1, 0, 1},
				{1, 0, 1},
				{1, 1, 1},
			},
			1,
		},
		{
			"comb needs transitive merges",
			[][]int32{
				{1, 0, 1, 0, 1, 0, 1},
				{1, 0, 1, 0, 1, 0, 1},
				{1, 1, 1, 1, 1, 1, 1},
			},
			1,
		},
		{
			"checkerboard",
			[][]int32{
				{1, 0, 1, 0},
				{0, 1, 0, 1},
				{1, 0, 1, 0},
				{0, 1, 0, 1},
			},
			8,
		},
		{
			"intensity values are only tested for truthiness",
			[][]int32{
				{200, 17, 0, 3},
				{0, 0, 0, 255},
			},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, n := Label(rasterFromRows(t, tt.rows))
			if n != tt.want {
				t.Errorf("region count: got %d, want %d", n, tt.want)
			}
		})
	}
}

func TestLabel_CompactIDsInScanOrder(t *testing.T) {
	// The right arm gets its own provisional label on row 0 and is merged
	// into the left arm on row 1. The blob on the last row becomes region 2.
	r := rasterFromRows(t, [][]int32{
		{0, 1, 0, 1},
		{0, 1, 1, 1},
		{0, 0, 0, 0},
		{1, 1, 0, 0},
	})
	g, n := Label(r)
	if n != 2 {
		t.Fatalf("region count: got %d, want 2", n)
	}
	want := []int{
		0, 1, 0, 1,
		0, 1, 1, 1,
		0, 0, 0, 0,
		2, 2, 0, 0,
	}
	got := g.Values()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels: got %v, want %v", got, want)
		}
	}
}

func TestLabel_DoesNotMutateRaster(t *testing.T) {
	pix := []int32{5, 0, 5, 5}
	r, _ := NewRaster(2, 2, pix)
	Label(r)
	want := []int32{5, 0, 5, 5}
	for i := range want {
		if pix[i] != want[i] {
			t.Fatalf("raster mutated: got %v, want %v", pix, want)
		}
	}
}

func TestEquivalences_UnionFind(t *testing.T) {
	eq := newEquivalences()
	a, b, c, d := eq.mint(), eq.mint(), eq.mint(), eq.mint()
	eq.union(c, d)
	eq.union(b, d)
	if eq.find(d) != b || eq.find(c) != b {
		t.Errorf("smaller root should win: find(c)=%d find(d)=%d, want %d", eq.find(c), eq.find(d), b)
	}
	if eq.find(a) != a {
		t.Errorf("untouched label moved: find(a)=%d", eq.find(a))
	}
	eq.union(d, a)
	for _, l := range []int{a, b, c, d} {
		if eq.find(l) != a {
			t.Errorf("find(%d)=%d, want %d", l, eq.find(l), a)
		}
	}
}

func BenchmarkLabel(b *testing.B) {
	const w, h = 1000, 1000
	rng := rand.New(rand.NewSource(42))
	pix := make([]int32, w*h)
	for i := range pix {
		if rng.Intn(2) == 1 {
			pix[i] = 255
		}
	}
	r, err := NewRaster(w, h, pix)
	if err != nil {
		b.Fatalf("setup NewRaster failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Label(r)
	}
}
