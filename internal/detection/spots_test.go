package detection

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/spot-tools-mcp/internal/blob"
	"github.com/ironsheep/spot-tools-mcp/internal/imaging"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createSpotImage paints filled rectangles of fg onto a bg frame
func createSpotImage(width, height int, bg, fg color.Color, spots ...image.Rectangle) *image.RGBA {
	img := createTestImage(width, height, bg)
	for _, r := range spots {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.Set(x, y, fg)
			}
		}
	}
	return img
}

func fixedLevel() SpotOptions {
	return SpotOptions{Threshold: imaging.ThresholdOptions{Level: 128}}
}

func TestDetectSpots_TwoSquares(t *testing.T) {
	img := createSpotImage(20, 15, color.Black, color.White,
		image.Rect(10, 8, 13, 10),
		image.Rect(2, 2, 6, 6),
	)

	result, err := DetectSpots(img, fixedLevel())
	if err != nil {
		t.Fatalf("DetectSpots failed: %v", err)
	}
	if result.Count != 2 || len(result.Spots) != 2 {
		t.Fatalf("expected 2 spots, got %d", result.Count)
	}
	if result.Width != 20 || result.Height != 15 {
		t.Errorf("processed size: got %dx%d, want 20x15", result.Width, result.Height)
	}

	big, small := result.Spots[0], result.Spots[1]
	if big.Area != 16 || small.Area != 6 {
		t.Errorf("areas: got %d and %d, want 16 and 6", big.Area, small.Area)
	}
	if want := (Bounds{X1: 2, Y1: 2, X2: 6, Y2: 6}); big.Bounds != want {
		t.Errorf("bounds: got %+v, want %+v", big.Bounds, want)
	}
	if big.Width != 4 || big.Height != 4 {
		t.Errorf("size: got %dx%d, want 4x4", big.Width, big.Height)
	}
	if big.Centroid != (PointF{X: 4, Y: 4}) {
		t.Errorf("centroid: got %+v, want (4, 4)", big.Centroid)
	}
	if big.FillColor != "#FFFFFF" {
		t.Errorf("fill color: got %s, want #FFFFFF", big.FillColor)
	}
	if big.MeanIntensity < 200 {
		t.Errorf("mean intensity too low: %f", big.MeanIntensity)
	}
	if big.Mask != nil {
		t.Error("mask should be omitted unless requested")
	}

	wantOutline := []blob.Vertex{
		{X: 2.5, Y: 2.5}, {X: 2.5, Y: 3.5}, {X: 2.5, Y: 4.5}, {X: 2.5, Y: 5.5},
		{X: 5.5, Y: 5.5}, {X: 5.5, Y: 4.5}, {X: 5.5, Y: 3.5}, {X: 5.5, Y: 2.5},
	}
	if len(big.Outline) != len(wantOutline) {
		t.Fatalf("outline length: got %d, want %d", len(big.Outline), len(wantOutline))
	}
	for i, v := range wantOutline {
		if big.Outline[i] != v {
			t.Errorf("outline[%d]: got %+v, want %+v", i, big.Outline[i], v)
		}
	}
}

func TestDetectSpots_DarkSpotsOnLight(t *testing.T) {
	img := createSpotImage(12, 12, color.White, color.Black, image.Rect(4, 4, 7, 7))

	opts := fixedLevel()
	opts.Threshold.Invert = true
	result, err := DetectSpots(img, opts)
	if err != nil {
		t.Fatalf("DetectSpots failed: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expected 1 spot, got %d", result.Count)
	}
	if result.Spots[0].Area != 9 {
		t.Errorf("area: got %d, want 9", result.Spots[0].Area)
	}
	if result.Spots[0].FillColor != "#000000" {
		t.Errorf("fill color: got %s, want #000000", result.Spots[0].FillColor)
	}
}

func TestDetectSpots_AreaFilter(t *testing.T) {
	img := createSpotImage(30, 10, color.Black, color.White,
		image.Rect(1, 1, 2, 2),   // 1 px
		image.Rect(4, 1, 7, 4),   // 9 px
		image.Rect(10, 1, 16, 7), // 36 px
	)

	tests := []struct {
		name    string
		min     int
		max     int
		wantIDs int
	}{
		{"no limits", 0, 0, 3},
		{"drop specks", 2, 0, 2},
		{"drop large", 0, 10, 2},
		{"band", 2, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fixedLevel()
			opts.MinArea = tt.min
			opts.MaxArea = tt.max
			result, err := DetectSpots(img, opts)
			if err != nil {
				t.Fatalf("DetectSpots failed: %v", err)
			}
			if result.Count != tt.wantIDs {
				t.Errorf("got %d spots, want %d", result.Count, tt.wantIDs)
			}
			if result.Regions != 3 {
				t.Errorf("regions before filtering: got %d, want 3", result.Regions)
			}
		})
	}
}

func TestDetectSpots_ROIUsesFrameCoordinates(t *testing.T) {
	img := createSpotImage(30, 30, color.Black, color.White,
		image.Rect(1, 1, 3, 3), // outside ROI
		image.Rect(8, 9, 11, 11),
	)

	opts := fixedLevel()
	opts.Threshold.ROI = &imaging.Region{X1: 5, Y1: 5, X2: 20, Y2: 20}
	opts.IncludeMask = true
	result, err := DetectSpots(img, opts)
	if err != nil {
		t.Fatalf("DetectSpots failed: %v", err)
	}
	if result.Count != 1 {
		t.Fatalf("expected 1 spot inside ROI, got %d", result.Count)
	}
	if result.Width != 15 || result.Height != 15 {
		t.Errorf("processed size: got %dx%d, want 15x15", result.Width, result.Height)
	}

	s := result.Spots[0]
	if want := (Bounds{X1: 8, Y1: 9, X2: 11, Y2: 11}); s.Bounds != want {
		t.Errorf("bounds: got %+v, want %+v", s.Bounds, want)
	}
	if s.Outline[0] != (blob.Vertex{X: 8.5, Y: 9.5}) {
		t.Errorf("first outline vertex: got %+v, want (8.5, 9.5)", s.Outline[0])
	}
	if s.Mask == nil {
		t.Fatal("mask requested but missing")
	}
	if s.Mask.Area() != 6 {
		t.Errorf("mask area: got %d, want 6", s.Mask.Area())
	}
	if !s.Mask.Contains(8, 9) || s.Mask.Contains(3, 4) {
		t.Error("mask runs are not in frame coordinates")
	}
}

func TestDetectSpots_ContourBoundary(t *testing.T) {
	img := createSpotImage(10, 10, color.Black, color.White, image.Rect(2, 2, 4, 4))

	opts := fixedLevel()
	opts.Boundary = blob.ContourTrace
	result, err := DetectSpots(img, opts)
	if err != nil {
		t.Fatalf("DetectSpots failed: %v", err)
	}
	want := []blob.Vertex{{X: 2.5, Y: 2.5}, {X: 3.5, Y: 2.5}, {X: 3.5, Y: 3.5}, {X: 2.5, Y: 3.5}}
	got := result.Spots[0].Outline
	if len(got) != len(want) {
		t.Fatalf("outline: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("outline[%d]: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDetectSpots_EmptyFrame(t *testing.T) {
	img := createTestImage(10, 10, color.Black)
	result, err := DetectSpots(img, fixedLevel())
	if err != nil {
		t.Fatalf("DetectSpots failed: %v", err)
	}
	if result.Count != 0 || result.Regions != 0 {
		t.Errorf("expected no spots, got %d (%d regions)", result.Count, result.Regions)
	}
	if result.Spots == nil {
		t.Error("Spots should be an empty slice, not nil")
	}
}

func TestDetectSpots_InvalidOptions(t *testing.T) {
	img := createTestImage(4, 4, color.Black)

	tests := []struct {
		name string
		opts SpotOptions
	}{
		{"negative min", SpotOptions{MinArea: -1}},
		{"max below min", SpotOptions{MinArea: 10, MaxArea: 5}},
		{"negative blur", SpotOptions{Threshold: imaging.ThresholdOptions{BlurSigma: -1}}},
		{"roi outside", SpotOptions{Threshold: imaging.ThresholdOptions{ROI: &imaging.Region{X1: 2, Y1: 2, X2: 8, Y2: 8}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DetectSpots(img, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSampleColorHex(t *testing.T) {
	img := createTestImage(3, 3, color.RGBA{R: 0x12, G: 0xAB, B: 0xEF, A: 0xFF})
	if got := sampleColorHex(img, 1, 1); got != "#12ABEF" {
		t.Errorf("got %s, want #12ABEF", got)
	}
	if got := sampleColorHex(img, 5, 5); got != "" {
		t.Errorf("outside point: got %q, want empty", got)
	}
}

func TestSegment_OffsetMatchesROI(t *testing.T) {
	img := createSpotImage(20, 20, color.Black, color.White, image.Rect(12, 12, 14, 14))

	roi := &imaging.Region{X1: 10, Y1: 10, X2: 20, Y2: 20}
	catalog, bin, err := Segment(img, imaging.ThresholdOptions{Level: 128, ROI: roi}, blob.RowSimple)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected 1 region, got %d", catalog.Len())
	}
	if bin.Offset != image.Pt(10, 10) {
		t.Errorf("offset: got %v, want (10,10)", bin.Offset)
	}
	b, err := catalog.Bounds(1)
	if err != nil {
		t.Fatalf("Bounds failed: %v", err)
	}
	if want := (blob.Bounds{X: 2, Y: 2, Width: 2, Height: 2}); b != want {
		t.Errorf("local bounds: got %+v, want %+v", b, want)
	}
}
