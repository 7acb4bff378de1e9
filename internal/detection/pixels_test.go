package detection

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ironsheep/spot-tools-mcp/internal/blob"
)

func TestRegionsFromPixels(t *testing.T) {
	pixels := []int32{
		1, 1, 0, 0,
		1, 1, 0, 3,
		0, 0, 0, 3,
	}

	res, err := RegionsFromPixels(4, 3, pixels, blob.RowSimple, false)
	if err != nil {
		t.Fatalf("RegionsFromPixels failed: %v", err)
	}
	if res.RegionCount != 2 || len(res.Regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", res.RegionCount)
	}
	if res.Boundary != "row-simple" {
		t.Errorf("boundary mode: got %q", res.Boundary)
	}
	if res.Labels != nil {
		t.Error("labels should be omitted unless requested")
	}

	first := res.Regions[0]
	if first.ID != 1 || first.Mask.Area() != 4 {
		t.Errorf("region 1: id %d area %d", first.ID, first.Mask.Area())
	}
	if want := (blob.Bounds{X: 0, Y: 0, Width: 2, Height: 2}); first.Bounds != want {
		t.Errorf("region 1 bounds: got %+v, want %+v", first.Bounds, want)
	}

	second := res.Regions[1]
	if want := (blob.Bounds{X: 3, Y: 1, Width: 1, Height: 2}); second.Bounds != want {
		t.Errorf("region 2 bounds: got %+v, want %+v", second.Bounds, want)
	}
	if len(second.Boundary) != 2 {
		t.Errorf("vertical bar should have one vertex per row, got %v", second.Boundary)
	}
}

func TestRegionsFromPixels_WithLabels(t *testing.T) {
	pixels := []int32{1, 0, 1}
	res, err := RegionsFromPixels(3, 1, pixels, blob.ContourTrace, true)
	if err != nil {
		t.Fatalf("RegionsFromPixels failed: %v", err)
	}
	want := []int{1, 0, 2}
	if len(res.Labels) != len(want) {
		t.Fatalf("labels: got %v, want %v", res.Labels, want)
	}
	for i := range want {
		if res.Labels[i] != want[i] {
			t.Errorf("labels[%d]: got %d, want %d", i, res.Labels[i], want[i])
		}
	}
	if res.Boundary != "contour" {
		t.Errorf("boundary mode: got %q", res.Boundary)
	}
}

func TestRegionsFromPixels_InvalidDimensions(t *testing.T) {
	_, err := RegionsFromPixels(3, 3, []int32{1, 2, 3}, blob.RowSimple, false)
	if !errors.Is(err, blob.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestRegionsFromPixels_JSONShape(t *testing.T) {
	res, err := RegionsFromPixels(2, 1, []int32{5, 5}, blob.RowSimple, false)
	if err != nil {
		t.Fatalf("RegionsFromPixels failed: %v", err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"width", "height", "boundary_mode", "region_count", "regions"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if _, ok := decoded["labels"]; ok {
		t.Errorf("labels should be omitted: %s", data)
	}
}
