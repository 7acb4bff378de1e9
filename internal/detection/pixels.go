package detection

import (
	"github.com/ironsheep/spot-tools-mcp/internal/blob"
)

// RegionsResult is the raw engine output for one pixel buffer.
type RegionsResult struct {
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Boundary    string             `json:"boundary_mode"`
	RegionCount int                `json:"region_count"`
	Regions     []blob.Description `json:"regions"`
	Labels      []int              `json:"labels,omitempty"`
}

// RegionsFromPixels runs the engine directly on a row-major pixel buffer.
// Pixels greater than zero are foreground. withLabels attaches the full
// labelled grid.
//
// An invalid buffer returns an error wrapping blob.ErrInvalidDimensions.
func RegionsFromPixels(width, height int, pixels []int32, mode blob.BoundaryMode, withLabels bool) (*RegionsResult, error) {
	catalog, err := blob.Extract(width, height, pixels, blob.Options{Boundary: mode})
	if err != nil {
		return nil, err
	}

	res := &RegionsResult{
		Width:       width,
		Height:      height,
		Boundary:    mode.String(),
		RegionCount: catalog.Len(),
		Regions:     catalog.Describe(),
	}
	if withLabels {
		res.Labels = catalog.Labels().Values()
	}
	return res, nil
}
