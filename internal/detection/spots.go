package detection

import (
	"fmt"
	"image"
	"sort"

	"github.com/ironsheep/spot-tools-mcp/internal/blob"
	"github.com/ironsheep/spot-tools-mcp/internal/imaging"
)

// Bounds is a bounding box in frame pixel coordinates.
//
//   - (X1, Y1) is the top-left pixel (inclusive)
//   - (X2, Y2) is one past the bottom-right pixel (exclusive)
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// PointF is a sub-pixel position in pixel-centre coordinates.
type PointF struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Spot is one detected drop or fly.
type Spot struct {
	// ID is the region identifier from the labelling pass. It is unique
	// within one result and carries no meaning across frames.
	ID int `json:"id"`

	// Bounds is the tight bounding box of the spot.
	Bounds Bounds `json:"bounds"`

	// Width and Height are the bounding box extent in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Area is the exact pixel count of the spot.
	Area int `json:"area"`

	// Centroid is the mean pixel-centre position.
	Centroid PointF `json:"centroid"`

	// Outline is the boundary polygon in pixel-centre coordinates.
	Outline []blob.Vertex `json:"outline"`

	// Mask lists the spot's pixels as runs. Only set when requested.
	Mask *blob.Mask `json:"mask,omitempty"`

	// Orientation is the angle of the major axis in degrees, in [-90, 90),
	// measured from the +X axis towards +Y (clockwise on screen).
	Orientation float64 `json:"orientation"`

	// MajorAxis and MinorAxis are the full axis lengths of the ellipse with
	// the same second moments as the spot.
	MajorAxis float64 `json:"major_axis"`
	MinorAxis float64 `json:"minor_axis"`

	// Eccentricity is 0 for a circle and approaches 1 for a line.
	Eccentricity float64 `json:"eccentricity"`

	// MeanIntensity is the average grey level (after optional inversion)
	// over the spot's pixels.
	MeanIntensity float64 `json:"mean_intensity"`

	// FillColor is the source colour at the centroid, as "#RRGGBB".
	FillColor string `json:"fill_color,omitempty"`
}

// SpotOptions configures DetectSpots.
type SpotOptions struct {
	// Threshold controls binarisation of the frame.
	Threshold imaging.ThresholdOptions

	// MinArea drops spots smaller than this many pixels.
	MinArea int

	// MaxArea drops spots larger than this many pixels. 0 disables.
	MaxArea int

	// Boundary selects the outline algorithm.
	Boundary blob.BoundaryMode

	// IncludeMask attaches run-length masks to each spot.
	IncludeMask bool
}

// SpotsResult contains every spot detected in one frame.
type SpotsResult struct {
	// Spots is sorted by area, largest first.
	Spots []Spot `json:"spots"`

	// Count is len(Spots).
	Count int `json:"count"`

	// Regions is the number of connected regions before area filtering.
	Regions int `json:"regions"`

	// Level is the threshold that was applied.
	Level uint8 `json:"level"`

	// Width and Height describe the processed area (the ROI if one was set).
	Width  int `json:"width"`
	Height int `json:"height"`
}

// DetectSpots finds drops or flies in img.
//
// # Algorithm
//
//  1. Binarize: crop, blur, greyscale, invert and threshold the frame
//  2. Label: group foreground pixels into 4-connected regions
//  3. Describe: build outline, run-length mask and bounds per region in
//     one scan of the label grid
//  4. Measure: area, centroid, second-moment ellipse, mean intensity
//  5. Filter by MinArea/MaxArea and sort by area, largest first
//
// All coordinates in the result are frame coordinates, including when an
// ROI is set.
func DetectSpots(img image.Image, opts SpotOptions) (*SpotsResult, error) {
	if opts.MinArea < 0 || opts.MaxArea < 0 {
		return nil, fmt.Errorf("area limits must not be negative")
	}
	if opts.MaxArea > 0 && opts.MaxArea < opts.MinArea {
		return nil, fmt.Errorf("max area %d is below min area %d", opts.MaxArea, opts.MinArea)
	}

	catalog, bin, err := Segment(img, opts.Threshold, opts.Boundary)
	if err != nil {
		return nil, err
	}

	spots := make([]Spot, 0, catalog.Len())
	for _, d := range catalog.Describe() {
		area := d.Mask.Area()
		if area < opts.MinArea || (opts.MaxArea > 0 && area > opts.MaxArea) {
			continue
		}
		spots = append(spots, buildSpot(img, bin, d, opts.IncludeMask))
	}

	sort.SliceStable(spots, func(i, j int) bool {
		return spots[i].Area > spots[j].Area
	})

	b := bin.Mask.Bounds()
	return &SpotsResult{
		Spots:   spots,
		Count:   len(spots),
		Regions: catalog.Len(),
		Level:   bin.Level,
		Width:   b.Dx(),
		Height:  b.Dy(),
	}, nil
}

// Segment binarises img and labels its foreground into regions. Catalog
// coordinates are relative to the processed area; add bin.Offset to reach
// frame coordinates.
func Segment(img image.Image, opts imaging.ThresholdOptions, mode blob.BoundaryMode) (*blob.Catalog, *imaging.Binarized, error) {
	bin, err := imaging.Binarize(img, opts)
	if err != nil {
		return nil, nil, err
	}
	raster, err := imaging.ToRaster(bin.Mask)
	if err != nil {
		return nil, nil, err
	}
	return blob.ExtractRaster(raster, blob.Options{Boundary: mode}), bin, nil
}

// buildSpot measures one region and shifts it into frame coordinates.
func buildSpot(src image.Image, bin *imaging.Binarized, d blob.Description, withMask bool) Spot {
	off := bin.Offset
	pts := d.Mask.Points()

	m := measureShape(pts)
	centroid := PointF{X: m.cx + float64(off.X), Y: m.cy + float64(off.Y)}

	outline := make([]blob.Vertex, len(d.Boundary))
	for i, v := range d.Boundary {
		outline[i] = blob.Vertex{X: v.X + float64(off.X), Y: v.Y + float64(off.Y)}
	}

	spot := Spot{
		ID: d.ID,
		Bounds: Bounds{
			X1: d.Bounds.X + off.X,
			Y1: d.Bounds.Y + off.Y,
			X2: d.Bounds.X + d.Bounds.Width + off.X,
			Y2: d.Bounds.Y + d.Bounds.Height + off.Y,
		},
		Width:         d.Bounds.Width,
		Height:        d.Bounds.Height,
		Area:          len(pts),
		Centroid:      centroid,
		Outline:       outline,
		Orientation:   m.orientation,
		MajorAxis:     m.major,
		MinorAxis:     m.minor,
		Eccentricity:  m.eccentricity,
		MeanIntensity: meanIntensity(bin.Gray, pts),
		FillColor:     sampleColorHex(src, int(centroid.X), int(centroid.Y)),
	}

	if withMask {
		runs := make([]blob.Run, len(d.Mask.Runs))
		for i, r := range d.Mask.Runs {
			runs[i] = blob.Run{Y: r.Y + off.Y, X: r.X + off.X, Length: r.Length}
		}
		spot.Mask = &blob.Mask{Runs: runs}
	}
	return spot
}

// sampleColorHex returns the colour at (x, y) as "#RRGGBB", or "" when the
// point lies outside img.
func sampleColorHex(img image.Image, x, y int) string {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return ""
	}
	r, g, b, _ := img.At(x, y).RGBA()
	return fmt.Sprintf("#%02X%02X%02X", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}
