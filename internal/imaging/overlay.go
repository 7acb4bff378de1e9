package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/spot-tools-mcp/internal/blob"
)

// OverlayOptions controls how regions are painted over a frame.
type OverlayOptions struct {
	// Offset shifts region coordinates into frame coordinates, e.g. the
	// ROI origin returned by Binarize.
	Offset image.Point

	// Alpha is the opacity of the region fill (0-1). 0 draws outlines only.
	Alpha float64

	// OutlineColorHex is "#RRGGBB" or "#RRGGBBAA". Invalid or empty values
	// fall back to opaque white.
	OutlineColorHex string

	// ShowIDs stamps each region ID at the top-left of its bounds.
	ShowIDs bool

	// MinArea and MaxArea skip regions whose pixel count falls outside the
	// range. MaxArea 0 means no upper limit.
	MinArea int
	MaxArea int
}

// drawn reports whether a region of the given area passes the area limits.
func (o OverlayOptions) drawn(area int) bool {
	return area >= o.MinArea && (o.MaxArea == 0 || area <= o.MaxArea)
}

// LegendEntry pairs a region ID with the fill colour used for it.
type LegendEntry struct {
	ID    int    `json:"id"`
	Color string `json:"color"`
}

// OverlayResult is a rendered overlay.
type OverlayResult struct {
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	ImageBase64 string        `json:"image_base64"`
	MimeType    string        `json:"mime_type"`
	Legend      []LegendEntry `json:"legend"`

	// Image is the rendered overlay, kept for callers that save to disk.
	Image *image.RGBA `json:"-"`
}

// RegionPalette returns n visually distinct colours. Hues advance by the
// golden angle so neighbouring IDs never share a similar colour, and the
// sequence is stable for a given n.
func RegionPalette(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		hue := math.Mod(float64(i)*137.508, 360)
		out[i] = colorful.Hsv(hue, 0.7, 0.95)
	}
	return out
}

// RenderRegions paints the regions of catalog that pass the area limits over
// base and returns the result as a base64 PNG. When base is nil the regions
// are drawn on a black canvas the size of the label grid.
//
// Fills are blended in CIE-L*a*b* space so colours stay readable on both
// dark and bright backgrounds. Outlines connect consecutive boundary
// vertices, closing back to the first.
func RenderRegions(base image.Image, catalog *blob.Catalog, opts OverlayOptions) (*OverlayResult, error) {
	if opts.Alpha < 0 || opts.Alpha > 1 {
		return nil, fmt.Errorf("alpha must be within 0-1, got %g", opts.Alpha)
	}
	if opts.MinArea < 0 || opts.MaxArea < 0 {
		return nil, fmt.Errorf("area limits must not be negative")
	}
	if opts.MaxArea > 0 && opts.MaxArea < opts.MinArea {
		return nil, fmt.Errorf("max area %d is below min area %d", opts.MaxArea, opts.MinArea)
	}

	labels := catalog.Labels()
	var canvas *image.RGBA
	if base != nil {
		canvas = image.NewRGBA(base.Bounds())
		draw.Draw(canvas, canvas.Bounds(), base, base.Bounds().Min, draw.Src)
	} else {
		canvas = image.NewRGBA(image.Rect(0, 0, labels.Width(), labels.Height()))
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	}

	outline, err := parseHexColor(opts.OutlineColorHex)
	if err != nil {
		outline = color.RGBA{255, 255, 255, 255}
	}

	all := catalog.Describe()
	descs := all[:0]
	for _, d := range all {
		if opts.drawn(d.Mask.Area()) {
			descs = append(descs, d)
		}
	}
	palette := RegionPalette(len(descs))
	legend := make([]LegendEntry, len(descs))

	for i, d := range descs {
		paint := palette[i]
		legend[i] = LegendEntry{ID: d.ID, Color: paint.Hex()}

		if opts.Alpha > 0 {
			for _, run := range d.Mask.Runs {
				for x := run.X; x < run.X+run.Length; x++ {
					fillPixel(canvas, x+opts.Offset.X, run.Y+opts.Offset.Y, paint, opts.Alpha)
				}
			}
		}

		strokePolygon(canvas, d.Boundary, opts.Offset, outline)

		if opts.ShowIDs {
			drawLabel(canvas, d.Bounds.X+opts.Offset.X, d.Bounds.Y+opts.Offset.Y,
				strconv.Itoa(d.ID), color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("failed to encode overlay image: %w", err)
	}

	return &OverlayResult{
		Width:       canvas.Bounds().Dx(),
		Height:      canvas.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Legend:      legend,
		Image:       canvas,
	}, nil
}

// SaveOverlay writes img to path as PNG.
func SaveOverlay(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

func fillPixel(img *image.RGBA, x, y int, paint colorful.Color, alpha float64) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	under, ok := colorful.MakeColor(img.RGBAAt(x, y))
	if !ok {
		under = colorful.Color{}
	}
	r, g, b := under.BlendLab(paint, alpha).Clamped().RGB255()
	img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
}

// strokePolygon joins consecutive vertices with Bresenham lines. A single
// vertex marks one pixel.
func strokePolygon(img *image.RGBA, pts []blob.Vertex, offset image.Point, c color.RGBA) {
	if len(pts) == 0 {
		return
	}
	at := func(v blob.Vertex) image.Point {
		return image.Point{X: int(math.Floor(v.X)) + offset.X, Y: int(math.Floor(v.Y)) + offset.Y}
	}
	if len(pts) == 1 {
		p := at(pts[0])
		setClipped(img, p.X, p.Y, c)
		return
	}
	for i := range pts {
		drawLine(img, at(pts[i]), at(pts[(i+1)%len(pts)]), c)
	}
}

func drawLine(img *image.RGBA, a, b image.Point, c color.RGBA) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		setClipped(img, x, y, c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func setClipped(img *image.RGBA, x, y int, c color.RGBA) {
	if (image.Point{X: x, Y: y}).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// parseHexColor parses "#RRGGBB" or "#RRGGBBAA".
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	switch len(hex) {
	case 6:
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	case 8:
		return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color length")
	}
}

// drawLabel stamps text in a 3x5 bitmap font on a filled background box.
// Only digits are defined; other runes leave a gap.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	glyphs := map[rune][]string{
		'0': {"111", "101", "101", "101", "111"},
		'1': {"010", "110", "010", "010", "111"},
		'2': {"111", "001", "111", "100", "111"},
		'3': {"111", "001", "111", "001", "111"},
		'4': {"101", "101", "111", "001", "001"},
		'5': {"111", "100", "111", "001", "111"},
		'6': {"111", "100", "111", "101", "111"},
		'7': {"111", "001", "001", "001", "001"},
		'8': {"111", "101", "111", "101", "111"},
		'9': {"111", "101", "111", "001", "111"},
	}
	const charWidth, charHeight = 4, 5

	box := image.Rect(x-1, y-1, x+len(text)*charWidth, y+charHeight+1).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, bit := range line {
				if bit == '1' {
					setClipped(img, cx+col, y+row, fg)
				}
			}
		}
		cx += charWidth
	}
}
