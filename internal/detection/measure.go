package detection

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// shapeMeasure holds the second-moment description of a pixel set.
type shapeMeasure struct {
	cx, cy       float64
	major, minor float64
	orientation  float64
	eccentricity float64
}

// measureShape fits the ellipse with the same centroid and covariance as pts.
//
// Axis lengths are 4σ along each principal direction, which matches the
// extent of a uniformly filled ellipse. A single pixel is reported as a unit
// circle.
func measureShape(pts []image.Point) shapeMeasure {
	if len(pts) == 0 {
		return shapeMeasure{}
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i] = float64(p.X) + 0.5
		ys[i] = float64(p.Y) + 0.5
	}

	m := shapeMeasure{
		cx:    stat.Mean(xs, nil),
		cy:    stat.Mean(ys, nil),
		major: 1,
		minor: 1,
	}
	if len(pts) < 2 {
		return m
	}

	cxx := stat.Covariance(xs, xs, nil)
	cyy := stat.Covariance(ys, ys, nil)
	cxy := stat.Covariance(xs, ys, nil)
	cov := mat.NewSymDense(2, []float64{cxx, cxy, cxy, cyy})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return m
	}
	vals := eig.Values(nil) // ascending
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	lMin, lMax := math.Max(vals[0], 0), math.Max(vals[1], 0)
	m.major = 4 * math.Sqrt(lMax)
	m.minor = 4 * math.Sqrt(lMin)
	if lMax > 0 {
		m.eccentricity = math.Sqrt(1 - lMin/lMax)
	}

	// The eigenvector sign is arbitrary; fold the angle into [-90, 90).
	deg := math.Atan2(vecs.At(1, 1), vecs.At(0, 1)) * 180 / math.Pi
	deg = math.Mod(deg+360, 180)
	if deg >= 90 {
		deg -= 180
	}
	m.orientation = deg
	return m
}

// meanIntensity averages the grey values of pts.
func meanIntensity(gray *image.Gray, pts []image.Point) float64 {
	if gray == nil || len(pts) == 0 {
		return 0
	}
	vals := make([]float64, len(pts))
	for i, p := range pts {
		vals[i] = float64(gray.GrayAt(p.X, p.Y).Y)
	}
	return stat.Mean(vals, nil)
}
