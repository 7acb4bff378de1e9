// Package detection finds and measures spots (drops, flies, specks) in
// images.
//
// It is the layer between raw pictures and the region engine in
// internal/blob: frames are binarised by internal/imaging, labelled into
// 4-connected regions, and each region is turned into a Spot carrying its
// geometry and a handful of shape measurements.
//
// # Pipeline
//
//  1. Binarize: optional ROI crop, blur, greyscale, inversion, threshold
//  2. Label: two-pass connected-component labelling
//  3. Describe: outline, run-length mask and bounds per region
//  4. Measure: area, centroid, second-moment ellipse, mean intensity
//  5. Filter and sort by area
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes use inclusive top-left and exclusive bottom-right
//   - Outline vertices and centroids sit on pixel centres (x+0.5, y+0.5)
//
// When an ROI is used, every coordinate is shifted back into frame
// coordinates before it is returned.
//
// # Shape Measurements
//
// Orientation, axis lengths and eccentricity come from the eigen
// decomposition of the pixel covariance matrix (gonum). They describe the
// ellipse with the same second moments as the spot:
//   - Orientation: angle of the major axis in degrees, in [-90, 90)
//   - MajorAxis / MinorAxis: 4σ along each principal direction
//   - Eccentricity: 0 for a disc, close to 1 for a thin streak
//
// # Batches
//
// DetectSpotsBatch runs one detection per frame on a bounded worker pool.
// Frames are independent; results are returned in input order and the
// first error cancels the frames that have not started yet.
//
// # Raw Pixels
//
// RegionsFromPixels bypasses image decoding and thresholding. It accepts
// a row-major integer buffer (value > 0 is foreground) and returns the
// engine's regions as-is, with region-local IDs, outlines, masks and
// bounds.
package detection
