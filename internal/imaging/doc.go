// Package imaging turns plate photographs into the binary rasters consumed by
// the blob engine and renders detected regions back onto them.
//
// # Pipeline
//
// A frame flows through three stages:
//
//  1. Load: ImageCache decodes PNG, JPEG and BMP files once per path
//  2. Binarize: optional well crop and blur, greyscale, optional inversion,
//     and a fixed or Otsu threshold
//  3. ToRaster: the thresholded mask becomes a blob.Raster
//
// RenderRegions draws the resulting catalog as coloured fills, outlines and
// ID labels for visual checking.
//
// # Coordinate System
//
// Coordinates are 0-based with the origin at the top-left, X to the right
// and Y down. A Region is inclusive at (X1, Y1) and exclusive at (X2, Y2).
// Masks produced by Binarize always start at (0, 0); Binarized.Offset maps
// them back to frame coordinates.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Every other function is stateless
// and may run concurrently on different frames.
package imaging
