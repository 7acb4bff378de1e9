// Package blob finds connected foreground regions in a binary raster and
// derives the shapes that the spot workflow turns into editable outlines.
//
// A caller hands the engine a row-major slice of integer pixels. Any value
// greater than zero is foreground, zero is background. The engine labels
// every foreground pixel, groups the labels into regions, and exposes three
// representations per region:
//
//   - Boundary: an ordered outline polygon in pixel-centre coordinates
//   - Mask: every member pixel, stored as horizontal runs
//   - Bounds: the tight axis-aligned bounding box
//
// # Algorithm
//
// Labelling is a classic two-pass scan:
//
//  1. Provisional pass: rows top-to-bottom, columns left-to-right. Each
//     foreground pixel inherits the label of its first already-labelled
//     causal neighbour (up, then left) and records an equivalence when the
//     other neighbour carries a different label. Unlabelled pixels mint a
//     fresh label.
//  2. Resolution pass: equivalences are merged with union-find (path
//     halving), then every cell is rewritten once to its canonical ID.
//
// Canonical IDs are compacted to 1..n in order of first appearance, so the
// catalog lists regions top-to-bottom by their first scanned pixel. Callers
// must still treat IDs as opaque: only the partition of pixels into regions
// is guaranteed, not the numbering.
//
// # Connectivity
//
// Regions are 4-connected. Two pixels that touch only at a corner belong to
// different regions.
//
// # Boundary Modes
//
// RowSimple assumes each row of a region holds one contiguous run, which is
// true of the near-convex drops and flies this engine was built for. Rows
// with several runs are collapsed to their outermost columns, so concavities
// are lost. ContourTrace walks the outer boundary with Moore-neighbour
// tracing and keeps concavities. Mask and Bounds are exact in both modes.
//
// # Thread Safety
//
// The package holds no mutable state. Every call allocates its own label
// buffer, so independent rasters may be processed concurrently. A Raster
// must not be modified while a call that reads it is in flight.
package blob
