package detection

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// BatchResult holds one SpotsResult per input frame, in input order.
type BatchResult struct {
	Frames     []*SpotsResult `json:"frames"`
	FrameCount int            `json:"frame_count"`
	TotalSpots int            `json:"total_spots"`
}

// DetectSpotsBatch runs DetectSpots over frames with at most workers
// detections in flight. workers <= 0 means no limit.
//
// Region IDs are local to each frame. The first failing frame cancels ctx
// for the rest and its error is returned.
func DetectSpotsBatch(ctx context.Context, frames []image.Image, opts SpotOptions, workers int) (*BatchResult, error) {
	results := make([]*SpotsResult, len(frames))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, img := range frames {
		i, img := i, img
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if img == nil {
				return fmt.Errorf("frame %d: no image", i)
			}
			res, err := DetectSpots(img, opts)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += r.Count
	}
	return &BatchResult{Frames: results, FrameCount: len(results), TotalSpots: total}, nil
}
