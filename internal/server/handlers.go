package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"

	"github.com/ironsheep/spot-tools-mcp/internal/blob"
	"github.com/ironsheep/spot-tools-mcp/internal/detection"
	"github.com/ironsheep/spot-tools-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "spots_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}
	if len(params.Arguments) == 0 {
		params.Arguments = json.RawMessage("{}")
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills unset options from the server configuration
//  3. Loads images from cache as needed
//  4. Calls the imaging/detection function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Spot Detection
	case "spots_detect":
		return s.handleSpotsDetect(args)
	case "spots_detect_batch":
		return s.handleSpotsDetectBatch(ctx, args)
	case "spots_overlay":
		return s.handleSpotsOverlay(args)

	// Raw Engine Access
	case "regions_from_pixels":
		return s.handleRegionsFromPixels(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Spot Detection Handlers ===

// detectionArgs are the detection settings shared by the spot tools.
// Pointer fields distinguish "unset" from an explicit zero.
type detectionArgs struct {
	Threshold   *int     `json:"threshold"`
	Invert      *bool    `json:"invert"`
	BlurSigma   *float64 `json:"blur_sigma"`
	MinArea     *int     `json:"min_area"`
	MaxArea     *int     `json:"max_area"`
	Boundary    string   `json:"boundary"`
	IncludeMask *bool    `json:"include_mask"`
	Region      *struct {
		X1 int `json:"x1"`
		Y1 int `json:"y1"`
		X2 int `json:"x2"`
		Y2 int `json:"y2"`
	} `json:"region,omitempty"`
}

// spotOptions merges a with the configured defaults.
func (s *Server) spotOptions(a detectionArgs) (detection.SpotOptions, error) {
	opts := s.cfg.SpotOptions()

	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return opts, fmt.Errorf("threshold must be within 0-255, got %d", *a.Threshold)
		}
		opts.Threshold.Level = uint8(*a.Threshold)
	}
	if a.Invert != nil {
		opts.Threshold.Invert = *a.Invert
	}
	if a.BlurSigma != nil {
		opts.Threshold.BlurSigma = *a.BlurSigma
	}
	if a.MinArea != nil {
		opts.MinArea = *a.MinArea
	}
	if a.MaxArea != nil {
		opts.MaxArea = *a.MaxArea
	}
	if a.IncludeMask != nil {
		opts.IncludeMask = *a.IncludeMask
	}
	if a.Boundary != "" {
		mode, err := blob.ParseBoundaryMode(a.Boundary)
		if err != nil {
			return opts, err
		}
		opts.Boundary = mode
	}
	if a.Region != nil {
		opts.Threshold.ROI = &imaging.Region{X1: a.Region.X1, Y1: a.Region.Y1, X2: a.Region.X2, Y2: a.Region.Y2}
	}
	return opts, nil
}

type spotsDetectArgs struct {
	Path string `json:"path"`
	detectionArgs
}

func (s *Server) handleSpotsDetect(args json.RawMessage) (interface{}, error) {
	var a spotsDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.spotOptions(a.detectionArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return detection.DetectSpots(img, opts)
}

type spotsDetectBatchArgs struct {
	Paths   []string `json:"paths"`
	Workers *int     `json:"workers"`
	detectionArgs
}

// batchResponse pairs each frame result with the path it came from.
type batchResponse struct {
	Paths []string `json:"paths"`
	*detection.BatchResult
}

func (s *Server) handleSpotsDetectBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a spotsDetectBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must contain at least one image")
	}
	opts, err := s.spotOptions(a.detectionArgs)
	if err != nil {
		return nil, err
	}
	workers := s.cfg.Batch.Workers
	if a.Workers != nil {
		workers = *a.Workers
	}

	frames := make([]image.Image, len(a.Paths))
	for i, p := range a.Paths {
		img, err := s.cache.Load(p)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames[i] = img
	}

	res, err := detection.DetectSpotsBatch(ctx, frames, opts, workers)
	if err != nil {
		return nil, err
	}
	s.debugf("batch: %d frames, %d spots", res.FrameCount, res.TotalSpots)
	return &batchResponse{Paths: a.Paths, BatchResult: res}, nil
}

type spotsOverlayArgs struct {
	Path         string   `json:"path"`
	Alpha        *float64 `json:"alpha"`
	OutlineColor string   `json:"outline_color"`
	ShowIDs      *bool    `json:"show_ids"`
	OutputPath   string   `json:"output_path"`
	detectionArgs
}

// overlayResponse adds region counts and the save location to a rendered
// overlay. Regions counts the drawn regions, TotalRegions all of them.
type overlayResponse struct {
	*imaging.OverlayResult
	Regions      int    `json:"regions"`
	TotalRegions int    `json:"total_regions"`
	SavedTo      string `json:"saved_to,omitempty"`
}

func (s *Server) handleSpotsOverlay(args json.RawMessage) (interface{}, error) {
	var a spotsOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Alpha == nil {
		alpha := 0.5
		a.Alpha = &alpha
	}
	if a.OutlineColor == "" {
		a.OutlineColor = "#FFFFFF"
	}
	if a.ShowIDs == nil {
		show := true
		a.ShowIDs = &show
	}

	opts, err := s.spotOptions(a.detectionArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	catalog, bin, err := detection.Segment(img, opts.Threshold, opts.Boundary)
	if err != nil {
		return nil, err
	}
	res, err := imaging.RenderRegions(img, catalog, imaging.OverlayOptions{
		Offset:          bin.Offset,
		Alpha:           *a.Alpha,
		OutlineColorHex: a.OutlineColor,
		ShowIDs:         *a.ShowIDs,
		MinArea:         opts.MinArea,
		MaxArea:         opts.MaxArea,
	})
	if err != nil {
		return nil, err
	}

	out := &overlayResponse{OverlayResult: res, Regions: len(res.Legend), TotalRegions: catalog.Len()}
	if a.OutputPath != "" {
		if err := imaging.SaveOverlay(a.OutputPath, res.Image); err != nil {
			return nil, err
		}
		out.SavedTo = a.OutputPath
	}
	return out, nil
}

// === Raw Engine Handlers ===

type regionsFromPixelsArgs struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Pixels        []int32 `json:"pixels"`
	Boundary      string  `json:"boundary"`
	IncludeLabels bool    `json:"include_labels"`
}

func (s *Server) handleRegionsFromPixels(args json.RawMessage) (interface{}, error) {
	var a regionsFromPixelsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mode := s.cfg.BoundaryMode()
	if a.Boundary != "" {
		m, err := blob.ParseBoundaryMode(a.Boundary)
		if err != nil {
			return nil, err
		}
		mode = m
	}
	return detection.RegionsFromPixels(a.Width, a.Height, a.Pixels, mode, a.IncludeLabels)
}
