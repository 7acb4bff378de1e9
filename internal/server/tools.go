package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema for a single image path argument.
var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// detectionProperties returns the schema shared by every tool that runs
// spot detection. Unset values fall back to the server configuration.
func detectionProperties() map[string]interface{} {
	return map[string]interface{}{
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Grey level at or above which a pixel is foreground. 0 selects Otsu's automatic level. Omit to use the configured value",
			"minimum":     0,
			"maximum":     255,
		},
		"invert": map[string]interface{}{
			"type":        "boolean",
			"description": "Treat dark spots on a light background as foreground (e.g. flies on a backlit plate)",
		},
		"blur_sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian blur sigma applied before thresholding. 0 disables",
		},
		"min_area": map[string]interface{}{
			"type":        "integer",
			"description": "Ignore spots smaller than this many pixels",
		},
		"max_area": map[string]interface{}{
			"type":        "integer",
			"description": "Ignore spots larger than this many pixels. 0 means no limit",
		},
		"boundary": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"row-simple", "contour"},
			"description": "Outline algorithm: row-simple (leftmost/rightmost pixel per row) or contour (Moore-neighbour trace)",
		},
		"include_mask": map[string]interface{}{
			"type":        "boolean",
			"description": "Include each spot's pixels as run-length runs",
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional region of interest; coordinates in the result stay in full-frame pixels",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
	}
}

// overlayDetectionProperties is detectionProperties without include_mask:
// the overlay always paints full masks.
func overlayDetectionProperties() map[string]interface{} {
	props := detectionProperties()
	delete(props, "include_mask")
	return props
}

// withProperties merges extra schema properties into base.
func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for later detection calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Spot Detection
		{
			Name:        "spots_detect",
			Description: "Detect spots (drops, flies, specks) in an image. Returns one entry per 4-connected region with bounds, area, centroid, outline polygon, orientation and size measurements, sorted by area.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(detectionProperties(), map[string]interface{}{
					"path": pathProperty,
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "spots_detect_batch",
			Description: "Detect spots in several frames concurrently with the same settings. Results are returned in input order; region IDs are local to each frame.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(detectionProperties(), map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the frames",
					},
					"workers": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum frames processed at once. Defaults to the configured worker count",
					},
				}),
				"required": []string{"paths"},
			},
		},
		{
			Name:        "spots_overlay",
			Description: "Render detected regions over the image, honouring the area limits: each region filled with a distinct colour, outlined, and optionally labelled with its ID. Returns a base64 PNG and a colour legend.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(overlayDetectionProperties(), map[string]interface{}{
					"path": pathProperty,
					"alpha": map[string]interface{}{
						"type":        "number",
						"description": "Fill opacity 0-1. Default 0.5",
						"default":     0.5,
					},
					"outline_color": map[string]interface{}{
						"type":        "string",
						"description": "Outline colour as #RRGGBB. Default #FFFFFF",
						"default":     "#FFFFFF",
					},
					"show_ids": map[string]interface{}{
						"type":        "boolean",
						"description": "Stamp region IDs at each region's top-left corner. Default true",
						"default":     true,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to also write the overlay PNG to",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Raw Engine Access
		{
			Name:        "regions_from_pixels",
			Description: "Label a raw row-major pixel buffer (value > 0 is foreground) into 4-connected regions and return each region's outline, run-length mask and bounds.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Raster width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Raster height in pixels",
					},
					"pixels": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "integer"},
						"description": "width*height integers in row-major order",
					},
					"boundary": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"row-simple", "contour"},
						"description": "Outline algorithm. Defaults to the configured mode",
					},
					"include_labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the full labelled grid in row-major order",
					},
				},
				"required": []string{"width", "height", "pixels"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
