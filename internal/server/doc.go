// Package server implements the MCP (Model Context Protocol) server for spot
// detection tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the region engine
// and the spot pipeline through the MCP protocol, so an assistant can count
// and measure drops, flies or specks in lab images.
//
// # Protocol
//
// The server communicates over a line-oriented stream using JSON-RPC 2.0:
//   - Input: JSON-RPC requests, one per line
//   - Output: JSON-RPC responses, one per line
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Spot Detection:
//   - spots_detect: Detect and measure spots in one image
//   - spots_detect_batch: Detect spots in many frames concurrently
//   - spots_overlay: Render labelled regions over the image
//
// Raw Engine Access:
//   - regions_from_pixels: Label a raw integer raster
//
// # Defaults
//
// Detection arguments a caller leaves out (threshold, inversion, blur,
// area limits, boundary mode, masks, batch workers) come from the
// config.Config the server was built with.
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls for the
// lifetime of the server.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A line that is not valid JSON yields a -32700 response with a null ID.
//
// # Usage
//
//	srv := server.New(cfg, os.Stdin, os.Stdout)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
