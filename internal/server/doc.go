// Package server implements the MCP (Model Context Protocol) server for raster image tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the raster core
// (resampling, filtering, geometric transforms and transform estimation)
// through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - raster_info: Dimensions, format, layout and channel statistics
//
// Resampling and Filtering:
//   - raster_resize: Nearest or bilinear resize
//   - raster_gaussian_blur: Separable Gaussian blur
//   - raster_to_gray: Fixed-point luma conversion
//   - raster_edges: Canny edges or Sobel magnitude
//
// Geometry:
//   - raster_rotate: Rotate by a multiple of 90 degrees
//   - raster_flip: Mirror horizontally or vertically
//   - raster_crop: Extract a rectangle or named region
//   - raster_warp_affine: Warp by a matrix or fitted point pairs
//   - raster_estimate_transform: Fit an affine or similarity transform
//
// Tools that produce an image either write it to output_path or return it
// inline as base64-encoded PNG.
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls for the
// lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.Config{Version: version})
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
