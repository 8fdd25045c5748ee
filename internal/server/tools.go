package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func outputPathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional file to write the result to; the format follows the extension (png, jpg, gif, tif, bmp). When omitted the result is returned as base64-encoded PNG.",
	}
}

func interpProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"nearest", "bilinear"},
		"description": "Sampling method. Default bilinear",
		"default":     "bilinear",
	}
}

func pointsProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"description": description,
		"items": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"x": map[string]interface{}{"type": "number"},
				"y": map[string]interface{}{"type": "number"},
			},
			"required": []string{"x", "y"},
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "raster_info",
			Description: "Load an image file and return its dimensions, detected format, in-memory channel layout, file size and per-channel value statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		{
			Name:        "raster_sample_color",
			Description: "Get the color at one or more pixel coordinates as hex, RGBA and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Pixels to sample, each with an optional label",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
				},
				"required": []string{"path", "points"},
			},
		},
		{
			Name:        "raster_dominant_colors",
			Description: "List the most common colors of an image or a region of it, quantized to 16 levels per channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of colors to return. Default 5",
						"default":     5,
					},
					"x1": map[string]interface{}{"type": "integer", "description": "Optional region left edge"},
					"y1": map[string]interface{}{"type": "integer", "description": "Optional region top edge"},
					"x2": map[string]interface{}{"type": "integer", "description": "Optional region right edge (exclusive)"},
					"y2": map[string]interface{}{"type": "integer", "description": "Optional region bottom edge (exclusive)"},
				},
				"required": []string{"path"},
			},
		},

		// Resampling
		{
			Name:        "raster_resize",
			Description: "Resize an image to an exact size or by a scale factor using nearest-neighbour or bilinear sampling.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Target width in pixels. Required unless scale is given",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Target height in pixels. Required unless scale is given",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Scale factor applied to both axes (e.g., 0.5 to halve). Ignored when width and height are given",
					},
					"interpolation": interpProperty(),
					"output_path":   outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Filtering
		{
			Name:        "raster_gaussian_blur",
			Description: "Blur an image with a separable Gaussian kernel. Borders repeat the edge pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"kernel_size": map[string]interface{}{
						"type":        "integer",
						"description": "Number of kernel taps per axis (1-101). Default 5",
						"default":     5,
					},
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian standard deviation. 0 derives it from kernel_size. Default 0",
						"default":     0,
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_to_gray",
			Description: "Convert an image to 8-bit grayscale with the fixed-point BT.601 luma weights.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":        pathProperty(),
					"output_path": outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_edges",
			Description: "Detect edges. 'canny' returns a binary edge map; 'sobel' returns the gradient magnitude scaled to 0-255.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"canny", "sobel"},
						"description": "Edge operator. Default canny",
						"default":     "canny",
					},
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Canny low threshold (0-255). Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Canny high threshold (0-255). Default 150",
						"default":     150,
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Geometry
		{
			Name:        "raster_rotate",
			Description: "Rotate an image clockwise by a multiple of 90 degrees. Negative angles rotate counter-clockwise.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"degrees": map[string]interface{}{
						"type":        "integer",
						"description": "Clockwise rotation, a multiple of 90",
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "degrees"},
			},
		},
		{
			Name:        "raster_flip",
			Description: "Mirror an image horizontally (left-right) or vertically (top-bottom).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"direction": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"horizontal", "vertical"},
						"description": "Flip direction",
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path", "direction"},
			},
		},
		{
			Name:        "raster_crop",
			Description: "Crop a rectangular or named region from an image. Use this to zoom into areas that need detailed examination.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x1": map[string]interface{}{
						"type":        "integer",
						"description": "Left edge X coordinate (0-based)",
					},
					"y1": map[string]interface{}{
						"type":        "integer",
						"description": "Top edge Y coordinate (0-based)",
					},
					"x2": map[string]interface{}{
						"type":        "integer",
						"description": "Right edge X coordinate (exclusive)",
					},
					"y2": map[string]interface{}{
						"type":        "integer",
						"description": "Bottom edge Y coordinate (exclusive)",
					},
					"region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Named region to crop instead of x1/y1/x2/y2",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor applied after cropping (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
					"output_path": outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_warp_affine",
			Description: "Warp an image through an affine transform given either as a 2x3 matrix or as point correspondences fitted by least squares.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"matrix": map[string]interface{}{
						"type":        "array",
						"description": "Forward transform rows [[a, b, tx], [c, d, ty]] mapping source to destination pixels",
						"items": map[string]interface{}{
							"type":     "array",
							"items":    map[string]interface{}{"type": "number"},
							"minItems": 3,
							"maxItems": 3,
						},
					},
					"src_points": pointsProperty("Source points, used with dst_points when matrix is omitted"),
					"dst_points": pointsProperty("Destination points matching src_points"),
					"similarity": map[string]interface{}{
						"type":        "boolean",
						"description": "Fit rotation, uniform scale and translation only (needs 2+ pairs instead of 3+). Default false",
						"default":     false,
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Output width. Default source width",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Output height. Default source height",
					},
					"interpolation": interpProperty(),
					"output_path":   outputPathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "raster_estimate_transform",
			Description: "Fit an affine or similarity transform to point correspondences and return the forward and inverse matrices.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"src_points": pointsProperty("Source points"),
					"dst_points": pointsProperty("Destination points matching src_points"),
					"similarity": map[string]interface{}{
						"type":        "boolean",
						"description": "Fit rotation, uniform scale and translation only. Default false",
						"default":     false,
					},
				},
				"required": []string{"src_points", "dst_points"},
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
