package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/raster-tools-mcp/internal/affine"
	"github.com/ironsheep/raster-tools-mcp/internal/conv"
	"github.com/ironsheep/raster-tools-mcp/internal/geo"
	"github.com/ironsheep/raster-tools-mcp/internal/imageio"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
	"github.com/ironsheep/raster-tools-mcp/internal/transform"
)

// maxDimension bounds the width and height of images produced by tools.
const maxDimension = 1 << 14

// maxKernelSize bounds the Gaussian kernel size accepted by raster_gaussian_blur.
const maxKernelSize = 101

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "raster_info", "raster_resize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ImageResult describes an image produced by a tool. Exactly one of
// OutputPath and ImageBase64 is set.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	OutputPath  string `json:"output_path,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type"`
}

// EdgeResult is an ImageResult with the number of edge pixels found.
type EdgeResult struct {
	ImageResult
	EdgePixels int `json:"edge_pixels"`
}

// TransformResult holds a fitted transform.
type TransformResult struct {
	// Matrix is the forward 3x3 matrix, row-major.
	Matrix affine.Mat3 `json:"matrix"`
	// Inverse is the inverse of Matrix.
	Inverse affine.Mat3 `json:"inverse"`
	// RMSError is the root-mean-square distance between the mapped source
	// points and the destination points.
	RMSError float64 `json:"rms_error"`
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
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Info("tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	return s.toolResult(req.ID, result)
}

// toolResult wraps a tool result as MCP text content. A result that cannot
// be encoded yields a -32603 internal error.
func (s *Server) toolResult(id interface{}, result interface{}) *MCPResponse {
	text, err := marshalJSON(result)
	if err != nil {
		s.log.Error("failed to encode tool result", "err", err)
		return s.errorResponse(id, -32603, "Internal error", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": text,
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Runs the raster operation
//  5. Saves or encodes the resulting image
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "raster_info":
		return s.handleInfo(args)
	case "raster_sample_color":
		return s.handleSampleColor(args)
	case "raster_dominant_colors":
		return s.handleDominantColors(args)
	case "raster_resize":
		return s.handleResize(args)
	case "raster_gaussian_blur":
		return s.handleGaussianBlur(args)
	case "raster_to_gray":
		return s.handleToGray(args)
	case "raster_edges":
		return s.handleEdges(args)
	case "raster_rotate":
		return s.handleRotate(args)
	case "raster_flip":
		return s.handleFlip(args)
	case "raster_crop":
		return s.handleCrop(args)
	case "raster_warp_affine":
		return s.handleWarpAffine(args)
	case "raster_estimate_transform":
		return s.handleEstimateTransform(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// marshalJSON converts a value to a pretty-printed JSON string.
func marshalJSON(v interface{}) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// emit writes img to outputPath, or encodes it as base64 PNG when
// outputPath is empty.
func (s *Server) emit(img *raster.ImageBgra, outputPath string) (*ImageResult, error) {
	res := &ImageResult{Width: img.Width(), Height: img.Height()}

	if outputPath != "" {
		format, err := imageio.FormatFromPath(outputPath)
		if err != nil {
			return nil, err
		}
		if err := imageio.Save(outputPath, img, imageio.EncodeOptions{JPEGQuality: s.cfg.JPEGQuality}); err != nil {
			return nil, err
		}
		res.OutputPath = outputPath
		res.MimeType = format.MimeType()
		return res, nil
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, imageio.FormatPNG, imageio.EncodeOptions{}); err != nil {
		return nil, err
	}
	res.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	res.MimeType = imageio.FormatPNG.MimeType()
	return res, nil
}

func checkSize(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("invalid output size %dx%d: both dimensions must be positive", w, h)
	}
	if w > maxDimension || h > maxDimension {
		return fmt.Errorf("output size %dx%d exceeds %d: %w", w, h, maxDimension, raster.ErrOutOfMemory)
	}
	return nil
}

func parseInterp(name string) (transform.Interp, error) {
	switch name {
	case "", "bilinear":
		return transform.InterpBilinear, nil
	case "nearest":
		return transform.InterpNearest, nil
	default:
		return 0, fmt.Errorf("unknown interpolation: %s", name)
	}
}

type pointArg struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toPoints(in []pointArg) []geo.Pointf {
	out := make([]geo.Pointf, len(in))
	for i, p := range in {
		out[i] = geo.Pt(p.X, p.Y)
	}
	return out
}

// === Image Information ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.cache.Info(a.Path)
}

type sampleColorArgs struct {
	Path   string                 `json:"path"`
	Points []imageio.LabeledPoint `json:"points"`
}

func (s *Server) handleSampleColor(args json.RawMessage) (interface{}, error) {
	var a sampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Points) == 0 {
		return nil, errors.New("at least one point is required")
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	samples, err := imageio.SampleColors(img, a.Points)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"samples": samples}, nil
}

type dominantColorsArgs struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
	X1    *int   `json:"x1"`
	Y1    *int   `json:"y1"`
	X2    *int   `json:"x2"`
	Y2    *int   `json:"y2"`
}

func (s *Server) handleDominantColors(args json.RawMessage) (interface{}, error) {
	var a dominantColorsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var region *geo.Recti
	if a.X1 != nil && a.Y1 != nil && a.X2 != nil && a.Y2 != nil {
		r := geo.RectFromCorners(*a.X1, *a.Y1, *a.X2, *a.Y2)
		region = &r
	}
	colors, err := imageio.DominantColors(img, a.Count, region)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"colors": colors}, nil
}

// === Resampling ===

type resizeArgs struct {
	Path          string  `json:"path"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Scale         float64 `json:"scale"`
	Interpolation string  `json:"interpolation"`
	OutputPath    string  `json:"output_path"`
}

func (s *Server) handleResize(args json.RawMessage) (interface{}, error) {
	var a resizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	interp, err := parseInterp(a.Interpolation)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	w, h := a.Width, a.Height
	sw, sh := float64(img.Width()), float64(img.Height())
	switch {
	case w > 0 && h > 0:
	case w > 0:
		h = int(math.Round(sh * float64(w) / sw))
	case h > 0:
		w = int(math.Round(sw * float64(h) / sh))
	case a.Scale > 0:
		w = int(math.Round(sw * a.Scale))
		h = int(math.Round(sh * a.Scale))
	default:
		return nil, errors.New("either width/height or a positive scale is required")
	}
	if err := checkSize(w, h); err != nil {
		return nil, err
	}

	var out *raster.ImageBgra
	if interp == transform.InterpNearest {
		out = transform.ResizeNearest(img, w, h)
	} else {
		out = transform.ResizeBilinear(img, w, h)
	}
	return s.emit(out, a.OutputPath)
}

// === Filtering ===

type gaussianBlurArgs struct {
	Path       string  `json:"path"`
	KernelSize int     `json:"kernel_size"`
	Sigma      float64 `json:"sigma"`
	OutputPath string  `json:"output_path"`
}

func (s *Server) handleGaussianBlur(args json.RawMessage) (interface{}, error) {
	var a gaussianBlurArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.KernelSize == 0 {
		a.KernelSize = 5
	}
	if a.KernelSize < 1 || a.KernelSize > maxKernelSize {
		return nil, fmt.Errorf("kernel_size must be between 1 and %d, got %d", maxKernelSize, a.KernelSize)
	}
	if a.Sigma < 0 {
		return nil, fmt.Errorf("sigma must not be negative, got %v", a.Sigma)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.emit(conv.GaussianBlur(img, a.KernelSize, a.Sigma), a.OutputPath)
}

type toGrayArgs struct {
	Path       string `json:"path"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleToGray(args json.RawMessage) (interface{}, error) {
	var a toGrayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.emit(raster.GrayToBgraImage(raster.ToGray(img)), a.OutputPath)
}

type edgesArgs struct {
	Path          string `json:"path"`
	Method        string `json:"method"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
	OutputPath    string `json:"output_path"`
}

func (s *Server) handleEdges(args json.RawMessage) (interface{}, error) {
	var a edgesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Method == "" {
		a.Method = "canny"
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 150
	}
	if a.Method != "canny" && a.Method != "sobel" {
		return nil, fmt.Errorf("unknown edge method: %s", a.Method)
	}
	if a.ThresholdLow > a.ThresholdHigh {
		return nil, fmt.Errorf("threshold_low %d exceeds threshold_high %d", a.ThresholdLow, a.ThresholdHigh)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var edges *raster.ImageGray
	if a.Method == "sobel" {
		edges = sobelMagnitude(raster.ToGrayf(img))
	} else {
		edges = conv.Canny(raster.ToGray(img), float32(a.ThresholdLow), float32(a.ThresholdHigh))
	}

	count := 0
	for y := 0; y < edges.Height(); y++ {
		for _, p := range edges.RowSlice(y) {
			if p[0] > 0 {
				count++
			}
		}
	}

	res, err := s.emit(raster.GrayToBgraImage(edges), a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &EdgeResult{ImageResult: *res, EdgePixels: count}, nil
}

// sobelMagnitude returns the Sobel gradient magnitude of src scaled so the
// strongest edge is 255.
func sobelMagnitude(src *raster.ImageGrayf) *raster.ImageGray {
	mag := conv.Sobel(src).Magnitude
	var peak float32
	for y := 0; y < mag.Height(); y++ {
		for _, p := range mag.RowSlice(y) {
			peak = max(peak, p[0])
		}
	}
	scale := float32(0)
	if peak > 0 {
		scale = 255 / peak
	}
	return raster.Convert[raster.Gray[float32], raster.Gray[uint8], float32, uint8](mag,
		raster.MapperFunc[raster.Gray[float32], raster.Gray[uint8]](func(p raster.Gray[float32]) raster.Gray[uint8] {
			return raster.Gray[uint8]{raster.FromFloat[uint8](p[0] * scale)}
		}))
}

// === Geometry ===

type rotateArgs struct {
	Path       string `json:"path"`
	Degrees    int    `json:"degrees"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleRotate(args json.RawMessage) (interface{}, error) {
	var a rotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := transform.Rotate(img, a.Degrees)
	if err != nil {
		return nil, err
	}
	return s.emit(out, a.OutputPath)
}

type flipArgs struct {
	Path       string `json:"path"`
	Direction  string `json:"direction"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleFlip(args json.RawMessage) (interface{}, error) {
	var a flipArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Direction != "horizontal" && a.Direction != "vertical" {
		return nil, fmt.Errorf("unknown flip direction: %q", a.Direction)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Direction == "vertical" {
		return s.emit(transform.FlipVertical(img), a.OutputPath)
	}
	return s.emit(transform.FlipHorizontal(img), a.OutputPath)
}

type cropArgs struct {
	Path       string  `json:"path"`
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Region     string  `json:"region"`
	Scale      float64 `json:"scale"`
	OutputPath string  `json:"output_path"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	if a.Scale < 0 {
		return nil, fmt.Errorf("scale must be positive, got %v", a.Scale)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	var out *raster.ImageBgra
	if a.Region != "" {
		out, err = transform.CropRegion(img, a.Region)
	} else {
		out, err = transform.Crop(img, geo.RectFromCorners(a.X1, a.Y1, a.X2, a.Y2))
	}
	if err != nil {
		return nil, err
	}

	if a.Scale != 1.0 {
		w := int(float64(out.Width()) * a.Scale)
		h := int(float64(out.Height()) * a.Scale)
		if err := checkSize(w, h); err != nil {
			return nil, err
		}
		out = transform.ResizeBilinear(out, w, h)
	}
	return s.emit(out, a.OutputPath)
}

type warpAffineArgs struct {
	Path          string      `json:"path"`
	Matrix        [][]float64 `json:"matrix"`
	SrcPoints     []pointArg  `json:"src_points"`
	DstPoints     []pointArg  `json:"dst_points"`
	Similarity    bool        `json:"similarity"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	Interpolation string      `json:"interpolation"`
	OutputPath    string      `json:"output_path"`
}

func (s *Server) handleWarpAffine(args json.RawMessage) (interface{}, error) {
	var a warpAffineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	interp, err := parseInterp(a.Interpolation)
	if err != nil {
		return nil, err
	}

	var t *affine.Affine2D
	switch {
	case a.Matrix != nil:
		t, err = matrixTransform(a.Matrix)
	case a.SrcPoints != nil || a.DstPoints != nil:
		t, err = fitTransform(a.SrcPoints, a.DstPoints, a.Similarity)
	default:
		err = errors.New("either matrix or src_points/dst_points is required")
	}
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	w, h := a.Width, a.Height
	if w == 0 {
		w = img.Width()
	}
	if h == 0 {
		h = img.Height()
	}
	if err := checkSize(w, h); err != nil {
		return nil, err
	}
	return s.emit(transform.WarpPerspective(img, w, h, t, interp), a.OutputPath)
}

// matrixTransform builds a transform from a 2x3 (or full 3x3) row-major
// matrix.
func matrixTransform(rows [][]float64) (*affine.Affine2D, error) {
	if len(rows) != 2 && len(rows) != 3 {
		return nil, fmt.Errorf("matrix must have 2 or 3 rows, got %d", len(rows))
	}
	m := affine.Mat3{{}, {}, {0, 0, 1}}
	for i, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("matrix row %d must have 3 values, got %d", i, len(row))
		}
		copy(m[i][:], row)
	}
	return affine.FromMat(m)
}

func fitTransform(src, dst []pointArg, similarity bool) (*affine.Affine2D, error) {
	if similarity {
		return affine.SimilarityFromPoints(toPoints(src), toPoints(dst))
	}
	return affine.FromPoints(toPoints(src), toPoints(dst))
}

type estimateTransformArgs struct {
	SrcPoints  []pointArg `json:"src_points"`
	DstPoints  []pointArg `json:"dst_points"`
	Similarity bool       `json:"similarity"`
}

func (s *Server) handleEstimateTransform(args json.RawMessage) (interface{}, error) {
	var a estimateTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	t, err := fitTransform(a.SrcPoints, a.DstPoints, a.Similarity)
	if err != nil {
		return nil, err
	}

	var sum float64
	src, dst := toPoints(a.SrcPoints), toPoints(a.DstPoints)
	for i := range src {
		d := t.MapPoint(src[i]).Sub(dst[i])
		sum += d.X*d.X + d.Y*d.Y
	}
	return &TransformResult{
		Matrix:   t.T,
		Inverse:  t.TInv,
		RMSError: math.Sqrt(sum / float64(len(src))),
	}, nil
}
