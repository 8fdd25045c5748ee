package conv

import (
	"math"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// Sobel derivative kernels, split into their smoothing and differencing
// factors.
var (
	sobelSmooth = []float32{1, 2, 1}
	sobelDiff   = []float32{-1, 0, 1}
)

// Gradient holds the per-pixel Sobel response of a gray image.
type Gradient struct {
	// X and Y are the horizontal and vertical derivatives.
	X, Y *raster.ImageGrayf
	// Magnitude is sqrt(X² + Y²).
	Magnitude *raster.ImageGrayf
}

// Sobel computes image gradients with the 3x3 Sobel operator, expressed as
// two separable passes per axis. Borders are clamped to the edge.
func Sobel(src *raster.ImageGrayf) *Gradient {
	gx := Conv2DSep(src, sobelDiff, sobelSmooth)
	gy := Conv2DSep(src, sobelSmooth, sobelDiff)

	mag := raster.New[raster.Gray[float32], float32](src.Width(), src.Height())
	for y := 0; y < src.Height(); y++ {
		rx, ry, rm := gx.RowSlice(y), gy.RowSlice(y), mag.Row(y)
		for x := range rx {
			dx, dy := float64(rx[x][0]), float64(ry[x][0])
			rm[x] = raster.Gray[float32]{float32(math.Sqrt(dx*dx + dy*dy))}
		}
	}
	return &Gradient{X: gx, Y: gy, Magnitude: mag}
}

// Canny detects edges in an 8-bit gray image and returns a binary image
// where edge pixels are 255 and everything else is 0.
//
// Steps:
//  1. 5-tap Gaussian blur (sigma 1.4) to suppress noise
//  2. Sobel gradients
//  3. non-maximum suppression along the quantized gradient direction
//  4. hysteresis: magnitudes >= high are edges, magnitudes >= low are edges
//     when one of their 8 neighbours is >= high
//
// Thresholds are in gray levels (0-255). Typical values are 50 and 150 for
// clean diagrams, 100 and 200 for photographs.
func Canny(src *raster.ImageGray, low, high float32) *raster.ImageGray {
	w, h := src.Width(), src.Height()
	f := raster.Convert[raster.Gray[uint8], raster.Gray[float32], uint8, float32](src, raster.GrayToFloat{})
	grad := Sobel(GaussianBlur(f, 5, 1.4))

	mag := func(x, y int) float32 { return grad.Magnitude.At(x, y)[0] }

	suppressed := make([]float32, w*h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m := mag(x, y)
			angle := math.Atan2(float64(grad.Y.At(x, y)[0]), float64(grad.X.At(x, y)[0]))

			var n1, n2 float32
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = mag(x-1, y), mag(x+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = mag(x+1, y-1), mag(x-1, y+1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = mag(x, y-1), mag(x, y+1)
			default:
				n1, n2 = mag(x-1, y-1), mag(x+1, y+1)
			}
			if m >= n1 && m >= n2 {
				suppressed[y*w+x] = m
			}
		}
	}

	dst := raster.New[raster.Gray[uint8], uint8](w, h)
	for y := 0; y < h; y++ {
		row := dst.Row(y)
		for x := 0; x < w; x++ {
			v := suppressed[y*w+x]
			switch {
			case v >= high:
				row[x] = raster.Gray[uint8]{255}
			case v >= low && strongNeighbour(suppressed, w, h, x, y, high):
				row[x] = raster.Gray[uint8]{255}
			}
		}
	}
	return dst
}

func strongNeighbour(s []float32, w, h, x, y int, high float32) bool {
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			if s[clamp(y+ky, 0, h-1)*w+clamp(x+kx, 0, w-1)] >= high {
				return true
			}
		}
	}
	return false
}
