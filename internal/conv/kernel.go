package conv

import "math"

// sigmaEpsilon is the threshold below which sigma is derived from the width.
const sigmaEpsilon = 1e-6

// GaussianKernel returns a symmetric width-tap Gaussian kernel whose taps
// sum to 1. Taps are centred on (width-1)/2, so even widths are supported.
//
// If sigma is at or near zero it is derived from the width with the usual
// heuristic 0.3*((width-1)*0.5 - 1) + 0.8. A width below 1 is treated as 1.
func GaussianKernel(width int, sigma float64) []float32 {
	if width < 1 {
		width = 1
	}
	if sigma <= sigmaEpsilon {
		sigma = 0.3*(float64(width-1)*0.5-1) + 0.8
	}

	center := float64(width-1) * 0.5
	scale := -0.5 / (sigma * sigma)
	taps := make([]float64, width)
	var sum float64
	for i := range taps {
		x := float64(i) - center
		taps[i] = math.Exp(scale * x * x)
		sum += taps[i]
	}

	kernel := make([]float32, width)
	for i, v := range taps {
		kernel[i] = float32(v / sum)
	}
	return kernel
}

// BoxKernel returns a width-tap kernel of equal weights 1/width.
func BoxKernel(width int) []float32 {
	if width < 1 {
		width = 1
	}
	kernel := make([]float32, width)
	v := float32(1) / float32(width)
	for i := range kernel {
		kernel[i] = v
	}
	return kernel
}
