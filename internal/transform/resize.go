package transform

import (
	"math"

	"github.com/ironsheep/raster-tools-mcp/internal/parallel"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// ResizeNearest scales src to width x height by nearest-neighbour
// sampling. Pixels are copied verbatim, never blended.
// It panics if width or height is negative.
func ResizeNearest[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], width, height int) *raster.Image[P, T] {
	dst := raster.New[P, T](width, height)
	if src.Width() == 0 || src.Height() == 0 {
		return dst
	}
	xscale := float64(src.Width()) / float64(width)
	yscale := float64(src.Height()) / float64(height)

	xidx := make([]int, width)
	for x := range xidx {
		xidx[x] = clippedRound(float64(x)*xscale, 0, src.Width()-1)
	}

	parallel.Rows(height, func(start, end int) {
		for y := start; y < end; y++ {
			ps := src.Row(clippedRound(float64(y)*yscale, 0, src.Height()-1))
			pd := dst.Row(y)
			for x, sx := range xidx {
				pd[x] = ps[sx]
			}
		}
	})
	return dst
}

// ResizeBilinear scales src to width x height with bilinear
// interpolation. It panics if width or height is negative.
func ResizeBilinear[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], width, height int) *raster.Image[P, T] {
	dst := raster.New[P, T](width, height)
	if src.Width() == 0 || src.Height() == 0 {
		return dst
	}
	xscale := float64(src.Width()) / float64(width)
	yscale := float64(src.Height()) / float64(height)

	// Per column: left and right source columns and the weight of the left one.
	x0 := make([]int, width)
	x1 := make([]int, width)
	dx := make([]float32, width)
	for x := 0; x < width; x++ {
		mid := float64(x) * xscale
		l, r := math.Floor(mid), math.Ceil(mid)
		x0[x] = clippedRound(l, 0, src.Width()-1)
		x1[x] = clippedRound(r, 0, src.Width()-1)
		dx[x] = float32(r - mid)
	}

	parallel.Rows(height, func(start, end int) {
		for y := start; y < end; y++ {
			mid := float64(y) * yscale
			t, b := math.Floor(mid), math.Ceil(mid)
			dy := float32(b - mid)

			ps0 := src.Row(clippedRound(t, 0, src.Height()-1))
			ps1 := src.Row(clippedRound(b, 0, src.Height()-1))
			pd := dst.Row(y)
			for x := 0; x < width; x++ {
				pd[x] = ps0[x0[x]].Blend4(ps0[x1[x]], ps1[x0[x]], ps1[x1[x]], dx[x], dy)
			}
		}
	})
	return dst
}

// clippedRound rounds v half away from zero and clamps it to [lo, hi].
func clippedRound(v float64, lo, hi int) int {
	v = math.Round(v)
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}
