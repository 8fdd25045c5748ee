// Package conv implements 1D and separable 2D convolution with
// clamp-to-edge borders, Gaussian kernels, and gradient filters built on
// them.
//
// All arithmetic is done in float32; results are rounded and saturated to
// the destination subpixel type only when a pixel is written.
package conv

import (
	"fmt"

	"github.com/ironsheep/raster-tools-mcp/internal/parallel"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// Conv1D correlates row with kernel and stores the result in out:
//
//	out[i] = sum_j row[clamp(i - len(kernel)/2 + j, 0, len(row)-1)] * kernel[j]
//
// Samples outside the row repeat the edge value. It panics if out is
// shorter than row.
func Conv1D[T raster.Subpixel](row []T, out []float32, kernel []float32) {
	if len(out) < len(row) {
		panic(fmt.Sprintf("conv: output length %d shorter than row length %d", len(out), len(row)))
	}
	w := len(row)
	hx := len(kernel) / 2
	for i := 0; i < w; i++ {
		var s float32
		for j, k := range kernel {
			xi := clamp(i-hx+j, 0, w-1)
			s += raster.ToFloat(row[xi]) * k
		}
		out[i] = s
	}
}

// Conv2DSep convolves every channel of src with kx horizontally and ky
// vertically, replicating edge pixels at the borders. Each output row is
// produced by a vertical pass into a float buffer followed by a horizontal
// pass over that buffer.
func Conv2DSep[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], kx, ky []float32) *raster.Image[P, T] {
	w, h := src.Width(), src.Height()
	dst := raster.New[P, T](w, h)
	if w == 0 || h == 0 {
		return dst
	}
	n := src.Channels()
	hy := len(ky) / 2

	parallel.Rows(h, func(start, end int) {
		vert := make([][]float32, n)
		horz := make([][]float32, n)
		for c := range vert {
			vert[c] = make([]float32, w)
			horz[c] = make([]float32, w)
		}

		for y := start; y < end; y++ {
			for c := range vert {
				clear(vert[c])
			}
			for j, k := range ky {
				ps := src.RowSlice(clamp(y-hy+j, 0, h-1))
				for x := range ps {
					for c := 0; c < n; c++ {
						vert[c][x] += raster.ToFloat(ps[x].At(c)) * k
					}
				}
			}
			for c := 0; c < n; c++ {
				Conv1D(vert[c], horz[c], kx)
			}

			pd := dst.Row(y)
			for x := 0; x < w; x++ {
				var p P
				for c := 0; c < n; c++ {
					p = p.With(c, raster.FromFloat[T](horz[c][x]))
				}
				pd[x] = p
			}
		}
	})
	return dst
}

// GaussianBlur smooths src with a width-tap Gaussian on both axes. A sigma
// at or near zero is derived from the width, see GaussianKernel.
func GaussianBlur[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], width int, sigma float64) *raster.Image[P, T] {
	k := GaussianKernel(width, sigma)
	return Conv2DSep(src, k, k)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
