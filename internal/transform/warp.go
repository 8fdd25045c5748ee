package transform

import (
	"math"

	"github.com/ironsheep/raster-tools-mcp/internal/affine"
	"github.com/ironsheep/raster-tools-mcp/internal/parallel"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// Interp selects how WarpPerspective samples the source.
type Interp int

const (
	InterpNearest Interp = iota
	InterpBilinear
)

func (i Interp) String() string {
	switch i {
	case InterpNearest:
		return "nearest"
	case InterpBilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// WarpPerspective renders src through the transform a into a new
// width x height image. Each destination pixel (x, y) takes its value from
// the source point a.ApplyInv([x, y, 1]) after the homogeneous divide.
//
// Destination pixels whose source point is undefined, or falls outside src
// under InterpNearest, keep the zero pixel.
func WarpPerspective[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], width, height int, a *affine.Affine2D, interp Interp) *raster.Image[P, T] {
	dst := raster.New[P, T](width, height)
	sw, sh := src.Width(), src.Height()
	if sw == 0 || sh == 0 {
		return dst
	}

	parallel.Rows(height, func(start, end int) {
		for y := start; y < end; y++ {
			pd := dst.Row(y)
			for x := 0; x < width; x++ {
				v := a.ApplyInv([3]float64{float64(x), float64(y), 1})
				if v[2] == 0 {
					continue
				}
				sx, sy := v[0]/v[2], v[1]/v[2]
				if math.IsNaN(sx) || math.IsNaN(sy) {
					continue
				}

				switch interp {
				case InterpBilinear:
					pd[x] = sampleBilinear(src, sx, sy)
				default:
					ix, iy := math.Round(sx), math.Round(sy)
					if ix < 0 || iy < 0 || ix >= float64(sw) || iy >= float64(sh) {
						continue
					}
					pd[x] = src.Row(int(iy))[int(ix)]
				}
			}
		}
	})
	return dst
}

// sampleBilinear blends the four pixels around (sx, sy), clamping them into
// the image. The weights of the top-left tap are ceil(sx)-sx and
// ceil(sy)-sy.
func sampleBilinear[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], sx, sy float64) P {
	// Outside the image every tap clamps to the same edge pixel, so
	// clamping the coordinate first gives the same result.
	sx = math.Max(0, math.Min(sx, float64(src.Width()-1)))
	sy = math.Max(0, math.Min(sy, float64(src.Height()-1)))

	l, r := math.Floor(sx), math.Ceil(sx)
	t, b := math.Floor(sy), math.Ceil(sy)
	x0, x1 := int(l), int(r)
	r0, r1 := src.Row(int(t)), src.Row(int(b))
	return r0[x0].Blend4(r0[x1], r1[x0], r1[x1], float32(r-sx), float32(b-sy))
}
