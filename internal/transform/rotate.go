package transform

import (
	"errors"
	"fmt"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// ErrInvalidAngle is returned by Rotate for angles that are not a multiple
// of 90 degrees.
var ErrInvalidAngle = errors.New("transform: angle must be a multiple of 90 degrees")

// FlipVertical returns src with its rows in reverse order.
func FlipVertical[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T]) *raster.Image[P, T] {
	w, h := src.Width(), src.Height()
	dst := raster.New[P, T](w, h)
	for y := 0; y < h; y++ {
		copy(dst.Row(h-1-y), src.RowSlice(y))
	}
	return dst
}

// FlipHorizontal returns src mirrored left to right.
func FlipHorizontal[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T]) *raster.Image[P, T] {
	w, h := src.Width(), src.Height()
	dst := raster.New[P, T](w, h)
	for y := 0; y < h; y++ {
		ps, pd := src.RowSlice(y), dst.Row(y)
		for x := range ps {
			pd[w-1-x] = ps[x]
		}
	}
	return dst
}

// RotateCW0 returns a copy of src with stride equal to width.
func RotateCW0[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T]) *raster.Image[P, T] {
	dst := raster.New[P, T](src.Width(), src.Height())
	for y := 0; y < src.Height(); y++ {
		copy(dst.Row(y), src.RowSlice(y))
	}
	return dst
}

// RotateCW90 rotates src a quarter turn clockwise. The result is
// Height() wide and Width() tall; the top-left source pixel ends up in the
// top-right corner.
func RotateCW90[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T]) *raster.Image[P, T] {
	w, h := src.Width(), src.Height()
	dst := raster.New[P, T](h, w)
	for y := 0; y < h; y++ {
		k := h - 1 - y
		for x, p := range src.RowSlice(y) {
			dst.Row(x)[k] = p
		}
	}
	return dst
}

// RotateCW180 rotates src a half turn.
func RotateCW180[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T]) *raster.Image[P, T] {
	w, h := src.Width(), src.Height()
	dst := raster.New[P, T](w, h)
	for y := 0; y < h; y++ {
		ps, pd := src.RowSlice(y), dst.Row(h-1-y)
		for x := range ps {
			pd[w-1-x] = ps[x]
		}
	}
	return dst
}

// RotateCW270 rotates src three quarter turns clockwise, i.e. a quarter
// turn counter-clockwise. The top-left source pixel ends up in the
// bottom-left corner.
func RotateCW270[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T]) *raster.Image[P, T] {
	w, h := src.Width(), src.Height()
	dst := raster.New[P, T](h, w)
	for y := 0; y < h; y++ {
		for x, p := range src.RowSlice(y) {
			dst.Row(w - 1 - x)[y] = p
		}
	}
	return dst
}

// Rotate turns src clockwise by degrees, which may be negative but must be
// a multiple of 90.
func Rotate[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], degrees int) (*raster.Image[P, T], error) {
	if degrees%90 != 0 {
		return nil, fmt.Errorf("rotate by %d: %w", degrees, ErrInvalidAngle)
	}
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return RotateCW90(src), nil
	case 180:
		return RotateCW180(src), nil
	case 270:
		return RotateCW270(src), nil
	default:
		return RotateCW0(src), nil
	}
}
