package transform

import (
	"errors"
	"fmt"

	"github.com/ironsheep/raster-tools-mcp/internal/geo"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// ErrInvalidRegion is returned by Crop for empty rectangles or rectangles
// that leave the image, and by CropRegion for unknown region names.
var ErrInvalidRegion = errors.New("transform: invalid crop region")

// Regions lists the names accepted by CropRegion.
var Regions = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// Crop copies the pixels inside r into a new image.
func Crop[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], r geo.Recti) (*raster.Image[P, T], error) {
	bounds := geo.NewRect(0, 0, src.Width(), src.Height())
	if r.Empty() {
		return nil, fmt.Errorf("crop %v: empty rectangle: %w", r, ErrInvalidRegion)
	}
	if !bounds.ContainsRect(r) {
		return nil, fmt.Errorf("crop %v outside image bounds %v: %w", r, bounds, ErrInvalidRegion)
	}

	dst := raster.New[P, T](r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		copy(dst.Row(y), src.RowSlice(r.Y + y)[r.X:r.X+r.Width])
	}
	return dst, nil
}

// RegionRect returns the rectangle of a named region of a w x h image.
// "center" is the middle half in both directions.
func RegionRect(region string, w, h int) (geo.Recti, error) {
	midX, midY := w/2, h/2
	switch region {
	case "top-left":
		return geo.RectFromCorners(0, 0, midX, midY), nil
	case "top-right":
		return geo.RectFromCorners(midX, 0, w, midY), nil
	case "bottom-left":
		return geo.RectFromCorners(0, midY, midX, h), nil
	case "bottom-right":
		return geo.RectFromCorners(midX, midY, w, h), nil
	case "top-half":
		return geo.RectFromCorners(0, 0, w, midY), nil
	case "bottom-half":
		return geo.RectFromCorners(0, midY, w, h), nil
	case "left-half":
		return geo.RectFromCorners(0, 0, midX, h), nil
	case "right-half":
		return geo.RectFromCorners(midX, 0, w, h), nil
	case "center":
		qW, qH := w/4, h/4
		return geo.RectFromCorners(qW, qH, w-qW, h-qH), nil
	default:
		return geo.Recti{}, fmt.Errorf("unknown region %q: %w", region, ErrInvalidRegion)
	}
}

// CropRegion crops one of the named Regions out of src.
func CropRegion[P raster.Pixel[P, T], T raster.Subpixel](src *raster.Image[P, T], region string) (*raster.Image[P, T], error) {
	r, err := RegionRect(region, src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	return Crop(src, r)
}
