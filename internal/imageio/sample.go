package imageio

import (
	"fmt"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/raster-tools-mcp/internal/geo"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// RGBAColor holds 8-bit color components with alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// HSLColor is a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult describes one pixel value in several notations.
type ColorResult struct {
	Hex  string    `json:"hex"` // "#RRGGBB", alpha excluded
	RGBA RGBAColor `json:"rgba"`
	HSL  HSLColor  `json:"hsl"`
}

func colorOf(p raster.Bgra[uint8]) ColorResult {
	c := colorful.Color{R: float64(p[2]) / 255, G: float64(p[1]) / 255, B: float64(p[0]) / 255}
	h, s, l := c.Hsl()
	return ColorResult{
		Hex:  strings.ToUpper(c.Hex()),
		RGBA: RGBAColor{R: p[2], G: p[1], B: p[0], A: p[3]},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// SampleColor returns the color of the pixel at (x, y).
// Coordinates are 0-based with the origin at the top-left.
func SampleColor(img *raster.ImageBgra, x, y int) (*ColorResult, error) {
	if x < 0 || x >= img.Width() || y < 0 || y >= img.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, img.Width(), img.Height())
	}
	c := colorOf(img.At(x, y))
	return &c, nil
}

// LabeledPoint is a pixel coordinate with an optional label.
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// LabeledColor is a color sample and where it was taken.
type LabeledColor struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// SampleColors samples every point in order. It fails without partial
// results if any point is outside the image.
func SampleColors(img *raster.ImageBgra, points []LabeledPoint) ([]LabeledColor, error) {
	out := make([]LabeledColor, 0, len(points))
	for _, p := range points {
		c, err := SampleColor(img, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		out = append(out, LabeledColor{Label: p.Label, X: p.X, Y: p.Y, Color: *c})
	}
	return out, nil
}

// ColorFrequency is a quantized color and the share of pixels it covers.
type ColorFrequency struct {
	Hex        string  `json:"hex"`
	Percentage float64 `json:"percentage"` // 0-100
}

// DominantColors returns up to count of the most common colors in region
// (the whole image when region is nil), most common first. Components are
// quantized to multiples of 16 before counting. Alpha is ignored.
func DominantColors(img *raster.ImageBgra, count int, region *geo.Recti) ([]ColorFrequency, error) {
	r := geo.NewRect(0, 0, img.Width(), img.Height())
	if region != nil {
		if region.Empty() || !r.ContainsRect(*region) {
			return nil, fmt.Errorf("region %v outside image bounds %v", *region, r)
		}
		r = *region
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	counts := make(map[[3]uint8]int)
	for y := r.Y; y < r.Y+r.Height; y++ {
		for _, p := range img.RowSlice(y)[r.X : r.X+r.Width] {
			counts[[3]uint8{p[2] &^ 15, p[1] &^ 15, p[0] &^ 15}]++
		}
	}

	total := float64(r.Area())
	colors := make([]ColorFrequency, 0, len(counts))
	for rgb, n := range counts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2]),
			Percentage: float64(n) / total * 100,
		})
	}
	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if len(colors) > count {
		colors = colors[:count]
	}
	return colors, nil
}
