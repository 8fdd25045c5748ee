package raster

import colorful "github.com/lucasb-eyer/go-colorful"

// ImageBgraf holds BGRA pixels as floats in [0, 1].
type ImageBgraf = Image[Bgra[float32], float32]

// BgraToLinear maps 8-bit sRGB BGRA to linear-light float BGRA in [0, 1].
// Alpha is scaled to [0, 1] but not linearized.
//
// Filtering in linear light avoids the darkening that blurs and
// downscales show when they average gamma-encoded values.
type BgraToLinear struct{}

func (BgraToLinear) To(p Bgra[uint8]) Bgra[float32] {
	c := colorful.Color{R: float64(p[2]) / 255, G: float64(p[1]) / 255, B: float64(p[0]) / 255}
	r, g, b := c.LinearRgb()
	return Bgra[float32]{float32(b), float32(g), float32(r), float32(p[3]) / 255}
}

// LinearToBgra is the inverse of BgraToLinear. Out-of-gamut values are
// clamped before encoding.
type LinearToBgra struct{}

func (LinearToBgra) To(p Bgra[float32]) Bgra[uint8] {
	c := colorful.LinearRgb(float64(p[2]), float64(p[1]), float64(p[0])).Clamped()
	r, g, b := c.RGB255()
	return Bgra[uint8]{b, g, r, FromFloat[uint8](p[3] * 255)}
}

// ToLinear converts an 8-bit BGRA image to linear light.
func ToLinear(src *ImageBgra) *ImageBgraf {
	return Convert[Bgra[uint8], Bgra[float32], uint8, float32](src, BgraToLinear{})
}

// FromLinear converts a linear-light image back to 8-bit sRGB BGRA.
func FromLinear(src *ImageBgraf) *ImageBgra {
	return Convert[Bgra[float32], Bgra[uint8], float32, uint8](src, LinearToBgra{})
}
