package raster

// Mapper converts one pixel kind into another. Implementations must be
// pure: the result depends only on the source pixel.
type Mapper[S, D any] interface {
	To(src S) D
}

// MapperFunc adapts an ordinary function to Mapper.
type MapperFunc[S, D any] func(S) D

// To calls f(src).
func (f MapperFunc[S, D]) To(src S) D { return f(src) }

// Convert returns a new image with m applied to every pixel of src.
// The destination has the same width and height and stride equal to width.
//
// The destination kind cannot always be inferred, so callers usually
// instantiate it explicitly:
//
//	gray := raster.Convert[raster.Bgra[uint8], raster.Gray[uint8], uint8, uint8](src, raster.BgraToGray{})
//
// ToGray and the other helpers below wrap the common cases.
func Convert[S Pixel[S, T], D Pixel[D, U], T, U Subpixel](src *Image[S, T], m Mapper[S, D]) *Image[D, U] {
	dst := New[D, U](src.Width(), src.Height())
	for y := 0; y < src.Height(); y++ {
		ps := src.RowSlice(y)
		pd := dst.Row(y)
		for x := range ps {
			pd[x] = m.To(ps[x])
		}
	}
	return dst
}

// luma is the fixed-point BT.601 weighting used throughout: weights sum to
// 256 and the result is truncated, not rounded.
func luma(b, g, r uint8) uint8 {
	return uint8((uint32(b)*28 + uint32(g)*151 + uint32(r)*77) >> 8)
}

// BgraToGray maps 8-bit BGRA to gray, ignoring alpha.
type BgraToGray struct{}

func (BgraToGray) To(p Bgra[uint8]) Gray[uint8] { return Gray[uint8]{luma(p[0], p[1], p[2])} }

// BgrToGray maps 8-bit BGR to gray.
type BgrToGray struct{}

func (BgrToGray) To(p Bgr[uint8]) Gray[uint8] { return Gray[uint8]{luma(p[0], p[1], p[2])} }

// GrayToBgra replicates gray into B, G and R with an opaque alpha.
type GrayToBgra struct{}

func (GrayToBgra) To(p Gray[uint8]) Bgra[uint8] { return Bgra[uint8]{p[0], p[0], p[0], 255} }

// GrayToBgr replicates gray into B, G and R.
type GrayToBgr struct{}

func (GrayToBgr) To(p Gray[uint8]) Bgr[uint8] { return Bgr[uint8]{p[0], p[0], p[0]} }

// BgraToBgr drops alpha.
type BgraToBgr struct{}

func (BgraToBgr) To(p Bgra[uint8]) Bgr[uint8] { return Bgr[uint8]{p[0], p[1], p[2]} }

// BgrToBgra adds an opaque alpha.
type BgrToBgra struct{}

func (BgrToBgra) To(p Bgr[uint8]) Bgra[uint8] { return Bgra[uint8]{p[0], p[1], p[2], 255} }

// BgraToRgba swaps the blue and red channels.
type BgraToRgba struct{}

func (BgraToRgba) To(p Bgra[uint8]) Rgba[uint8] { return Rgba[uint8]{p[2], p[1], p[0], p[3]} }

// RgbaToBgra swaps the red and blue channels.
type RgbaToBgra struct{}

func (RgbaToBgra) To(p Rgba[uint8]) Bgra[uint8] { return Bgra[uint8]{p[2], p[1], p[0], p[3]} }

// GrayToFloat maps 8-bit gray to float gray without rescaling, so 255
// stays 255. Useful as the input of gradient filters.
type GrayToFloat struct{}

func (GrayToFloat) To(p Gray[uint8]) Gray[float32] { return Gray[float32]{float32(p[0])} }

// FloatToGray rounds and saturates float gray back to 8 bits.
type FloatToGray struct{}

func (FloatToGray) To(p Gray[float32]) Gray[uint8] { return Gray[uint8]{FromFloat[uint8](p[0])} }

// ToGray converts 8-bit BGRA to gray with the fixed-point luma formula.
func ToGray(src *ImageBgra) *ImageGray {
	return Convert[Bgra[uint8], Gray[uint8], uint8, uint8](src, BgraToGray{})
}

// GrayToBgraImage expands gray to opaque BGRA.
func GrayToBgraImage(src *ImageGray) *ImageBgra {
	return Convert[Gray[uint8], Bgra[uint8], uint8, uint8](src, GrayToBgra{})
}

// ToGrayf converts 8-bit BGRA to float gray in the 0-255 range.
func ToGrayf(src *ImageBgra) *ImageGrayf {
	return Convert[Gray[uint8], Gray[float32], uint8, float32](ToGray(src), GrayToFloat{})
}
