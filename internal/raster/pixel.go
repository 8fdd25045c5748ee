package raster

// Layout identifies the channel order of a pixel kind.
type Layout uint8

const (
	LayoutUnknown Layout = iota
	LayoutGray
	LayoutBGR
	LayoutBGRA
	LayoutRGBA
)

// String returns the channel order, e.g. "BGRA".
func (l Layout) String() string {
	switch l {
	case LayoutGray:
		return "Y"
	case LayoutBGR:
		return "BGR"
	case LayoutBGRA:
		return "BGRA"
	case LayoutRGBA:
		return "RGBA"
	default:
		return "unknown"
	}
}

// Channels returns the number of channels of the layout, or 0 if unknown.
func (l Layout) Channels() int {
	switch l {
	case LayoutGray:
		return 1
	case LayoutBGR:
		return 3
	case LayoutBGRA, LayoutRGBA:
		return 4
	default:
		return 0
	}
}

// Pixel is the constraint satisfied by the pixel kinds of this package.
//
// Channel count, alpha index and layout are properties of the type: they
// are answered by methods that ignore the receiver, so a zero value can be
// queried. P is the pixel type itself, which lets generic code build new
// pixels of the same kind.
type Pixel[P any, T Subpixel] interface {
	comparable

	// Channels returns the number of channels.
	Channels() int
	// AlphaIndex returns the index of the alpha channel, or -1.
	AlphaIndex() int
	// Layout returns the channel order.
	Layout() Layout
	// At returns channel i.
	At(i int) T
	// With returns a copy with channel i set to v.
	With(i int, v T) P
	// Blend returns self*alpha + o*(1-alpha) per channel.
	Blend(o P, alpha float32) P
	// Blend4 returns the bilinear combination of self (top-left), b
	// (top-right), c (bottom-left) and d (bottom-right) with weights
	// u*v, (1-u)*v, u*(1-v) and (1-u)*(1-v).
	Blend4(b, c, d P, u, v float32) P
}

// Gray is a single-channel luminance pixel.
type Gray[T Subpixel] [1]T

// Bgr is a blue-green-red pixel.
type Bgr[T Subpixel] [3]T

// Bgra is a blue-green-red-alpha pixel.
type Bgra[T Subpixel] [4]T

// Rgba is a red-green-blue-alpha pixel.
type Rgba[T Subpixel] [4]T

func (Gray[T]) Channels() int             { return 1 }
func (Gray[T]) AlphaIndex() int           { return -1 }
func (Gray[T]) Layout() Layout            { return LayoutGray }
func (p Gray[T]) At(i int) T              { return p[i] }
func (p Gray[T]) With(i int, v T) Gray[T] { p[i] = v; return p }

func (p Gray[T]) Blend(o Gray[T], alpha float32) Gray[T] {
	blend(p[:], o[:], alpha)
	return p
}

func (p Gray[T]) Blend4(b, c, d Gray[T], u, v float32) Gray[T] {
	blend4(p[:], b[:], c[:], d[:], u, v)
	return p
}

func (Bgr[T]) Channels() int            { return 3 }
func (Bgr[T]) AlphaIndex() int          { return -1 }
func (Bgr[T]) Layout() Layout           { return LayoutBGR }
func (p Bgr[T]) At(i int) T             { return p[i] }
func (p Bgr[T]) With(i int, v T) Bgr[T] { p[i] = v; return p }

func (p Bgr[T]) Blend(o Bgr[T], alpha float32) Bgr[T] {
	blend(p[:], o[:], alpha)
	return p
}

func (p Bgr[T]) Blend4(b, c, d Bgr[T], u, v float32) Bgr[T] {
	blend4(p[:], b[:], c[:], d[:], u, v)
	return p
}

func (Bgra[T]) Channels() int             { return 4 }
func (Bgra[T]) AlphaIndex() int           { return 3 }
func (Bgra[T]) Layout() Layout            { return LayoutBGRA }
func (p Bgra[T]) At(i int) T              { return p[i] }
func (p Bgra[T]) With(i int, v T) Bgra[T] { p[i] = v; return p }

func (p Bgra[T]) Blend(o Bgra[T], alpha float32) Bgra[T] {
	blend(p[:], o[:], alpha)
	return p
}

func (p Bgra[T]) Blend4(b, c, d Bgra[T], u, v float32) Bgra[T] {
	blend4(p[:], b[:], c[:], d[:], u, v)
	return p
}

func (Rgba[T]) Channels() int             { return 4 }
func (Rgba[T]) AlphaIndex() int           { return 3 }
func (Rgba[T]) Layout() Layout            { return LayoutRGBA }
func (p Rgba[T]) At(i int) T              { return p[i] }
func (p Rgba[T]) With(i int, v T) Rgba[T] { p[i] = v; return p }

func (p Rgba[T]) Blend(o Rgba[T], alpha float32) Rgba[T] {
	blend(p[:], o[:], alpha)
	return p
}

func (p Rgba[T]) Blend4(b, c, d Rgba[T], u, v float32) Rgba[T] {
	blend4(p[:], b[:], c[:], d[:], u, v)
	return p
}

// blend overwrites a with a*alpha + b*(1-alpha).
func blend[T Subpixel](a, b []T, alpha float32) {
	beta := 1 - alpha
	for i := range a {
		a[i] = FromFloat[T](ToFloat(a[i])*alpha + ToFloat(b[i])*beta)
	}
}

// blend4 overwrites a with the bilinear mix of a, b, c, d.
func blend4[T Subpixel](a, b, c, d []T, u, v float32) {
	wa := u * v
	wb := (1 - u) * v
	wc := u * (1 - v)
	wd := (1 - u) * (1 - v)
	for i := range a {
		s := ToFloat(a[i])*wa + ToFloat(b[i])*wb + ToFloat(c[i])*wc + ToFloat(d[i])*wd
		a[i] = FromFloat[T](s)
	}
}
