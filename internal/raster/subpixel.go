package raster

import "math"

// Subpixel is the numeric type of a single channel value.
type Subpixel interface {
	uint8 | uint16 | float32 | float64
}

// Zero returns the zero value of T.
func Zero[T Subpixel]() T {
	var z T
	return z
}

// MaxValue returns the largest channel value of T: the integer maximum for
// integer subpixels and 1.0 for floating-point subpixels, which are
// normalized to [0, 1].
func MaxValue[T Subpixel]() T {
	var z T
	hi := 1.0
	switch any(z).(type) {
	case uint8:
		hi = math.MaxUint8
	case uint16:
		hi = math.MaxUint16
	}
	return T(hi)
}

// IsFloat reports whether T is a floating-point subpixel.
func IsFloat[T Subpixel]() bool {
	var z T
	switch any(z).(type) {
	case float32, float64:
		return true
	}
	return false
}

// ToFloat widens a channel value to float32 without scaling.
func ToFloat[T Subpixel](v T) float32 {
	return float32(v)
}

// FromFloat converts f back to T. Integer subpixels are rounded half away
// from zero and saturated to their range; floating-point subpixels are
// converted as is.
func FromFloat[T Subpixel](f float32) T {
	var z T
	switch any(z).(type) {
	case uint8:
		return T(saturate(f, math.MaxUint8))
	case uint16:
		return T(saturate(f, math.MaxUint16))
	default:
		return T(f)
	}
}

func saturate(f float32, hi float64) float64 {
	r := math.Round(float64(f))
	if r <= 0 || r != r {
		return 0
	}
	if r >= hi {
		return hi
	}
	return r
}
