// Package raster provides the in-memory pixel and image model shared by the
// filtering and geometry packages.
//
// # Pixels
//
// A pixel kind is a small array type over a numeric subpixel type:
// Gray[T] (1 channel), Bgr[T] (3), Bgra[T] (4) and Rgba[T] (4), with T one
// of uint8, uint16, float32 or float64. The channel count, the alpha index
// and the channel order are properties of the type, exposed through methods
// that work on the zero value.
//
// # Images
//
// Image[P, T] owns a flat buffer of stride*height pixels. Row r starts at
// r*stride; only the first Width() pixels of a row are logically part of the
// image. Row returns the full stride-length slice, RowSlice only the valid
// part. Raw exposes the buffer as bytes for I/O adapters, without copying.
//
// Operations never modify their inputs: every conversion, filter and
// transform returns a freshly allocated image.
//
// # Errors
//
// Recoverable failures are reported with the sentinel errors of this
// package (ErrOutOfMemory, ErrDimensionMismatch, ...), usually wrapped with
// context. Contract violations such as an out-of-range row index panic.
package raster
