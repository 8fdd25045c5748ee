package raster

import (
	"fmt"
	"math"
	"unsafe"
)

// Image is an owned, strided buffer of pixels of kind P.
//
// The buffer always holds stride*height pixels. Row r occupies
// pix[r*stride : r*stride+stride]; only the first width pixels of a row are
// part of the image, the rest is padding.
//
// Buffers are zeroed on allocation, so every Image returned by this package
// and the packages built on it is fully initialized.
type Image[P Pixel[P, T], T Subpixel] struct {
	w      int
	h      int
	stride int // in pixels
	pix    []P
}

// Common instantiations.
type (
	ImageGray  = Image[Gray[uint8], uint8]
	ImageBgr   = Image[Bgr[uint8], uint8]
	ImageBgra  = Image[Bgra[uint8], uint8]
	ImageRgba  = Image[Rgba[uint8], uint8]
	ImageGrayf = Image[Gray[float32], float32]
)

// New allocates a width x height image with stride equal to width.
// It panics if a dimension is negative or the buffer size overflows int;
// use NewWithStride to get ErrOutOfMemory instead.
func New[P Pixel[P, T], T Subpixel](width, height int) *Image[P, T] {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("raster: negative dimensions %dx%d", width, height))
	}
	var zero P
	if height > 0 && width > math.MaxInt/int(unsafe.Sizeof(zero))/height {
		panic(fmt.Sprintf("raster: %dx%d image too large", width, height))
	}
	return &Image[P, T]{
		w:      width,
		h:      height,
		stride: width,
		pix:    make([]P, width*height),
	}
}

// NewWithStride allocates an image whose rows are stride pixels long.
// It returns ErrOutOfMemory if stride is smaller than width or the buffer
// size cannot be represented.
func NewWithStride[P Pixel[P, T], T Subpixel](width, height, stride int) (*Image[P, T], error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("negative dimensions %dx%d: %w", width, height, ErrOutOfMemory)
	}
	if stride < width {
		return nil, fmt.Errorf("stride %d smaller than width %d: %w", stride, width, ErrOutOfMemory)
	}
	var zero P
	bpp := int(unsafe.Sizeof(zero))
	if height > 0 && stride > math.MaxInt/bpp/height {
		return nil, fmt.Errorf("%dx%d buffer: %w", stride, height, ErrOutOfMemory)
	}
	return &Image[P, T]{
		w:      width,
		h:      height,
		stride: stride,
		pix:    make([]P, stride*height),
	}, nil
}

// FromRaw builds an image by copying rows out of data, whose rows are
// strideBytes bytes apart. The returned image has stride equal to width.
//
// Errors:
//   - ErrOutOfMemory if strideBytes is shorter than a row or data is too short
//   - ErrInvalidImage if strideBytes is not a whole number of pixels
func FromRaw[P Pixel[P, T], T Subpixel](data []byte, width, height, strideBytes int) (*Image[P, T], error) {
	var zero P
	bpp := int(unsafe.Sizeof(zero))
	rowBytes := width * bpp
	if width < 0 || height < 0 || strideBytes < rowBytes {
		return nil, fmt.Errorf("stride %d bytes for %d pixels: %w", strideBytes, width, ErrOutOfMemory)
	}
	if strideBytes%bpp != 0 {
		return nil, fmt.Errorf("stride %d bytes is not a multiple of %d: %w", strideBytes, bpp, ErrInvalidImage)
	}
	if height > 0 && len(data) < (height-1)*strideBytes+rowBytes {
		return nil, fmt.Errorf("have %d bytes for %dx%d image: %w", len(data), width, height, ErrOutOfMemory)
	}

	img := New[P, T](width, height)
	raw := img.Raw()
	for y := 0; y < height; y++ {
		copy(raw[y*rowBytes:(y+1)*rowBytes], data[y*strideBytes:y*strideBytes+rowBytes])
	}
	return img, nil
}

// Width returns the logical width in pixels.
func (img *Image[P, T]) Width() int { return img.w }

// Height returns the height in rows.
func (img *Image[P, T]) Height() int { return img.h }

// Stride returns the number of pixels stored per row, including padding.
func (img *Image[P, T]) Stride() int { return img.stride }

// Channels returns the channel count of P.
func (img *Image[P, T]) Channels() int {
	var zero P
	return zero.Channels()
}

// Layout returns the channel order of P.
func (img *Image[P, T]) Layout() Layout {
	var zero P
	return zero.Layout()
}

// BytesPerPixel returns the in-memory size of one pixel.
func (img *Image[P, T]) BytesPerPixel() int {
	var zero P
	return int(unsafe.Sizeof(zero))
}

// BitsPerPixel returns 8 * BytesPerPixel.
func (img *Image[P, T]) BitsPerPixel() int {
	return 8 * img.BytesPerPixel()
}

// BytesPerRow returns stride * BytesPerPixel.
func (img *Image[P, T]) BytesPerRow() int {
	return img.stride * img.BytesPerPixel()
}

// Pixels returns the whole backing buffer, padding included.
func (img *Image[P, T]) Pixels() []P { return img.pix }

// Row returns the stride-length slice backing row r. Writes through the
// slice modify the image. It panics if r is out of range.
func (img *Image[P, T]) Row(r int) []P {
	if r < 0 || r >= img.h {
		panic(fmt.Sprintf("raster: row %d out of range [0,%d)", r, img.h))
	}
	start := r * img.stride
	return img.pix[start : start+img.stride : start+img.stride]
}

// RowSlice is like Row but limited to the logical width.
func (img *Image[P, T]) RowSlice(r int) []P {
	return img.Row(r)[:img.w]
}

// At returns the pixel at (x, y). It panics if the point is outside the image.
func (img *Image[P, T]) At(x, y int) P {
	if x < 0 || x >= img.w {
		panic(fmt.Sprintf("raster: column %d out of range [0,%d)", x, img.w))
	}
	return img.Row(y)[x]
}

// Set writes the pixel at (x, y). It panics if the point is outside the image.
func (img *Image[P, T]) Set(x, y int, p P) {
	if x < 0 || x >= img.w {
		panic(fmt.Sprintf("raster: column %d out of range [0,%d)", x, img.w))
	}
	img.Row(y)[x] = p
}

// Raw returns the pixel buffer viewed as bytes, BytesPerRow()*Height() long.
// The view shares memory with the image: it is the bridge used by I/O
// adapters to both read and fill pixel data. Multi-byte subpixels are in
// native byte order.
func (img *Image[P, T]) Raw() []byte {
	if len(img.pix) == 0 {
		return nil
	}
	n := len(img.pix) * img.BytesPerPixel()
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(img.pix))), n)
}

// Clone returns a deep copy with the same stride.
func (img *Image[P, T]) Clone() *Image[P, T] {
	pix := make([]P, len(img.pix))
	copy(pix, img.pix)
	return &Image[P, T]{w: img.w, h: img.h, stride: img.stride, pix: pix}
}

// Fill overwrites every pixel, padding included, with v.
func (img *Image[P, T]) Fill(v P) {
	for i := range img.pix {
		img.pix[i] = v
	}
}

// FillChannel overwrites channel idx of every pixel with value.
// It panics if idx is not a valid channel index.
func (img *Image[P, T]) FillChannel(idx int, value T) {
	if n := img.Channels(); idx < 0 || idx >= n {
		panic(fmt.Sprintf("raster: channel %d out of range [0,%d)", idx, n))
	}
	for i := range img.pix {
		img.pix[i] = img.pix[i].With(idx, value)
	}
}

// Zero sets every pixel to the zero pixel.
func (img *Image[P, T]) Zero() {
	clear(img.pix)
}

// SameSize reports whether a and b have equal width and height.
func SameSize[P Pixel[P, T], Q Pixel[Q, U], T, U Subpixel](a *Image[P, T], b *Image[Q, U]) bool {
	return a.w == b.w && a.h == b.h
}

// Equal reports whether a and b have the same size and the same pixels in
// their logical region. Padding is ignored.
func Equal[P Pixel[P, T], T Subpixel](a, b *Image[P, T]) bool {
	if !SameSize(a, b) {
		return false
	}
	for y := 0; y < a.h; y++ {
		ra, rb := a.RowSlice(y), b.RowSlice(y)
		for x := range ra {
			if ra[x] != rb[x] {
				return false
			}
		}
	}
	return true
}
