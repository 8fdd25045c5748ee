package raster

import "fmt"

// Split returns one single-channel image per channel of src, in channel
// order. Each output has src's width and height and stride equal to width.
func Split[P Pixel[P, T], T Subpixel](src *Image[P, T]) []*Image[Gray[T], T] {
	n := src.Channels()
	out := make([]*Image[Gray[T], T], n)
	for c := range out {
		out[c] = New[Gray[T], T](src.Width(), src.Height())
	}
	for y := 0; y < src.Height(); y++ {
		ps := src.RowSlice(y)
		for c := 0; c < n; c++ {
			pd := out[c].Row(y)
			for x := range ps {
				pd[x] = Gray[T]{ps[x].At(c)}
			}
		}
	}
	return out
}

// Merge interleaves single-channel images into one image of kind P. It is
// the inverse of Split.
//
// Returns ErrDimensionMismatch if the number of channels does not match P
// or the inputs differ in width or height.
func Merge[P Pixel[P, T], T Subpixel](channels []*Image[Gray[T], T]) (*Image[P, T], error) {
	var zero P
	n := zero.Channels()
	if len(channels) != n {
		return nil, fmt.Errorf("merge %s: got %d channels, want %d: %w", zero.Layout(), len(channels), n, ErrDimensionMismatch)
	}
	first := channels[0]
	for i, ch := range channels[1:] {
		if !SameSize(first, ch) {
			return nil, fmt.Errorf("merge: channel %d is %dx%d, channel 0 is %dx%d: %w",
				i+1, ch.Width(), ch.Height(), first.Width(), first.Height(), ErrDimensionMismatch)
		}
	}

	dst := New[P, T](first.Width(), first.Height())
	for y := 0; y < dst.Height(); y++ {
		pd := dst.Row(y)
		for c, ch := range channels {
			ps := ch.RowSlice(y)
			for x := range ps {
				pd[x] = pd[x].With(c, ps[x][0])
			}
		}
	}
	return dst, nil
}
