package imageio

import (
	"fmt"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
	"github.com/ironsheep/raster-tools-mcp/internal/transform"
)

// RowOrder is the vertical order of rows in an external pixel buffer.
type RowOrder int

const (
	// TopDown buffers start with the top row, like every raster image.
	TopDown RowOrder = iota
	// BottomUp buffers start with the bottom row (Windows DIBs and
	// FreeImage bitmaps).
	BottomUp
)

// FromRaw copies an external BGRA buffer whose rows are strideBytes apart
// into a new image, flipping it upright when order is BottomUp.
func FromRaw(data []byte, width, height, strideBytes int, order RowOrder) (*raster.ImageBgra, error) {
	img, err := raster.FromRaw[raster.Bgra[uint8], uint8](data, width, height, strideBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to import %dx%d buffer: %w", width, height, err)
	}
	if order == BottomUp {
		img = transform.FlipVertical(img)
	}
	return img, nil
}

// ToRaw returns the pixels of img as a tightly packed BGRA buffer in the
// requested row order. The buffer does not alias img.
func ToRaw(img *raster.ImageBgra, order RowOrder) []byte {
	if order == BottomUp {
		img = transform.FlipVertical(img)
	} else {
		img = transform.RotateCW0(img)
	}
	return img.Raw()
}

// FlipRows reverses the order of the rows of buf in place. Each row is
// strideBytes long; a trailing partial row is left alone.
func FlipRows(buf []byte, strideBytes int) {
	if strideBytes <= 0 {
		return
	}
	n := len(buf) / strideBytes
	tmp := make([]byte, strideBytes)
	for top, bottom := 0, n-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := buf[top*strideBytes : (top+1)*strideBytes]
		b := buf[bottom*strideBytes : (bottom+1)*strideBytes]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
