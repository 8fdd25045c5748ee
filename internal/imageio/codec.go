package imageio

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultJPEGQuality is used by Encode when no quality is given.
const DefaultJPEGQuality = 95

// EncodeOptions tunes Encode. The zero value uses the defaults.
type EncodeOptions struct {
	// JPEGQuality ranges from 1 to 100. Zero means DefaultJPEGQuality.
	JPEGQuality int
}

// Decode reads a compressed image and returns it as BGRA together with the
// detected format. JPEG EXIF orientation is applied.
//
// Malformed or unsupported data yields raster.ErrInvalidImage.
func Decode(r io.Reader) (*raster.ImageBgra, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("failed to read image: %w", err)
	}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("failed to decode image: %w: %w", raster.ErrInvalidImage, err)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("failed to decode %s image: %w: %w", name, raster.ErrInvalidImage, err)
	}

	format := formatFromName(name)
	raster.Logger().Debug("decoded image", "format", format.String(),
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	bgra, err := FromImage(img)
	if err != nil {
		return nil, FormatUnknown, err
	}
	return bgra, format, nil
}

// Encode writes img in the given format. JPEG has no alpha channel, so
// alpha is dropped and pixels are written as opaque 24-bit color.
//
// It returns raster.ErrUnknownFormat for formats without an encoder.
func Encode(w io.Writer, img *raster.ImageBgra, format Format, opts EncodeOptions) error {
	f, err := format.imaging()
	if err != nil {
		return err
	}

	if format == FormatJPEG {
		img = img.Clone()
		img.FillChannel(raster.Bgra[uint8]{}.AlphaIndex(), 255)
	}

	quality := opts.JPEGQuality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	if err := imaging.Encode(w, ToImage(img), f, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return nil
}

// Load decodes the image file at path.
func Load(path string) (*raster.ImageBgra, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Save encodes img into a file, choosing the format from the extension.
func Save(path string, img *raster.ImageBgra, opts EncodeOptions) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !format.CanEncode() {
		return fmt.Errorf("save %s: no encoder for %s: %w", path, format, raster.ErrUnknownFormat)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()
	return Encode(f, img, format, opts)
}

// FromImage copies any image.Image into a new BGRA raster. The result
// starts at (0, 0) whatever the bounds of img.
func FromImage(img image.Image) (*raster.ImageBgra, error) {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	rgba, err := raster.FromRaw[raster.Rgba[uint8], uint8](nrgba.Pix, b.Dx(), b.Dy(), nrgba.Stride)
	if err != nil {
		return nil, fmt.Errorf("failed to copy pixels: %w", err)
	}
	return raster.Convert[raster.Rgba[uint8], raster.Bgra[uint8], uint8, uint8](rgba, raster.RgbaToBgra{}), nil
}

// ToImage copies a BGRA raster into a new *image.NRGBA.
func ToImage(img *raster.ImageBgra) *image.NRGBA {
	rgba := raster.Convert[raster.Bgra[uint8], raster.Rgba[uint8], uint8, uint8](img, raster.BgraToRgba{})
	out := image.NewNRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	copy(out.Pix, rgba.Raw())
	return out
}

// ToGrayImage copies a gray raster into a new *image.Gray.
func ToGrayImage(img *raster.ImageGray) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width(), img.Height()))
	for y := 0; y < img.Height(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+img.Width()]
		for x, p := range img.RowSlice(y) {
			row[x] = p[0]
		}
	}
	return out
}
