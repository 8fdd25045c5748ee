package imageio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// Format is a compressed image file format.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatGIF
	FormatTIFF
	FormatBMP
	FormatWebP
)

var formatNames = map[Format]string{
	FormatJPEG: "jpeg",
	FormatPNG:  "png",
	FormatGIF:  "gif",
	FormatTIFF: "tiff",
	FormatBMP:  "bmp",
	FormatWebP: "webp",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// MimeType returns the media type of the format.
func (f Format) MimeType() string {
	if f == FormatUnknown {
		return "application/octet-stream"
	}
	return "image/" + f.String()
}

// CanEncode reports whether images can be written in this format.
func (f Format) CanEncode() bool {
	_, err := f.imaging()
	return err == nil
}

func (f Format) imaging() (imaging.Format, error) {
	switch f {
	case FormatJPEG:
		return imaging.JPEG, nil
	case FormatPNG:
		return imaging.PNG, nil
	case FormatGIF:
		return imaging.GIF, nil
	case FormatTIFF:
		return imaging.TIFF, nil
	case FormatBMP:
		return imaging.BMP, nil
	default:
		return -1, fmt.Errorf("no encoder for %s: %w", f, raster.ErrUnknownFormat)
	}
}

// formatFromName maps an image.Decode format name to a Format.
func formatFromName(name string) Format {
	for f, n := range formatNames {
		if n == name {
			return f
		}
	}
	return FormatUnknown
}

// FormatFromPath returns the format implied by the file extension of path.
// It returns raster.ErrUnknownFormat for unrecognized extensions.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".webp" {
		return FormatWebP, nil
	}
	f, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return FormatUnknown, fmt.Errorf("format of %q: %w", filepath.Base(path), raster.ErrUnknownFormat)
	}
	switch f {
	case imaging.JPEG:
		return FormatJPEG, nil
	case imaging.PNG:
		return FormatPNG, nil
	case imaging.GIF:
		return FormatGIF, nil
	case imaging.TIFF:
		return FormatTIFF, nil
	default:
		return FormatBMP, nil
	}
}
