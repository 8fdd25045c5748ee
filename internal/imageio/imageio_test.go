package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// createPattern returns a BGRA image with four colored quadrants:
// red top-left, green top-right, blue bottom-left, half-transparent white
// bottom-right.
func createPattern(t *testing.T, width, height int) *raster.ImageBgra {
	t.Helper()
	img := raster.New[raster.Bgra[uint8], uint8](width, height)
	for y := 0; y < height; y++ {
		row := img.Row(y)
		for x := 0; x < width; x++ {
			switch {
			case x < width/2 && y < height/2:
				row[x] = raster.Bgra[uint8]{0, 0, 255, 255}
			case y < height/2:
				row[x] = raster.Bgra[uint8]{0, 255, 0, 255}
			case x < width/2:
				row[x] = raster.Bgra[uint8]{255, 0, 0, 255}
			default:
				row[x] = raster.Bgra[uint8]{255, 255, 255, 128}
			}
		}
	}
	return img
}

// writePNG encodes a standard library image to a temp file.
func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.png", FormatPNG},
		{"dir/b.JPG", FormatJPEG},
		{"c.jpeg", FormatJPEG},
		{"d.gif", FormatGIF},
		{"e.tif", FormatTIFF},
		{"f.bmp", FormatBMP},
		{"g.webp", FormatWebP},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if err != nil {
				t.Fatalf("FormatFromPath: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, bad := range []string{"noext", "x.txt", "y.png.bak"} {
		if _, err := FormatFromPath(bad); !errors.Is(err, raster.ErrUnknownFormat) {
			t.Errorf("FormatFromPath(%q) err = %v, want ErrUnknownFormat", bad, err)
		}
	}
}

func TestFormatDescriptors(t *testing.T) {
	if FormatPNG.MimeType() != "image/png" || FormatJPEG.MimeType() != "image/jpeg" {
		t.Errorf("mime types: %s %s", FormatPNG.MimeType(), FormatJPEG.MimeType())
	}
	if FormatWebP.CanEncode() || FormatUnknown.CanEncode() {
		t.Error("webp and unknown must not be encodable")
	}
	if !FormatBMP.CanEncode() {
		t.Error("bmp must be encodable")
	}
	if FormatUnknown.String() != "unknown" {
		t.Errorf("String() = %q", FormatUnknown.String())
	}
}

func TestEncodeDecode_PNGRoundTrip(t *testing.T) {
	src := createPattern(t, 10, 6)

	var buf bytes.Buffer
	if err := Encode(&buf, src, FormatPNG, EncodeOptions{}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, format, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != FormatPNG {
		t.Errorf("format = %v, want png", format)
	}
	if !raster.Equal(src, got) {
		t.Error("PNG round trip changed the image")
	}
}

func TestEncode_JPEGDropsAlpha(t *testing.T) {
	src := raster.New[raster.Bgra[uint8], uint8](16, 16)
	src.Fill(raster.Bgra[uint8]{40, 120, 200, 10})

	var buf bytes.Buffer
	if err := Encode(&buf, src, FormatJPEG, EncodeOptions{JPEGQuality: 100}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, format, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != FormatJPEG {
		t.Errorf("format = %v, want jpeg", format)
	}

	p := got.At(8, 8)
	if p[3] != 255 {
		t.Errorf("alpha = %d, want 255", p[3])
	}
	// Color survives unpremultiplied, within JPEG error.
	want := [3]int{40, 120, 200}
	for c := 0; c < 3; c++ {
		if d := int(p[c]) - want[c]; d < -4 || d > 4 {
			t.Errorf("channel %d = %d, want about %d", c, p[c], want[c])
		}
	}
	// The source is not modified.
	if src.At(0, 0)[3] != 10 {
		t.Error("Encode modified its input")
	}
}

func TestEncode_Unsupported(t *testing.T) {
	src := createPattern(t, 2, 2)
	err := Encode(&bytes.Buffer{}, src, FormatWebP, EncodeOptions{})
	if !errors.Is(err, raster.ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, raster.ErrInvalidImage) {
		t.Errorf("err = %v, want ErrInvalidImage", err)
	}
}

func TestFromImage(t *testing.T) {
	// Non-zero origin and a non-NRGBA source.
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.SetRGBA(5, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	src.SetRGBA(7, 6, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	img, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if img.Width() != 3 || img.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", img.Width(), img.Height())
	}
	if diff := cmp.Diff(raster.Bgra[uint8]{3, 2, 1, 255}, img.At(0, 0)); diff != "" {
		t.Errorf("(0,0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(raster.Bgra[uint8]{50, 100, 200, 255}, img.At(2, 1)); diff != "" {
		t.Errorf("(2,1) mismatch (-want +got):\n%s", diff)
	}

	back := ToImage(img)
	if c := back.NRGBAAt(2, 1); c != (color.NRGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("ToImage(2,1) = %v", c)
	}
}

func TestToGrayImage(t *testing.T) {
	g := raster.New[raster.Gray[uint8], uint8](3, 2)
	g.Set(2, 1, raster.Gray[uint8]{77})
	out := ToGrayImage(g)
	if out.GrayAt(2, 1).Y != 77 || out.GrayAt(0, 0).Y != 0 {
		t.Errorf("unexpected gray values %v %v", out.GrayAt(2, 1), out.GrayAt(0, 0))
	}
}

func TestSaveLoad(t *testing.T) {
	src := createPattern(t, 8, 8)
	dir := t.TempDir()

	path := filepath.Join(dir, "out.png")
	if err := Save(path, src, EncodeOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, format, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if format != FormatPNG || !raster.Equal(src, got) {
		t.Error("Save/Load round trip failed")
	}

	if err := Save(filepath.Join(dir, "out.webp"), src, EncodeOptions{}); !errors.Is(err, raster.ErrUnknownFormat) {
		t.Errorf("Save webp err = %v, want ErrUnknownFormat", err)
	}
	if err := Save(filepath.Join(dir, "out.xyz"), src, EncodeOptions{}); !errors.Is(err, raster.ErrUnknownFormat) {
		t.Errorf("Save xyz err = %v, want ErrUnknownFormat", err)
	}
	if _, _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestRawRowOrder(t *testing.T) {
	src := createPattern(t, 4, 4)

	top := ToRaw(src, TopDown)
	if diff := cmp.Diff(src.Raw(), top); diff != "" {
		t.Errorf("TopDown buffer mismatch (-want +got):\n%s", diff)
	}

	bottom := ToRaw(src, BottomUp)
	// The first row of a bottom-up buffer is the last image row.
	if diff := cmp.Diff(top[3*16:4*16], bottom[0:16]); diff != "" {
		t.Errorf("BottomUp first row mismatch (-want +got):\n%s", diff)
	}

	back, err := FromRaw(bottom, 4, 4, 16, BottomUp)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	if !raster.Equal(src, back) {
		t.Error("BottomUp round trip failed")
	}

	FlipRows(bottom, 16)
	if diff := cmp.Diff(top, bottom); diff != "" {
		t.Errorf("FlipRows mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromRaw(make([]byte, 10), 4, 4, 16, TopDown); !errors.Is(err, raster.ErrOutOfMemory) {
		t.Errorf("short buffer err = %v, want ErrOutOfMemory", err)
	}
}

func TestFlipRows_OddCount(t *testing.T) {
	buf := []byte{1, 1, 2, 2, 3, 3, 9}
	FlipRows(buf, 2)
	if diff := cmp.Diff([]byte{3, 3, 2, 2, 1, 1, 9}, buf); diff != "" {
		t.Errorf("FlipRows mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStats(t *testing.T) {
	img := raster.New[raster.Bgra[uint8], uint8](4, 1)
	img.Set(0, 0, raster.Bgra[uint8]{0, 0, 255, 255})
	img.Set(1, 0, raster.Bgra[uint8]{0, 0, 255, 255})
	img.Set(2, 0, raster.Bgra[uint8]{0, 0, 0, 255})
	img.Set(3, 0, raster.Bgra[uint8]{0, 0, 0, 255})

	s := ComputeStats(img)
	if diff := cmp.Diff(ChannelStats{Min: 0, Max: 255, Mean: 127.5}, s.Red); diff != "" {
		t.Errorf("red mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(ChannelStats{Min: 0, Max: 0, Mean: 0}, s.Green); diff != "" {
		t.Errorf("green mismatch (-want +got):\n%s", diff)
	}
	if !s.Opaque {
		t.Error("opaque image reported as transparent")
	}

	img.Set(3, 0, raster.Bgra[uint8]{0, 0, 0, 0})
	if ComputeStats(img).Opaque {
		t.Error("transparent pixel not detected")
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, ToImage(createPattern(t, 20, 10)))

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img1.Width() != 20 || img1.Height() != 10 {
		t.Errorf("unexpected dimensions: got %dx%d, want 20x10", img1.Width(), img1.Height())
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Errorf("Len after Evict = %d", cache.Len())
	}
	img3, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after Evict failed: %v", err)
	}
	if img3 == img1 {
		t.Error("Load after Evict returned the evicted image")
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear = %d", cache.Len())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()
	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}

	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(path); !errors.Is(err, raster.ErrInvalidImage) {
		t.Errorf("err = %v, want ErrInvalidImage", err)
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestImageCache_Concurrent(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, ToImage(createPattern(t, 16, 16)))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}()
	}
	wg.Wait()
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestImageCache_Info(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, ToImage(createPattern(t, 12, 8)))

	info, err := cache.Info(path)
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Width != 12 || info.Height != 8 {
		t.Errorf("dimensions: got %dx%d", info.Width, info.Height)
	}
	if info.Format != "png" || info.Layout != "BGRA" {
		t.Errorf("format %q layout %q", info.Format, info.Layout)
	}
	if !info.HasAlpha {
		t.Error("HasAlpha should be true for the half-transparent quadrant")
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes = %d", info.FileSizeBytes)
	}
	if info.Stats == nil || info.Stats.Alpha.Min != 128 {
		t.Errorf("unexpected stats %+v", info.Stats)
	}
}
