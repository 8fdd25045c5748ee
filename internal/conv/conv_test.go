package conv

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ironsheep/raster-tools-mcp/internal/parallel"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

func TestConv1D(t *testing.T) {
	src := []float32{1, 1, 1, 2, 2, 2}
	kernel := []float32{1, 2, 1}
	want := []float32{4, 4, 5, 7, 8, 8}

	out := make([]float32, 6)
	Conv1D(src, out, kernel)
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Conv1D mismatch (-want +got):\n%s", diff)
	}
}

func TestConv1D_Uint8Row(t *testing.T) {
	src := []uint8{10, 20, 30}
	out := make([]float32, 3)
	Conv1D(src, out, []float32{0, 0, 1})
	// Shift left by one, replicating the last sample.
	if diff := cmp.Diff([]float32{20, 30, 30}, out); diff != "" {
		t.Errorf("Conv1D mismatch (-want +got):\n%s", diff)
	}
}

func TestConv1D_EvenKernel(t *testing.T) {
	src := []float32{1, 2, 3, 4}
	out := make([]float32, 4)
	// hx = 1: out[i] = row[i-1] + row[i]
	Conv1D(src, out, []float32{1, 1})
	if diff := cmp.Diff([]float32{2, 3, 5, 7}, out); diff != "" {
		t.Errorf("Conv1D mismatch (-want +got):\n%s", diff)
	}
}

func TestConv1D_ShortOutputPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Conv1D did not panic on a short output buffer")
		}
	}()
	Conv1D([]float32{1, 2, 3}, make([]float32, 2), []float32{1})
}

func newRamp(w, h int) *raster.ImageBgra {
	img := raster.New[raster.Bgra[uint8], uint8](w, h)
	for y := 0; y < h; y++ {
		row := img.Row(y)
		for x := 0; x < w; x++ {
			row[x] = raster.Bgra[uint8]{uint8(x * 10), uint8(y * 10), uint8((x + y) * 5), 255}
		}
	}
	return img
}

func TestConv2DSep_Identity(t *testing.T) {
	src := newRamp(9, 7)
	dst := Conv2DSep(src, []float32{1}, []float32{0, 1, 0})
	if !raster.Equal(src, dst) {
		t.Error("identity kernels changed the image")
	}
}

func TestConv2DSep_ClampToEdge(t *testing.T) {
	src := raster.New[raster.Gray[float32], float32](3, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			src.Set(x, y, raster.Gray[float32]{float32(y*3 + x)})
		}
	}
	// Vertical [1,1,1], horizontal [1]: sums of the column with the border
	// row repeated.
	dst := Conv2DSep(src, []float32{1}, []float32{1, 1, 1})
	want := [][]float32{
		{0 + 0 + 3, 1 + 1 + 4, 2 + 2 + 5},
		{0 + 3 + 6, 1 + 4 + 7, 2 + 5 + 8},
		{3 + 6 + 6, 4 + 7 + 7, 5 + 8 + 8},
	}
	for y := range want {
		for x := range want[y] {
			if got := dst.At(x, y)[0]; got != want[y][x] {
				t.Errorf("dst(%d,%d) = %v, want %v", x, y, got, want[y][x])
			}
		}
	}
}

func TestConv2DSep_SaturatesUint8(t *testing.T) {
	src := raster.New[raster.Gray[uint8], uint8](4, 4)
	src.Fill(raster.Gray[uint8]{200})
	dst := Conv2DSep(src, []float32{1, 1}, []float32{1})
	if got := dst.At(2, 2)[0]; got != 255 {
		t.Errorf("saturated value = %d, want 255", got)
	}
	neg := Conv2DSep(src, []float32{-1}, []float32{1})
	if got := neg.At(1, 1)[0]; got != 0 {
		t.Errorf("negative value = %d, want 0", got)
	}
}

func TestConv2DSep_ParallelMatchesSerial(t *testing.T) {
	src := newRamp(64, 97)
	k := GaussianKernel(7, 0)

	parallel.SetWorkers(1)
	serial := Conv2DSep(src, k, k)
	parallel.SetWorkers(8)
	par := Conv2DSep(src, k, k)
	parallel.SetWorkers(0)

	if !raster.Equal(serial, par) {
		t.Error("parallel output differs from serial output")
	}
}

func TestConv2DSep_Empty(t *testing.T) {
	src := raster.New[raster.Gray[uint8], uint8](0, 5)
	dst := Conv2DSep(src, []float32{1}, []float32{1})
	if dst.Width() != 0 || dst.Height() != 5 {
		t.Errorf("size = %dx%d, want 0x5", dst.Width(), dst.Height())
	}
}

func TestGaussianKernel_SumsToOne(t *testing.T) {
	for _, width := range []int{1, 2, 3, 4, 5, 7, 10, 31} {
		for _, sigma := range []float64{0, 1e-9, 0.3, 1, 2.5, 10} {
			k := GaussianKernel(width, sigma)
			if len(k) != width {
				t.Fatalf("GaussianKernel(%d, %v) has %d taps", width, sigma, len(k))
			}
			var sum float64
			for _, v := range k {
				sum += float64(v)
			}
			if math.Abs(sum-1) > 1e-5 {
				t.Errorf("GaussianKernel(%d, %v) sums to %v", width, sigma, sum)
			}
		}
	}
}

func TestGaussianKernel_Shape(t *testing.T) {
	k := GaussianKernel(5, 1)
	for i := 0; i < len(k)/2; i++ {
		if math.Abs(float64(k[i]-k[len(k)-1-i])) > 1e-7 {
			t.Errorf("kernel not symmetric: %v", k)
		}
		if k[i] >= k[i+1] {
			t.Errorf("kernel not increasing towards the centre: %v", k)
		}
	}

	// width 3 with sigma 0 uses sigma = 0.8.
	got := GaussianKernel(3, 0)
	e := math.Exp(-1 / (2 * 0.8 * 0.8))
	want := []float32{float32(e / (1 + 2*e)), float32(1 / (1 + 2*e)), float32(e / (1 + 2*e))}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("GaussianKernel(3, 0) = %v, want %v", got, want)
			break
		}
	}

	if k := GaussianKernel(0, 1); len(k) != 1 || k[0] != 1 {
		t.Errorf("GaussianKernel(0, 1) = %v, want [1]", k)
	}
}

func TestBoxKernel(t *testing.T) {
	if diff := cmp.Diff([]float32{0.25, 0.25, 0.25, 0.25}, BoxKernel(4)); diff != "" {
		t.Errorf("BoxKernel(4) mismatch (-want +got):\n%s", diff)
	}
}

func TestGaussianBlur_ConstantImage(t *testing.T) {
	src := raster.New[raster.Bgra[uint8], uint8](20, 10)
	src.Fill(raster.Bgra[uint8]{10, 100, 200, 255})
	dst := GaussianBlur(src, 5, 0)
	if !raster.Equal(src, dst) {
		t.Errorf("blurring a constant image changed it: %v", dst.At(0, 0))
	}
}

func TestGaussianBlur_SmoothsStep(t *testing.T) {
	src := raster.New[raster.Gray[uint8], uint8](10, 1)
	for x := 5; x < 10; x++ {
		src.Set(x, 0, raster.Gray[uint8]{255})
	}
	dst := GaussianBlur(src, 5, 1)
	prev := -1
	for x := 0; x < 10; x++ {
		v := int(dst.At(x, 0)[0])
		if v < prev {
			t.Fatalf("blurred step is not monotonic at %d: %d < %d", x, v, prev)
		}
		prev = v
	}
	if v := dst.At(4, 0)[0]; v == 0 || v == 255 {
		t.Errorf("pixel next to the step = %d, want an intermediate value", v)
	}
}
