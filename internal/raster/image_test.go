package raster

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newPattern returns a w x h BGRA image whose pixels encode their position.
func newPattern(t *testing.T, w, h int) *ImageBgra {
	t.Helper()
	img := New[Bgra[uint8], uint8](w, h)
	for y := 0; y < h; y++ {
		row := img.Row(y)
		for x := 0; x < w; x++ {
			row[x] = Bgra[uint8]{uint8(x), uint8(y), uint8(x + y), 255}
		}
	}
	return img
}

func TestNew(t *testing.T) {
	img := New[Bgra[uint8], uint8](100, 200)

	if img.Channels() != 4 {
		t.Errorf("Channels() = %d, want 4", img.Channels())
	}
	if img.BitsPerPixel() != 32 {
		t.Errorf("BitsPerPixel() = %d, want 32", img.BitsPerPixel())
	}
	if len(img.Pixels()) != 100*200 {
		t.Errorf("len(Pixels()) = %d, want %d", len(img.Pixels()), 100*200)
	}
	if len(img.Raw()) != 100*200*4 {
		t.Errorf("len(Raw()) = %d, want %d", len(img.Raw()), 100*200*4)
	}
	if img.Stride() != img.Width() {
		t.Errorf("Stride() = %d, want %d", img.Stride(), img.Width())
	}
	for i, p := range img.Pixels() {
		if p != (Bgra[uint8]{}) {
			t.Fatalf("pixel %d not zeroed: %v", i, p)
		}
	}
}

func TestNewWithStride(t *testing.T) {
	tests := []struct {
		name    string
		w, h, s int
		wantErr error
	}{
		{"padded", 10, 4, 16, nil},
		{"tight", 10, 4, 10, nil},
		{"stride too small", 10, 4, 9, ErrOutOfMemory},
		{"negative height", 10, -1, 10, ErrOutOfMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewWithStride[Bgr[uint8], uint8](tt.w, tt.h, tt.s)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewWithStride() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(img.Row(0)) != tt.s {
				t.Errorf("len(Row(0)) = %d, want %d", len(img.Row(0)), tt.s)
			}
			if len(img.RowSlice(0)) != tt.w {
				t.Errorf("len(RowSlice(0)) = %d, want %d", len(img.RowSlice(0)), tt.w)
			}
			if len(img.Raw()) != tt.s*tt.h*3 {
				t.Errorf("len(Raw()) = %d, want %d", len(img.Raw()), tt.s*tt.h*3)
			}
			if img.BytesPerRow() != tt.s*3 {
				t.Errorf("BytesPerRow() = %d, want %d", img.BytesPerRow(), tt.s*3)
			}
		})
	}
}

func TestRowOutOfRangePanics(t *testing.T) {
	img := New[Gray[uint8], uint8](3, 2)
	defer func() {
		if recover() == nil {
			t.Error("Row(2) did not panic")
		}
	}()
	_ = img.Row(2)
}

func TestRawSharesMemory(t *testing.T) {
	img := New[Bgra[uint8], uint8](2, 2)
	raw := img.Raw()
	copy(raw[4:8], []byte{1, 2, 3, 4})
	if got := img.At(1, 0); got != (Bgra[uint8]{1, 2, 3, 4}) {
		t.Errorf("At(1,0) after raw write = %v, want [1 2 3 4]", got)
	}
	img.Set(0, 1, Bgra[uint8]{9, 8, 7, 6})
	if diff := cmp.Diff([]byte{9, 8, 7, 6}, raw[8:12]); diff != "" {
		t.Errorf("raw bytes mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRaw(t *testing.T) {
	// 2x2 gray image stored with 3 bytes per row.
	data := []byte{
		1, 2, 0xEE,
		3, 4, 0xEE,
	}
	img, err := FromRaw[Gray[uint8], uint8](data, 2, 2, 3)
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3, 4}, img.Raw()); diff != "" {
		t.Errorf("pixels mismatch (-want +got):\n%s", diff)
	}

	data[0] = 42
	if img.At(0, 0)[0] != 1 {
		t.Error("FromRaw did not copy the input")
	}
}

func TestFromRaw_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		w, h, s int
		wantErr error
	}{
		{"stride smaller than row", make([]byte, 64), 4, 2, 12, ErrOutOfMemory},
		{"data too short", make([]byte, 20), 4, 2, 16, ErrOutOfMemory},
		{"stride not whole pixels", make([]byte, 64), 4, 2, 18, ErrInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromRaw[Bgra[uint8], uint8](tt.data, tt.w, tt.h, tt.s)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("FromRaw() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFill(t *testing.T) {
	img, err := NewWithStride[Bgra[uint8], uint8](3, 2, 5)
	if err != nil {
		t.Fatal(err)
	}
	v := Bgra[uint8]{100, 100, 100, 255}
	img.Fill(v)
	for i, p := range img.Pixels() {
		if p != v {
			t.Fatalf("pixel %d = %v, want %v (padding must be filled too)", i, p, v)
		}
	}

	img.FillChannel(3, 7)
	for i, p := range img.Pixels() {
		if p != (Bgra[uint8]{100, 100, 100, 7}) {
			t.Fatalf("pixel %d = %v after FillChannel", i, p)
		}
	}

	img.Zero()
	for i, p := range img.Pixels() {
		if p != (Bgra[uint8]{}) {
			t.Fatalf("pixel %d = %v after Zero", i, p)
		}
	}
}

func TestCloneAndEqual(t *testing.T) {
	a := newPattern(t, 5, 4)
	b := a.Clone()
	if !Equal(a, b) {
		t.Fatal("clone differs from original")
	}
	b.Set(2, 2, Bgra[uint8]{})
	if Equal(a, b) {
		t.Error("Equal ignored a changed pixel")
	}
	if a.At(2, 2) == (Bgra[uint8]{}) {
		t.Error("Clone shares memory with the original")
	}
	if Equal(a, New[Bgra[uint8], uint8](4, 5)) {
		t.Error("Equal ignored a size difference")
	}
}

func TestNewOverflowPanics(t *testing.T) {
	defer func() {
		msg, _ := recover().(string)
		if !strings.Contains(msg, "too large") {
			t.Errorf("New(MaxInt/2, 3) panic = %q, want a size message", msg)
		}
	}()
	_ = New[Bgra[uint8], uint8](math.MaxInt/2, 3)
}
