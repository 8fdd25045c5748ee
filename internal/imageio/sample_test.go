package imageio

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ironsheep/raster-tools-mcp/internal/geo"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

func TestSampleColor(t *testing.T) {
	img := raster.New[raster.Bgra[uint8], uint8](4, 3)
	img.Set(1, 2, raster.Bgra[uint8]{0, 0, 255, 128})
	img.Set(3, 0, raster.Bgra[uint8]{255, 255, 255, 255})

	tests := []struct {
		name string
		x, y int
		want ColorResult
	}{
		{"red", 1, 2, ColorResult{
			Hex:  "#FF0000",
			RGBA: RGBAColor{R: 255, A: 128},
			HSL:  HSLColor{H: 0, S: 100, L: 50},
		}},
		{"white", 3, 0, ColorResult{
			Hex:  "#FFFFFF",
			RGBA: RGBAColor{R: 255, G: 255, B: 255, A: 255},
			HSL:  HSLColor{H: 0, S: 0, L: 100},
		}},
		{"transparent black", 0, 0, ColorResult{Hex: "#000000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SampleColor(img, tt.x, tt.y)
			if err != nil {
				t.Fatalf("SampleColor: %v", err)
			}
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("SampleColor mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, p := range [][2]int{{-1, 0}, {4, 0}, {0, 3}} {
		if _, err := SampleColor(img, p[0], p[1]); err == nil {
			t.Errorf("SampleColor(%d,%d): expected an error", p[0], p[1])
		}
	}
}

func TestSampleColors(t *testing.T) {
	img := raster.New[raster.Bgra[uint8], uint8](2, 2)
	img.Set(1, 1, raster.Bgra[uint8]{255, 0, 0, 255})

	got, err := SampleColors(img, []LabeledPoint{{X: 1, Y: 1, Label: "blue"}, {X: 0, Y: 0}})
	if err != nil {
		t.Fatalf("SampleColors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d samples, want 2", len(got))
	}
	if got[0].Label != "blue" || got[0].Color.Hex != "#0000FF" {
		t.Errorf("first sample: %+v", got[0])
	}
	if got[1].Color.Hex != "#000000" {
		t.Errorf("second sample: %+v", got[1])
	}

	if _, err := SampleColors(img, []LabeledPoint{{X: 0, Y: 0}, {X: 5, Y: 5}}); err == nil {
		t.Error("expected an error for an out-of-bounds point")
	}
}

func TestDominantColors(t *testing.T) {
	img := raster.New[raster.Bgra[uint8], uint8](10, 10)
	img.Fill(raster.Bgra[uint8]{255, 255, 255, 255})
	for y := 0; y < 10; y++ {
		for x := 0; x < 3; x++ {
			// Quantizes to #F00000.
			img.Set(x, y, raster.Bgra[uint8]{5, 3, 250, 255})
		}
	}

	got, err := DominantColors(img, 5, nil)
	if err != nil {
		t.Fatalf("DominantColors: %v", err)
	}
	want := []ColorFrequency{
		{Hex: "#F0F0F0", Percentage: 70},
		{Hex: "#F00000", Percentage: 30},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("DominantColors mismatch (-want +got):\n%s", diff)
	}

	top, err := DominantColors(img, 1, nil)
	if err != nil {
		t.Fatalf("DominantColors: %v", err)
	}
	if len(top) != 1 || top[0].Hex != "#F0F0F0" {
		t.Errorf("count 1: got %+v", top)
	}

	region := geo.NewRect(0, 0, 3, 5)
	inRegion, err := DominantColors(img, 5, &region)
	if err != nil {
		t.Fatalf("DominantColors region: %v", err)
	}
	if len(inRegion) != 1 || inRegion[0].Percentage != 100 {
		t.Errorf("region: got %+v", inRegion)
	}

	outside := geo.NewRect(5, 5, 10, 10)
	if _, err := DominantColors(img, 5, &outside); err == nil {
		t.Error("expected an error for a region outside the image")
	}
	if _, err := DominantColors(img, 0, nil); err == nil {
		t.Error("expected an error for count 0")
	}
}
