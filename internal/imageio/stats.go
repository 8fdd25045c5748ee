package imageio

import (
	"github.com/anthonynsimon/bild/histogram"
	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// ChannelStats summarizes the values of one 8-bit channel.
type ChannelStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
}

// Stats holds per-channel statistics of an image.
type Stats struct {
	Red   ChannelStats `json:"red"`
	Green ChannelStats `json:"green"`
	Blue  ChannelStats `json:"blue"`
	Alpha ChannelStats `json:"alpha"`
	// Opaque is true when every pixel has alpha 255.
	Opaque bool `json:"opaque"`
}

// ComputeStats returns the per-channel statistics of img. Color channels
// are measured after alpha premultiplication, so they match what the image
// looks like composited over black.
func ComputeStats(img *raster.ImageBgra) *Stats {
	h := histogram.NewRGBAHistogram(ToImage(img))
	s := &Stats{
		Red:   summarize(h.R.Bins),
		Green: summarize(h.G.Bins),
		Blue:  summarize(h.B.Bins),
		Alpha: summarize(h.A.Bins),
	}
	s.Opaque = s.Alpha.Min == 255 || img.Width()*img.Height() == 0
	return s
}

func summarize(bins []int) ChannelStats {
	cs := ChannelStats{Min: -1}
	var n, sum int
	for v, count := range bins {
		if count == 0 {
			continue
		}
		if cs.Min < 0 {
			cs.Min = v
		}
		cs.Max = v
		n += count
		sum += v * count
	}
	if n == 0 {
		return ChannelStats{}
	}
	cs.Mean = float64(sum) / float64(n)
	return cs
}
