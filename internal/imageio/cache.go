package imageio

import (
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/raster-tools-mcp/internal/raster"
)

// ImageCache provides thread-safe caching of decoded images to avoid
// redundant disk reads.
//
// Images are keyed by the exact path string they were loaded with, so a
// relative and an absolute path to the same file are separate entries.
// Cached images stay in memory until Evict or Clear is called.
//
// Callers must treat returned images as read-only; every raster operation
// allocates its output, so this holds for normal use.
//
//	cache := imageio.NewImageCache()
//	img, err := cache.Load("/path/to/image.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cached
}

type cached struct {
	img    *raster.ImageBgra
	format Format
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cached),
	}
}

// Load returns the image at path, decoding it on first use.
func (c *ImageCache) Load(path string) (*raster.ImageBgra, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return e.img, nil
}

func (c *ImageCache) load(path string) (cached, error) {
	c.mu.RLock()
	if e, ok := c.images[path]; ok {
		c.mu.RUnlock()
		raster.Logger().Debug("image cache hit", "path", path)
		return e, nil
	}
	c.mu.RUnlock()

	img, format, err := Load(path)
	if err != nil {
		return cached{}, err
	}
	e := cached{img: img, format: format}

	c.mu.Lock()
	c.images[path] = e
	c.mu.Unlock()

	return e, nil
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cached)
	c.mu.Unlock()
}

// Evict removes the image loaded with path, if any. The next Load reads
// the file again.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format detected from the file contents, e.g. "png".
	Format string `json:"format"`

	// Layout is the in-memory channel order after decoding.
	Layout string `json:"layout"`

	// HasAlpha is true when at least one pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Stats holds per-channel value statistics.
	Stats *Stats `json:"stats"`
}

// Info loads path through the cache and describes it.
func (c *ImageCache) Info(path string) (*ImageInfo, error) {
	e, err := c.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	stats := ComputeStats(e.img)
	return &ImageInfo{
		Width:         e.img.Width(),
		Height:        e.img.Height(),
		Format:        e.format.String(),
		Layout:        e.img.Layout().String(),
		HasAlpha:      !stats.Opaque,
		FileSizeBytes: stat.Size(),
		Stats:         stats,
	}, nil
}
