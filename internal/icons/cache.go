package icons

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"sync"

	"github.com/ironsheep/eg-mcp/internal/source"
)

// Cache keeps decoded icon assets keyed by their path under the content root.
//
// Cache is safe for concurrent use. Entries live until Evict or Clear; icon
// files are small and the set of chains is bounded, so nothing expires.
type Cache struct {
	reader *source.Reader

	mu     sync.RWMutex
	images map[string]image.Image
}

// NewCache returns an empty cache that loads assets through reader.
func NewCache(reader *source.Reader) *Cache {
	return &Cache{
		reader: reader,
		images: make(map[string]image.Image),
	}
}

// Load returns the decoded image at p, reading and decoding it on first use.
//
// Read errors wrap source.ErrReadFailure. Decode errors are returned as is.
func (c *Cache) Load(p string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[p]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	data, err := c.reader.ReadBytes(p)
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode icon %s: %w", p, err)
	}

	c.mu.Lock()
	c.images[p] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict drops the image cached for p, if any.
func (c *Cache) Evict(p string) {
	c.mu.Lock()
	delete(c.images, p)
	c.mu.Unlock()
}

// Clear drops every cached image.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}
