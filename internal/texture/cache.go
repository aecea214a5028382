package texture

import (
	"image"
	"sync"

	"github.com/pkg/errors"
)

// ErrNotIndexed is returned by Lookup for names with no file in the index.
var ErrNotIndexed = errors.New("texture: not indexed")

// Resolver resolves a skin texture path to a decoded image, or nil.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	index *Index
}

type cacheEntry struct {
	img *image.NRGBA
	err error // load failure, kept so a bad file is read once
}

// NewCache creates a new texture cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		index: index,
	}
}

// Resolve loads and caches a texture by name. Returns nil if not found.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	img, _, _ := c.Lookup(texName)
	return img
}

// Lookup is Resolve with diagnostics: the file the name mapped to and why
// it could not be used.
func (c *Cache) Lookup(texName string) (*image.NRGBA, string, error) {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil, "", errors.Wrap(ErrNotIndexed, texName)
	}

	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, path, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img, err := LoadTexture(path)

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, path, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, path, err
}
