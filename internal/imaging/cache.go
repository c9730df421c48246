package imaging

import (
	"image"
	"sync"
)

// PreviewCacheCapacity is the number of rasters a PreviewCache holds.
const PreviewCacheCapacity = 10

// PreviewKey identifies a cached raster: the source file and the long-edge
// size it was resized to. The same file at two sizes is two entries.
//
// Only parameters that change pixel content before editing belong in the key.
// Edits (crop included) are applied after retrieval and must never be baked
// into a cached raster.
type PreviewKey struct {
	Path    string
	MaxSize int
}

// PreviewCache is a bounded, thread-safe cache of decoded and resized source
// rasters used to keep interactive previews responsive.
//
// Eviction is strictly FIFO: once the cache is full, inserting a new key
// drops the oldest inserted entry regardless of how recently it was read.
//
// Cached rasters are shared between callers and must be treated as
// read-only. Render never mutates its input, so the usual flow of
// Get/GetOrLoad followed by Render is safe.
type PreviewCache struct {
	mu       sync.RWMutex
	capacity int
	images   map[PreviewKey]*image.NRGBA
	order    []PreviewKey
}

// NewPreviewCache creates an empty cache holding PreviewCacheCapacity entries.
func NewPreviewCache() *PreviewCache {
	return newPreviewCache(PreviewCacheCapacity)
}

func newPreviewCache(capacity int) *PreviewCache {
	if capacity < 1 {
		capacity = 1
	}
	return &PreviewCache{
		capacity: capacity,
		images:   make(map[PreviewKey]*image.NRGBA, capacity),
		order:    make([]PreviewKey, 0, capacity),
	}
}

// Get returns the raster stored under key. Reads do not affect eviction order.
func (c *PreviewCache) Get(key PreviewKey) (*image.NRGBA, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[key]
	return img, ok
}

// Put stores img under key. Replacing an existing key keeps its original
// insertion position. Inserting a new key into a full cache first evicts the
// oldest inserted entry.
func (c *PreviewCache) Put(key PreviewKey, img *image.NRGBA) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.images[key]; ok {
		c.images[key] = img
		return
	}

	for len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.images, oldest)
	}
	c.images[key] = img
	c.order = append(c.order, key)
}

// GetOrLoad returns the cached raster for key, calling load on a miss and
// storing its result.
//
// The lookup and the insert are each serialized, but load runs outside the
// lock, so two concurrent misses on the same key may both decode. The second
// Put simply replaces the first; callers get a correct raster either way.
func (c *PreviewCache) GetOrLoad(key PreviewKey, load func() (*image.NRGBA, error)) (*image.NRGBA, error) {
	if img, ok := c.Get(key); ok {
		return img, nil
	}

	img, err := load()
	if err != nil {
		return nil, err
	}

	c.Put(key, img)
	return img, nil
}

// keys returns the cached keys from oldest to newest insertion.
func (c *PreviewCache) keys() []PreviewKey {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]PreviewKey, len(c.order))
	copy(keys, c.order)
	return keys
}

// size returns the number of cached rasters.
func (c *PreviewCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Clear removes every entry.
func (c *PreviewCache) Clear() {
	c.mu.Lock()
	c.images = make(map[PreviewKey]*image.NRGBA, c.capacity)
	c.order = make([]PreviewKey, 0, c.capacity)
	c.mu.Unlock()
}

// LoadPreview returns the source at path decoded and resized to fit maxSize,
// served from cache when possible. maxSize <= 0 keeps the full resolution.
func LoadPreview(cache *PreviewCache, path string, maxSize int) (*image.NRGBA, error) {
	return cache.GetOrLoad(PreviewKey{Path: path, MaxSize: maxSize}, func() (*image.NRGBA, error) {
		img, err := Load(path)
		if err != nil {
			return nil, err
		}
		return ResizeToFit(img, maxSize), nil
	})
}
