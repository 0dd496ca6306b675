package memcache

import (
	"errors"
	"sort"

	"banner-cache/internal/metrics"
	"banner-cache/internal/surface"
)

// ErrStaleHandle is returned when a Handle outlives the entry it was taken
// from.
var ErrStaleHandle = errors.New("banner handle is stale")

type entry struct {
	bmp        *surface.Bitmap
	generation uint64
}

// Cache holds decoded low-resolution banners keyed by source path. The cache
// owns every bitmap it holds. It is not safe for concurrent use.
type Cache struct {
	entries    map[string]*entry
	generation uint64
	bytes      int64
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// Insert adds bmp under path, replacing and invalidating any existing entry.
func (c *Cache) Insert(path string, bmp *surface.Bitmap) {
	if old, ok := c.entries[path]; ok {
		c.bytes -= int64(old.bmp.SizeBytes())
	}
	c.generation++
	c.entries[path] = &entry{bmp: bmp, generation: c.generation}
	c.bytes += int64(bmp.SizeBytes())
	c.report()
}

// Get returns the bitmap for path. The bitmap stays owned by the cache.
func (c *Cache) Get(path string) (*surface.Bitmap, bool) {
	e, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	return e.bmp, true
}

// Has reports whether path is resident.
func (c *Cache) Has(path string) bool {
	_, ok := c.entries[path]
	return ok
}

// Remove drops the entry for path. It is a no-op when path is not resident.
func (c *Cache) Remove(path string) {
	e, ok := c.entries[path]
	if !ok {
		return
	}
	c.bytes -= int64(e.bmp.SizeBytes())
	delete(c.entries, path)
	c.report()
}

// UnloadAll drops every entry.
func (c *Cache) UnloadAll() {
	c.entries = make(map[string]*entry)
	c.bytes = 0
	c.report()
}

// Len returns the number of resident bitmaps.
func (c *Cache) Len() int {
	return len(c.entries)
}

// SizeBytes returns the summed pixel storage of every resident bitmap.
func (c *Cache) SizeBytes() int64 {
	return c.bytes
}

// Paths returns the resident source paths in sorted order.
func (c *Cache) Paths() []string {
	paths := make([]string, 0, len(c.entries))
	for p := range c.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Handle returns a handle to the resident entry for path.
func (c *Cache) Handle(path string) (*Handle, bool) {
	e, ok := c.entries[path]
	if !ok {
		return nil, false
	}
	return &Handle{cache: c, path: path, generation: e.generation}, true
}

func (c *Cache) report() {
	metrics.BannerResidentCount.Set(float64(len(c.entries)))
	metrics.BannerResidentBytes.Set(float64(c.bytes))
}

// Handle refers to one resident entry. Replacing through the handle swaps the
// cached bitmap in place so every later Get sees the new one. A handle goes
// stale once its entry is removed or replaced by Insert.
type Handle struct {
	cache      *Cache
	path       string
	generation uint64
}

// Path returns the source path the handle refers to.
func (h *Handle) Path() string {
	return h.path
}

func (h *Handle) current() (*entry, error) {
	e, ok := h.cache.entries[h.path]
	if !ok || e.generation != h.generation {
		return nil, ErrStaleHandle
	}
	return e, nil
}

// Bitmap returns the bitmap the handle refers to.
func (h *Handle) Bitmap() (*surface.Bitmap, error) {
	e, err := h.current()
	if err != nil {
		return nil, err
	}
	return e.bmp, nil
}

// Replace swaps the entry's bitmap for bmp. The handle stays valid.
func (h *Handle) Replace(bmp *surface.Bitmap) error {
	e, err := h.current()
	if err != nil {
		return err
	}
	h.cache.bytes += int64(bmp.SizeBytes()) - int64(e.bmp.SizeBytes())
	e.bmp = bmp
	h.cache.report()
	return nil
}
