package bannercache

import (
	"errors"
	"time"

	"banner-cache/internal/codec"
	"banner-cache/internal/diskcache"
	"banner-cache/internal/filesystem"
	"banner-cache/internal/index"
	"banner-cache/internal/logging"
	"banner-cache/internal/memcache"
	"banner-cache/internal/metrics"
	"banner-cache/internal/surface"
	"banner-cache/internal/transform"
)

// Options configures a Cache.
type Options struct {
	// CacheDir is the root directory for converted banner files.
	CacheDir string
	// Index persists the cache records. The Cache closes it.
	Index index.Store
	// Preferences are consulted on every call, so mode changes take effect
	// immediately.
	Preferences Preferences
	// FS checks and fingerprints source files. Defaults to the local
	// filesystem.
	FS filesystem.FS
	// Decoder reads source images. Defaults to codec.Default.
	Decoder codec.Decoder
}

// Cache converts banners to low-resolution copies, persists them and keeps
// them resident according to the caching mode.
//
// A Cache is owned by one goroutine. Nothing in it is locked.
type Cache struct {
	prefs   Preferences
	fs      filesystem.FS
	decoder codec.Decoder
	disk    *diskcache.Store
	mem     *memcache.Cache
	demand  int
}

// New creates a Cache and reads the persisted index. An unreadable index is
// logged and treated as empty.
func New(opts Options) (*Cache, error) {
	if opts.Index == nil {
		return nil, errors.New("banner cache requires an index store")
	}
	if opts.Preferences == nil {
		return nil, errors.New("banner cache requires preferences")
	}
	if opts.FS == nil {
		opts.FS = filesystem.NewOS()
	}
	if opts.Decoder == nil {
		opts.Decoder = codec.Default
	}

	c := &Cache{
		prefs:   opts.Preferences,
		fs:      opts.FS,
		decoder: opts.Decoder,
		disk:    diskcache.New(opts.CacheDir, opts.Index),
		mem:     memcache.New(),
	}

	if err := c.disk.ReadIndex(); err != nil {
		logging.Warn("Banner cache index could not be read, starting empty: %v", err)
	}
	return c, nil
}

// Close unloads every resident banner and releases the index store. Nothing
// further is written.
func (c *Cache) Close() error {
	c.UnloadAll()
	return c.disk.Close()
}

// CachePath returns the cache file for a banner source path.
func (c *Cache) CachePath(path string) string {
	return c.disk.DerivePath(path)
}

// CacheBanner creates or refreshes the cache file for path. In preload mode
// the result is also made resident. Missing sources are ignored.
func (c *Cache) CacheBanner(path string) {
	mode := c.prefs.Mode()
	if !mode.LowRes() {
		return
	}
	if !c.fs.Exists(path) {
		return
	}

	cachePath := c.disk.DerivePath(path)
	if c.disk.Exists(cachePath) {
		rec, ok := c.disk.Record(path)
		if filesystem.IsUpToDate(c.fs, path, rec, ok, c.prefs.FastLoad()) {
			if c.prefs.FastLoad() {
				metrics.BannerUpToDateChecks.WithLabelValues("fast_load").Inc()
			} else {
				metrics.BannerUpToDateChecks.WithLabelValues("current").Inc()
			}
			if mode == ModeLowResPreload {
				c.LoadBanner(path)
			}
			return
		}
		metrics.BannerUpToDateChecks.WithLabelValues("stale").Inc()
	} else {
		metrics.BannerUpToDateChecks.WithLabelValues("missing").Inc()
	}

	c.regenerate(path)
}

// regenerate converts path without checking whether the cache is current.
// Failures are logged; any existing record is left untouched.
func (c *Cache) regenerate(path string) bool {
	start := time.Now()

	img, err := c.decoder.Decode(path)
	if err != nil {
		logging.UserLog("Cache file", path, "couldn't be loaded: %v", err)
		metrics.BannerGenerationsTotal.WithLabelValues("error_decode").Inc()
		return false
	}
	metrics.BannerGenerationDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())

	sum, err := c.fs.Fingerprint(path)
	if err != nil {
		logging.UserLog("Cache file", path, "couldn't be hashed: %v", err)
		metrics.BannerGenerationsTotal.WithLabelValues("error_decode").Inc()
		return false
	}

	bmp, meta, err := transform.Transform(img, transform.Options{
		Paletted:    c.prefs.PalettedCache(),
		Fingerprint: sum,
	})
	if err != nil {
		logging.UserLog("Cache file", path, "couldn't be converted: %v", err)
		metrics.BannerGenerationsTotal.WithLabelValues("error_transform").Inc()
		return false
	}

	if err := c.disk.Persist(path, bmp, meta); err != nil {
		logging.Error("Failed to cache banner %s: %v", path, err)
		metrics.BannerGenerationsTotal.WithLabelValues("error_persist").Inc()
		return false
	}

	c.mem.Remove(path)
	if c.prefs.Mode() == ModeLowResPreload {
		c.mem.Insert(path, bmp)
	}

	metrics.BannerGenerationsTotal.WithLabelValues("success").Inc()
	logging.Debug("Cached banner %s (%dx%d -> %dx%d %s) in %v", path,
		meta.OriginalWidth, meta.OriginalHeight, bmp.Width(), bmp.Height(), bmp.Format(), time.Since(start))
	return true
}

// UnloadAll drops every resident banner.
func (c *Cache) UnloadAll() {
	c.mem.UnloadAll()
}

// Demand opens a scope in which banners should be resident. In on-demand
// mode the outermost Demand loads every indexed banner that has a readable
// cache file. Sources are never examined.
func (c *Cache) Demand() {
	c.demand++
	metrics.BannerDemandRefcount.Set(float64(c.demand))
	if c.demand > 1 || c.prefs.Mode() != ModeLowResLoadOnDemand {
		return
	}

	loaded := 0
	for _, path := range c.disk.Paths() {
		if c.mem.Has(path) {
			continue
		}
		bmp, ok := c.disk.Load(c.disk.DerivePath(path))
		if !ok {
			continue
		}
		c.mem.Insert(path, bmp)
		loaded++
	}
	logging.Debug("Demand loaded %d banners", loaded)
}

// Undemand closes a scope opened by Demand. In on-demand mode the outermost
// Undemand unloads everything. Unbalanced calls panic.
func (c *Cache) Undemand() {
	if c.demand == 0 {
		panic("bannercache: Undemand without matching Demand")
	}
	c.demand--
	metrics.BannerDemandRefcount.Set(float64(c.demand))
	if c.demand != 0 || c.prefs.Mode() != ModeLowResLoadOnDemand {
		return
	}
	c.UnloadAll()
}

// Bitmap returns the resident bitmap for path.
func (c *Cache) Bitmap(path string) (*surface.Bitmap, bool) {
	return c.mem.Get(path)
}

// CachedBitmap returns the resident bitmap for path, or decodes its cache
// file without making it resident.
func (c *Cache) CachedBitmap(path string) (*surface.Bitmap, bool) {
	if bmp, ok := c.mem.Get(path); ok {
		return bmp, true
	}
	if _, ok := c.disk.Record(path); !ok {
		return nil, false
	}
	return c.disk.Load(c.disk.DerivePath(path))
}

// IsCached reports whether path has an index record.
func (c *Cache) IsCached(path string) bool {
	_, ok := c.disk.Record(path)
	return ok
}

// Records returns a copy of the index.
func (c *Cache) Records() map[string]index.Record {
	return c.disk.Records()
}
