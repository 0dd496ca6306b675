// Package bannercache is the low-resolution banner cache.
//
// Banner images are converted once into small power-of-two bitmaps, stored
// under the cache directory and indexed by source path. Depending on the
// [Mode], converted banners are kept resident from startup
// ([ModeLowResPreload]) or only while a [Cache.Demand] scope is open
// ([ModeLowResLoadOnDemand]).
//
// # Lifecycle
//
//	cache, err := bannercache.New(bannercache.Options{...}) // reads the index
//	cache.CacheBanner(path)                                  // at startup, per banner
//	id := cache.LoadCachedBanner(path, display, manager)     // when drawing
//	cache.Close()                                            // unloads everything
//
// Per-banner failures are logged and never returned: a banner that could not
// be cached simply has no resident bitmap, and callers fall back to the full
// image.
//
// A Cache must only be used from one goroutine at a time.
package bannercache
