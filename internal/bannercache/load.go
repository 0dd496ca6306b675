package bannercache

import (
	"banner-cache/internal/logging"
	"banner-cache/internal/metrics"
)

type loadState int

const (
	stateCheckMemory loadState = iota
	stateAttemptLoad
	stateRegenerate
	stateFailed
)

func (s loadState) String() string {
	switch s {
	case stateCheckMemory:
		return "CheckMemory"
	case stateAttemptLoad:
		return "AttemptLoad"
	case stateRegenerate:
		return "Regenerate"
	case stateFailed:
		return "Failed"
	default:
		return "unknown"
	}
}

// maxLoadAttempts caps cache file reads per LoadBanner call: the first read,
// then one more after a regeneration.
const maxLoadAttempts = 2

// LoadBanner makes the low-resolution banner for path resident, reading its
// cache file. The source is only examined when the cache file cannot be
// read, so a changed source is not noticed here. It reports whether the
// banner ended up resident; callers must cope with it missing.
func (c *Cache) LoadBanner(path string) bool {
	if path == "" || !c.prefs.Mode().LowRes() {
		return false
	}

	cachePath := c.disk.DerivePath(path)
	attempts := 0
	regenerated := false
	state := stateCheckMemory

	for {
		switch state {
		case stateCheckMemory:
			if c.mem.Has(path) {
				if regenerated {
					metrics.BannerLoadsTotal.WithLabelValues("regenerated").Inc()
				} else {
					metrics.BannerLoadsTotal.WithLabelValues("resident").Inc()
				}
				return true
			}
			state = stateAttemptLoad

		case stateAttemptLoad:
			attempts++
			if bmp, ok := c.disk.Load(cachePath); ok {
				c.mem.Insert(path, bmp)
				if regenerated {
					metrics.BannerLoadsTotal.WithLabelValues("regenerated").Inc()
				} else {
					metrics.BannerLoadsTotal.WithLabelValues("loaded").Inc()
				}
				return true
			}
			if attempts < maxLoadAttempts {
				logging.Trace("Cached banner load of %q (%q) failed, trying to cache", path, cachePath)
				state = stateRegenerate
			} else {
				state = stateFailed
			}

		case stateRegenerate:
			c.regenerate(path)
			regenerated = true
			state = stateCheckMemory

		case stateFailed:
			logging.Trace("Cached banner load of %q (%q) failed", path, cachePath)
			metrics.BannerLoadsTotal.WithLabelValues("failed").Inc()
			return false
		}
	}
}
