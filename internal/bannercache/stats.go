package bannercache

import (
	"banner-cache/internal/logging"
	"banner-cache/internal/metrics"

	"github.com/dustin/go-humanize"
)

// Stats summarizes the cache.
type Stats struct {
	Mode            string `json:"mode"`
	IndexedBanners  int    `json:"indexedBanners"`
	ResidentBanners int    `json:"residentBanners"`
	ResidentBytes   int64  `json:"residentBytes"`
	DemandRefcount  int    `json:"demandRefcount"`
	IndexLocation   string `json:"indexLocation"`
}

// Stats returns the current counts.
func (c *Cache) Stats() Stats {
	return Stats{
		Mode:            c.prefs.Mode().String(),
		IndexedBanners:  c.disk.Len(),
		ResidentBanners: c.mem.Len(),
		ResidentBytes:   c.mem.SizeBytes(),
		DemandRefcount:  c.demand,
		IndexLocation:   c.disk.Location(),
	}
}

// GetStats implements metrics.StatsProvider.
func (c *Cache) GetStats() metrics.Stats {
	s := c.Stats()
	return metrics.Stats{
		IndexedBanners:  s.IndexedBanners,
		ResidentBanners: s.ResidentBanners,
		ResidentBytes:   s.ResidentBytes,
		DemandRefcount:  s.DemandRefcount,
	}
}

// OutputStats logs the memory held by resident banners.
func (c *Cache) OutputStats() {
	size := c.mem.SizeBytes()
	logging.Info("%d bytes (%s) of banners loaded", size, humanize.IBytes(uint64(size)))
}
