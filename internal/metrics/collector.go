package metrics

import (
	"runtime"
	"time"

	"banner-cache/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current banner cache statistics
type Stats struct {
	IndexedBanners  int
	ResidentBanners int
	ResidentBytes   int64
	DemandRefcount  int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	GoMemAllocBytes.Set(float64(m.Alloc))

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	BannerIndexRecords.Set(float64(stats.IndexedBanners))
	BannerResidentCount.Set(float64(stats.ResidentBanners))
	BannerResidentBytes.Set(float64(stats.ResidentBytes))
	BannerDemandRefcount.Set(float64(stats.DemandRefcount))

	logging.Debug("Metrics collected: indexed=%d, resident=%d (%d bytes), demand=%d",
		stats.IndexedBanners, stats.ResidentBanners, stats.ResidentBytes, stats.DemandRefcount)
}
