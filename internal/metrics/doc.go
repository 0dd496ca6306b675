// Package metrics provides Prometheus instrumentation for the banner cache.
//
// All metrics are prefixed with "banner_cache_" and registered with the
// default registry through promauto.
//
// # Metric Categories
//
// ## HTTP
//   - HTTPRequestsTotal / HTTPRequestDuration: by method and route template
//   - HTTPRequestsInFlight
//
// ## Memory Pressure
//   - MemoryUsageRatio, MemoryPaused, MemoryGCPauses: reported by the memory monitor
//
// ## Generation
//   - BannerGenerationsTotal: cache file generations by status
//   - BannerGenerationDuration: per-phase generation time (decode, unrotate, resize, encode, persist)
//   - BannerUpToDateChecks: staleness checks by result
//   - BannerReoriented: diagonal banners un-rotated
//
// ## Resident Banners
//   - BannerLoadsTotal: cache file loads by result
//   - BannerResidentCount / BannerResidentBytes: resident low-res banners
//   - BannerDemandRefcount: Demand nesting depth
//   - BannerIndexRecords / BannerIndexWrites: index size and rewrites
//
// ## Texture Boundary
//   - BannerTexturesTotal: LoadCachedBanner outcomes
//   - BannerRuntimeResizes: emergency shrinks for small displays
//
// ## Filesystem
//
// Retry and latency metrics for source and cache reads, recorded through the
// [filesystem.Observer] returned by [NewFilesystemObserver].
//
// # Collector
//
// [Collector] periodically polls a [StatsProvider] and updates the gauges
// that are derived from cache state:
//
//	collector := metrics.NewCollector(provider, time.Minute)
//	collector.Start()
//	defer collector.Stop()
package metrics
