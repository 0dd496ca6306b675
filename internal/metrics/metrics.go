package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banner_cache_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Memory pressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_memory_usage_ratio",
			Help: "Go heap allocation as a fraction of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_memory_paused",
			Help: "1 while banner scans are paused for memory pressure",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "banner_cache_memory_gc_pauses_total",
			Help: "Total number of times scans paused and forced a GC",
		},
	)
)

// Banner generation metrics
var (
	BannerGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_generations_total",
			Help: "Total number of banner cache file generations",
		},
		[]string{"status"}, // "success", "error_decode", "error_transform", "error_persist"
	)

	BannerGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banner_cache_generation_phase_duration_seconds",
			Help:    "Duration of each banner generation phase in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"phase"}, // "decode", "unrotate", "resize", "encode", "persist"
	)

	BannerUpToDateChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_up_to_date_checks_total",
			Help: "Total number of staleness checks by outcome",
		},
		[]string{"result"}, // "fast_load", "current", "stale", "missing"
	)

	BannerReoriented = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "banner_cache_reoriented_total",
			Help: "Total number of diagonal banners un-rotated during generation",
		},
	)
)

// In-memory cache metrics
var (
	BannerLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_loads_total",
			Help: "Total number of cache file loads into memory by result",
		},
		[]string{"result"}, // "resident", "loaded", "regenerated", "failed"
	)

	BannerResidentCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_resident_banners",
			Help: "Number of low-resolution banners resident in memory",
		},
	)

	BannerResidentBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_resident_bytes",
			Help: "Bytes of pixel data held by resident banners",
		},
	)

	BannerDemandRefcount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_demand_refcount",
			Help: "Current nesting depth of Demand scopes",
		},
	)

	BannerIndexRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_index_records",
			Help: "Number of records in the banner cache index",
		},
	)

	BannerIndexWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_index_writes_total",
			Help: "Total number of full index rewrites by status",
		},
		[]string{"status"},
	)
)

// Texture boundary metrics
var (
	BannerTexturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_textures_total",
			Help: "Total number of LoadCachedBanner calls by outcome",
		},
		[]string{"result"}, // "created", "registered", "not_loaded", "corrupt"
	)

	BannerRuntimeResizes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "banner_cache_runtime_resizes_total",
			Help: "Total number of banners shrunk at texture load to fit the display",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banner_cache_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_filesystem_retry_attempts_total",
			Help: "Total number of retries after stale NFS file handles",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_filesystem_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_filesystem_retry_failures_total",
			Help: "Total number of operations that failed after exhausting retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banner_cache_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors observed",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banner_cache_filesystem_retry_duration_seconds",
			Help:    "Total duration of retried filesystem operations in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "volume"},
	)
)

// Scan metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "banner_cache_scan_runs_total",
			Help: "Total number of media directory scans",
		},
	)

	ScanLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_scan_last_run_duration_seconds",
			Help: "Duration of the last media directory scan in seconds",
		},
	)

	ScanBannersTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "banner_cache_scan_banners",
			Help: "Banners seen by the last scan by status",
		},
		[]string{"status"}, // "cached", "missing"
	)
)

// Application info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "banner_cache_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)

	GoMemAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "banner_cache_go_mem_alloc_bytes",
			Help: "Current Go heap allocation in bytes",
		},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
