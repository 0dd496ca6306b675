// Package startup handles configuration loading and the startup and shutdown
// logging of the banner cache service.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - MEDIA_DIR: directory scanned for banner images (default: /media)
//   - CACHE_DIR: root of the cache, holding Banners/ and the index (default: /cache)
//   - BANNER_CACHE: off, preload, ondemand or full (default: preload)
//   - FAST_LOAD: trust the index without fingerprinting sources (default: false)
//   - PALETTED_BANNER_CACHE: store cache files with an 8-bit palette (default: false)
//   - INDEX_FORMAT: yaml or sqlite (default: yaml)
//   - PORT: inspection HTTP server port, set empty to disable (default: 8080)
//   - METRICS_ENABLED: expose /metrics (default: true)
//   - RESCAN_INTERVAL: periodic re-cache interval as Go duration, 0 disables (default: 6h)
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: log health check requests (default: true)
//
// [Config] also implements the preferences the banner cache reads on every
// call, so main passes it straight to bannercache.New.
//
// # Build Information
//
// Version, Commit and BuildTime are injected via ldflags and exposed via
// [GetBuildInfo].
//
// # Lifecycle Logging
//
//   - [LogCacheInit]: index location and record count
//   - [LogScanStarted], [LogScanComplete]: the initial pass over MEDIA_DIR
//   - [LogHTTPRoutes]: registered HTTP routes (debug level)
//   - [LogServerStarted]: endpoints and startup duration
//   - [LogShutdownInitiated], [LogShutdownStep], [LogShutdownComplete]
package startup
