// Package handlers serves the read-only inspection API of the banner cache.
//
// Routes (see [Handlers.Register]):
//   - GET /health, /healthz: ready once the first scan finished, 503 before
//   - GET /livez: liveness probe
//   - GET /version: build information
//   - GET /api/stats: cache counters and the last scan summary
//   - GET /api/banners: index records, ?rotated=true for diagonal banners only
//   - GET /api/banner/{path}: the cached low-res bitmap as PNG
//   - POST /api/rescan: start a scan in the background
//   - GET /metrics: Prometheus metrics, when enabled
//
// The banner cache is not safe for concurrent use. Every handler that reads it
// takes the lock shared with the scanner.
package handlers
