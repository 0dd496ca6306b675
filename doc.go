// Package main runs the banner cache service.
//
// On startup it configures GOMEMLIMIT, loads configuration from the
// environment (see package startup), opens the banner index and cache, and
// starts a background pass that converts every banner under MEDIA_DIR into a
// small power-of-two bitmap stored under CACHE_DIR/Banners. Further passes
// run every RESCAN_INTERVAL. A memory monitor pauses a pass when the heap
// gets close to the limit.
//
// # HTTP Server
//
// Unless PORT is empty, a read-only inspection server exposes health checks,
// cache statistics, the index records, the cached bitmaps as PNG and the
// Prometheus metrics. Requests are logged in W3C extended format and JSON
// responses are gzip compressed.
//
// # Graceful Shutdown
//
// On SIGINT or SIGTERM:
//
//  1. Shutdown the HTTP server (30s timeout)
//  2. Stop the memory monitor, releasing a paused pass
//  3. Stop the scanner and wait for the current pass to abort
//  4. Stop the metrics collector
//  5. Close the banner cache, releasing resident bitmaps and the index
//
// # Build Requirements
//
// CGO is required for SQLite (INDEX_FORMAT=sqlite) and libvips. Banners that
// Go can decode itself are cached without libvips.
package main
