// Package scanner finds banner images under the media directory and feeds
// them through the banner cache.
//
// A pass ([Scanner.Run]) walks the directory, then calls CacheBanner for
// every image in sorted order, taking the lock shared with the HTTP handlers
// around each call. Per-banner failures only show up in the [Result] counts.
// Passes repeat on a ticker until [Scanner.Stop], which also aborts a pass in
// progress.
package scanner
