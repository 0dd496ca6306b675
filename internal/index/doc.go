// Package index persists banner cache records: one record per banner source
// path holding the cache file path, the pre-resize dimensions, the source
// content fingerprint and whether the banner was un-rotated.
//
// The whole record set is read once at startup and rewritten in full on every
// update. Two stores are available:
//   - [YAMLStore]: a flat YAML file (banners.cache), the default
//   - [SQLiteStore]: a SQLite database (banners.db)
//
// Select one with [Open] and a [Format] parsed from configuration.
package index
