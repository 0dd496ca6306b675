// Package diskcache stores converted banners on disk.
//
// Each banner source path maps to one cache file under <cache>/Banners,
// named by the MD5 of the path string ([DerivePath]), plus an index record
// with the original size, the source fingerprint and the rotation flag. The
// index is read once ([Store.ReadIndex]) and rewritten in full after every
// [Store.Persist].
//
// A Store assumes a single writer. Missing or corrupt cache files are
// reported by [Store.Load] as absent, never as errors.
package diskcache
