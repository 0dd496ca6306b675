// Package memcache keeps decoded banners resident in memory.
//
// Entries are keyed by banner source path. Code that needs to swap a resident
// bitmap, such as an emergency downscale before texture upload, takes a
// [Handle] and calls [Handle.Replace]; the handle reports [ErrStaleHandle]
// once the entry has been removed or re-inserted.
package memcache
