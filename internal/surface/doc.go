// Package surface defines the in-memory banner bitmap, its pixel formats and
// the on-disk cache file codec.
//
// Cached banners are stored in one of two encodings: 8-bit paletted
// ([image.Paletted]) or 16-bit 5-5-5-1 ([RGBA5551]). 32-bit [image.NRGBA]
// bitmaps appear between pipeline stages and can also be stored.
//
// Cache files are written with [Save] and read with [Load]. The pixel data
// is zstd-compressed behind a small fixed header; see codec.go for the layout.
package surface
