// Package codec decodes banner source images.
//
// [DecodeSource] tries, in order:
//   - imaging.Open with EXIF auto-orientation
//   - the standard library and golang.org/x/image decoders (PNG, JPEG, GIF, BMP, TIFF, WebP)
//   - libvips, when [InitVips] has been called
//
// Paletted sources stay paletted when no orientation fix is needed, which
// lets the banner pipeline skip palettization.
package codec
