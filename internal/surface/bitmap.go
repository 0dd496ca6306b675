package surface

import (
	"fmt"
	"image"
)

// PixelFormat describes how a bitmap stores its pixels.
type PixelFormat int

const (
	// FormatUnknown is any image type the cache does not produce.
	FormatUnknown PixelFormat = iota
	// FormatRGBA8 is 32-bit non-premultiplied RGBA (image.NRGBA).
	FormatRGBA8
	// FormatRGB5A1 is 16-bit 5-5-5-1 (RGBA5551).
	FormatRGB5A1
	// FormatRGBA4 is 16-bit 4-4-4-4. The cache never stores it; displays may
	// require it as a texture fallback.
	FormatRGBA4
	// FormatPaletted is 8-bit indexed color (image.Paletted).
	FormatPaletted
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatRGB5A1:
		return "RGB5A1"
	case FormatRGBA4:
		return "RGBA4"
	case FormatPaletted:
		return "PAL"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// BytesPerPixel returns the storage size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8:
		return 4
	case FormatRGB5A1, FormatRGBA4:
		return 2
	case FormatPaletted:
		return 1
	default:
		return 4
	}
}

// FormatOf returns the pixel format of img.
func FormatOf(img image.Image) PixelFormat {
	switch img.(type) {
	case *image.NRGBA:
		return FormatRGBA8
	case *RGBA5551:
		return FormatRGB5A1
	case *image.Paletted:
		return FormatPaletted
	default:
		return FormatUnknown
	}
}

// Bitmap is a decoded low-resolution banner.
type Bitmap struct {
	Image image.Image
}

// NewBitmap wraps img.
func NewBitmap(img image.Image) *Bitmap {
	return &Bitmap{Image: img}
}

// Format returns the pixel format descriptor.
func (b *Bitmap) Format() PixelFormat {
	return FormatOf(b.Image)
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int {
	return b.Image.Bounds().Dx()
}

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int {
	return b.Image.Bounds().Dy()
}

// Pitch returns the number of bytes per row.
func (b *Bitmap) Pitch() int {
	return b.Width() * b.Format().BytesPerPixel()
}

// SizeBytes returns the pixel storage size, not counting any palette.
func (b *Bitmap) SizeBytes() int {
	return b.Pitch() * b.Height()
}

