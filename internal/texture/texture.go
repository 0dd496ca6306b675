package texture

import (
	"fmt"
	"strings"

	"banner-cache/internal/surface"
)

// RotatedSuffix is appended to the ID of a banner that was un-rotated when it
// was cached, so the renderer can undo the un-rotation on the full image.
const RotatedSuffix = "(was rotated)"

// ID names a texture. Filename is the banner's cache file, not its source.
type ID struct {
	Filename string
	// Volatile textures may be evicted by the manager as soon as nothing
	// references them.
	Volatile bool
}

// WasRotated reports whether the ID carries the rotated tag.
func (id ID) WasRotated() bool {
	return strings.HasSuffix(id.Filename, RotatedSuffix)
}

// Inert reports whether the ID has no cache file behind it.
func (id ID) Inert() bool {
	return id.Filename == ""
}

func (id ID) String() string {
	return id.Filename
}

// Resource is an uploaded texture owned by the display.
type Resource interface {
	ID() ID
}

// Banner is the data handed to the display when a cached banner becomes a
// texture. The bitmap still belongs to the banner cache.
type Banner struct {
	ID ID
	// SourceWidth and SourceHeight are the dimensions of the original file.
	SourceWidth  int
	SourceHeight int
	// ImageWidth and ImageHeight are the dimensions of the cached bitmap,
	// which fills the whole texture.
	ImageWidth  int
	ImageHeight int
	Bitmap      *surface.Bitmap
}

// Display is the rendering device.
type Display interface {
	MaxTextureSize() int
	SupportsFormat(format surface.PixelFormat) bool
	CreateTextureResource(format surface.PixelFormat, banner *Banner) Resource
}

// Manager tracks registered textures by ID.
type Manager interface {
	IsRegistered(id ID) bool
	RegisterTexture(id ID, res Resource)
	UnloadTexture(res Resource)
}

// ChooseFormat picks the texture format for bmp. Paletted bitmaps upload as
// paletted and everything else as 5-5-5-1, with 4-4-4-4 as the fallback. It
// panics if the display supports neither, since every display is required to
// support at least one of them.
func ChooseFormat(d Display, bmp *surface.Bitmap) surface.PixelFormat {
	format := surface.FormatRGB5A1
	if bmp.Format().BytesPerPixel() == 1 {
		format = surface.FormatPaletted
	}
	if d.SupportsFormat(format) {
		return format
	}
	if d.SupportsFormat(surface.FormatRGBA4) {
		return surface.FormatRGBA4
	}
	panic(fmt.Sprintf("display supports neither %s nor %s textures", format, surface.FormatRGBA4))
}
