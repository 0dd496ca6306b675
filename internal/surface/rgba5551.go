package surface

import (
	"image"
	"image/color"
)

// Channel masks of a 5-5-5-1 pixel.
const (
	RMask5551 = 0x7C00
	GMask5551 = 0x03E0
	BMask5551 = 0x001F
	AMask5551 = 0x8000
)

// Color5551 is a 16-bit color with five bits per color channel and a
// one-bit alpha.
type Color5551 uint16

// Pack5551 builds a Color5551 from already reduced channel values
// (r, g, b in 0..31, a in 0..1).
func Pack5551(r, g, b, a uint8) Color5551 {
	return Color5551(uint16(a&1)<<15 | uint16(r&31)<<10 | uint16(g&31)<<5 | uint16(b&31))
}

// Channels returns the unpacked 5-bit color channels and the alpha bit.
func (c Color5551) Channels() (r, g, b, a uint8) {
	return uint8(c>>10) & 31, uint8(c>>5) & 31, uint8(c) & 31, uint8(c >> 15)
}

// RGBA implements color.Color. Transparent pixels are fully transparent black
// because the values are alpha-premultiplied.
func (c Color5551) RGBA() (r, g, b, a uint32) {
	cr, cg, cb, ca := c.Channels()
	if ca == 0 {
		return 0, 0, 0, 0
	}
	return expand5(cr), expand5(cg), expand5(cb), 0xffff
}

// expand5 widens a 5-bit value to 16 bits by bit replication.
func expand5(v uint8) uint32 {
	v8 := uint32(v)<<3 | uint32(v)>>2
	return v8<<8 | v8
}

// RGBA5551Model converts any color to the nearest Color5551 without dithering.
var RGBA5551Model = color.ModelFunc(func(c color.Color) color.Color {
	if c5, ok := c.(Color5551); ok {
		return c5
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	var a uint8
	if n.A >= 0x80 {
		a = 1
	}
	return Pack5551(n.R>>3, n.G>>3, n.B>>3, a)
})

// RGBA5551 is an in-memory image of Color5551 pixels.
type RGBA5551 struct {
	// Pix holds one uint16 per pixel.
	Pix []uint16
	// Stride is the Pix distance, in pixels, between vertically adjacent pixels.
	Stride int
	Rect   image.Rectangle
}

// NewRGBA5551 returns a transparent RGBA5551 image with the given bounds.
func NewRGBA5551(r image.Rectangle) *RGBA5551 {
	w, h := r.Dx(), r.Dy()
	return &RGBA5551{
		Pix:    make([]uint16, w*h),
		Stride: w,
		Rect:   r,
	}
}

func (p *RGBA5551) ColorModel() color.Model { return RGBA5551Model }

func (p *RGBA5551) Bounds() image.Rectangle { return p.Rect }

func (p *RGBA5551) At(x, y int) color.Color {
	return p.At5551(x, y)
}

// At5551 returns the pixel at (x, y) without boxing it in an interface.
func (p *RGBA5551) At5551(x, y int) Color5551 {
	if !(image.Point{x, y}.In(p.Rect)) {
		return 0
	}
	return Color5551(p.Pix[p.PixOffset(x, y)])
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *RGBA5551) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

func (p *RGBA5551) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = uint16(RGBA5551Model.Convert(c).(Color5551))
}

// Set5551 stores c at (x, y).
func (p *RGBA5551) Set5551(x, y int, c Color5551) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = uint16(c)
}

// Opaque scans the image and reports whether it is fully opaque.
func (p *RGBA5551) Opaque() bool {
	for _, v := range p.Pix {
		if v&AMask5551 == 0 {
			return false
		}
	}
	return true
}
