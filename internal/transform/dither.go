package transform

import (
	"image"

	"banner-cache/internal/surface"

	"github.com/disintegration/imaging"
)

// bayer4 is the 4×4 ordered dither threshold matrix.
var bayer4 = [4][4]uint8{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// OrderedDither converts img to 5-5-5-1 using a 4×4 Bayer matrix. Ordered
// dithering is used instead of error diffusion because cached banners are
// small and only shown briefly.
func OrderedDither(img image.Image) *surface.RGBA5551 {
	src := imaging.Clone(img)
	b := src.Bounds()
	dst := surface.NewRGBA5551(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := 0; y < b.Dy(); y++ {
		row := bayer4[y&3]
		for x := 0; x < b.Dx(); x++ {
			off := src.PixOffset(b.Min.X+x, b.Min.Y+y)
			p := src.Pix[off : off+4]
			t := (float32(row[x&3]) + 0.5) / 16

			dst.Pix[dst.PixOffset(x, y)] = uint16(surface.Pack5551(
				reduce(p[0], 31, t),
				reduce(p[1], 31, t),
				reduce(p[2], 31, t),
				reduce(p[3], 1, t),
			))
		}
	}
	return dst
}

// reduce quantizes an 8-bit channel to 0..levels, adding threshold t in
// (0, 1) before truncation. 0 and 255 always map to 0 and levels.
func reduce(v uint8, levels int, t float32) uint8 {
	scaled := float32(v) * float32(levels) / 255
	out := int(scaled + t)
	if out > levels {
		out = levels
	}
	return uint8(out)
}
