package transform

import (
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/ericpauley/go-quantize/quantize"
)

// maxPaletteColors is the size of an 8-bit color table.
const maxPaletteColors = 256

// transparent is the single palette entry every fully transparent pixel maps to.
var transparent = color.NRGBA{}

// histogram returns the distinct colors of img in a stable order, stopping
// early once more than limit are seen. All fully transparent pixels count
// as one color.
func histogram(img *image.NRGBA, limit int) ([]color.NRGBA, bool) {
	seen := make(map[color.NRGBA]struct{})
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			p := img.Pix[off+x*4 : off+x*4+4]
			c := color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
			if c.A == 0 {
				c = transparent
			}
			seen[c] = struct{}{}
			if len(seen) > limit {
				return nil, false
			}
		}
	}

	colors := make([]color.NRGBA, 0, len(seen))
	for c := range seen {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		a, b := colors[i], colors[j]
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		if a.B != b.B {
			return a.B < b.B
		}
		return a.A < b.A
	})
	return colors, true
}

func hasTransparency(img *image.NRGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			if img.Pix[off+x*4+3] == 0 {
				return true
			}
		}
	}
	return false
}

// Quantize builds a palette of at most maxColors entries for img using
// median cut. Images with few enough colors get an exact palette. A fully
// transparent entry is reserved when img has transparent pixels.
func Quantize(img image.Image, maxColors int) color.Palette {
	src := imaging.Clone(img)

	if colors, ok := histogram(src, maxColors); ok {
		pal := make(color.Palette, len(colors))
		for i, c := range colors {
			pal[i] = c
		}
		return pal
	}

	n := maxColors
	keyed := hasTransparency(src)
	if keyed {
		n--
	}
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, n), src)
	if keyed {
		pal = append(pal, transparent)
	}
	return pal
}

// Palettize converts img to an 8-bit indexed image with a median-cut palette.
// Each pixel maps to the nearest palette entry without dithering.
func Palettize(img image.Image) *image.Paletted {
	src := imaging.Clone(img)
	b := src.Bounds()
	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), Quantize(src, maxPaletteColors))
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}
