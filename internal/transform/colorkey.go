package transform

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// HotPink is the sentinel color banner artists use for transparency.
var HotPink = color.NRGBA{R: 0xFF, G: 0x00, B: 0xFF, A: 0xFF}

func isHotPink(r, g, b uint8) bool {
	return r == HotPink.R && g == HotPink.G && b == HotPink.B
}

// ApplyColorKey makes every hot pink pixel fully transparent. Paletted
// images keep their indices and get a copied palette with the hot pink
// entries cleared; everything else is returned as a new NRGBA image. Applying
// the key twice is the same as applying it once.
func ApplyColorKey(img image.Image) image.Image {
	if p, ok := img.(*image.Paletted); ok {
		keyed := *p
		keyed.Palette = make(color.Palette, len(p.Palette))
		for i, c := range p.Palette {
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			if n.A != 0 && isHotPink(n.R, n.G, n.B) {
				c = color.NRGBA{}
			}
			keyed.Palette[i] = c
		}
		return &keyed
	}

	dst := imaging.Clone(img)
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		if dst.Pix[i+3] != 0 && isHotPink(dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2]) {
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = 0, 0, 0, 0
		}
	}
	return dst
}
