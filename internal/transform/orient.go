package transform

import (
	"image"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Canvas size for un-rotated diagonal banners.
const (
	UnrotatedWidth  = 256
	UnrotatedHeight = 64
)

// diagonalCorners locates the artwork of a diagonal banner, in fractions of
// the source size, for the top-left, bottom-left, bottom-right and top-right
// corners of the output canvas.
var diagonalCorners = [4][2]float64{
	{0.02, 0.78}, // top left
	{0.22, 0.98}, // bottom left
	{0.98, 0.22}, // bottom right
	{0.78, 0.02}, // top right
}

// IsDiagonal reports whether a banner of the given size uses the rotated
// banner convention: a square of at least 100 pixels, with a pixel of leeway.
func IsDiagonal(width, height int) bool {
	d := width - height
	if d < 0 {
		d = -d
	}
	return width >= 100 && d < 2
}

// Unrotate maps the 45° artwork of a diagonal banner onto a landscape
// UnrotatedWidth×UnrotatedHeight canvas with bilinear filtering. Pixels
// outside the artwork are transparent.
func Unrotate(img image.Image) *image.NRGBA {
	src := imaging.Clone(img)
	dst := image.NewNRGBA(image.Rect(0, 0, UnrotatedWidth, UnrotatedHeight))

	s2d := sourceToCanvas(src.Bounds(), UnrotatedWidth, UnrotatedHeight)
	xdraw.BiLinear.Transform(dst, s2d, src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// sourceToCanvas builds the affine transform from source pixel coordinates
// to canvas coordinates. diagonalCorners is a parallelogram, so the
// canvas→source mapping is affine and can be inverted exactly.
func sourceToCanvas(srcBounds image.Rectangle, canvasW, canvasH int) f64.Aff3 {
	sw, sh := float64(srcBounds.Dx()), float64(srcBounds.Dy())
	ox, oy := float64(srcBounds.Min.X), float64(srcBounds.Min.Y)
	cw, ch := float64(canvasW), float64(canvasH)

	tl, bl, tr := diagonalCorners[0], diagonalCorners[1], diagonalCorners[3]

	// source = M * canvas + T
	a := sw * (tr[0] - tl[0]) / cw
	b := sw * (bl[0] - tl[0]) / ch
	c := ox + sw*tl[0]
	d := sh * (tr[1] - tl[1]) / cw
	e := sh * (bl[1] - tl[1]) / ch
	f := oy + sh*tl[1]

	det := a*e - b*d
	return f64.Aff3{
		e / det, -b / det, (b*f - e*c) / det,
		-d / det, a / det, (d*c - a*f) / det,
	}
}
