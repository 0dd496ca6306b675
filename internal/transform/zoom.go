package transform

import (
	"image"

	"github.com/disintegration/imaging"
)

// Zoom resizes img to exactly width×height with an area-averaging (box)
// filter. An image already at that size is returned unchanged, so paletted
// sources stay paletted.
func Zoom(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	return imaging.Resize(img, width, height, imaging.Box)
}
