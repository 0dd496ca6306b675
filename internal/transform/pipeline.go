package transform

import (
	"errors"
	"fmt"
	"image"
	"time"

	"banner-cache/internal/logging"
	"banner-cache/internal/metrics"
	"banner-cache/internal/surface"
)

// ErrZeroDimension is returned when a banner would be cached with no width or height.
var ErrZeroDimension = errors.New("banner has a zero dimension")

// Options controls the output encoding.
type Options struct {
	// Paletted stores the banner as an 8-bit indexed image instead of 5-5-5-1.
	Paletted bool
	// Fingerprint of the source file, passed through to the metadata.
	Fingerprint uint64
}

// Metadata describes a converted banner for the cache index.
type Metadata struct {
	// OriginalWidth and OriginalHeight are the dimensions before the cache
	// resize. For diagonal banners these are the un-rotated canvas size.
	OriginalWidth  int
	OriginalHeight int
	Reoriented     bool
	Fingerprint    uint64
}

// Transform converts a decoded banner into its cached form: diagonal banners
// are un-rotated, hot pink becomes transparent, the image is shrunk to
// power-of-two dimensions and then palettized or dithered to 16 bits.
func Transform(img image.Image, opts Options) (*surface.Bitmap, Metadata, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, Metadata{}, fmt.Errorf("%w: empty source", ErrZeroDimension)
	}

	meta := Metadata{Fingerprint: opts.Fingerprint}

	if b := img.Bounds(); IsDiagonal(b.Dx(), b.Dy()) {
		start := time.Now()
		img = Unrotate(ApplyColorKey(img))
		meta.Reoriented = true
		metrics.BannerGenerationDuration.WithLabelValues("unrotate").Observe(time.Since(start).Seconds())
		metrics.BannerReoriented.Inc()
		logging.Trace("Un-rotated diagonal banner %dx%d", b.Dx(), b.Dy())
	}

	meta.OriginalWidth = img.Bounds().Dx()
	meta.OriginalHeight = img.Bounds().Dy()

	width, height := TargetSize(meta.OriginalWidth, meta.OriginalHeight)

	start := time.Now()
	img = Zoom(ApplyColorKey(img), width, height)
	metrics.BannerGenerationDuration.WithLabelValues("resize").Observe(time.Since(start).Seconds())

	start = time.Now()
	var out image.Image
	if opts.Paletted {
		if p, ok := img.(*image.Paletted); ok {
			out = p
		} else {
			out = Palettize(img)
		}
	} else {
		out = OrderedDither(img)
	}
	metrics.BannerGenerationDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())

	bmp := surface.NewBitmap(out)
	if bmp.Width() == 0 || bmp.Height() == 0 {
		return nil, Metadata{}, fmt.Errorf("%w: %dx%d", ErrZeroDimension, bmp.Width(), bmp.Height())
	}

	logging.Trace("Converted banner %dx%d -> %dx%d %s",
		meta.OriginalWidth, meta.OriginalHeight, bmp.Width(), bmp.Height(), bmp.Format())
	return bmp, meta, nil
}
