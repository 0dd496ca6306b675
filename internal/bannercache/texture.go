package bannercache

import (
	"banner-cache/internal/logging"
	"banner-cache/internal/metrics"
	"banner-cache/internal/surface"
	"banner-cache/internal/texture"
	"banner-cache/internal/transform"
)

// LoadCachedBanner returns the texture ID for the cached banner of path,
// creating and registering the texture if the banner is resident. When it is
// not resident, or its record is unusable, the returned ID is never
// registered and the caller should fall back to the full-size image.
func (c *Cache) LoadCachedBanner(path string, display texture.Display, manager texture.Manager) texture.ID {
	if path == "" {
		return texture.ID{}
	}

	id := texture.ID{Filename: c.disk.DerivePath(path)}
	logging.Trace("LoadCachedBanner(%s): %s", path, id.Filename)

	handle, ok := c.mem.Handle(path)
	if !ok {
		logging.Warn("Banner cache for %q wasn't loaded", path)
		metrics.BannerTexturesTotal.WithLabelValues("not_loaded").Inc()
		return id
	}

	rec, _ := c.disk.Record(path)
	if !rec.Valid() {
		logging.UserLog("Cache file", path, "couldn't be loaded.")
		metrics.BannerTexturesTotal.WithLabelValues("corrupt").Inc()
		return id
	}

	if rec.Rotated {
		id.Filename += texture.RotatedSuffix
	}

	if manager.IsRegistered(id) {
		metrics.BannerTexturesTotal.WithLabelValues("registered").Inc()
		return id
	}

	bmp, err := handle.Bitmap()
	if err != nil {
		logging.Error("Banner %s vanished during texture load: %v", path, err)
		return id
	}

	if limit := display.MaxTextureSize(); bmp.Width() > limit || bmp.Height() > limit {
		logging.Warn("Converted %s at runtime", id.Filename)
		limit = transform.FloorPowerOfTwo(limit)
		bmp = shrink(bmp, min(bmp.Width(), limit), min(bmp.Height(), limit))
		if err := handle.Replace(bmp); err != nil {
			logging.Error("Failed to keep runtime conversion of %s: %v", path, err)
		}
		metrics.BannerRuntimeResizes.Inc()
	}

	if !transform.IsPowerOfTwo(bmp.Width()) || !transform.IsPowerOfTwo(bmp.Height()) {
		panic("bannercache: cached banner " + path + " is not power-of-two sized")
	}

	logging.Trace("Loading banner texture %s; src %dx%d; image %dx%d",
		id.Filename, rec.Width, rec.Height, bmp.Width(), bmp.Height())

	banner := &texture.Banner{
		ID:           id,
		SourceWidth:  rec.Width,
		SourceHeight: rec.Height,
		ImageWidth:   bmp.Width(),
		ImageHeight:  bmp.Height(),
		Bitmap:       bmp,
	}
	res := display.CreateTextureResource(texture.ChooseFormat(display, bmp), banner)

	id.Volatile = true
	manager.RegisterTexture(id, res)
	manager.UnloadTexture(res)

	metrics.BannerTexturesTotal.WithLabelValues("created").Inc()
	return id
}

// shrink resizes bmp and converts the result back to the bitmap's storage
// format.
func shrink(bmp *surface.Bitmap, width, height int) *surface.Bitmap {
	img := transform.Zoom(bmp.Image, width, height)
	if bmp.Format() == surface.FormatPaletted {
		return surface.NewBitmap(transform.Palettize(img))
	}
	return surface.NewBitmap(transform.OrderedDither(img))
}
