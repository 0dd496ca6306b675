package memcache

import (
	"errors"
	"image"
	"testing"

	"banner-cache/internal/surface"
)

func bitmap(w, h int) *surface.Bitmap {
	return surface.NewBitmap(surface.NewRGBA5551(image.Rect(0, 0, w, h)))
}

func TestInsertGetRemove(t *testing.T) {
	c := New()
	b := bitmap(32, 32)

	c.Insert("a.png", b)
	if !c.Has("a.png") {
		t.Fatal("Has() = false after Insert")
	}
	got, ok := c.Get("a.png")
	if !ok || got != b {
		t.Fatal("Get() did not return the inserted bitmap")
	}
	if c.SizeBytes() != 32*32*2 {
		t.Errorf("SizeBytes() = %d, want %d", c.SizeBytes(), 32*32*2)
	}

	c.Remove("a.png")
	c.Remove("a.png")
	if c.Has("a.png") || c.Len() != 0 || c.SizeBytes() != 0 {
		t.Errorf("after Remove: Len=%d SizeBytes=%d", c.Len(), c.SizeBytes())
	}
}

func TestInsert_ReplacesExisting(t *testing.T) {
	c := New()
	c.Insert("a.png", bitmap(64, 64))
	c.Insert("a.png", bitmap(32, 32))

	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if c.SizeBytes() != 32*32*2 {
		t.Errorf("SizeBytes() = %d, want %d", c.SizeBytes(), 32*32*2)
	}
}

func TestUnloadAllAndPaths(t *testing.T) {
	c := New()
	c.Insert("b.png", bitmap(32, 32))
	c.Insert("a.png", bitmap(32, 32))

	paths := c.Paths()
	if len(paths) != 2 || paths[0] != "a.png" || paths[1] != "b.png" {
		t.Errorf("Paths() = %v", paths)
	}

	c.UnloadAll()
	if c.Len() != 0 || c.SizeBytes() != 0 {
		t.Errorf("after UnloadAll: Len=%d SizeBytes=%d", c.Len(), c.SizeBytes())
	}
}

func TestHandle_Replace(t *testing.T) {
	c := New()
	c.Insert("a.png", bitmap(2048, 32))

	h, ok := c.Handle("a.png")
	if !ok {
		t.Fatal("Handle() missing for resident entry")
	}

	small := bitmap(1024, 16)
	if err := h.Replace(small); err != nil {
		t.Fatalf("Replace() error: %v", err)
	}

	got, _ := c.Get("a.png")
	if got != small {
		t.Error("Get() should observe the replaced bitmap")
	}
	if c.SizeBytes() != int64(small.SizeBytes()) {
		t.Errorf("SizeBytes() = %d, want %d", c.SizeBytes(), small.SizeBytes())
	}
	if b, err := h.Bitmap(); err != nil || b != small {
		t.Errorf("Bitmap() = %v, %v", b, err)
	}
}

func TestHandle_Stale(t *testing.T) {
	c := New()
	if _, ok := c.Handle("missing.png"); ok {
		t.Error("Handle() for missing path should fail")
	}

	c.Insert("a.png", bitmap(32, 32))
	removed, _ := c.Handle("a.png")
	c.Remove("a.png")
	if err := removed.Replace(bitmap(16, 16)); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Replace() after Remove error = %v, want ErrStaleHandle", err)
	}

	c.Insert("a.png", bitmap(32, 32))
	reinserted, _ := c.Handle("a.png")
	c.Insert("a.png", bitmap(64, 64))
	if _, err := reinserted.Bitmap(); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Bitmap() after re-Insert error = %v, want ErrStaleHandle", err)
	}
}
