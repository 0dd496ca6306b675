package codec

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeImage(t *testing.T, path string, img image.Image) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image file: %v", err)
	}
	defer f.Close()

	switch filepath.Ext(path) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		t.Fatalf("Unsupported test image format: %s", path)
	}
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

func TestDecodeSource(t *testing.T) {
	dir := t.TempDir()

	rgba := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := range rgba.Pix {
		rgba.Pix[i] = 200
	}
	pngPath := filepath.Join(dir, "banner.png")
	writeImage(t, pngPath, rgba)

	jpgPath := filepath.Join(dir, "banner.jpg")
	writeImage(t, jpgPath, rgba)

	for _, path := range []string{pngPath, jpgPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			img, err := DecodeSource(path)
			if err != nil {
				t.Fatalf("DecodeSource() error: %v", err)
			}
			if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 20 {
				t.Errorf("size = %v, want 40x20", img.Bounds())
			}
		})
	}
}

func TestDecodeSource_KeepsPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pal.png")
	pal := image.NewPaletted(image.Rect(0, 0, 8, 8), color.Palette{color.Black, color.White})
	writeImage(t, path, pal)

	img, err := DecodeSource(path)
	if err != nil {
		t.Fatalf("DecodeSource() error: %v", err)
	}
	if _, ok := img.(*image.Paletted); !ok {
		t.Errorf("DecodeSource() returned %T, want *image.Paletted", img)
	}
}

func TestDecodeSource_Failures(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("definitely not a png"), 0o644); err != nil {
		t.Fatalf("failed to write garbage file: %v", err)
	}

	for _, path := range []string{garbage, filepath.Join(dir, "missing.png")} {
		if _, err := DecodeSource(path); err == nil {
			t.Errorf("DecodeSource(%s) should fail", filepath.Base(path))
		}
	}
}

func TestCheckEmpty(t *testing.T) {
	if _, err := checkEmpty(image.NewNRGBA(image.Rect(0, 0, 0, 5))); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("checkEmpty(0x5) error = %v, want ErrEmptyImage", err)
	}
	if _, err := checkEmpty(image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Errorf("checkEmpty(1x1) error = %v", err)
	}
}

func TestIsImagePath(t *testing.T) {
	tests := map[string]bool{
		"Songs/a/banner.png": true,
		"Songs/a/BN.JPG":     true,
		"Songs/a/bg.webp":    true,
		"Songs/a/song.ogg":   false,
		"Songs/a/noext":      false,
	}
	for path, want := range tests {
		if got := IsImagePath(path); got != want {
			t.Errorf("IsImagePath(%q) = %v, want %v", path, got, want)
		}
	}
}
