package surface

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func gradientNRGBA(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func TestColor5551_PackAndChannels(t *testing.T) {
	c := Pack5551(31, 0, 15, 1)
	if uint16(c)&RMask5551 != RMask5551 {
		t.Errorf("red bits = %#x, want all set", uint16(c)&RMask5551)
	}
	if uint16(c)&GMask5551 != 0 {
		t.Errorf("green bits = %#x, want none", uint16(c)&GMask5551)
	}
	if uint16(c)&AMask5551 == 0 {
		t.Error("alpha bit should be set")
	}

	r, g, b, a := c.Channels()
	if r != 31 || g != 0 || b != 15 || a != 1 {
		t.Errorf("Channels() = %d,%d,%d,%d; want 31,0,15,1", r, g, b, a)
	}
}

func TestColor5551_RGBA(t *testing.T) {
	r, g, b, a := Pack5551(31, 31, 31, 1).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("white RGBA() = %#x,%#x,%#x,%#x", r, g, b, a)
	}

	r, g, b, a = Pack5551(31, 31, 31, 0).RGBA()
	if r != 0 || g != 0 || b != 0 || a != 0 {
		t.Errorf("transparent RGBA() should be all zero, got %#x,%#x,%#x,%#x", r, g, b, a)
	}
}

func TestRGBA5551Model(t *testing.T) {
	got := RGBA5551Model.Convert(color.NRGBA{R: 255, G: 8, B: 0, A: 200}).(Color5551)
	r, g, b, a := got.Channels()
	if r != 31 || g != 1 || b != 0 || a != 1 {
		t.Errorf("Convert() channels = %d,%d,%d,%d; want 31,1,0,1", r, g, b, a)
	}

	got = RGBA5551Model.Convert(color.NRGBA{R: 255, A: 10}).(Color5551)
	if _, _, _, a := got.Channels(); a != 0 {
		t.Error("mostly transparent color should clear the alpha bit")
	}
}

func TestRGBA5551_SetAt(t *testing.T) {
	img := NewRGBA5551(image.Rect(0, 0, 4, 2))
	img.Set(3, 1, color.NRGBA{R: 255, A: 255})

	if got := img.At5551(3, 1); got != Pack5551(31, 0, 0, 1) {
		t.Errorf("At5551(3,1) = %#x", uint16(got))
	}
	if got := img.At5551(10, 10); got != 0 {
		t.Errorf("out of bounds At5551 = %#x, want 0", uint16(got))
	}
	if img.Opaque() {
		t.Error("image with transparent pixels should not be opaque")
	}
}

func TestBitmapDescriptors(t *testing.T) {
	tests := []struct {
		name   string
		img    image.Image
		format PixelFormat
		size   int
	}{
		{"nrgba", image.NewNRGBA(image.Rect(0, 0, 8, 4)), FormatRGBA8, 8 * 4 * 4},
		{"5551", NewRGBA5551(image.Rect(0, 0, 8, 4)), FormatRGB5A1, 8 * 4 * 2},
		{"paletted", image.NewPaletted(image.Rect(0, 0, 8, 4), color.Palette{color.Black}), FormatPaletted, 8 * 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBitmap(tt.img)
			if b.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", b.Format(), tt.format)
			}
			if b.Width() != 8 || b.Height() != 4 {
				t.Errorf("size = %dx%d, want 8x4", b.Width(), b.Height())
			}
			if b.SizeBytes() != tt.size {
				t.Errorf("SizeBytes() = %d, want %d", b.SizeBytes(), tt.size)
			}
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	img5551 := NewRGBA5551(image.Rect(0, 0, 16, 8))
	for i := range img5551.Pix {
		img5551.Pix[i] = uint16(i * 977)
	}

	pal := image.NewPaletted(image.Rect(0, 0, 16, 8), color.Palette{
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{R: 255, B: 255, A: 0},
	})
	for i := range pal.Pix {
		pal.Pix[i] = uint8(i % 3)
	}

	tests := []struct {
		name string
		img  image.Image
	}{
		{"nrgba", gradientNRGBA(16, 8)},
		{"5551", img5551},
		{"paletted", pal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "Banners", "abc")
			if err := Save(path, NewBitmap(tt.img)); err != nil {
				t.Fatalf("Save() error: %v", err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if got.Format() != FormatOf(tt.img) {
				t.Errorf("Format() = %v, want %v", got.Format(), FormatOf(tt.img))
			}
			b := tt.img.Bounds()
			if got.Image.Bounds() != b {
				t.Fatalf("Bounds() = %v, want %v", got.Image.Bounds(), b)
			}
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					r1, g1, b1, a1 := tt.img.At(x, y).RGBA()
					r2, g2, b2, a2 := got.Image.At(x, y).RGBA()
					if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
						t.Fatalf("pixel (%d,%d) differs after round trip", x, y)
					}
				}
			}
		})
	}
}

func TestCodec_SubImage(t *testing.T) {
	full := gradientNRGBA(32, 32)
	sub := full.SubImage(image.Rect(8, 8, 24, 16)).(*image.NRGBA)

	var buf bytes.Buffer
	if err := Encode(&buf, NewBitmap(sub)); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Width() != 16 || got.Height() != 8 {
		t.Fatalf("size = %dx%d, want 16x8", got.Width(), got.Height())
	}
	if got.Image.At(0, 0) != sub.At(8, 8) {
		t.Errorf("origin pixel = %v, want %v", got.Image.At(0, 0), sub.At(8, 8))
	}
}

func TestDecode_Errors(t *testing.T) {
	var valid bytes.Buffer
	if err := Encode(&valid, NewBitmap(gradientNRGBA(4, 4))); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrCorrupt},
		{"bad magic", append([]byte("PNG!"), valid.Bytes()[4:]...), ErrBadMagic},
		{"truncated pixels", valid.Bytes()[:valid.Len()-4], ErrCorrupt},
		{"oversized header", rawHeader(t, maxDimension+1, 16, []byte("junk")), ErrCorrupt},
		{"large header with junk body", rawHeader(t, maxDimension, maxDimension, []byte("junk")), ErrCorrupt},
		{"large header with small frame", rawHeader(t, maxDimension, maxDimension, encoder.EncodeAll(make([]byte, 64), nil)), ErrCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// rawHeader builds an RGBA8 cache file claiming width×height followed by body.
func rawHeader(t *testing.T, width, height int, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	hdr := fileHeader{
		Magic:   fileMagic,
		Version: fileVersion,
		Format:  uint8(FormatRGBA8),
		Width:   uint32(width),
		Height:  uint32(height),
	}
	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		t.Fatalf("binary.Write() error: %v", err)
	}
	buf.Write(body)
	return buf.Bytes()
}

func TestEncode_UnsupportedImage(t *testing.T) {
	err := Encode(&bytes.Buffer{}, NewBitmap(image.NewGray(image.Rect(0, 0, 2, 2))))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Encode(Gray) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEncode_TooLarge(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, maxDimension*2, 1), color.Palette{color.Black})
	err := Encode(&bytes.Buffer{}, NewBitmap(img))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Encode(%dx1) error = %v, want ErrTooLarge", maxDimension*2, err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}
