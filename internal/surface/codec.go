package surface

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Cache file layout, all integers little-endian:
//
//	magic    [4]byte "BNRC"
//	version  uint8
//	format   uint8   PixelFormat
//	width    uint32
//	height   uint32
//	ncolors  uint16  palette entries (paletted only)
//	palette  [ncolors][4]byte non-premultiplied RGBA
//	pixels   zstd frame of width*height*bytesPerPixel bytes, rows top to bottom
const (
	fileVersion = 1
	// maxDimension bounds header dimensions. Cached banners never exceed the
	// largest texture size a display reports.
	maxDimension = 4096
)

var fileMagic = [4]byte{'B', 'N', 'R', 'C'}

var (
	// ErrBadMagic means the file is not a banner cache file.
	ErrBadMagic = errors.New("not a banner cache file")
	// ErrUnsupportedVersion means the file was written by an incompatible version.
	ErrUnsupportedVersion = errors.New("unsupported banner cache file version")
	// ErrUnsupportedFormat means the bitmap's pixel format cannot be stored.
	ErrUnsupportedFormat = errors.New("unsupported pixel format")
	// ErrCorrupt means the header or pixel data is inconsistent.
	ErrCorrupt = errors.New("corrupt banner cache file")
	// ErrTooLarge means a side of the bitmap exceeds the storable dimension.
	ErrTooLarge = errors.New("bitmap too large to cache")
)

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDimension*maxDimension*4))
)

type fileHeader struct {
	Magic   [4]byte
	Version uint8
	Format  uint8
	Width   uint32
	Height  uint32
	NColors uint16
}

// Encode writes b to w in the cache file layout.
func Encode(w io.Writer, b *Bitmap) error {
	format := b.Format()
	width, height := b.Width(), b.Height()
	if width > maxDimension || height > maxDimension {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}

	var (
		pixels  []byte
		palette color.Palette
	)

	switch img := b.Image.(type) {
	case *image.NRGBA:
		pixels = make([]byte, 0, width*height*4)
		for y := 0; y < height; y++ {
			off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
			pixels = append(pixels, img.Pix[off:off+width*4]...)
		}
	case *RGBA5551:
		pixels = make([]byte, width*height*2)
		i := 0
		for y := 0; y < height; y++ {
			off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
			for _, v := range img.Pix[off : off+width] {
				binary.LittleEndian.PutUint16(pixels[i:], v)
				i += 2
			}
		}
	case *image.Paletted:
		if len(img.Palette) > 256 {
			return fmt.Errorf("%w: %d palette entries", ErrUnsupportedFormat, len(img.Palette))
		}
		palette = img.Palette
		pixels = make([]byte, 0, width*height)
		for y := 0; y < height; y++ {
			off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
			pixels = append(pixels, img.Pix[off:off+width]...)
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedFormat, b.Image)
	}

	hdr := fileHeader{
		Magic:   fileMagic,
		Version: fileVersion,
		Format:  uint8(format),
		Width:   uint32(width),
		Height:  uint32(height),
		NColors: uint16(len(palette)),
	}
	if err := binary.Write(w, binary.LittleEndian, hdr); err != nil {
		return err
	}

	for _, c := range palette {
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		if _, err := w.Write([]byte{n.R, n.G, n.B, n.A}); err != nil {
			return err
		}
	}

	_, err := w.Write(encoder.EncodeAll(pixels, nil))
	return err
}

// Decode reads a bitmap in the cache file layout.
func Decode(r io.Reader) (*Bitmap, error) {
	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrCorrupt, err)
	}
	if hdr.Magic != fileMagic {
		return nil, ErrBadMagic
	}
	if hdr.Version != fileVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, hdr.Version)
	}

	width, height := int(hdr.Width), int(hdr.Height)
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrCorrupt, width, height)
	}

	format := PixelFormat(hdr.Format)
	palette := make(color.Palette, 0, hdr.NColors)
	if hdr.NColors > 0 {
		raw := make([]byte, int(hdr.NColors)*4)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, fmt.Errorf("%w: short palette: %v", ErrCorrupt, err)
		}
		for i := 0; i < len(raw); i += 4 {
			palette = append(palette, color.NRGBA{R: raw[i], G: raw[i+1], B: raw[i+2], A: raw[i+3]})
		}
	}

	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	expected := width * height * format.BytesPerPixel()
	var frame zstd.Header
	if err := frame.Decode(compressed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if frame.HasFCS && frame.FrameContentSize != uint64(expected) {
		return nil, fmt.Errorf("%w: frame holds %d bytes, want %d", ErrCorrupt, frame.FrameContentSize, expected)
	}
	// The output grows with the decoded data; the header is not trusted for sizing.
	pixels, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(pixels) != expected {
		return nil, fmt.Errorf("%w: %d pixel bytes, want %d", ErrCorrupt, len(pixels), expected)
	}

	rect := image.Rect(0, 0, width, height)
	switch format {
	case FormatRGBA8:
		return NewBitmap(&image.NRGBA{Pix: pixels, Stride: width * 4, Rect: rect}), nil
	case FormatRGB5A1:
		img := NewRGBA5551(rect)
		for i := range img.Pix {
			img.Pix[i] = binary.LittleEndian.Uint16(pixels[i*2:])
		}
		return NewBitmap(img), nil
	case FormatPaletted:
		if len(palette) == 0 {
			return nil, fmt.Errorf("%w: paletted bitmap without palette", ErrCorrupt)
		}
		for _, idx := range pixels {
			if int(idx) >= len(palette) {
				return nil, fmt.Errorf("%w: palette index %d out of range", ErrCorrupt, idx)
			}
		}
		return NewBitmap(&image.Paletted{Pix: pixels, Stride: width, Rect: rect, Palette: palette}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Save writes b to path, replacing any existing file atomically.
func Save(path string, b *Bitmap) error {
	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".bnrc-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Load reads the cache file at path.
func Load(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return b, nil
}
