package codec

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"banner-cache/internal/filesystem"
	"banner-cache/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/tiff" // TIFF format support
	_ "golang.org/x/image/webp" // WebP format support
)

// ErrEmptyImage is returned when a source decodes to an image without pixels.
var ErrEmptyImage = errors.New("image has no pixels")

// ImageExtensions lists the banner source extensions the decoders handle.
var ImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tif":  true,
	".tiff": true,
}

// IsImagePath reports whether path has a supported banner extension.
func IsImagePath(path string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(path))]
}

// Decoder turns a source file into pixels.
type Decoder interface {
	Decode(path string) (image.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string) (image.Image, error)

// Decode calls f(path).
func (f DecoderFunc) Decode(path string) (image.Image, error) {
	return f(path)
}

// Default is the decoder used by the banner cache.
var Default Decoder = DecoderFunc(DecodeSource)

// DecodeSource decodes a banner source file. imaging handles the common
// formats and applies EXIF orientation; the standard decoders are tried next,
// and libvips last when it has been initialized.
func DecodeSource(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err == nil {
		return checkEmpty(img)
	}

	logging.Debug("imaging.Open failed for %s: %v, trying fallback methods", path, err)

	img, err = decodeImageFile(path)
	if err == nil {
		return checkEmpty(img)
	}

	if !IsVipsAvailable() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	logging.Debug("Standard decode failed for %s: %v, trying vips fallback", path, err)

	img, vipsErr := decodeWithVips(path)
	if vipsErr != nil {
		return nil, fmt.Errorf("all image decode methods failed for %s: %w", path, errors.Join(err, vipsErr))
	}
	return checkEmpty(img)
}

func checkEmpty(img image.Image) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return img, nil
}

func decodeImageFile(path string) (image.Image, error) {
	file, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	logging.Debug("Decoded image format: %s for %s", format, path)
	return img, nil
}
