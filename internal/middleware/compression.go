package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/klauspost/compress/gzip"
)

// CompressionConfig configures response compression.
type CompressionConfig struct {
	// MinSize is the smallest response body that is compressed.
	MinSize int
	// Level is a gzip compression level.
	Level int
	// ContentTypes lists the compressible media types. Banner PNGs are
	// already compressed and are not listed.
	ContentTypes []string
}

// DefaultCompressionConfig compresses JSON and text responses over 1KB.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   gzip.DefaultCompression,
		ContentTypes: []string{
			"application/json",
			"text/plain",
			"text/html",
		},
	}
}

// Compression returns gzip middleware built on gzhttp.
func Compression(config CompressionConfig) (func(http.Handler) http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(
		gzhttp.MinSize(config.MinSize),
		gzhttp.CompressionLevel(config.Level),
		gzhttp.ContentTypes(config.ContentTypes),
	)
	if err != nil {
		return nil, err
	}
	return func(next http.Handler) http.Handler {
		return wrap(next)
	}, nil
}
