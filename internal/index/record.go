package index

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFormat is returned by Open for an unsupported index format.
var ErrUnknownFormat = errors.New("unknown index format")

// Record is the persisted metadata for one banner source path.
type Record struct {
	// Path is the cache file holding the converted banner.
	Path string `yaml:"Path"`
	// Width and Height are the banner dimensions before the cache resize.
	Width  int `yaml:"Width"`
	Height int `yaml:"Height"`
	// FullHash is the content fingerprint of the source file.
	FullHash uint64 `yaml:"FullHash"`
	// Rotated is set when the source was a diagonal banner that was un-rotated.
	Rotated bool `yaml:"Rotated"`
}

// Valid reports whether the record describes a loadable banner. Zero
// dimensions mean the record was written for an image that could not be
// converted.
func (r Record) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Store reads and writes the complete set of records. Implementations always
// rewrite everything; there is no incremental update.
type Store interface {
	// Read returns every record keyed by source path. A missing store is an
	// empty set, not an error.
	Read() (map[string]Record, error)
	// Write replaces the stored set with records.
	Write(records map[string]Record) error
	// Location is the file backing the store.
	Location() string
	Close() error
}

// Format names a Store implementation.
type Format string

const (
	// FormatYAML is a single flat YAML document.
	FormatYAML Format = "yaml"
	// FormatSQLite is a SQLite database with one row per banner.
	FormatSQLite Format = "sqlite"
)

// ParseFormat converts a configuration value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatYAML, "yml", "":
		return FormatYAML, nil
	case FormatSQLite, "sqlite3", "db":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FileName is the conventional index file name for a format.
func (f Format) FileName() string {
	if f == FormatSQLite {
		return "banners.db"
	}
	return "banners.cache"
}

// Open returns the Store for format backed by path.
func Open(format Format, path string) (Store, error) {
	switch format {
	case FormatYAML:
		return NewYAMLStore(path), nil
	case FormatSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
