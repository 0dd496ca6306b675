package diskcache

import (
	"bytes"
	"crypto/md5"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"banner-cache/internal/filesystem"
	"banner-cache/internal/index"
	"banner-cache/internal/logging"
	"banner-cache/internal/metrics"
	"banner-cache/internal/surface"
	"banner-cache/internal/transform"
)

// GroupDir is the subdirectory of the cache root that holds banner files.
const GroupDir = "Banners"

// Store maps banner source paths to cache files and their index records.
// It is not safe for concurrent use.
type Store struct {
	cacheDir string
	index    index.Store
	records  map[string]index.Record
}

// New creates a Store rooted at cacheDir, persisting records through idx.
// Call ReadIndex to load existing records.
func New(cacheDir string, idx index.Store) *Store {
	return &Store{
		cacheDir: cacheDir,
		index:    idx,
		records:  make(map[string]index.Record),
	}
}

// DerivePath returns the cache file for sourcePath. It depends only on the
// path string, never on the filesystem, so it is cheap to call for every
// banner at startup.
func (s *Store) DerivePath(sourcePath string) string {
	return DerivePath(s.cacheDir, sourcePath)
}

// DerivePath returns the cache file for sourcePath under cacheDir.
func DerivePath(cacheDir, sourcePath string) string {
	hash := md5.Sum([]byte(sourcePath))
	return filepath.Join(cacheDir, GroupDir, fmt.Sprintf("%x", hash))
}

// ReadIndex replaces the in-memory records with the persisted set. A missing
// index is an empty set. On a read error the records are left empty and the
// error is returned so the caller can log it; caching still works.
func (s *Store) ReadIndex() error {
	records, err := s.index.Read()
	if records == nil {
		records = make(map[string]index.Record)
	}
	s.records = records
	metrics.BannerIndexRecords.Set(float64(len(s.records)))
	if err != nil {
		return err
	}
	logging.Debug("Loaded %d banner records from %s", len(s.records), s.index.Location())
	return nil
}

// WriteIndex rewrites the whole index.
func (s *Store) WriteIndex() error {
	if err := s.index.Write(s.records); err != nil {
		metrics.BannerIndexWrites.WithLabelValues("error").Inc()
		return err
	}
	metrics.BannerIndexWrites.WithLabelValues("success").Inc()
	metrics.BannerIndexRecords.Set(float64(len(s.records)))
	return nil
}

// Record returns the index record for sourcePath.
func (s *Store) Record(sourcePath string) (index.Record, bool) {
	rec, ok := s.records[sourcePath]
	return rec, ok
}

// Records returns a copy of every record keyed by source path.
func (s *Store) Records() map[string]index.Record {
	out := make(map[string]index.Record, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out
}

// Paths returns every indexed source path in sorted order.
func (s *Store) Paths() []string {
	paths := make([]string, 0, len(s.records))
	for p := range s.records {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of index records.
func (s *Store) Len() int {
	return len(s.records)
}

// Persist writes bmp to the cache file for sourcePath, records meta and
// rewrites the index. A bitmap with a zero dimension is rejected before
// anything is written.
func (s *Store) Persist(sourcePath string, bmp *surface.Bitmap, meta transform.Metadata) error {
	if bmp.Width() == 0 || bmp.Height() == 0 || meta.OriginalWidth == 0 || meta.OriginalHeight == 0 {
		return fmt.Errorf("refusing to cache %s: %w", sourcePath, transform.ErrZeroDimension)
	}

	start := time.Now()
	defer func() {
		metrics.BannerGenerationDuration.WithLabelValues("persist").Observe(time.Since(start).Seconds())
	}()

	cachePath := s.DerivePath(sourcePath)
	if err := surface.Save(cachePath, bmp); err != nil {
		return err
	}

	s.records[sourcePath] = index.Record{
		Path:     cachePath,
		Width:    meta.OriginalWidth,
		Height:   meta.OriginalHeight,
		FullHash: meta.Fingerprint,
		Rotated:  meta.Reoriented,
	}

	if err := s.WriteIndex(); err != nil {
		return fmt.Errorf("cached %s but failed to write index: %w", sourcePath, err)
	}
	return nil
}

// Load decodes the cache file at cachePath. Missing and undecodable files are
// both reported as absent.
func (s *Store) Load(cachePath string) (*surface.Bitmap, bool) {
	data, err := filesystem.ReadFileWithRetry(cachePath, filesystem.DefaultRetryConfig())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Debug("Cache file %s is unreadable: %v", cachePath, err)
		}
		return nil, false
	}

	bmp, err := surface.Decode(bytes.NewReader(data))
	if err != nil {
		logging.Debug("Cache file %s is corrupt: %v", cachePath, err)
		return nil, false
	}
	return bmp, true
}

// Exists reports whether the cache file is present.
func (s *Store) Exists(cachePath string) bool {
	_, err := filesystem.StatWithRetry(cachePath, filesystem.DefaultRetryConfig())
	return err == nil
}

// Location returns the index file path.
func (s *Store) Location() string {
	return s.index.Location()
}

// Close releases the index store.
func (s *Store) Close() error {
	return s.index.Close()
}
