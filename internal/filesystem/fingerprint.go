package filesystem

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"banner-cache/internal/index"
	"banner-cache/internal/logging"

	"github.com/cespare/xxhash/v2"
)

// FS is the subset of the filesystem the banner cache needs for source files.
type FS interface {
	// Exists reports whether path names an existing regular file or directory.
	Exists(path string) bool
	// Fingerprint hashes the file contents and size.
	Fingerprint(path string) (uint64, error)
}

// OS implements FS on the local filesystem using the retrying primitives.
type OS struct {
	Retry RetryConfig
}

// NewOS returns an OS filesystem with the default NFS retry policy.
func NewOS() *OS {
	return &OS{Retry: DefaultRetryConfig()}
}

// Exists reports whether the path can be stat'ed.
func (o *OS) Exists(path string) bool {
	if path == "" {
		return false
	}
	start := time.Now()
	_, err := StatWithRetry(path, o.Retry)
	if obs := observe(); obs != nil {
		obs.ObserveOperation(o.Retry.resolveVolume(path), "stat", time.Since(start).Seconds(), err)
	}
	return err == nil
}

// Fingerprint returns the content fingerprint of path.
func (o *OS) Fingerprint(path string) (uint64, error) {
	start := time.Now()
	f, err := OpenWithRetry(path, o.Retry)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sum, err := FingerprintReader(f)
	if obs := observe(); obs != nil {
		obs.ObserveOperation(o.Retry.resolveVolume(path), "read", time.Since(start).Seconds(), err)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return sum, nil
}

// FingerprintReader hashes everything read from r with xxhash64, followed by
// the little-endian byte count. Mixing the size in keeps a truncated file from
// colliding with a prefix of its old contents.
func FingerprintReader(r io.Reader) (uint64, error) {
	d := xxhash.New()
	n, err := io.Copy(d, r)
	if err != nil {
		return 0, err
	}

	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(n))
	if _, err := d.Write(size[:]); err != nil {
		return 0, err
	}
	return d.Sum64(), nil
}

// IsUpToDate reports whether rec still describes the current contents of
// sourcePath. fastLoad trusts any existing cache without hashing. A source
// that cannot be read is never up to date, so the caller regenerates.
func IsUpToDate(fsys FS, sourcePath string, rec index.Record, hasRecord, fastLoad bool) bool {
	if fastLoad {
		return true
	}
	if !hasRecord {
		return false
	}

	sum, err := fsys.Fingerprint(sourcePath)
	if err != nil {
		logging.Debug("Fingerprint of %s failed, treating cache as stale: %v", sourcePath, err)
		return false
	}
	return sum == rec.FullHash
}
