/*
Package filesystem provides the file-system contract used by the banner cache:
existence checks, content fingerprints, and the staleness decision built on
them, all backed by primitives that retry NFS stale file handle errors.

# Retry Behavior

StatWithRetry, OpenWithRetry and ReadFileWithRetry retry only ESTALE (stale
file handle) errors, with exponential backoff:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors fail immediately.

# Fingerprints

A fingerprint is xxhash64 over the file bytes followed by the byte count. It is
stored in the index as FullHash and compared by IsUpToDate:

	fsys := filesystem.NewOS()
	if !filesystem.IsUpToDate(fsys, src, rec, ok, cfg.FastLoad()) {
	    // regenerate
	}

# Metrics

Operations report to the package-level Observer installed with SetObserver.
The metrics package provides the Prometheus implementation; with no observer
installed (tests), recording is skipped.
*/
package filesystem
