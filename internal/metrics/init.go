package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "error_decode", "error_transform", "error_persist"} {
		BannerGenerationsTotal.WithLabelValues(status)
	}

	for _, phase := range []string{"decode", "unrotate", "resize", "encode", "persist"} {
		BannerGenerationDuration.WithLabelValues(phase)
	}

	for _, result := range []string{"fast_load", "current", "stale", "missing"} {
		BannerUpToDateChecks.WithLabelValues(result)
	}

	for _, result := range []string{"resident", "loaded", "regenerated", "failed"} {
		BannerLoadsTotal.WithLabelValues(result)
	}

	for _, result := range []string{"created", "registered", "not_loaded", "corrupt"} {
		BannerTexturesTotal.WithLabelValues(result)
	}

	for _, status := range []string{"success", "error"} {
		BannerIndexWrites.WithLabelValues(status)
	}

	MemoryPaused.Set(0)

	for _, status := range []string{"cached", "missing"} {
		ScanBannersTotal.WithLabelValues(status)
	}

	volumes := []string{"media", "cache", "unknown"}
	for _, vol := range volumes {
		for _, op := range []string{"read", "write", "stat"} {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
		}
		for _, op := range []string{"stat", "open", "read"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
