package filesystem

// RetryEvent is one step of the stale file handle retry loop.
type RetryEvent int

const (
	// RetryStale is an ESTALE result from any attempt.
	RetryStale RetryEvent = iota
	// RetryAttempt is a scheduled retry after a stale result.
	RetryAttempt
	// RetrySuccess is a success after at least one retry.
	RetrySuccess
	// RetryFailure is giving up with every attempt stale.
	RetryFailure
)

func (e RetryEvent) String() string {
	switch e {
	case RetryStale:
		return "stale"
	case RetryAttempt:
		return "attempt"
	case RetrySuccess:
		return "success"
	case RetryFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Observer receives filesystem timings and retry events. The metrics package
// provides the Prometheus implementation; filesystem cannot import it.
type Observer interface {
	// ObserveOperation records one source file operation ("stat", "read").
	ObserveOperation(volume, operation string, durationSeconds float64, err error)
	// ObserveRetry records a retry loop event for op ("stat", "open", "read").
	ObserveRetry(event RetryEvent, op, volume string)
	// ObserveRetryDuration records the total time spent in a retry loop.
	ObserveRetryDuration(op, volume string, durationSeconds float64)
}

var defaultObserver Observer

// SetObserver installs the package-level observer. Call it once at startup;
// with no observer nothing is recorded.
func SetObserver(o Observer) {
	defaultObserver = o
}

func observe() Observer {
	return defaultObserver
}
