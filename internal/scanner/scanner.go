package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"banner-cache/internal/codec"
	"banner-cache/internal/logging"
	"banner-cache/internal/metrics"
)

// Cacher is the part of the banner cache a scan drives.
type Cacher interface {
	CacheBanner(path string)
	IsCached(path string) bool
}

// Throttle delays a pass under memory pressure. WaitIfPaused returns false
// when the pass should stop.
type Throttle interface {
	WaitIfPaused() bool
}

// Result summarizes one pass over the media directory.
type Result struct {
	Total     int           `json:"total"`
	Cached    int           `json:"cached"`
	Missing   int           `json:"missing"`
	Aborted   bool          `json:"aborted,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// Scan returns every banner source under mediaDir in sorted order. Hidden
// files and directories are skipped.
func Scan(mediaDir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(mediaDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == mediaDir {
				return err
			}
			logging.Warn("Error accessing %s: %v", path, err)
			return nil
		}

		if path != mediaDir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !codec.IsImagePath(path) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil && !errors.Is(err, fs.SkipAll) {
		return nil, fmt.Errorf("walk error: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// CacheAll caches every path in order. A banner that fails is counted as
// missing and the pass continues. throttle may be nil.
func CacheAll(c Cacher, paths []string, throttle Throttle) Result {
	result := Result{Total: len(paths), StartedAt: time.Now()}

	for i, path := range paths {
		if throttle != nil && !throttle.WaitIfPaused() {
			logging.Warn("Banner scan stopped after %d/%d banners", i, len(paths))
			result.Aborted = true
			break
		}
		c.CacheBanner(path)
		if c.IsCached(path) {
			result.Cached++
		} else {
			result.Missing++
		}
		if (i+1)%500 == 0 {
			logging.Info("Cached %d/%d banners...", i+1, len(paths))
		}
	}

	result.Duration = time.Since(result.StartedAt)
	metrics.ScanBannersTotal.WithLabelValues("cached").Set(float64(result.Cached))
	metrics.ScanBannersTotal.WithLabelValues("missing").Set(float64(result.Missing))
	return result
}

// lockedCacher holds the lock per banner so HTTP handlers interleave with a
// long pass.
type lockedCacher struct {
	Cacher
	lock sync.Locker
}

func (l lockedCacher) CacheBanner(path string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.Cacher.CacheBanner(path)
}

func (l lockedCacher) IsCached(path string) bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.Cacher.IsCached(path)
}

// Scanner re-caches the media directory periodically.
type Scanner struct {
	cache    Cacher
	mediaDir string
	interval time.Duration
	lock     sync.Locker // shared with the HTTP handlers
	throttle Throttle
	stopChan chan struct{}
	stopOnce sync.Once
	running  sync.WaitGroup

	mu         sync.Mutex
	isScanning bool
	lastResult Result
}

// New creates a Scanner. interval <= 0 disables periodic scans. lock is held
// around each call into cache.
func New(cache Cacher, mediaDir string, interval time.Duration, lock sync.Locker) *Scanner {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &Scanner{
		cache:    cache,
		mediaDir: mediaDir,
		interval: interval,
		lock:     lock,
		stopChan: make(chan struct{}),
	}
}

// SetThrottle installs a memory throttle consulted before each banner.
func (s *Scanner) SetThrottle(t Throttle) {
	s.throttle = t
}

// Run performs one full pass. A pass that is already running is not
// repeated.
func (s *Scanner) Run() (Result, error) {
	if !s.tryStart() {
		logging.Info("Banner scan already in progress, skipping...")
		return s.LastResult(), nil
	}
	defer s.finish()

	metrics.ScanRunsTotal.Inc()
	start := time.Now()
	logging.Info("Scanning %s for banners...", s.mediaDir)

	paths, err := Scan(s.mediaDir)
	if err != nil {
		return Result{}, err
	}

	result := CacheAll(lockedCacher{s.cache, s.lock}, paths, stoppable{s})

	metrics.ScanLastRunDuration.Set(time.Since(start).Seconds())
	logging.Info("Banner scan complete: %d found, %d cached, %d missing in %v",
		result.Total, result.Cached, result.Missing, time.Since(start))

	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()
	return result, nil
}

func (s *Scanner) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isScanning {
		return false
	}
	s.isScanning = true
	s.running.Add(1)
	return true
}

func (s *Scanner) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isScanning = false
	s.running.Done()
}

// Start begins periodic scans in the background.
func (s *Scanner) Start() {
	if s.interval <= 0 {
		logging.Debug("Periodic banner scan disabled")
		return
	}
	go s.periodicScan()
}

// Stop ends periodic scans and aborts a running pass, returning once it has
// finished. It is safe to call more than once.
func (s *Scanner) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.running.Wait()
}

// stoppable aborts a pass after Stop and otherwise defers to the memory
// throttle.
type stoppable struct {
	s *Scanner
}

func (t stoppable) WaitIfPaused() bool {
	select {
	case <-t.s.stopChan:
		return false
	default:
	}
	if t.s.throttle == nil {
		return true
	}
	return t.s.throttle.WaitIfPaused()
}

func (s *Scanner) periodicScan() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Debug("Periodic banner scan triggered")
			if _, err := s.Run(); err != nil {
				logging.Error("periodic banner scan failed: %v", err)
			}
		case <-s.stopChan:
			return
		}
	}
}

// TriggerScan starts a pass in the background.
func (s *Scanner) TriggerScan() {
	go func() {
		if _, err := s.Run(); err != nil {
			logging.Error("manually triggered banner scan failed: %v", err)
		}
	}()
}

// IsScanning reports whether a pass is running.
func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isScanning
}

// LastResult returns the summary of the last completed pass.
func (s *Scanner) LastResult() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}
