package handlers

import (
	"net/http"
	"sync"
	"time"

	"banner-cache/internal/bannercache"
	"banner-cache/internal/index"
	"banner-cache/internal/scanner"
	"banner-cache/internal/surface"

	"github.com/gorilla/mux"
)

// BannerCache is the read side of the banner cache the handlers expose.
type BannerCache interface {
	Stats() bannercache.Stats
	Records() map[string]index.Record
	CachedBitmap(path string) (*surface.Bitmap, bool)
}

// Rescanner runs passes over the media directory.
type Rescanner interface {
	TriggerScan()
	IsScanning() bool
	LastResult() scanner.Result
}

type Handlers struct {
	cache     BannerCache
	scanner   Rescanner
	lock      sync.Locker
	mediaDir  string
	startTime time.Time
}

// New returns handlers for cache. lock must be the one the scanner holds
// while it calls into the cache.
func New(cache BannerCache, scan Rescanner, lock sync.Locker, mediaDir string) *Handlers {
	return &Handlers{
		cache:     cache,
		scanner:   scan,
		lock:      lock,
		mediaDir:  mediaDir,
		startTime: time.Now(),
	}
}

// Register adds every route to router.
func (h *Handlers) Register(router *mux.Router, metricsEnabled bool) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/banners", h.ListBanners).Methods(http.MethodGet)
	api.HandleFunc("/banner/{path:.*}", h.GetBanner).Methods(http.MethodGet)
	api.HandleFunc("/rescan", h.TriggerRescan).Methods(http.MethodPost)

	if metricsEnabled {
		router.Handle("/metrics", h.MetricsHandler()).Methods(http.MethodGet)
	}
}

// withCache runs fn while holding the cache lock.
func (h *Handlers) withCache(fn func(BannerCache)) {
	h.lock.Lock()
	defer h.lock.Unlock()
	fn(h.cache)
}
