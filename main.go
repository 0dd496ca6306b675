package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"banner-cache/internal/bannercache"
	"banner-cache/internal/codec"
	"banner-cache/internal/filesystem"
	"banner-cache/internal/handlers"
	"banner-cache/internal/index"
	"banner-cache/internal/logging"
	"banner-cache/internal/memory"
	"banner-cache/internal/metrics"
	"banner-cache/internal/middleware"
	"banner-cache/internal/scanner"
	"banner-cache/internal/startup"

	"github.com/gorilla/mux"
)

const (
	shutdownTimeout   = 30 * time.Second
	metricsInterval   = time.Minute
	readHeaderTimeout = 10 * time.Second
)

// cacheStatsAdapter lets the metrics collector read the cache under the
// lock shared with the scanner and the handlers.
type cacheStatsAdapter struct {
	cache metrics.StatsProvider
	lock  sync.Locker
}

func (a cacheStatsAdapter) GetStats() metrics.Stats {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.cache.GetStats()
}

func main() {
	startTime := time.Now()

	memResult := memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}
	startup.LogMemoryConfig(string(memResult.Source), memResult.GoMemLimit)

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"media": config.MediaDir,
		"cache": config.CacheDir,
	}))

	if err := codec.InitVips(); err != nil {
		logging.Warn("libvips unavailable, only Go-decodable banners will be cached: %v", err)
	}
	defer codec.ShutdownVips()

	cacheStart := time.Now()
	store, err := index.Open(config.IndexFormat, config.IndexPath)
	if err != nil {
		startup.LogFatal("Failed to open banner index: %v", err)
	}
	cache, err := bannercache.New(bannercache.Options{
		CacheDir:    config.CacheDir,
		Index:       store,
		Preferences: config,
	})
	if err != nil {
		startup.LogFatal("Failed to open banner cache: %v", err)
	}
	startup.LogCacheInit(time.Since(cacheStart), len(cache.Records()), store.Location())

	// The cache is single-threaded; everything that touches it shares this.
	var cacheLock sync.Mutex

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()

	scan := scanner.New(cache, config.MediaDir, config.RescanInterval, &cacheLock)
	scan.SetThrottle(monitor)

	collector := metrics.NewCollector(cacheStatsAdapter{cache: cache, lock: &cacheLock}, metricsInterval)
	if config.MetricsEnabled {
		collector.Start()
	}

	if config.Mode().LowRes() {
		startup.LogScanStarted(config.MediaDir, config.RescanInterval)
		go func() {
			result, err := scan.Run()
			if err != nil {
				logging.Error("Initial banner scan failed: %v", err)
				return
			}
			startup.LogScanComplete(result.Total, result.Cached, result.Missing, result.Duration)

			cacheLock.Lock()
			cache.OutputStats()
			cacheLock.Unlock()

			scan.Start()
		}()
	} else {
		logging.Info("Banner cache is %s, skipping banner scan", config.Mode())
	}

	var srv *http.Server
	if config.ServerEnabled() {
		h := handlers.New(cache, scan, &cacheLock, config.MediaDir)
		router := setupRouter(h, config.MetricsEnabled)
		startup.LogHTTPRoutes(router, config.LogHealthChecks)

		handler, err := wrapHandler(router, config.LogHealthChecks)
		if err != nil {
			startup.LogFatal("Failed to set up HTTP middleware: %v", err)
		}

		srv = &http.Server{
			Addr:              ":" + config.Port,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}

	done := make(chan struct{})
	go handleShutdown(done, srv, func() {
		startup.LogShutdownStep("Stopping memory monitor")
		monitor.Stop()
		startup.LogShutdownStepComplete("Memory monitor stopped")

		startup.LogShutdownStep("Stopping banner scanner")
		scan.Stop()
		startup.LogShutdownStepComplete("Banner scanner stopped")

		if config.MetricsEnabled {
			collector.Stop()
			startup.LogShutdownStepComplete("Metrics collector stopped")
		}

		startup.LogShutdownStep("Closing banner cache")
		cacheLock.Lock()
		err := cache.Close()
		cacheLock.Unlock()
		if err != nil {
			logging.Warn("Banner cache close error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Banner cache closed")
		}
	})

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	if srv != nil {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			startup.LogFatal("Server error: %v", err)
		}
	}
	<-done
}

func setupRouter(h *handlers.Handlers, metricsEnabled bool) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Route())
	h.Register(r, metricsEnabled)
	return r
}

func wrapHandler(router http.Handler, logHealthChecks bool) (http.Handler, error) {
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = logHealthChecks
	logged := middleware.Logger(loggingConfig)(router)

	compress, err := middleware.Compression(middleware.DefaultCompressionConfig())
	if err != nil {
		return nil, err
	}
	return compress(logged), nil
}

// handleShutdown waits for SIGINT or SIGTERM, stops the HTTP server, runs
// stop and closes done.
func handleShutdown(done chan<- struct{}, srv *http.Server, stop func()) {
	defer close(done)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		startup.LogShutdownStep("Shutting down HTTP server")
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("HTTP server stopped")
		}
	}

	stop()
	startup.LogShutdownComplete()
}
