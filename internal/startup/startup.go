package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"banner-cache/internal/bannercache"
	"banner-cache/internal/index"
	"banner-cache/internal/logging"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

const defaultRescanInterval = 6 * time.Hour

// Config holds all application configuration. It satisfies
// bannercache.Preferences.
type Config struct {
	MediaDir        string
	CacheDir        string
	Port            string
	RescanInterval  time.Duration
	LogHealthChecks bool
	MetricsEnabled  bool

	BannerCache     bannercache.Mode
	FastLoadEnabled bool
	PalettedBanners bool

	IndexFormat index.Format
	IndexPath   string
}

func (c *Config) Mode() bannercache.Mode { return c.BannerCache }
func (c *Config) FastLoad() bool         { return c.FastLoadEnabled }
func (c *Config) PalettedCache() bool    { return c.PalettedBanners }

// ServerEnabled reports whether the inspection server should listen.
func (c *Config) ServerEnabled() bool {
	return c.Port != ""
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	mediaDir := getEnv("MEDIA_DIR", "/media")
	cacheDir := getEnv("CACHE_DIR", "/cache")
	modeStr := getEnv("BANNER_CACHE", "preload")
	fastLoad := getEnvBool("FAST_LOAD", false)
	paletted := getEnvBool("PALETTED_BANNER_CACHE", false)
	formatStr := getEnv("INDEX_FORMAT", "yaml")
	port, portSet := os.LookupEnv("PORT")
	if !portSet {
		port = "8080"
	}
	rescanStr := getEnv("RESCAN_INTERVAL", defaultRescanInterval.String())
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	logging.Info("  MEDIA_DIR:              %s", mediaDir)
	logging.Info("  CACHE_DIR:              %s", cacheDir)
	logging.Info("  BANNER_CACHE:           %s", modeStr)
	logging.Info("  FAST_LOAD:              %v", fastLoad)
	logging.Info("  PALETTED_BANNER_CACHE:  %v", paletted)
	logging.Info("  INDEX_FORMAT:           %s", formatStr)
	logging.Info("  PORT:                   %s", orDisabled(port))
	logging.Info("  METRICS_ENABLED:        %v", metricsEnabled)
	logging.Info("  RESCAN_INTERVAL:        %s", rescanStr)
	logging.Info("  LOG_HEALTH_CHECKS:      %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:              %s", logging.GetLevel())

	mode, err := bannercache.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BANNER_CACHE: %w", err)
	}

	format, err := index.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid INDEX_FORMAT: %w", err)
	}

	rescanInterval, err := time.ParseDuration(rescanStr)
	if err != nil || rescanInterval < 0 {
		logging.Warn("  Invalid RESCAN_INTERVAL, using default: %v", defaultRescanInterval)
		rescanInterval = defaultRescanInterval
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	mediaDir, err = filepath.Abs(mediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	logging.Info("  Media directory (absolute): %s", mediaDir)

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	// Missing media only means nothing gets cached.
	if err := ensureDirectory(mediaDir, "media"); err != nil {
		logging.Warn("  Media directory issue: %v", err)
	}

	config := &Config{
		MediaDir:        mediaDir,
		CacheDir:        cacheDir,
		Port:            port,
		RescanInterval:  rescanInterval,
		LogHealthChecks: logHealthChecks,
		MetricsEnabled:  metricsEnabled,
		BannerCache:     mode,
		FastLoadEnabled: fastLoad,
		PalettedBanners: paletted,
		IndexFormat:     format,
		IndexPath:       filepath.Join(cacheDir, format.FileName()),
	}

	if mode.LowRes() {
		if err := ensureDirectory(cacheDir, "cache"); err != nil {
			return nil, fmt.Errorf("cache directory error: %w", err)
		}

		logging.Debug("  Testing cache directory write access...")
		if err := testWriteAccess(cacheDir); err != nil {
			return nil, fmt.Errorf("cache directory is not writable (required for banner cache): %w", err)
		}
		logging.Info("  [OK] Cache directory is writable")
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Banner cache:  %s (%s)", enabledString(mode.LowRes()), mode)
	logging.Info("    Index:         %s", config.IndexPath)
	logging.Info("    Rescan:        %s", enabledString(rescanInterval > 0))
	logging.Info("    HTTP server:   %s", enabledString(config.ServerEnabled()))
	logging.Info("    Metrics:       %s", enabledString(metricsEnabled))

	return config, nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

func orDisabled(s string) string {
	if s == "" {
		return "(disabled)"
	}
	return s
}

// LogCacheInit logs how long opening the cache took and what it found.
func LogCacheInit(duration time.Duration, indexed int, location string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("BANNER CACHE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Index:           %s", location)
	logging.Info("  Indexed banners: %d", indexed)
	logging.Info("  [OK] Cache opened in %v", duration)
}

// LogMemoryConfig logs the outcome of the GOMEMLIMIT setup.
func LogMemoryConfig(source string, limit int64) {
	if limit <= 0 {
		logging.Debug("  Memory limit: not configured")
		return
	}
	logging.Info("  Memory limit:    %s (from %s)", humanize.IBytes(uint64(limit)), source)
}

// LogScanStarted logs the start of the initial pass over the media directory.
func LogScanStarted(mediaDir string, interval time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("BANNER SCAN")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Media directory: %s", mediaDir)
	if interval > 0 {
		logging.Info("  Rescan interval: %v", interval)
	} else {
		logging.Info("  Rescan interval: DISABLED")
	}
}

// LogScanComplete logs a finished pass.
func LogScanComplete(total, cached, missing int, duration time.Duration) {
	logging.Info("  [OK] %d banners checked in %v (%d cached, %d without cache)", total, duration, cached, missing)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes at debug level.
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))

		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			if group == "" {
				logging.Debug("  [root]")
			} else {
				logging.Debug("  [%s]", group)
			}
			for _, route := range groups[group] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
		}
	}

	if logHealthChecks {
		logging.Info("  Health check logging: ON")
	} else {
		logging.Info("  Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	first := parts[0]

	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	if config.Port == "" {
		logging.Info("  HTTP server:     DISABLED")
	} else {
		logging.Info("  Endpoints:")
		logging.Info("    Stats:         http://localhost:%s/api/stats", config.Port)
		logging.Info("    Banners:       http://localhost:%s/api/banners", config.Port)
		if config.MetricsEnabled {
			logging.Info("    Metrics:       http://localhost:%s/metrics", config.Port)
		} else {
			logging.Info("    Metrics:       DISABLED")
		}
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
    ____                              ______           __
   / __ )____ _____  ____  ___  _____/ ____/___ ______/ /_  ___
  / __  / __ '/ __ \/ __ \/ _ \/ ___/ /   / __ '/ ___/ __ \/ _ \
 / /_/ / /_/ / / / / / / /  __/ /  / /___/ /_/ / /__/ / / /  __/
/_____/\__,_/_/ /_/_/ /_/\___/_/   \____/\__,_/\___/_/ /_/\___/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
