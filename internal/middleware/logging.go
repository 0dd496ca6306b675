package middleware

import (
	"net/http"
	"strings"
	"time"

	"banner-cache/internal/logging"
)

// LoggingConfig selects which requests are logged.
type LoggingConfig struct {
	SkipPaths       []string
	LogHealthChecks bool
}

// DefaultLoggingConfig skips the metrics endpoint and logs everything else.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		SkipPaths:       []string{"/metrics"},
		LogHealthChecks: true,
	}
}

var healthCheckPaths = map[string]bool{
	"/health":  true,
	"/healthz": true,
	"/livez":   true,
}

// Logger logs one line per request in W3C extended format:
//
//	date time c-ip cs-method cs-uri-stem cs-uri-query sc-status sc-bytes time-taken cs(User-Agent)
func Logger(config LoggingConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipLogging(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			logging.Printf("%s", formatW3C(time.Now().UTC(), r, rec, time.Since(start)))
		})
	}
}

func formatW3C(now time.Time, r *http.Request, rec *statusRecorder, took time.Duration) string {
	fields := []string{
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		orDash(clientIP(r)),
		sanitize(r.Method),
		orDash(r.URL.Path),
		orDash(r.URL.RawQuery),
		itoa(int64(rec.status)),
		itoa(rec.bytes),
		itoa(took.Milliseconds()),
		quoteW3C(orDash(r.Header.Get("User-Agent"))),
	}
	return strings.Join(fields, " ")
}

func skipLogging(path string, config LoggingConfig) bool {
	for _, p := range config.SkipPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return !config.LogHealthChecks && healthCheckPaths[path]
}

// sanitize drops control characters so request fields cannot forge log lines.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r':
			return ' '
		case r < 0x20 && r != '\t', r == 0x7f:
			return -1
		default:
			return r
		}
	}, s)
}

func orDash(s string) string {
	s = sanitize(s)
	if s == "" {
		return "-"
	}
	return s
}

func quoteW3C(s string) string {
	if !strings.ContainsAny(s, " \t\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if i := strings.LastIndex(ip, ":"); i != -1 {
		ip = ip[:i]
	}
	return ip
}
