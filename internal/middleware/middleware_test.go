package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzip"
)

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rec := newStatusRecorder(w)

	if rec.status != http.StatusOK {
		t.Errorf("default status = %d, want 200", rec.status)
	}

	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.status != http.StatusNotFound {
		t.Errorf("status = %d, want first WriteHeader to win", rec.status)
	}

	n, err := rec.Write([]byte("hello"))
	if err != nil || n != 5 || rec.bytes != 5 {
		t.Errorf("Write() = %d, %v; bytes = %d", n, err, rec.bytes)
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"plain":            "plain",
		"line\nbreak":      "line break",
		"esc\x1b[31mred":   "esc[31mred",
		"nul\x00byte":      "nulbyte",
		"tab\tkept":        "tab\tkept",
		"carriage\rreturn": "carriage return",
	}
	for in, want := range tests {
		if got := sanitize(in); got != want {
			t.Errorf("sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatW3C(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/banners?x=1", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("User-Agent", "Mozilla 5.0")
	rec := &statusRecorder{status: 200, bytes: 42}

	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	got := formatW3C(now, r, rec, 15*time.Millisecond)
	want := `2024-03-01 12:30:00 10.0.0.1 GET /api/banners x=1 200 42 15 "Mozilla 5.0"`
	if got != want {
		t.Errorf("formatW3C() =\n%s\nwant\n%s", got, want)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.5:1234"
	if got := clientIP(r); got != "192.168.1.5" {
		t.Errorf("clientIP() = %s", got)
	}

	r.Header.Set("X-Real-IP", "172.16.0.9")
	if got := clientIP(r); got != "172.16.0.9" {
		t.Errorf("clientIP() with X-Real-IP = %s", got)
	}

	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")
	if got := clientIP(r); got != "1.2.3.4" {
		t.Errorf("clientIP() with X-Forwarded-For = %s", got)
	}
}

func TestSkipLogging(t *testing.T) {
	config := DefaultLoggingConfig()
	if !skipLogging("/metrics", config) {
		t.Error("/metrics should be skipped")
	}
	if skipLogging("/health", config) {
		t.Error("/health should be logged by default")
	}

	config.LogHealthChecks = false
	if !skipLogging("/health", config) {
		t.Error("/health should be skipped when health check logging is off")
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	handler := Logger(DefaultLoggingConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", w.Code)
	}
}

func TestRouteTemplate(t *testing.T) {
	var got string
	r := mux.NewRouter()
	r.Use(Route())
	r.HandleFunc("/api/banner/{path:.*}", func(_ http.ResponseWriter, r *http.Request) {
		got = routeTemplate(r)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/banner/Songs/a.png", nil))
	if got != "/api/banner/{path:.*}" {
		t.Errorf("routeTemplate() = %q", got)
	}

	if tpl := routeTemplate(httptest.NewRequest(http.MethodGet, "/nowhere", nil)); tpl != "unmatched" {
		t.Errorf("routeTemplate() without a route = %q, want unmatched", tpl)
	}
}

func TestCompression(t *testing.T) {
	body := strings.Repeat(`{"banner":"Songs/Pack/banner.png"}`, 100)

	wrap, err := Compression(DefaultCompressionConfig())
	if err != nil {
		t.Fatalf("Compression() error: %v", err)
	}
	handler := wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/banners", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", w.Header().Get("Content-Encoding"))
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	got, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != body {
		t.Error("decompressed body does not match")
	}
}

func TestCompression_SkipsWithoutAcceptEncoding(t *testing.T) {
	wrap, err := Compression(DefaultCompressionConfig())
	if err != nil {
		t.Fatal(err)
	}
	handler := wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, strings.Repeat("x", 4096))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/banners", nil))
	if w.Header().Get("Content-Encoding") != "" {
		t.Error("response should not be compressed")
	}
}
