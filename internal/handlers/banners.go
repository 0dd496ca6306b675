package handlers

import (
	"bytes"
	"fmt"
	"image/png"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"banner-cache/internal/index"
	"banner-cache/internal/logging"
	"banner-cache/internal/scanner"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
)

// BannerInfo describes one index record.
type BannerInfo struct {
	Path      string `json:"path"`
	CachePath string `json:"cachePath"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Rotated   bool   `json:"rotated,omitempty"`
	FullHash  string `json:"fullHash"`
	Valid     bool   `json:"valid"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Mode            string         `json:"mode"`
	IndexedBanners  int            `json:"indexedBanners"`
	ResidentBanners int            `json:"residentBanners"`
	ResidentBytes   int64          `json:"residentBytes"`
	ResidentSize    string         `json:"residentSize"`
	DemandRefcount  int            `json:"demandRefcount"`
	IndexLocation   string         `json:"indexLocation"`
	Scanning        bool           `json:"scanning"`
	LastScan        scanner.Result `json:"lastScan"`
}

// GetStats returns cache counters and the last scan summary.
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	var response StatsResponse
	h.withCache(func(c BannerCache) {
		s := c.Stats()
		response = StatsResponse{
			Mode:            s.Mode,
			IndexedBanners:  s.IndexedBanners,
			ResidentBanners: s.ResidentBanners,
			ResidentBytes:   s.ResidentBytes,
			DemandRefcount:  s.DemandRefcount,
			IndexLocation:   s.IndexLocation,
		}
	})
	response.ResidentSize = humanize.IBytes(uint64(response.ResidentBytes))
	response.Scanning = h.scanner.IsScanning()
	response.LastScan = h.scanner.LastResult()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, response)
}

// ListBanners returns every index record sorted by source path. Paths under
// the media directory are reported relative to it. ?rotated=true limits the
// list to un-rotated diagonal banners.
func (h *Handlers) ListBanners(w http.ResponseWriter, r *http.Request) {
	var records map[string]index.Record
	h.withCache(func(c BannerCache) { records = c.Records() })

	onlyRotated := false
	if v := r.URL.Query().Get("rotated"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "Invalid rotated parameter", http.StatusBadRequest)
			return
		}
		onlyRotated = parsed
	}

	banners := make([]BannerInfo, 0, len(records))
	for src, rec := range records {
		if onlyRotated && !rec.Rotated {
			continue
		}
		banners = append(banners, BannerInfo{
			Path:      h.relativePath(src),
			CachePath: rec.Path,
			Width:     rec.Width,
			Height:    rec.Height,
			Rotated:   rec.Rotated,
			FullHash:  fmt.Sprintf("%016x", rec.FullHash),
			Valid:     rec.Valid(),
		})
	}
	sort.Slice(banners, func(i, j int) bool { return banners[i].Path < banners[j].Path })

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, banners)
}

// GetBanner serves the cached low-res bitmap for a source path as PNG.
func (h *Handlers) GetBanner(w http.ResponseWriter, r *http.Request) {
	filePath := mux.Vars(r)["path"]
	if filePath == "" {
		http.Error(w, "Path is required", http.StatusBadRequest)
		return
	}

	fullPath, ok := h.resolvePath(filePath)
	if !ok {
		logging.Warn("Banner: path outside media dir: %s", filePath)
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	var body bytes.Buffer
	var found bool
	var encodeErr error
	h.withCache(func(c BannerCache) {
		bmp, ok := c.CachedBitmap(fullPath)
		if !ok {
			return
		}
		found = true
		encodeErr = png.Encode(&body, bmp.Image)
	})

	if !found {
		logging.Debug("Banner: no cached bitmap for %s", fullPath)
		http.Error(w, "Banner not cached", http.StatusNotFound)
		return
	}
	if encodeErr != nil {
		logging.Error("Banner: failed to encode %s: %v", fullPath, encodeErr)
		http.Error(w, "Failed to encode banner", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	if _, err := w.Write(body.Bytes()); err != nil {
		logging.Debug("Banner: write failed for %s: %v", fullPath, err)
	}
}

// TriggerRescan starts a pass over the media directory in the background.
func (h *Handlers) TriggerRescan(w http.ResponseWriter, _ *http.Request) {
	if h.scanner.IsScanning() {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		writeJSON(w, map[string]string{
			"status":  "busy",
			"message": "Banner scan already in progress",
		})
		return
	}

	h.scanner.TriggerScan()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	writeJSON(w, map[string]string{
		"status":  "started",
		"message": "Banner scan started",
	})
}

// resolvePath joins a request path onto the media directory and rejects
// anything that escapes it.
func (h *Handlers) resolvePath(filePath string) (string, bool) {
	fullPath := filepath.Join(h.mediaDir, filepath.FromSlash(filePath))
	rel, err := filepath.Rel(h.mediaDir, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return fullPath, true
}

func (h *Handlers) relativePath(src string) string {
	rel, err := filepath.Rel(h.mediaDir, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return src
	}
	return filepath.ToSlash(rel)
}
