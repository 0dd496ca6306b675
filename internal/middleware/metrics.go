package middleware

import (
	"net/http"
	"strconv"
	"time"

	"banner-cache/internal/metrics"

	"github.com/gorilla/mux"
)

// Metrics records request counts and latencies labeled by route template,
// so /api/banner/{path:.*} is one series no matter how many banners exist.
// Requests that match no route are labeled "unmatched".
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)

		route := routeTemplate(r)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Route returns a mux middleware that labels requests by route template.
// Installed with Router.Use it runs after matching, so the route is known.
func Route() mux.MiddlewareFunc {
	return Metrics
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
