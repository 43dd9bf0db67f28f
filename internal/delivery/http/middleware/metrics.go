package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"institutebackend/internal/metrics"
)

// Metrics records request counts and latency per chi route pattern.
// Event streams are counted but kept out of the latency histogram.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrap(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		if wrapped.Header().Get("Content-Type") == "text/event-stream" {
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.status)).Inc()
			return
		}
		metrics.RecordHTTPRequest(r.Method, route, wrapped.status, time.Since(start))
	})
}
