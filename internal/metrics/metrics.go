// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds, excluding event streams",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Live update feed
	FeedActiveStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "event_feed_active_streams",
			Help: "Number of open event update streams",
		},
	)

	FeedFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_feed_frames_total",
			Help: "Total number of event snapshots written to streams",
		},
	)

	FeedFetchErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_feed_fetch_errors_total",
			Help: "Total number of failed recent-events fetches during streaming",
		},
	)

	// Uploads
	ImageCleanupTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_image_cleanup_total",
			Help: "Outcomes of image removal after an event delete",
		},
		[]string{"result"}, // "removed", "missing", "failed"
	)
)

// Image cleanup outcomes.
const (
	CleanupRemoved = "removed"
	CleanupMissing = "missing"
	CleanupFailed  = "failed"
)

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackFeedStream adjusts the open stream gauge.
func TrackFeedStream(open bool) {
	if open {
		FeedActiveStreams.Inc()
	} else {
		FeedActiveStreams.Dec()
	}
}

func RecordFeedFrame() { FeedFramesTotal.Inc() }

func RecordFeedFetchError() { FeedFetchErrorsTotal.Inc() }

func RecordImageCleanup(result string) { ImageCleanupTotal.WithLabelValues(result).Inc() }
