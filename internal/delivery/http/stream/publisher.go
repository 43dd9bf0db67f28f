// Package stream serves the live event feed as Server-Sent Events.
//
// Each connection polls the recent-events source on its own ticker, inside the
// handler goroutine, so ticks of one stream never overlap and streams share no
// state. The ticker is stopped on every exit path: client disconnect, server
// shutdown (the request context derives from the server base context) or a
// failed write.
package stream

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	h "institutebackend/internal/delivery/http/helpers"
	"institutebackend/internal/domain"
	"institutebackend/internal/metrics"
)

// DefaultInterval is the polling period between snapshots.
const DefaultInterval = 5 * time.Second

// Publisher is an http.Handler streaming recent-event snapshots.
type Publisher struct {
	source   domain.RecentEventsSource
	interval time.Duration
	logger   *slog.Logger
}

// NewPublisher returns a Publisher polling source every interval.
func NewPublisher(source domain.RecentEventsSource, interval time.Duration, logger *slog.Logger) *Publisher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Publisher{source: source, interval: interval, logger: logger.With("component", "event_feed")}
}

// ServeHTTP godoc
// @Summary      Live event updates
// @Description  Server-Sent Events stream. Sends the most recent events immediately and then on every polling tick. Empty snapshots are skipped.
// @Tags         events
// @Produce      text/event-stream
// @Success      200  {array}  domain.Event
// @Router       /events/updates [get]
func (p *Publisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "streaming unsupported")
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	log := p.logger.With("request_id", middleware.GetReqID(ctx), "remote_addr", r.RemoteAddr)
	metrics.TrackFeedStream(true)
	defer metrics.TrackFeedStream(false)
	log.Debug("stream opened")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if err := p.push(ctx, w, flusher, log); err != nil {
		log.Debug("stream closed on write", "error", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			log.Debug("stream closed", "reason", context.Cause(ctx))
			return
		case <-ticker.C:
			if err := p.push(ctx, w, flusher, log); err != nil {
				log.Debug("stream closed on write", "error", err)
				return
			}
		}
	}
}

// push fetches one snapshot and writes it as a single frame. Fetch failures are
// logged and swallowed; only write failures are returned.
func (p *Publisher) push(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, log *slog.Logger) error {
	events, err := p.source.RecentEvents(ctx)
	if err != nil {
		if ctx.Err() == nil {
			metrics.RecordFeedFetchError()
			log.Error("failed to fetch recent events", "error", err)
		}
		return nil
	}
	if len(events) == 0 {
		return nil
	}
	frame, err := encodeFrame(events)
	if err != nil {
		log.Error("failed to encode events", "error", err)
		return nil
	}
	if _, err := w.Write(frame); err != nil {
		return err
	}
	flusher.Flush()
	metrics.RecordFeedFrame()
	return nil
}

// encodeFrame renders "data: <json>\n\n".
func encodeFrame(events []*domain.Event) ([]byte, error) {
	payload, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Grow(len(payload) + 8)
	buf.WriteString("data: ")
	buf.Write(payload)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}
