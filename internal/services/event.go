package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"institutebackend/internal/adapters/storage"
	"institutebackend/internal/domain"
	"institutebackend/internal/metrics"
)

// DefaultRecentLimit is the size of the live feed snapshot.
const DefaultRecentLimit = 10

type eventService struct {
	eventRepo      domain.EventRepository
	images         domain.ImageStore
	recentLimit    int
	contextTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
	token          func() string
}

// NewEventService wires the event store and the image store.
func NewEventService(eventRepo domain.EventRepository, images domain.ImageStore, recentLimit int, timeout time.Duration, logger *slog.Logger) domain.EventService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &eventService{
		eventRepo:      eventRepo,
		images:         images,
		recentLimit:    recentLimit,
		contextTimeout: timeout,
		logger:         logger.With("component", "events"),
		now:            time.Now,
		token:          func() string { return uuid.NewString()[:8] },
	}
}

func (s *eventService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.eventRepo.List(ctx)
}

// RecentEvents returns the newest events first, capped at the configured limit.
func (s *eventService) RecentEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.eventRepo.ListRecent(ctx, s.recentLimit)
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.CreateEventInput) (*domain.Event, error) {
	if in.Image == nil {
		return nil, domain.NewValidationError("Image is required")
	}
	if err := storage.ValidateImage(in.Image.Filename, in.Image.ContentType, in.Image.Size); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("Title is required")
	}
	if in.Date.IsZero() {
		return nil, domain.NewValidationError("Date is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	name := storage.UniqueName(in.Image.Filename, s.now(), s.token())
	ref, err := s.images.Save(ctx, name, in.Image.Content)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	event := domain.NewEvent(ref, title, strings.TrimSpace(in.Comment), in.Date)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if rmErr := s.images.Remove(context.WithoutCancel(ctx), ref); rmErr != nil {
			s.logger.Warn("failed to remove orphaned image", "image_path", ref, "error", rmErr)
		}
		return nil, err
	}
	s.logger.Info("event created", "event_id", event.ID, "image_path", ref)
	return event, nil
}

// DeleteEvent removes the record, then the backing image. Image removal is best effort:
// a missing file or a storage failure is logged and the delete still succeeds.
func (s *eventService) DeleteEvent(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("Invalid event ID")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	imagePath, err := s.eventRepo.GetImagePath(ctx, id)
	if err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	if imagePath == "" {
		return nil
	}
	if err := s.images.Remove(ctx, imagePath); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.RecordImageCleanup(metrics.CleanupMissing)
			s.logger.Warn("image not found, skipping deletion", "event_id", id, "image_path", imagePath)
		} else {
			metrics.RecordImageCleanup(metrics.CleanupFailed)
			s.logger.Error("failed to delete image", "event_id", id, "image_path", imagePath, "error", err)
		}
		return nil
	}
	metrics.RecordImageCleanup(metrics.CleanupRemoved)
	s.logger.Info("event deleted", "event_id", id, "image_path", imagePath)
	return nil
}
