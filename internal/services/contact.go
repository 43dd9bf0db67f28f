package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"institutebackend/internal/domain"
)

const (
	maxContactNameLen    = 255
	maxContactMessageLen = 5000
)

type contactService struct {
	contactRepo    domain.ContactRepository
	emailService   domain.EmailService
	notifyTo       string
	contextTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// NewContactService creates a ContactService. When notifyTo is set, every submission is mailed there.
// Store calls are bounded by timeout; zero leaves them bound only by the request.
func NewContactService(contactRepo domain.ContactRepository, emailService domain.EmailService, notifyTo string, timeout time.Duration, logger *slog.Logger) domain.ContactService {
	return &contactService{
		contactRepo:    contactRepo,
		emailService:   emailService,
		notifyTo:       notifyTo,
		contextTimeout: timeout,
		logger:         logger.With("component", "contacts"),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *contactService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *contactService) Submit(ctx context.Context, name, email, message string) (*domain.Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	message = strings.TrimSpace(message)
	switch {
	case name == "":
		return nil, domain.NewValidationError("Name is required")
	case len(name) > maxContactNameLen:
		return nil, domain.NewValidationError("Name is too long")
	case !emailRegexp.MatchString(email):
		return nil, domain.NewValidationError("A valid email is required")
	case message == "":
		return nil, domain.NewValidationError("Message is required")
	case len(message) > maxContactMessageLen:
		return nil, domain.NewValidationError("Message is too long")
	}

	contact := domain.NewContact(name, email, message, s.now())
	storeCtx, cancel := s.withTimeout(ctx)
	err := s.contactRepo.Create(storeCtx, contact)
	cancel()
	if err != nil {
		return nil, err
	}

	if s.emailService != nil && s.notifyTo != "" {
		data := &domain.ContactNotificationEmailData{To: s.notifyTo, Contact: contact}
		if err := s.emailService.SendContactNotification(ctx, data); err != nil {
			s.logger.Warn("contact notification failed", "contact_id", contact.ID, "error", err)
		}
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context) ([]*domain.Contact, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.contactRepo.List(ctx)
}

func (s *contactService) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	if id <= 0 {
		return nil, domain.NewValidationError("Invalid contact ID")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.contactRepo.GetByID(ctx, id)
}

func (s *contactService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("Invalid contact ID")
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.contactRepo.Delete(ctx, id)
}
