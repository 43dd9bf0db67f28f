package services

import (
	"context"
	"fmt"
	"log/slog"

	"institutebackend/internal/domain"
)

const contactNotificationTemplate = "contact_notification"

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendContactNotification mails a new contact submission to staff.
func (s *emailService) SendContactNotification(ctx context.Context, data *domain.ContactNotificationEmailData) error {
	if data == nil || data.Contact == nil {
		return fmt.Errorf("contact notification data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render(contactNotificationTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", contactNotificationTemplate, err)
	}
	if err := s.mailer.Send(ctx, data.To, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send contact notification: %w", err)
	}
	s.logger.Info("contact notification sent", "to", data.To, "contact_id", data.Contact.ID)
	return nil
}
