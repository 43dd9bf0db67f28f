package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ContactNotificationEmailData holds data for the "new contact message" email sent to staff.
type ContactNotificationEmailData struct {
	To      string
	Contact *Contact
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendContactNotification(ctx context.Context, data *ContactNotificationEmailData) error
}
