package domain

import (
	"context"
	"time"
)

// Contact is a message submitted through the public contact form.
// swagger:model Contact
type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewContact returns a new Contact. ID is set by the repository on create.
func NewContact(name, email, message string, createdAt time.Time) *Contact {
	return &Contact{
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: createdAt,
	}
}

// ContactRepository defines the interface for contact storage
type ContactRepository interface {
	Create(ctx context.Context, contact *Contact) error
	List(ctx context.Context) ([]*Contact, error)
	GetByID(ctx context.Context, id int64) (*Contact, error)
	Delete(ctx context.Context, id int64) error
}

// ContactService defines the business logic for contact messages.
type ContactService interface {
	Submit(ctx context.Context, name, email, message string) (*Contact, error)
	List(ctx context.Context) ([]*Contact, error)
	GetByID(ctx context.Context, id int64) (*Contact, error)
	Delete(ctx context.Context, id int64) error
}
