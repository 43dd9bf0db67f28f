package domain

import (
	"context"
	"io"
	"time"
)

// DateLayout is the wire and storage format of Event.Date.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day. It serializes as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "YYYY-MM-DD" or RFC 3339 input.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, NewValidationError("invalid date format, use YYYY-MM-DD")
	}
	return NewDate(t), nil
}

func (d Date) String() string { return d.Format(DateLayout) }

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return NewValidationError("invalid date format, use YYYY-MM-DD")
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Event is an institute event shown on the public site.
// swagger:model Event
type Event struct {
	ID        int64  `json:"id"`
	ImagePath string `json:"image_path"`
	Title     string `json:"title"`
	Comment   string `json:"comment"`
	Date      Date   `json:"date"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(imagePath, title, comment string, date Date) *Event {
	return &Event{
		ImagePath: imagePath,
		Title:     title,
		Comment:   comment,
		Date:      date,
	}
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	GetImagePath(ctx context.Context, id int64) (string, error)
	ListRecent(ctx context.Context, limit int) ([]*Event, error)
	Delete(ctx context.Context, id int64) error
}

// CreateEventInput carries a create request: the form fields plus the single uploaded image.
type CreateEventInput struct {
	Title   string
	Comment string
	Date    Date
	Image   *ImageUpload
}

// ImageUpload is an uploaded image before it is stored.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// EventService defines the business logic for events.
type EventService interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	RecentEvents(ctx context.Context) ([]*Event, error)
}

// RecentEventsSource supplies the snapshot streamed by the live update feed.
type RecentEventsSource interface {
	RecentEvents(ctx context.Context) ([]*Event, error)
}
