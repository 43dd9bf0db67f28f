package controllers

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"institutebackend/internal/delivery/http/helpers"
	"institutebackend/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func devErrors() *helpers.ErrorWriter  { return helpers.NewErrorWriter(testLogger, false) }
func prodErrors() *helpers.ErrorWriter { return helpers.NewErrorWriter(testLogger, true) }

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) helpers.ErrorResponse {
	t.Helper()
	var body helpers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body helpers.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	mu         sync.Mutex
	events     []*domain.Event
	listErr    error
	createErr  error
	deleteErr  error
	lastCreate *domain.CreateEventInput
	imageBytes []byte
	lastDelete int64
}

func (f *fakeEventService) ListEvents(context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeEventService) CreateEvent(_ context.Context, in domain.CreateEventInput) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCreate = &in
	if in.Image != nil {
		b, err := io.ReadAll(in.Image.Content)
		if err != nil {
			return nil, err
		}
		f.imageBytes = b
	}
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Event{ID: 1, ImagePath: "/public/uploads/1-x-" + in.Image.Filename, Title: in.Title, Comment: in.Comment, Date: in.Date}, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, id int64) error {
	f.lastDelete = id
	return f.deleteErr
}

func (f *fakeEventService) RecentEvents(context.Context) ([]*domain.Event, error) {
	return f.events, nil
}

// fakeContactService implements domain.ContactService for handler tests.
type fakeContactService struct {
	contacts   map[int64]*domain.Contact
	submitErr  error
	listErr    error
	lastSubmit []string
	deleted    []int64
}

func newFakeContactService(contacts ...*domain.Contact) *fakeContactService {
	f := &fakeContactService{contacts: make(map[int64]*domain.Contact)}
	for _, c := range contacts {
		f.contacts[c.ID] = c
	}
	return f
}

func (f *fakeContactService) Submit(_ context.Context, name, email, message string) (*domain.Contact, error) {
	f.lastSubmit = []string{name, email, message}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	c := &domain.Contact{ID: int64(len(f.contacts) + 1), Name: name, Email: email, Message: message, CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	f.contacts[c.ID] = c
	return c, nil
}

func (f *fakeContactService) List(context.Context) ([]*domain.Contact, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Contact, 0, len(f.contacts))
	for id := int64(len(f.contacts)); id >= 1; id-- {
		if c, ok := f.contacts[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactService) GetByID(_ context.Context, id int64) (*domain.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeContactService) Delete(_ context.Context, id int64) error {
	if _, ok := f.contacts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.contacts, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	registerErr error
	loginErr    error
	token       string
	user        *domain.User
}

func (f *fakeAuthService) Register(_ context.Context, name, email, _ string) (*domain.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.User{ID: 1, Name: name, Email: email}, nil
}

func (f *fakeAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.token, f.user, nil
}

// fakeUserService implements domain.UserService for handler tests.
type fakeUserService struct {
	user          *domain.User
	getErr        error
	updateErr     error
	changeErr     error
	lastUpdateID  int64
	lastName      *string
	lastEmail     *string
	lastChangeID  int64
	lastPasswords [2]string
}

func (f *fakeUserService) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.user == nil || f.user.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeUserService) UpdateProfile(_ context.Context, id int64, name, email *string) (*domain.User, error) {
	f.lastUpdateID, f.lastName, f.lastEmail = id, name, email
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u := *f.user
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}
	return &u, nil
}

func (f *fakeUserService) ChangePassword(_ context.Context, id int64, current, next string) error {
	f.lastChangeID = id
	f.lastPasswords = [2]string{current, next}
	return f.changeErr
}

// fakeProber implements DBProber.
type fakeProber struct {
	solution int
	err      error
}

func (f fakeProber) ServerTime(context.Context) (int, time.Time, error) {
	if f.err != nil {
		return 0, time.Time{}, f.err
	}
	return f.solution, time.Now(), nil
}
