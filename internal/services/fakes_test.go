package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"institutebackend/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeEventRepo implements domain.EventRepository for tests.
type fakeEventRepo struct {
	mu        sync.Mutex
	events    map[int64]*domain.Event
	nextID    int64
	createErr error
	listErr   error
	deleteErr error
	lastLimit int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[int64]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = f.nextID
	f.nextID++
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) List(context.Context) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Event, 0, len(f.events))
	for id := int64(1); id < f.nextID; id++ {
		if e, ok := f.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetImagePath(_ context.Context, id int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.events[id]; ok {
		return e.ImagePath, nil
	}
	return "", domain.ErrNotFound
}

func (f *fakeEventRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Event, error) {
	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastLimit = limit
	f.mu.Unlock()
	out := make([]*domain.Event, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeImageStore implements domain.ImageStore in memory.
type fakeImageStore struct {
	mu        sync.Mutex
	files     map[string]string
	saveErr   error
	removeErr error
	removed   []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{files: make(map[string]string)}
}

func (f *fakeImageStore) Save(_ context.Context, name string, content io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	ref := "/public/uploads/" + name
	f.mu.Lock()
	f.files[ref] = string(b)
	f.mu.Unlock()
	return ref, nil
}

func (f *fakeImageStore) Remove(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	if f.removeErr != nil {
		return f.removeErr
	}
	if _, ok := f.files[ref]; !ok {
		return domain.ErrNotFound
	}
	delete(f.files, ref)
	return nil
}

// fakeContactRepo implements domain.ContactRepository for tests.
type fakeContactRepo struct {
	contacts  map[int64]*domain.Contact
	nextID    int64
	createErr error
	// deadlineCalls names each call that arrived with a context deadline.
	deadlineCalls []string
}

func (f *fakeContactRepo) track(ctx context.Context, op string) {
	if _, ok := ctx.Deadline(); ok {
		f.deadlineCalls = append(f.deadlineCalls, op)
	}
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[int64]*domain.Contact), nextID: 1}
}

func (f *fakeContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	f.track(ctx, "Create")
	if f.createErr != nil {
		return f.createErr
	}
	c.ID = f.nextID
	f.nextID++
	cp := *c
	f.contacts[c.ID] = &cp
	return nil
}

func (f *fakeContactRepo) List(ctx context.Context) ([]*domain.Contact, error) {
	f.track(ctx, "List")
	out := make([]*domain.Contact, 0, len(f.contacts))
	for id := f.nextID - 1; id > 0; id-- {
		if c, ok := f.contacts[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeContactRepo) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	f.track(ctx, "GetByID")
	if c, ok := f.contacts[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeContactRepo) Delete(ctx context.Context, id int64) error {
	f.track(ctx, "Delete")
	if _, ok := f.contacts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.contacts, id)
	return nil
}

// fakeEmailService records contact notifications.
type fakeEmailService struct {
	sent []*domain.ContactNotificationEmailData
	err  error
}

func (f *fakeEmailService) SendContactNotification(_ context.Context, data *domain.ContactNotificationEmailData) error {
	f.sent = append(f.sent, data)
	return f.err
}

// fakeUserRepo implements domain.UserRepository for tests.
type fakeUserRepo struct {
	byID       map[int64]*domain.User
	nextID     int64
	getErr     error
	updateErr  error
	isAdminErr error
	adminCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[int64]*domain.User), nextID: 1}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	cp := *u
	f.add(&cp)
	u.ID = cp.ID
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash, salt string, updatedAt time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash, u.Salt, u.UpdatedAt = hash, salt, updatedAt
	return nil
}

func (f *fakeUserRepo) IsAdmin(_ context.Context, id int64) (bool, error) {
	f.adminCalls++
	if f.isAdminErr != nil {
		return false, f.isAdminErr
	}
	u, ok := f.byID[id]
	return ok && u.IsAdmin, nil
}

// fakePasswordHasher stores "hash:<salt>:<password>".
type fakePasswordHasher struct {
	saltErr error
}

func (f *fakePasswordHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "salt", nil
}

func (f *fakePasswordHasher) Hash(salt, password string) (string, error) {
	return "hash:" + salt + ":" + password, nil
}

func (f *fakePasswordHasher) Compare(hash, salt, password string) error {
	if hash != "hash:"+salt+":"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// fakeTokenIssuer records the identity it was asked to sign.
type fakeTokenIssuer struct {
	issued domain.Identity
	expiry time.Duration
	err    error
}

func (f *fakeTokenIssuer) Issue(identity domain.Identity, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.issued, f.expiry = identity, expiry
	return "token-for-" + identity.Email, nil
}

var errBoom = errors.New("boom")
