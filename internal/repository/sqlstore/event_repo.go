package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"institutebackend/internal/domain"
)

const eventColumns = `id, image_path, title, comment, event_date`

type eventRepository struct {
	DB *DB
}

func NewEventRepository(db *DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(s rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var date time.Time
	if err := s.Scan(&e.ID, &e.ImagePath, &e.Title, &e.Comment, &date); err != nil {
		return nil, err
	}
	e.Date = domain.NewDate(date)
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (image_path, title, comment, event_date)
		VALUES (?, ?, ?, ?)`
	id, err := r.DB.insertID(ctx, query, e.ImagePath, e.Title, e.Comment, e.Date.Time)
	if err != nil {
		return wrapErr("failed to create event", err)
	}
	e.ID = id
	return nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY id ASC`
	return r.query(ctx, "failed to fetch events", query)
}

func (r *eventRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY id DESC LIMIT ?`
	return r.query(ctx, "failed to fetch recent events", r.DB.Rebind(query), limit)
}

func (r *eventRepository) query(ctx context.Context, action, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(action, err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, wrapErr(action, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(action, err)
	}
	return events, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, r.DB.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("failed to fetch event", err)
	}
	return e, nil
}

func (r *eventRepository) GetImagePath(ctx context.Context, id int64) (string, error) {
	var path string
	err := r.DB.QueryRowContext(ctx, r.DB.Rebind(`SELECT image_path FROM events WHERE id = ?`), id).Scan(&path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", wrapErr("failed to fetch event image path", err)
	}
	return path, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM events WHERE id = ?`), id)
	if err != nil {
		return wrapErr("failed to delete event", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
