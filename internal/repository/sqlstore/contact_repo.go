package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"institutebackend/internal/domain"
)

type contactRepository struct {
	DB *DB
}

// NewContactRepository returns a domain.ContactRepository backed by the shared pool.
func NewContactRepository(db *DB) domain.ContactRepository {
	return &contactRepository{DB: db}
}

func (r *contactRepository) Create(ctx context.Context, c *domain.Contact) error {
	query := `
		INSERT INTO contacts (name, email, message, created_at)
		VALUES (?, ?, ?, ?)`
	id, err := r.DB.insertID(ctx, query, c.Name, c.Email, c.Message, c.CreatedAt)
	if err != nil {
		return wrapErr("failed to create contact", err)
	}
	c.ID = id
	return nil
}

func (r *contactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	query := `
		SELECT id, name, email, message, created_at
		FROM contacts
		ORDER BY created_at DESC, id DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapErr("failed to fetch contacts", err)
	}
	defer rows.Close()
	contacts := make([]*domain.Contact, 0)
	for rows.Next() {
		c := &domain.Contact{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.CreatedAt); err != nil {
			return nil, wrapErr("failed to fetch contacts", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("failed to fetch contacts", err)
	}
	return contacts, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	query := `
		SELECT id, name, email, message, created_at
		FROM contacts
		WHERE id = ?`
	c := &domain.Contact{}
	err := r.DB.QueryRowContext(ctx, r.DB.Rebind(query), id).Scan(&c.ID, &c.Name, &c.Email, &c.Message, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("failed to fetch contact", err)
	}
	return c, nil
}

func (r *contactRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM contacts WHERE id = ?`), id)
	if err != nil {
		return wrapErr("failed to delete contact", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
