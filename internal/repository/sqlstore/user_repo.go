package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"institutebackend/internal/domain"
)

const userColumns = `id, name, email, is_admin, password_hash, salt, created_at, updated_at`

type userRepository struct {
	DB *DB
}

func NewUserRepository(db *DB) domain.UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, salt, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	id, err := r.DB.insertID(ctx, query, u.Name, u.Email, u.PasswordHash, u.Salt, u.IsAdmin, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return wrapErr("failed to create user", err)
	}
	u.ID = id
	return nil
}

func (r *userRepository) getOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u := &domain.User{}
	err := r.DB.QueryRowContext(ctx, r.DB.Rebind(query), arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.IsAdmin, &u.PasswordHash, &u.Salt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapErr("failed to fetch user", err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `
		UPDATE users
		SET name = ?, email = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, r.DB.Rebind(query), u.Name, u.Email, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return wrapErr("failed to update user", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, hash, salt string, updatedAt time.Time) error {
	query := `
		UPDATE users
		SET password_hash = ?, salt = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.DB.ExecContext(ctx, r.DB.Rebind(query), hash, salt, updatedAt, id)
	if err != nil {
		return wrapErr("failed to update password", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IsAdmin reads the admin flag. A missing user is reported as not admin.
func (r *userRepository) IsAdmin(ctx context.Context, id int64) (bool, error) {
	var isAdmin bool
	err := r.DB.QueryRowContext(ctx, r.DB.Rebind(`SELECT is_admin FROM users WHERE id = ?`), id).Scan(&isAdmin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, wrapErr("failed to check admin status", err)
	}
	return isAdmin, nil
}
