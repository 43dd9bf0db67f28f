package sqlstore

import (
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrations embed.FS

// Migrate runs all pending migrations for the pool's dialect.
func Migrate(db *DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(string(db.Dialect)); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations/"+string(db.Dialect)); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
