package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Dialect selects placeholder style and insert-id strategy.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// Options configures the connection pool.
type Options struct {
	Dialect      Dialect
	DSN          string
	MaxOpenConns int
	PingTimeout  time.Duration
}

// DB is the process-wide connection pool plus the dialect its queries are rebound for.
// Repositories write queries with '?' placeholders.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// New wraps an already opened pool. Tests pass a sqlmock pool here.
func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

// Open creates the bounded pool and verifies connectivity. Waiters queue without limit
// once MaxOpenConns connections are busy.
func Open(ctx context.Context, opts Options) (*DB, error) {
	if opts.Dialect != DialectPostgres && opts.Dialect != DialectMySQL {
		return nil, fmt.Errorf("unsupported dialect %q", opts.Dialect)
	}
	db, err := sql.Open(string(opts.Dialect), opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxConns := opts.MaxOpenConns
	if maxConns < 1 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, wrapErr("pinging database", err)
	}

	return New(db, opts.Dialect), nil
}

// Rebind converts '?' placeholders to the dialect's style.
func (d *DB) Rebind(query string) string {
	if d.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// insertID runs an INSERT and returns the generated id column.
func (d *DB) insertID(ctx context.Context, query string, args ...any) (int64, error) {
	if d.Dialect == DialectPostgres {
		var id int64
		err := d.QueryRowContext(ctx, d.Rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}
	res, err := d.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ServerTime runs the connectivity probe used at startup and by the DB test endpoint.
func (d *DB) ServerTime(ctx context.Context) (solution int, now time.Time, err error) {
	err = d.QueryRowContext(ctx, `SELECT 1 + 1 AS solution, CURRENT_TIMESTAMP AS now_ts`).Scan(&solution, &now)
	if err != nil {
		return 0, time.Time{}, wrapErr("probing database", err)
	}
	return solution, now, nil
}
