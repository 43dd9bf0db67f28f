package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"institutebackend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventCols = []string{"id", "image_path", "title", "comment", "event_date"}

func newMockDB(t *testing.T, dialect Dialect) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, dialect), mock
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		dialect Dialect
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr bool
	}{
		{
			name:    "postgres returning id",
			dialect: DialectPostgres,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(image_path, title, comment, event_date\)\s+VALUES \(\$1, \$2, \$3, \$4\) RETURNING id`).
					WithArgs("/public/uploads/a.jpg", "Annual Day", "All welcome", date).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
			},
			wantID: 42,
		},
		{
			name:    "mysql last insert id",
			dialect: DialectMySQL,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO events \(image_path, title, comment, event_date\)\s+VALUES \(\?, \?, \?, \?\)`).
					WithArgs("/public/uploads/a.jpg", "Annual Day", "All welcome", date).
					WillReturnResult(sqlmock.NewResult(7, 1))
			},
			wantID: 7,
		},
		{
			name:    "db error",
			dialect: DialectPostgres,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t, tt.dialect)
			tt.mock(mock)
			repo := NewEventRepository(db)

			e := domain.NewEvent("/public/uploads/a.jpg", "Annual Day", "All welcome", domain.NewDate(date))
			err := repo.Create(ctx, e)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "failed to create event")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, e.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List_isStableInsertionOrder(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t, DialectPostgres)
	d := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	for range 2 {
		mock.ExpectQuery(`SELECT id, image_path, title, comment, event_date FROM events ORDER BY id ASC`).
			WillReturnRows(sqlmock.NewRows(eventCols).
				AddRow(int64(1), "/public/uploads/1.jpg", "First", "", d).
				AddRow(int64(2), "/public/uploads/2.png", "Second", "note", d))
	}

	repo := NewEventRepository(db)
	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), first[0].ID)
	assert.Equal(t, "2025-01-02", first[0].Date.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_List_empty(t *testing.T) {
	db, mock := newMockDB(t, DialectPostgres)
	mock.ExpectQuery(`SELECT .* FROM events`).WillReturnRows(sqlmock.NewRows(eventCols))

	events, err := NewEventRepository(db).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestEventRepository_ListRecent(t *testing.T) {
	db, mock := newMockDB(t, DialectPostgres)
	d := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT id, image_path, title, comment, event_date FROM events ORDER BY id DESC LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(eventCols).
			AddRow(int64(9), "/public/uploads/9.jpg", "Newest", "", d).
			AddRow(int64(8), "/public/uploads/8.jpg", "Older", "", d))

	events, err := NewEventRepository(db).ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(9), events[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	d := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, image_path, title, comment, event_date FROM events WHERE id = \$1`).
					WithArgs(int64(3)).
					WillReturnRows(sqlmock.NewRows(eventCols).AddRow(int64(3), "/public/uploads/x.gif", "Fair", "c", d))
			},
			want: &domain.Event{ID: 3, ImagePath: "/public/uploads/x.gif", Title: "Fair", Comment: "c", Date: domain.NewDate(d)},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM events WHERE id = \$1`).
					WithArgs(int64(3)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t, DialectPostgres)
			tt.mock(mock)
			got, err := NewEventRepository(db).GetByID(ctx, 3)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetImagePath(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t, DialectMySQL)
		mock.ExpectQuery(`SELECT image_path FROM events WHERE id = \?`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"image_path"}).AddRow("/public/uploads/5.png"))

		path, err := NewEventRepository(db).GetImagePath(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "/public/uploads/5.png", path)
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t, DialectMySQL)
		mock.ExpectQuery(`SELECT image_path FROM events`).WillReturnError(sql.ErrNoRows)

		path, err := NewEventRepository(db).GetImagePath(ctx, 5)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, path)
	})
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "zero rows affected is not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "access denied is classified",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events`).WillReturnError(&mysql.MySQLError{Number: 1045, Message: "Access denied for user 'root'"})
			},
			wantErr: domain.ErrStoreAccessDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t, DialectPostgres)
			tt.mock(mock)
			err := NewEventRepository(db).Delete(ctx, 4)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
