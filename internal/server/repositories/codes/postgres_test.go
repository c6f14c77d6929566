package codes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertQ  = `(?s)^INSERT\s+INTO\s+redemption_codes\s*\(code,\s*created_by\)\s*VALUES\s*\(\$1,\s*\$2\)\s*$`
	consumeQ = `(?s)^UPDATE\s+redemption_codes\s+SET\s+used_by\s*=\s*\$2,\s*used_at\s*=\s*\$3,\s*is_active\s*=\s*FALSE\s+WHERE\s+code\s*=\s*\$1\s+AND\s+used_by\s+IS\s+NULL\s+AND\s+is_active\s*=\s*TRUE\s*$`
	getQ     = `(?s)^SELECT\s+code,\s*created_by,\s*used_by,\s*used_at,\s*is_active,\s*created_at\s+FROM\s+redemption_codes\s+WHERE\s+code\s*=\s*\$1\s*$`
)

var codeCols = []string{"code", "created_by", "used_by", "used_at", "is_active", "created_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WithArgs("WIZ1", int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), "WIZ1", 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WithArgs("WIZ1", int64(1)).WillReturnError(&pgconn.PgError{Code: "23505"})

	assert.ErrorIs(t, repo.Create(context.Background(), "WIZ1", 1), common.ErrDuplicateCode)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(insertQ).WithArgs("WIZ1", int64(1)).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), "WIZ1", 1)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.NotErrorIs(t, err, common.ErrDuplicateCode)
}

func TestConsume(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"wins", 1, true},
		{"lost or used", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(consumeQ).
				WithArgs("WIZ1", int64(42), sqlmock.AnyArg()).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := repo.Consume(context.Background(), "WIZ1", 42)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestConsume_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(consumeQ).
		WithArgs("WIZ1", int64(42), sqlmock.AnyArg()).
		WillReturnError(errors.New("conn reset"))

	ok, err := repo.Consume(context.Background(), "WIZ1", 42)
	assert.False(t, ok)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestGet_Unused(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("WIZ1").
		WillReturnRows(sqlmock.NewRows(codeCols).AddRow("WIZ1", int64(1), nil, nil, true, time.Now()))

	c, err := repo.Get(context.Background(), "WIZ1")
	require.NoError(t, err)
	assert.False(t, c.IsUsed())
	assert.True(t, c.IsActive)
	assert.Equal(t, int64(1), c.CreatedBy)
}

func TestGet_Used(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	used := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(getQ).WithArgs("WIZ1").
		WillReturnRows(sqlmock.NewRows(codeCols).AddRow("WIZ1", int64(1), int64(42), used, false, time.Now()))

	c, err := repo.Get(context.Background(), "WIZ1")
	require.NoError(t, err)
	require.True(t, c.IsUsed())
	assert.Equal(t, int64(42), *c.UsedBy)
	assert.Equal(t, used, *c.UsedAt)
	assert.False(t, c.IsActive)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getQ).WithArgs("NOPE").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "NOPE")
	assert.ErrorIs(t, err, common.ErrCodeNotFound)
}
