package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestIsUniqueViolation_Postgres(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	_, err = db.ExecContext(ctx, `CREATE TABLE u (k TEXT PRIMARY KEY, v TEXT UNIQUE, n TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO u (k, v, n) VALUES ('a', 'x', 'n')`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `INSERT INTO u (k, v, n) VALUES ('a', 'y', 'n')`)
	assert.True(t, IsUniqueViolation(err), "primary key: %v", err)

	_, err = db.ExecContext(ctx, `INSERT INTO u (k, v, n) VALUES ('b', 'x', 'n')`)
	assert.True(t, IsUniqueViolation(err), "unique: %v", err)

	_, err = db.ExecContext(ctx, `INSERT INTO u (k, v, n) VALUES ('c', 'z', NULL)`)
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err), "not null is not a duplicate")
}

func TestIsUniqueViolation_Other(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection reset")))
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection reset")
	err := StorageError("count addresses", cause)

	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "count addresses: storage unavailable: connection reset", err.Error())
	assert.NoError(t, StorageError("noop", nil))
}
