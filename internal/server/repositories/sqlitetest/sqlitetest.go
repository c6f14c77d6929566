// Package sqlitetest opens migrated in-memory SQLite databases for tests.
package sqlitetest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/server/migrations"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// DSN is a private in-memory database with the same pragmas the server uses.
const DSN = "file::memory:?_pragma=foreign_keys(1)&_time_format=sqlite"

// Open returns a migrated in-memory database limited to one connection, so
// every statement sees the same memory database. It is closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", DSN)
	if err != nil {
		t.Fatalf("sql.Open error: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("goose.SetDialect error: %v", err)
	}
	if err := goose.UpContext(context.Background(), db, migrations.SQLiteDir); err != nil {
		t.Fatalf("migrations error: %v", err)
	}
	return db
}

// InsertUser creates a user row directly, bypassing the repositories.
func InsertUser(t testing.TB, db *sql.DB, id int64) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (user_id, username, created_at) VALUES (?, ?, ?)`, id, "", time.Now().UTC())
	if err != nil {
		t.Fatalf("insert user %d: %v", id, err)
	}
}
