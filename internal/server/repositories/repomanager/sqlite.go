package repomanager

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/server/migrations"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/codes"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/messages"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// sqliteParams are appended to every SQLite DSN.
const sqliteParams = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

// SQLiteRepositoryManager vends SQLite-backed repositories.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Addresses(db dbx.DBTX) addresses.Repository {
	return addresses.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Codes(db dbx.DBTX) codes.Repository {
	return codes.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, migrations.SQLiteDir)
}

// SQLiteDSN turns a file path (or an existing file: URI) into a DSN with the
// pragmas the repositories rely on.
func SQLiteDSN(dsn string) string {
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + sqliteParams
}

// OpenSQLite opens the database with a single connection. All writes are
// therefore serialized by database/sql, and a ":memory:" database is shared
// by every caller of the returned pool.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", SQLiteDSN(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := ping(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}
