package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/codes"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/messages"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// path works on the pool and inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Addresses(db dbx.DBTX) addresses.Repository
	Codes(db dbx.DBTX) codes.Repository
	Messages(db dbx.DBTX) messages.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open connects to the configured backend, verifies the connection and
// returns the matching RepositoryManager. Migrations are not run.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	switch driver {
	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, NewSQLiteRepositoryManager(), nil
	case config.DriverPostgres:
		db, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		m, err := NewPostgresRepositoryManager(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return db, m, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func ping(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return dbx.StorageError("ping database", err)
	}
	return nil
}
