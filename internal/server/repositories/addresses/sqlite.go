package addresses

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Address) (*models.Address, error) {
	query :=
		`INSERT INTO addresses (user_id, address, password_hash, is_active, created_at)
		 VALUES (?, ?, ?, 1, ?)`

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, a.UserID, a.Address, a.PasswordHash, now)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateAddress
		}
		return nil, dbx.StorageError("insert address", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, dbx.StorageError("insert address", err)
	}

	a.ID = id
	a.IsActive = true
	a.CreatedAt = now
	return a, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context, userID int64) ([]models.Address, error) {
	query := `SELECT ` + columns + ` FROM addresses
		WHERE user_id = ? AND is_active = 1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbx.StorageError("list addresses", err)
	}
	defer rows.Close()

	out, err := scanAddresses(rows)
	if err != nil {
		return nil, dbx.StorageError("list addresses", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CountActive(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM addresses WHERE user_id = ? AND is_active = 1`, userID).Scan(&n)
	if err != nil {
		return 0, dbx.StorageError("count addresses", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Deactivate(ctx context.Context, addressID, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE addresses SET is_active = 0 WHERE id = ? AND user_id = ? AND is_active = 1`,
		addressID, userID)
	if err != nil {
		return false, dbx.StorageError("deactivate address", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.StorageError("deactivate address", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) GetActiveByAddress(ctx context.Context, address string) (*models.Address, error) {
	query := `SELECT ` + columns + ` FROM addresses WHERE address = ? AND is_active = 1`

	a := &models.Address{}
	err := r.db.QueryRowContext(ctx, query, address).
		Scan(&a.ID, &a.UserID, &a.Address, &a.PasswordHash, &a.IsActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrAddressNotFound
	}
	if err != nil {
		return nil, dbx.StorageError("get address", err)
	}
	return a, nil
}
