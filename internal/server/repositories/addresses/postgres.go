package addresses

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, a *models.Address) (*models.Address, error) {
	query :=
		`INSERT INTO addresses (user_id, address, password_hash, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, a.UserID, a.Address, a.PasswordHash).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrDuplicateAddress
		}
		return nil, dbx.StorageError("insert address", err)
	}

	a.IsActive = true
	return a, nil
}

func (r *PostgresRepository) ListActive(ctx context.Context, userID int64) ([]models.Address, error) {
	query :=
		`SELECT ` + columns + ` FROM addresses
		 WHERE user_id = $1 AND is_active = TRUE
		 ORDER BY created_at DESC, id DESC
		 `

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

func (r *PostgresRepository) CountActive(ctx context.Context, userID int64) (int, error) {
	query :=
		`SELECT COUNT(*) FROM addresses
		 WHERE user_id = $1 AND is_active = TRUE
		 `

	var n int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, dbx.StorageError("count addresses", err)
	}
	return n, nil
}

func (r *PostgresRepository) Deactivate(ctx context.Context, addressID, userID int64) (bool, error) {
	query :=
		`UPDATE addresses SET is_active = FALSE
		 WHERE id = $1 AND user_id = $2 AND is_active = TRUE
		 `

	res, err := r.db.ExecContext(ctx, query, addressID, userID)
	if err != nil {
		return false, dbx.StorageError("deactivate address", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.StorageError("deactivate address", err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) GetActiveByAddress(ctx context.Context, address string) (*models.Address, error) {
	query :=
		`SELECT ` + columns + ` FROM addresses
		 WHERE address = $1 AND is_active = TRUE
		 `

	a := &models.Address{}
	err := r.db.QueryRowContext(ctx, query, address).
		Scan(&a.ID, &a.UserID, &a.Address, &a.PasswordHash, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrAddressNotFound
		}
		return nil, dbx.StorageError("get address", err)
	}
	return a, nil
}
