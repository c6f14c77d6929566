package codes

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

func (r *PostgresRepository) Create(ctx context.Context, code string, creatorID int64) error {
	query :=
		`INSERT INTO redemption_codes (code, created_by)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, code, creatorID); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrDuplicateCode
		}
		return dbx.StorageError("insert code", err)
	}
	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, code string, userID int64) (bool, error) {
	query :=
		`UPDATE redemption_codes SET used_by = $2, used_at = $3, is_active = FALSE
		 WHERE code = $1 AND used_by IS NULL AND is_active = TRUE
		 `

	res, err := r.db.ExecContext(ctx, query, code, userID, time.Now().UTC())
	if err != nil {
		return false, dbx.StorageError("consume code", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.StorageError("consume code", err)
	}
	return n == 1, nil
}

func (r *PostgresRepository) Get(ctx context.Context, code string) (*models.RedemptionCode, error) {
	query :=
		`SELECT code, created_by, used_by, used_at, is_active, created_at FROM redemption_codes
		 WHERE code = $1
		 `

	c := &models.RedemptionCode{}
	var usedBy sql.NullInt64
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, code).Scan(&c.Code, &c.CreatedBy, &usedBy, &usedAt, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrCodeNotFound
		}
		return nil, dbx.StorageError("get code", err)
	}
	fill(c, usedBy, usedAt)

	return c, nil
}
