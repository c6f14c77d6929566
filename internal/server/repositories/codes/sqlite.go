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

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, code string, creatorID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO redemption_codes (code, created_by, created_at) VALUES (?, ?, ?)`,
		code, creatorID, time.Now().UTC())
	if dbx.IsUniqueViolation(err) {
		return common.ErrDuplicateCode
	}
	if err != nil {
		return dbx.StorageError("insert code", err)
	}
	return nil
}

func (r *SQLiteRepository) Consume(ctx context.Context, code string, userID int64) (bool, error) {
	query := `UPDATE redemption_codes SET used_by = ?, used_at = ?, is_active = 0
		WHERE code = ? AND used_by IS NULL AND is_active = 1`

	res, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC(), code)
	if err != nil {
		return false, dbx.StorageError("consume code", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.StorageError("consume code", err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, code string) (*models.RedemptionCode, error) {
	query := `SELECT code, created_by, used_by, used_at, is_active, created_at
		FROM redemption_codes WHERE code = ?`

	c := &models.RedemptionCode{}
	var usedBy sql.NullInt64
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, code).Scan(&c.Code, &c.CreatedBy, &usedBy, &usedAt, &c.IsActive, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrCodeNotFound
	}
	if err != nil {
		return nil, dbx.StorageError("get code", err)
	}
	fill(c, usedBy, usedAt)
	return c, nil
}
