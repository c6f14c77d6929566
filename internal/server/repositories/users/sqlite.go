package users

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

func (r *SQLiteRepository) Upsert(ctx context.Context, id int64, userName string) error {
	query :=
		`INSERT INTO users (user_id, username, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, id, userName, time.Now().UTC()); err != nil {
		return dbx.StorageError("upsert user", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT user_id, username, is_premium, premium_expiry, created_at
		 FROM users WHERE user_id = ?`

	user := &models.User{}
	var exp sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.UserName, &user.IsPremium, &exp, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, dbx.StorageError("get user", err)
	}
	if exp.Valid {
		user.PremiumExpiry = &exp.Time
	}
	return user, nil
}

func (r *SQLiteRepository) SetPremium(ctx context.Context, id int64, premium bool, d time.Duration) error {
	query := `UPDATE users SET is_premium = ?, premium_expiry = ? WHERE user_id = ?`

	res, err := r.db.ExecContext(ctx, query, premium, expiry(d), id)
	if err != nil {
		return dbx.StorageError("set premium", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.StorageError("set premium", err)
	}
	if n == 0 {
		return common.ErrUserNotFound
	}
	return nil
}
