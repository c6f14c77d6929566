// Package addresses stores allocated mailboxes. Rows are never deleted;
// deactivation flips is_active and keeps the row.
package addresses

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

type Repository interface {
	// Create inserts an active address and fills in ID and CreatedAt.
	// common.ErrDuplicateAddress is returned when the address is taken by
	// anyone, active or not.
	Create(ctx context.Context, a *models.Address) (*models.Address, error)
	// ListActive returns the user's active addresses, newest first.
	ListActive(ctx context.Context, userID int64) ([]models.Address, error)
	CountActive(ctx context.Context, userID int64) (int, error)
	// Deactivate soft-deletes an active address owned by userID and reports
	// whether a row changed. Unknown, foreign and already inactive addresses
	// all yield false.
	Deactivate(ctx context.Context, addressID, userID int64) (bool, error)
	// GetActiveByAddress looks an active address up by its string form.
	GetActiveByAddress(ctx context.Context, address string) (*models.Address, error)
}

const columns = `id, user_id, address, password_hash, is_active, created_at`

func scanAddresses(rows *sql.Rows) ([]models.Address, error) {
	var out []models.Address
	for rows.Next() {
		var a models.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.Address, &a.PasswordHash, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
