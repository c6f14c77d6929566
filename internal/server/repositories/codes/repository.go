// Package codes stores one-time redemption codes. A code moves from unused to
// consumed exactly once; Consume is the only write after creation.
package codes

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

type Repository interface {
	// Create stores a new active code. common.ErrDuplicateCode is returned
	// when the code exists.
	Create(ctx context.Context, code string, creatorID int64) error
	// Consume binds the code to userID in a single conditional update and
	// reports whether this call won. A false result means the code is
	// missing, inactive or already used.
	Consume(ctx context.Context, code string, userID int64) (bool, error)
	Get(ctx context.Context, code string) (*models.RedemptionCode, error)
}

func fill(c *models.RedemptionCode, usedBy sql.NullInt64, usedAt sql.NullTime) {
	if usedBy.Valid {
		c.UsedBy = &usedBy.Int64
	}
	if usedAt.Valid {
		c.UsedAt = &usedAt.Time
	}
}
