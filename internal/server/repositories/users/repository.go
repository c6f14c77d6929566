// Package users stores chat accounts and their premium state.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

type Repository interface {
	// Upsert creates the user on first sight and does nothing when it exists.
	Upsert(ctx context.Context, id int64, userName string) error
	Get(ctx context.Context, id int64) (*models.User, error)
	// SetPremium overwrites the premium flag and sets the expiry to now+d
	// whatever the previous state. Returns common.ErrUserNotFound when no
	// row matched.
	SetPremium(ctx context.Context, id int64, premium bool, d time.Duration) error
}

func expiry(d time.Duration) time.Time {
	return time.Now().UTC().Add(d)
}
