// Package quota decides how many active addresses an account may hold.
package quota

import (
	"time"

	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

// Policy maps an account to its address limit. By default a premium flag
// counts regardless of its expiry; EnforceExpiry makes an expired grant count
// as free.
type Policy struct {
	Free          int
	Premium       int
	EnforceExpiry bool
}

func NewPolicy(cfg *config.Config) Policy {
	return Policy{
		Free:          cfg.FreeLimit,
		Premium:       cfg.PremiumLimit,
		EnforceExpiry: cfg.EnforcePremiumExpiry,
	}
}

// IsPremium reports whether u gets the premium limit at time now. A nil user
// (never registered) is free.
func (p Policy) IsPremium(u *models.User, now time.Time) bool {
	if u == nil || !u.IsPremium {
		return false
	}
	if p.EnforceExpiry && u.PremiumExpiry != nil && !now.Before(*u.PremiumExpiry) {
		return false
	}
	return true
}

func (p Policy) Limit(u *models.User, now time.Time) int {
	if p.IsPremium(u, now) {
		return p.Premium
	}
	return p.Free
}

// Remaining is the limit minus active. It goes negative when a lowered limit
// leaves an account above quota.
func (p Policy) Remaining(u *models.User, active int, now time.Time) int {
	return p.Limit(u, now) - active
}

// Allows reports whether one more address fits.
func (p Policy) Allows(u *models.User, active int, now time.Time) bool {
	return active < p.Limit(u, now)
}

// Stats assembles the quota view for u.
func (p Policy) Stats(u *models.User, active int, now time.Time) *models.Stats {
	s := &models.Stats{
		EmailCount: active,
		IsPremium:  p.IsPremium(u, now),
		Limit:      p.Limit(u, now),
		Remaining:  p.Remaining(u, active, now),
	}
	if u != nil {
		s.PremiumExpiry = u.PremiumExpiry
	}
	return s
}
