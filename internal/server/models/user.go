// Package models defines the records persisted by the fakemail server and
// the values its services return.
package models

import "time"

// User is a chat account. ID is the chat platform's user id.
type User struct {
	ID            int64      `json:"id"`
	UserName      string     `json:"username"`
	IsPremium     bool       `json:"is_premium"`
	PremiumExpiry *time.Time `json:"premium_expiry,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Stats summarises a user's quota position.
type Stats struct {
	EmailCount    int        `json:"email_count"`
	IsPremium     bool       `json:"is_premium"`
	PremiumExpiry *time.Time `json:"premium_expiry,omitempty"`
	Limit         int        `json:"limit"`
	Remaining     int        `json:"remaining"`
}
