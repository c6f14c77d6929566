package models

import "time"

// Address is an allocated mailbox. Deactivated addresses are kept for
// history and never become active again.
type Address struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Address      string    `json:"address"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials are returned once, on allocation. The plaintext password is
// never stored.
type Credentials struct {
	ID       int64  `json:"id"`
	Address  string `json:"address"`
	Password string `json:"password"`
}
