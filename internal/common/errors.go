// Package common defines shared constants and sentinel errors used across
// the fakemail server, its repositories and the ingestion pipeline. Callers
// should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrorNotFound)
	ErrAddressNotFound    = fmt.Errorf("address %w", ErrorNotFound)
	ErrCodeNotFound       = fmt.Errorf("code %w", ErrorNotFound)
	ErrDuplicateAddress   = errors.New("address already exists")
	ErrDuplicateCode      = errors.New("code already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrNotAdmin       = errors.New("admin privileges required")

	// Quota and allocation.
	ErrQuotaExceeded       = errors.New("address quota exceeded")
	ErrAllocationExhausted = errors.New("could not allocate a unique address")

	// Redemption codes.
	ErrInvalidCode        = errors.New("invalid code")
	ErrCodeAlreadyUsed    = errors.New("code already used")
	ErrRedemptionConflict = errors.New("code was consumed concurrently")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// QuotaExceededError reports the active address count and the limit that
// refused an allocation. It matches ErrQuotaExceeded.
type QuotaExceededError struct {
	Count int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("%v: %d/%d", ErrQuotaExceeded, e.Count, e.Limit)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}
