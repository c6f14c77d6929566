// Package services contains the fakemail business logic: account stats, the
// address allocator, one-time code redemption and the inbox. Services return
// the sentinel errors of internal/common; storage failures arrive wrapped so
// that they match common.ErrStorageUnavailable.
package services
