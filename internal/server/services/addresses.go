package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/cryptox"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"github.com/dmitrijs2005/fakemail/internal/server/quota"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/repomanager"
)

// Generator proposes candidate addresses and passwords.
type Generator interface {
	Address(domain string) string
	Password() string
}

// PasswordHasher turns the once-shown password into what is stored.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// AddressService allocates, lists and deletes mailboxes.
type AddressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      quota.Policy
	domain      string
	attempts    int
	gen         Generator
	hasher      PasswordHasher
	now         func() time.Time
}

func NewAddressService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, gen Generator, hasher PasswordHasher) *AddressService {
	return &AddressService{
		db:          db,
		repomanager: m,
		policy:      quota.NewPolicy(cfg),
		domain:      cfg.Domain,
		attempts:    cfg.AllocationAttempts,
		gen:         gen,
		hasher:      hasher,
		now:         time.Now,
	}
}

// Allocate issues a new address for a registered user.
//
// The quota is checked first; a full account gets *common.QuotaExceededError
// and nothing is written. Candidates that collide with an existing address
// are regenerated, at most the configured number of times, after which
// common.ErrAllocationExhausted is returned. Any other storage error aborts
// at once. The returned password is not stored in plaintext and cannot be
// retrieved again.
func (s *AddressService) Allocate(ctx context.Context, userID int64) (*models.Credentials, error) {
	user, err := s.repomanager.Users(s.db).Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Addresses(s.db)

	count, err := repo.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if now := s.now(); !s.policy.Allows(user, count, now) {
		return nil, &common.QuotaExceededError{Count: count, Limit: s.policy.Limit(user, now)}
	}

	password := s.gen.Password()
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	for range s.attempts {
		a, err := repo.Create(ctx, &models.Address{
			UserID:       userID,
			Address:      s.gen.Address(s.domain),
			PasswordHash: hash,
		})
		if errors.Is(err, common.ErrDuplicateAddress) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &models.Credentials{ID: a.ID, Address: a.Address, Password: password}, nil
	}

	return nil, common.ErrAllocationExhausted
}

// Delete deactivates an address owned by userID. False means the address
// does not exist, belongs to someone else or is already inactive; the error
// is reserved for storage failures.
func (s *AddressService) Delete(ctx context.Context, addressID, userID int64) (bool, error) {
	return s.repomanager.Addresses(s.db).Deactivate(ctx, addressID, userID)
}

// List returns the user's active addresses, newest first.
func (s *AddressService) List(ctx context.Context, userID int64) ([]models.Address, error) {
	return s.repomanager.Addresses(s.db).ListActive(ctx, userID)
}

// VerifyCredentials checks an address/password pair handed out by Allocate.
// Unknown, inactive and mismatching pairs all yield common.ErrorUnauthorized.
func (s *AddressService) VerifyCredentials(ctx context.Context, address, password string) (*models.Address, error) {
	a, err := s.repomanager.Addresses(s.db).GetActiveByAddress(ctx, common.NormalizeAddress(address))
	if errors.Is(err, common.ErrAddressNotFound) {
		return nil, common.ErrorUnauthorized
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, a.PasswordHash)
	if errors.Is(err, cryptox.ErrInvalidHash) {
		return nil, fmt.Errorf("address %d: %w: %w", a.ID, common.ErrorInternal, err)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return a, nil
}
