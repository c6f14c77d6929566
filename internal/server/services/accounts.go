package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"github.com/dmitrijs2005/fakemail/internal/server/quota"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/repomanager"
)

// AccountService registers chat users and reports their quota.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      quota.Policy
	now         func() time.Time
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		policy:      quota.NewPolicy(cfg),
		now:         time.Now,
	}
}

// Register records the user on first contact. Repeated calls are no-ops and
// keep the original name.
func (s *AccountService) Register(ctx context.Context, userID int64, userName string) error {
	return s.repomanager.Users(s.db).Upsert(ctx, userID, userName)
}

// Stats returns the address count and quota. Unknown users are reported as
// free accounts with no addresses.
func (s *AccountService) Stats(ctx context.Context, userID int64) (*models.Stats, error) {
	user, err := s.repomanager.Users(s.db).Get(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrUserNotFound) {
		return nil, err
	}

	count, err := s.repomanager.Addresses(s.db).CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.policy.Stats(user, count, s.now()), nil
}
