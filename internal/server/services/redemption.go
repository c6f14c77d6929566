package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/repomanager"
)

// RedemptionService creates premium codes and exchanges them for premium.
type RedemptionService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	isAdmin         func(int64) bool
	minCodeLength   int
	premiumDuration time.Duration
}

func NewRedemptionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *RedemptionService {
	return &RedemptionService{
		db:              db,
		repomanager:     m,
		isAdmin:         cfg.IsAdmin,
		minCodeLength:   cfg.MinCodeLength,
		premiumDuration: cfg.PremiumDuration,
	}
}

// CreateCode stores a new code on behalf of an admin and returns it in its
// stored (trimmed, upper-case) form.
func (s *RedemptionService) CreateCode(ctx context.Context, adminID int64, code string) (string, error) {
	if !s.isAdmin(adminID) {
		return "", common.ErrNotAdmin
	}

	code = common.NormalizeCode(code)
	if len(code) < s.minCodeLength {
		return "", common.ErrInvalidCode
	}

	if err := s.repomanager.Codes(s.db).Create(ctx, code, adminID); err != nil {
		return "", err
	}
	return code, nil
}

// Redeem consumes code for userID and grants premium.
//
// The lookup only produces friendlier errors (not found, already used). The
// conditional consume is what decides a race: the loser gets
// common.ErrRedemptionConflict. Consume and the premium grant share one
// transaction, so a failed grant leaves the code unused.
func (s *RedemptionService) Redeem(ctx context.Context, userID int64, code string) (*models.User, error) {
	code = common.NormalizeCode(code)

	c, err := s.repomanager.Codes(s.db).Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if c.IsUsed() || !c.IsActive {
		return nil, common.ErrCodeAlreadyUsed
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		ok, err := s.repomanager.Codes(tx).Consume(ctx, code, userID)
		if err != nil {
			return err
		}
		if !ok {
			return common.ErrRedemptionConflict
		}
		return s.repomanager.Users(tx).SetPremium(ctx, userID, true, s.premiumDuration)
	})
	if err != nil {
		return nil, err
	}

	return s.repomanager.Users(s.db).Get(ctx, userID)
}
