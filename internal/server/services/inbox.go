package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/repomanager"
)

var ErrEmptyRecipient = errors.New("message has no recipient address")

// InboxService records received mail and lists it for the address owner.
type InboxService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewInboxService(db *sql.DB, m repomanager.RepositoryManager) *InboxService {
	return &InboxService{db: db, repomanager: m}
}

// Record appends a received message. It is the entry point for mail
// ingestion and does not check that the address exists.
func (s *InboxService) Record(ctx context.Context, msg *models.InboxMessage) error {
	msg.Address = common.NormalizeAddress(msg.Address)
	if msg.Address == "" {
		return ErrEmptyRecipient
	}
	return s.repomanager.Messages(s.db).Create(ctx, msg)
}

// ListForUser returns the messages of all the user's active addresses,
// newest first.
func (s *InboxService) ListForUser(ctx context.Context, userID int64) ([]models.InboxMessage, error) {
	return s.repomanager.Messages(s.db).ListForUser(ctx, userID)
}

// ListForAddress returns the messages of one address, which must be active
// and owned by userID; otherwise common.ErrAddressNotFound.
func (s *InboxService) ListForAddress(ctx context.Context, userID int64, address string) ([]models.InboxMessage, error) {
	address = common.NormalizeAddress(address)

	a, err := s.repomanager.Addresses(s.db).GetActiveByAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, common.ErrAddressNotFound
	}

	return s.repomanager.Messages(s.db).ListForAddress(ctx, address)
}

func (s *InboxService) MarkRead(ctx context.Context, messageID, userID int64) (bool, error) {
	return s.repomanager.Messages(s.db).MarkRead(ctx, messageID, userID)
}
