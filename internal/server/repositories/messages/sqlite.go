package messages

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, m *models.InboxMessage) error {
	if m.ReceivedAt.IsZero() {
		m.ReceivedAt = time.Now()
	}
	// stored as text, so keep one zone for ordering
	m.ReceivedAt = m.ReceivedAt.UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO inbox_messages (address, sender, subject, body, archive_key, received_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Address, m.Sender, m.Subject, m.Body, archiveKey(m), m.ReceivedAt)
	if err != nil {
		return dbx.StorageError("insert message", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return dbx.StorageError("insert message", err)
	}
	m.ID = id
	return nil
}

func (r *SQLiteRepository) ListForAddress(ctx context.Context, address string) ([]models.InboxMessage, error) {
	return r.list(ctx, `SELECT `+columns+` FROM inbox_messages m
		JOIN addresses a ON a.address = m.address
		WHERE m.address = ? AND a.is_active = 1
		ORDER BY m.received_at DESC, m.id DESC`, address)
}

func (r *SQLiteRepository) ListForUser(ctx context.Context, userID int64) ([]models.InboxMessage, error) {
	return r.list(ctx, `SELECT `+columns+` FROM inbox_messages m
		JOIN addresses a ON a.address = m.address
		WHERE a.user_id = ? AND a.is_active = 1
		ORDER BY m.received_at DESC, m.id DESC`, userID)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, arg any) ([]models.InboxMessage, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, dbx.StorageError("list messages", err)
	}
	defer rows.Close()

	out, err := scanMessages(rows)
	if err != nil {
		return nil, dbx.StorageError("list messages", err)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkRead(ctx context.Context, messageID, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inbox_messages SET is_read = 1
		 WHERE id = ? AND address IN (SELECT address FROM addresses WHERE user_id = ? AND is_active = 1)`,
		messageID, userID)
	if err != nil {
		return false, dbx.StorageError("mark read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.StorageError("mark read", err)
	}
	return n > 0, nil
}
