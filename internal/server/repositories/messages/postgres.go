package messages

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.InboxMessage) error {
	query :=
		`INSERT INTO inbox_messages (address, sender, subject, body, archive_key, received_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id
		 `

	if m.ReceivedAt.IsZero() {
		m.ReceivedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx, query, m.Address, m.Sender, m.Subject, m.Body, archiveKey(m), m.ReceivedAt).Scan(&m.ID)
	if err != nil {
		return dbx.StorageError("insert message", err)
	}
	return nil
}

func (r *PostgresRepository) ListForAddress(ctx context.Context, address string) ([]models.InboxMessage, error) {
	query :=
		`SELECT ` + columns + ` FROM inbox_messages m
		 JOIN addresses a ON a.address = m.address
		 WHERE m.address = $1 AND a.is_active = TRUE
		 ORDER BY m.received_at DESC, m.id DESC
		 `

	return r.list(ctx, query, address)
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]models.InboxMessage, error) {
	query :=
		`SELECT ` + columns + ` FROM inbox_messages m
		 JOIN addresses a ON a.address = m.address
		 WHERE a.user_id = $1 AND a.is_active = TRUE
		 ORDER BY m.received_at DESC, m.id DESC
		 `

	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]models.InboxMessage, error) {
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

func (r *PostgresRepository) MarkRead(ctx context.Context, messageID, userID int64) (bool, error) {
	query :=
		`UPDATE inbox_messages SET is_read = TRUE
		 WHERE id = $1 AND address IN (
		     SELECT address FROM addresses WHERE user_id = $2 AND is_active = TRUE
		 )
		 `

	res, err := r.db.ExecContext(ctx, query, messageID, userID)
	if err != nil {
		return false, dbx.StorageError("mark read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbx.StorageError("mark read", err)
	}
	return n > 0, nil
}
