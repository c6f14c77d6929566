// Package messages stores received mail. Messages reference their address by
// string, and every read joins against active addresses, so mail of a
// deactivated address is no longer listed.
package messages

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

type Repository interface {
	// Create appends a message and fills in its ID.
	Create(ctx context.Context, m *models.InboxMessage) error
	ListForAddress(ctx context.Context, address string) ([]models.InboxMessage, error)
	ListForUser(ctx context.Context, userID int64) ([]models.InboxMessage, error)
	// MarkRead flags a message as read when it belongs to one of the user's
	// active addresses.
	MarkRead(ctx context.Context, messageID, userID int64) (bool, error)
}

const columns = `m.id, m.address, m.sender, m.subject, m.body, m.archive_key, m.received_at, m.is_read`

func scanMessages(rows *sql.Rows) ([]models.InboxMessage, error) {
	var out []models.InboxMessage
	for rows.Next() {
		var m models.InboxMessage
		var key sql.NullString
		if err := rows.Scan(&m.ID, &m.Address, &m.Sender, &m.Subject, &m.Body, &key, &m.ReceivedAt, &m.IsRead); err != nil {
			return nil, err
		}
		m.ArchiveKey = key.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func archiveKey(m *models.InboxMessage) sql.NullString {
	return sql.NullString{String: m.ArchiveKey, Valid: m.ArchiveKey != ""}
}
