package models

import "time"

// InboxMessage is a received mail, stored against the recipient address.
type InboxMessage struct {
	ID         int64     `json:"id"`
	Address    string    `json:"address"`
	Sender     string    `json:"sender"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
	IsRead     bool      `json:"is_read"`
}
