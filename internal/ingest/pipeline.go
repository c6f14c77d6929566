// Package ingest turns a raw message handed over by the MTA into an inbox
// entry: it parses the message, picks the managed recipient, archives the
// raw bytes and records the result.
package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/logging"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
)

// MaxMessageSize is the largest raw message accepted.
const MaxMessageSize = 25 << 20

var (
	ErrNotManaged      = errors.New("no recipient under the managed domain")
	ErrMessageTooLarge = errors.New("message too large")
)

// Recorder stores the parsed message. Both the inbox service and the gRPC
// client implement it.
type Recorder interface {
	Record(ctx context.Context, msg *models.InboxMessage) error
}

// Archiver keeps the raw message and returns its key, or "" when disabled.
type Archiver interface {
	Put(ctx context.Context, raw []byte) (string, error)
}

type Pipeline struct {
	domain   string
	archive  Archiver
	recorder Recorder
	logger   logging.Logger
	now      func() time.Time
}

func New(domain string, a Archiver, r Recorder, l logging.Logger) *Pipeline {
	return &Pipeline{
		domain:   strings.ToLower(domain),
		archive:  a,
		recorder: r,
		logger:   l.With("module", "ingest"),
		now:      time.Now,
	}
}

// Deliver reads one message and records it for the managed recipient found
// in its headers.
func (p *Pipeline) Deliver(ctx context.Context, r io.Reader) (*models.InboxMessage, error) {
	return p.DeliverTo(ctx, "", r)
}

// DeliverTo is Deliver with an envelope recipient from the MTA. An empty or
// foreign recipient falls back to the headers.
func (p *Pipeline) DeliverTo(ctx context.Context, rcpt string, r io.Reader) (*models.InboxMessage, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxMessageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read message: %w", err)
	}
	if len(raw) > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	if !p.managed(rcpt) {
		rcpt, err = p.recipient(msg.Header)
		if err != nil {
			return nil, err
		}
	}

	body, err := textBody(part{header: textproto.MIMEHeader(msg.Header), body: msg.Body})
	if err != nil {
		// keep the mail, the raw copy is archived
		p.logger.Warn(ctx, "body not decoded", "address", rcpt, "error", err.Error())
	}

	m := &models.InboxMessage{
		Address:    common.NormalizeAddress(rcpt),
		Sender:     validText(p.sender(msg.Header)),
		Subject:    validText(DecodeHeader(msg.Header.Get("Subject"))),
		Body:       validText(body),
		ReceivedAt: p.now().UTC(),
	}

	if p.archive != nil {
		key, err := p.archive.Put(ctx, raw)
		if err != nil {
			p.logger.Warn(ctx, "archive failed", "address", m.Address, "error", err.Error())
		}
		m.ArchiveKey = key
	}

	if err := p.recorder.Record(ctx, m); err != nil {
		return nil, fmt.Errorf("record message: %w", err)
	}

	p.logger.Info(ctx, "message delivered", "address", m.Address, "id", m.ID, "archive_key", m.ArchiveKey)
	return m, nil
}

// validText replaces invalid UTF-8 left by undeclared or unknown charsets.
// Postgres TEXT columns reject such bytes.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func (p *Pipeline) managed(addr string) bool {
	addr = common.NormalizeAddress(addr)
	at := strings.LastIndexByte(addr, '@')
	return at > 0 && addr[at+1:] == p.domain
}

// recipient prefers Delivered-To, then To and Cc, and returns the first
// address under the managed domain.
func (p *Pipeline) recipient(h mail.Header) (string, error) {
	for _, v := range h["Delivered-To"] {
		if a, err := mail.ParseAddress(v); err == nil && p.managed(a.Address) {
			return a.Address, nil
		}
	}

	parser := mail.AddressParser{WordDecoder: wordDecoder}
	for _, key := range []string{"To", "Cc"} {
		list, err := parser.ParseList(h.Get(key))
		if err != nil {
			continue
		}
		for _, a := range list {
			if p.managed(a.Address) {
				return a.Address, nil
			}
		}
	}

	return "", ErrNotManaged
}

func (p *Pipeline) sender(h mail.Header) string {
	parser := mail.AddressParser{WordDecoder: wordDecoder}
	if a, err := parser.Parse(h.Get("From")); err == nil {
		if a.Name != "" {
			return a.Name + " <" + a.Address + ">"
		}
		return a.Address
	}
	return DecodeHeader(h.Get("From"))
}
