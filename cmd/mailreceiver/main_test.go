package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/ingest"
	"github.com/dmitrijs2005/fakemail/internal/logging"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	o := parseOptions([]string{"-c", "cfg.json", "-r", "abc@wizard.com", "-timeout=5s", "-d", "x.db"})
	assert.Equal(t, "abc@wizard.com", o.recipient)
	assert.Equal(t, 5*time.Second, o.timeout)
	assert.Empty(t, o.remote)
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exOK},
		{ingest.ErrNotManaged, exNoUser},
		{ingest.ErrMessageTooLarge, exDataErr},
		{dbx.StorageError("insert message", errors.New("locked")), exTempFail},
		{fmt.Errorf("record message: %w", common.ErrorUnauthorized), exSoftware},
		{context.DeadlineExceeded, exTempFail},
		{errors.New("parse message: malformed"), exTempFail},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, exitCode(tt.err), "%v", tt.err)
	}
}

func TestRun_LocalDelivery(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = ":memory:"

	msg := "From: a@b.c\r\nTo: someone@wizard.com\r\nSubject: hi\r\n\r\nbody\r\n"
	err := run(context.Background(), cfg, options{timeout: 5 * time.Second}, strings.NewReader(msg), logging.New(&strings.Builder{}, "error"))
	require.NoError(t, err)

	err = run(context.Background(), cfg, options{timeout: 5 * time.Second},
		strings.NewReader("From: a@b.c\r\nTo: x@other.org\r\n\r\nbody\r\n"), logging.New(&strings.Builder{}, "error"))
	assert.ErrorIs(t, err, ingest.ErrNotManaged)
}
