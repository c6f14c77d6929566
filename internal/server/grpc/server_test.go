package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/cryptox"
	"github.com/dmitrijs2005/fakemail/internal/logging"
	"github.com/dmitrijs2005/fakemail/internal/server/auth"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/dmitrijs2005/fakemail/internal/server/generator"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/sqlitetest"
	"github.com/dmitrijs2005/fakemail/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

const testSecret = "secret"

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv, err := NewgGRPCServer("127.0.0.1:0", nopLogger{}, Services{}, testSecret)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err, "Run returned error on graceful stop")
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv, err := NewgGRPCServer("127.0.0.1:99999", nopLogger{}, Services{}, testSecret)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, srv.Run(ctx))
}

// startBufconn serves the real services over an in-memory listener and
// returns a client authenticated as "test-bot".
func startBufconn(t *testing.T, token string) *Client {
	t.Helper()

	db := sqlitetest.Open(t)
	rm := repomanager.NewSQLiteRepositoryManager()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AdminIDs = []int64{1}
	hasher := &cryptox.Hasher{Time: 1, Memory: 64, Threads: 1, KeyLen: 16, SaltLen: 8}

	srv, err := NewgGRPCServer("bufnet", nopLogger{}, Services{
		Accounts:   services.NewAccountService(db, rm, cfg),
		Addresses:  services.NewAddressService(db, rm, cfg, generator.New(), hasher),
		Redemption: services.NewRedemptionService(db, rm, cfg),
		Inbox:      services.NewInboxService(db, rm),
	}, testSecret)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	if token == "" {
		token, err = auth.GenerateToken("test-bot", []byte(testSecret), time.Hour)
		require.NoError(t, err)
	}

	c, err := NewClient("passthrough:///bufnet", token,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		cancel()
		<-done
	})
	return c
}

func TestMailbox_EndToEnd(t *testing.T) {
	c := startBufconn(t, "")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.RegisterUser(ctx, 42, "alice"))

	creds, err := c.Allocate(ctx, 42)
	require.NoError(t, err)
	assert.Contains(t, creds.Address, "@wizard.com")
	assert.Len(t, creds.Password, 8)

	list, err := c.ListAddresses(ctx, 42)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].PasswordHash, "hash never leaves the server")

	v, err := c.VerifyCredentials(ctx, creds.Address, creds.Password)
	require.NoError(t, err)
	assert.Equal(t, int64(42), v.UserID)
	_, err = c.VerifyCredentials(ctx, creds.Address, "nope")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	msg := &models.InboxMessage{Address: creds.Address, Sender: "a@b.c", Subject: "hi", Body: "text"}
	require.NoError(t, c.Record(ctx, msg))
	assert.NotZero(t, msg.ID)

	inbox, err := c.ListInbox(ctx, 42)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "hi", inbox[0].Subject)

	inbox, err = c.ListAddressInbox(ctx, 42, creds.Address)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)

	ok, err := c.MarkRead(ctx, msg.ID, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = c.CreateCode(ctx, 42, "WIZ1")
	assert.ErrorIs(t, err, common.ErrNotAdmin)
	code, err := c.CreateCode(ctx, 1, "wiz1")
	require.NoError(t, err)
	assert.Equal(t, "WIZ1", code)

	u, err := c.Redeem(ctx, 42, "WIZ1")
	require.NoError(t, err)
	assert.True(t, u.IsPremium)

	_, err = c.Redeem(ctx, 42, "WIZ1")
	assert.ErrorIs(t, err, common.ErrCodeAlreadyUsed)
	_, err = c.Redeem(ctx, 42, "MISSING")
	assert.ErrorIs(t, err, common.ErrCodeNotFound)

	st, err := c.Stats(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 500, st.Limit)
	assert.Equal(t, 1, st.EmailCount)

	deleted, err := c.DeleteAddress(ctx, creds.ID, 42)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = c.ListAddressInbox(ctx, 42, creds.Address)
	assert.ErrorIs(t, err, common.ErrAddressNotFound)
}

func TestMailbox_QuotaOverTheWire(t *testing.T) {
	c := startBufconn(t, "")
	ctx := context.Background()
	require.NoError(t, c.RegisterUser(ctx, 7, ""))

	for range 100 {
		_, err := c.Allocate(ctx, 7)
		require.NoError(t, err)
	}

	_, err := c.Allocate(ctx, 7)
	var qe *common.QuotaExceededError
	require.True(t, errors.As(err, &qe), "got %v", err)
	assert.Equal(t, common.QuotaExceededError{Count: 100, Limit: 100}, *qe)
}

func TestMailbox_RequiresToken(t *testing.T) {
	c := startBufconn(t, "garbage")
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx), "ping is open")
	assert.ErrorIs(t, c.RegisterUser(ctx, 1, "x"), common.ErrorUnauthorized)
}

func TestMailbox_RejectsMissingUser(t *testing.T) {
	c := startBufconn(t, "")

	_, err := c.Allocate(context.Background(), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrQuotaExceeded)
}
