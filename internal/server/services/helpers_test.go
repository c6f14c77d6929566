package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fakemail/internal/cryptox"
	"github.com/dmitrijs2005/fakemail/internal/dbx"
	"github.com/dmitrijs2005/fakemail/internal/server/config"
	"github.com/dmitrijs2005/fakemail/internal/server/generator"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/addresses"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/codes"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/messages"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/sqlitetest"
	"github.com/dmitrijs2005/fakemail/internal/server/repositories/users"
)

// --- configuration and wiring ---

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AdminIDs = []int64{1}
	return cfg
}

// cheap argon2 parameters keep the allocation scenarios fast
func testHasher() *cryptox.Hasher {
	return &cryptox.Hasher{Time: 1, Memory: 64, Threads: 1, KeyLen: 16, SaltLen: 8}
}

type env struct {
	db         *sql.DB
	rm         repomanager.RepositoryManager
	accounts   *AccountService
	addresses  *AddressService
	redemption *RedemptionService
	inbox      *InboxService
}

func newEnv(t *testing.T, gen Generator) *env {
	t.Helper()
	db := sqlitetest.Open(t)
	rm := repomanager.NewSQLiteRepositoryManager()
	cfg := newTestConfig()
	if gen == nil {
		gen = generator.New()
	}
	return &env{
		db:         db,
		rm:         rm,
		accounts:   NewAccountService(db, rm, cfg),
		addresses:  NewAddressService(db, rm, cfg, gen, testHasher()),
		redemption: NewRedemptionService(db, rm, cfg),
		inbox:      NewInboxService(db, rm),
	}
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

var errBoom = dbx.StorageError("test", errors.New("boom"))

// --- generators ---

// seqGen hands out the given local parts in order and repeats the last one.
type seqGen struct {
	locals []string
	calls  int
}

func (g *seqGen) Address(domain string) string {
	i := min(g.calls, len(g.locals)-1)
	g.calls++
	return g.locals[i] + "@" + domain
}

func (g *seqGen) Password() string { return "Passw0rd" }

// --- hand-written repository fakes for failure paths ---

type fakeUsersRepo struct {
	getOut    *models.User
	getErr    error
	upsertErr error
	premium   error
}

func (f *fakeUsersRepo) Upsert(context.Context, int64, string) error { return f.upsertErr }
func (f *fakeUsersRepo) Get(context.Context, int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}
func (f *fakeUsersRepo) SetPremium(context.Context, int64, bool, time.Duration) error {
	return f.premium
}

type fakeAddressesRepo struct {
	count     int
	countErr  error
	createErr error
	creates   int
}

func (f *fakeAddressesRepo) Create(_ context.Context, a *models.Address) (*models.Address, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = int64(f.creates)
	return a, nil
}
func (f *fakeAddressesRepo) ListActive(context.Context, int64) ([]models.Address, error) {
	return nil, nil
}
func (f *fakeAddressesRepo) CountActive(context.Context, int64) (int, error) {
	return f.count, f.countErr
}
func (f *fakeAddressesRepo) Deactivate(context.Context, int64, int64) (bool, error) {
	return false, nil
}
func (f *fakeAddressesRepo) GetActiveByAddress(context.Context, string) (*models.Address, error) {
	return nil, nil
}

type fakeCodesRepo struct {
	getOut     *models.RedemptionCode
	getErr     error
	consumeOK  bool
	consumeErr error
}

func (f *fakeCodesRepo) Create(context.Context, string, int64) error { return nil }
func (f *fakeCodesRepo) Consume(context.Context, string, int64) (bool, error) {
	return f.consumeOK, f.consumeErr
}
func (f *fakeCodesRepo) Get(context.Context, string) (*models.RedemptionCode, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeAddressesRepo
	c *fakeCodesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Addresses(db dbx.DBTX) addresses.Repository   { return m.a }
func (m *fakeRepoManager) Codes(db dbx.DBTX) codes.Repository           { return m.c }
func (m *fakeRepoManager) Messages(db dbx.DBTX) messages.Repository     { return nil }
