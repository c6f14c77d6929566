package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/fakemail/internal/common"
	"github.com/dmitrijs2005/fakemail/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_IsIdempotent(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, e.accounts.Register(ctx, 42, "alice"))
	require.NoError(t, e.accounts.Register(ctx, 42, "alice2"))

	u, err := e.rm.Users(e.db).Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.UserName)
}

func TestStats(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()

	s, err := e.accounts.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{EmailCount: 0, Limit: 100, Remaining: 100}, s, "unknown users are free")

	require.NoError(t, e.accounts.Register(ctx, 7, "g"))
	for range 3 {
		_, err := e.addresses.Allocate(ctx, 7)
		require.NoError(t, err)
	}

	s, err = e.accounts.Stats(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 3, s.EmailCount)
	assert.Equal(t, 100, s.Limit)
	assert.Equal(t, 97, s.Remaining)
	assert.Equal(t, s.Limit-s.EmailCount, s.Remaining)
	assert.False(t, s.IsPremium)
	assert.Nil(t, s.PremiumExpiry)
}

func TestStats_StorageErrors(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: errBoom}, a: &fakeAddressesRepo{}}
	_, err := NewAccountService(nil, rm, newTestConfig()).Stats(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)

	rm = &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrUserNotFound}, a: &fakeAddressesRepo{countErr: errBoom}}
	_, err = NewAccountService(nil, rm, newTestConfig()).Stats(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrStorageUnavailable)
}
