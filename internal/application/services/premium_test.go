package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/premium"
	"filelink-api/internal/infrastructure/cache"
	"filelink-api/internal/infrastructure/db/memory"
)

func newTestPremium(t *testing.T, withCache bool) (*PremiumService, *memory.Store, *recordingPublisher) {
	t.Helper()

	store := memory.New(func() time.Time { return testNow })
	pub := &recordingPublisher{}
	var gc *cache.Grants
	if withCache {
		gc = cache.NewGrants(16, time.Hour)
	}
	ps := NewPremiumService(store.Grants(), gc, pub, nopLogger(), newTestCounter()).(*PremiumService)
	ps.now = func() time.Time { return testNow }

	return ps, store, pub
}

func TestPremiumService_IsEntitledExpiryBoundaries(t *testing.T) {
	ctx := context.Background()
	ps, store, _ := newTestPremium(t, false)
	exp := testNow.Add(24 * time.Hour)

	_, err := store.Grants().UpsertGrant(ctx, premium.Grant{UserID: 1, IsPremium: true, GrantedAt: testNow, ExpiresAt: &exp})
	require.NoError(t, err)
	_, err = store.Grants().UpsertGrant(ctx, premium.Grant{UserID: 2, IsPremium: true, GrantedAt: testNow})
	require.NoError(t, err)
	_, err = store.Grants().UpsertGrant(ctx, premium.Grant{UserID: 3, IsPremium: false, GrantedAt: testNow})
	require.NoError(t, err)

	tests := []struct {
		name   string
		userID int64
		now    time.Time
		want   bool
	}{
		{name: "before expiry", userID: 1, now: exp.Add(-time.Nanosecond), want: true},
		{name: "at expiry", userID: 1, now: exp, want: false},
		{name: "after expiry", userID: 1, now: exp.Add(time.Second), want: false},
		{name: "no expiry", userID: 2, now: testNow.AddDate(50, 0, 0), want: true},
		{name: "flag off", userID: 3, now: testNow, want: false},
		{name: "no grant", userID: 4, now: testNow, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ps.IsEntitled(ctx, userID(tt.userID), tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPremiumService_GrantPremium(t *testing.T) {
	ctx := context.Background()

	t.Run("duration sets expiry", func(t *testing.T) {
		ps, _, pub := newTestPremium(t, false)

		g, err := ps.GrantPremium(ctx, 7, DefaultPremiumDays)
		require.NoError(t, err)
		require.NotNil(t, g.ExpiresAt)
		assert.Equal(t, testNow.AddDate(0, 0, 30), *g.ExpiresAt)
		assert.Equal(t, []string{"premium.granted"}, pub.types())
	})

	t.Run("zero days never expires", func(t *testing.T) {
		ps, _, _ := newTestPremium(t, false)

		g, err := ps.GrantPremium(ctx, 7, 0)
		require.NoError(t, err)
		assert.Nil(t, g.ExpiresAt)
	})

	t.Run("negative days rejected before any write", func(t *testing.T) {
		ps, store, pub := newTestPremium(t, false)

		_, err := ps.GrantPremium(ctx, 7, -1)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = store.Grants().FetchGrant(ctx, 7)
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, pub.types())
	})
}

func TestPremiumService_RevokeWithoutGrant(t *testing.T) {
	ps, _, pub := newTestPremium(t, true)

	require.ErrorIs(t, ps.RevokePremium(context.Background(), 9), domain.ErrNotFound)
	assert.Empty(t, pub.types())
}

func TestPremiumService_CacheInvalidatedByGrantAndRevoke(t *testing.T) {
	ctx := context.Background()
	ps, _, _ := newTestPremium(t, true)

	ok, err := ps.IsPremium(ctx, 5)
	require.NoError(t, err)
	require.False(t, ok, "absence is cached now")

	_, err = ps.GrantPremium(ctx, 5, 1)
	require.NoError(t, err)
	ok, err = ps.IsPremium(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, ps.RevokePremium(ctx, 5))
	ok, err = ps.IsPremium(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	g, err := ps.Status(ctx, 5)
	require.NoError(t, err)
	assert.False(t, g.IsPremium)
}
