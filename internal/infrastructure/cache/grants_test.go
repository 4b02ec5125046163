package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filelink-api/internal/domain/premium"
)

func TestGrants_HitMissAndInvalidate(t *testing.T) {
	c := NewGrants(10, time.Minute)

	_, ok, gen := c.Get(1)
	require.False(t, ok)

	c.Set(1, &premium.Grant{UserID: 1, IsPremium: true}, gen)
	g, ok, _ := c.Get(1)
	require.True(t, ok)
	assert.True(t, g.IsPremium)

	c.Invalidate(1)
	_, ok, _ = c.Get(1)
	assert.False(t, ok)
}

func TestGrants_CachesKnownAbsence(t *testing.T) {
	c := NewGrants(10, time.Minute)

	_, _, gen := c.Get(2)
	c.Set(2, nil, gen)

	g, ok, _ := c.Get(2)
	assert.True(t, ok)
	assert.Nil(t, g)
}

func TestGrants_StaleFillAfterInvalidateIsDropped(t *testing.T) {
	c := NewGrants(10, time.Minute)

	_, _, gen := c.Get(3)
	c.Invalidate(3)
	c.Set(3, &premium.Grant{UserID: 3, IsPremium: true}, gen)

	_, ok, _ := c.Get(3)
	assert.False(t, ok)
}

func TestGrants_Expiry(t *testing.T) {
	c := NewGrants(10, 20*time.Millisecond)

	_, _, gen := c.Get(4)
	c.Set(4, &premium.Grant{UserID: 4}, gen)

	assert.Eventually(t, func() bool {
		_, ok, _ := c.Get(4)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
