package minter

import (
	"bytes"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idRe = regexp.MustCompile(`^FILE_[0-9A-F]{12}$`)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestMint_Format(t *testing.T) {
	m := New()
	id, err := m.Mint(42, "BQACAgIAAxkBAAI", time.Now())
	require.NoError(t, err)
	assert.Regexp(t, idRe, id)
}

func TestMint_FreshNonceEachCall(t *testing.T) {
	m := New()
	ts := time.Unix(1700000000, 0)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id, err := m.Mint(42, "same-transport-id", ts)
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "id %s minted twice", id)
		seen[id] = struct{}{}
	}
}

func TestMint_DeterministicForSameNonce(t *testing.T) {
	nonce := bytes.Repeat([]byte{0xAB}, nonceSize)
	ts := time.Unix(1700000000, 0)

	a, err := NewWithReader(bytes.NewReader(nonce)).Mint(7, "tf", ts)
	require.NoError(t, err)
	b, err := NewWithReader(bytes.NewReader(nonce)).Mint(7, "tf", ts)
	require.NoError(t, err)
	c, err := NewWithReader(bytes.NewReader(nonce)).Mint(8, "tf", ts)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMint_RandomSourceFailure(t *testing.T) {
	_, err := NewWithReader(failingReader{}).Mint(1, "tf", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
}
