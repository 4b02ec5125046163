package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/session"
)

func TestEncodeDecodeRoundTripKeepsTypes(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	values, err := encodeFields(session.Fields{"user": "42", "attempts": 2, "ok": true})
	require.NoError(t, err)

	raw := map[string]string{createdAtField: created.Format(time.RFC3339Nano), "stray": "x"}
	for i := 0; i < len(values); i += 2 {
		raw[values[i].(string)] = values[i+1].(string)
	}

	s, err := decode("s1", raw)
	require.NoError(t, err)
	assert.Equal(t, created, s.CreatedAt)
	assert.Equal(t, session.Fields{"user": "42", "attempts": float64(2), "ok": true}, s.Fields)
}

func TestEncodeFields_RejectsUnencodable(t *testing.T) {
	_, err := encodeFields(session.Fields{"ch": make(chan int)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "tx conflict", err: redis.TxFailedErr, want: true},
		{name: "deadline", err: context.DeadlineExceeded, want: true},
		{name: "not found", err: domain.ErrNotFound, want: false},
		{name: "duplicate", err: domain.ErrDuplicateKey, want: false},
		{name: "connection", err: errors.New("dial tcp: connection refused"), want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryable(tt.err))
		})
	}
}

func setupClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRepository_Redis(t *testing.T) {
	client := setupClient(t)
	ctx := context.Background()
	repo := NewRepository(client, time.Minute, time.Second)
	id := uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), key(id)) })

	created, err := repo.CreateSession(ctx, &session.Session{SessionID: id, CreatedAt: time.Now(), Fields: session.Fields{"user": "42"}})
	require.NoError(t, err)
	assert.Equal(t, "42", created.Fields["user"])

	_, err = repo.CreateSession(ctx, &session.Session{SessionID: id, CreatedAt: time.Now()})
	require.ErrorIs(t, err, domain.ErrDuplicateKey)

	updated, err := repo.UpdateSession(ctx, id, session.Fields{"step": "done"})
	require.NoError(t, err)
	assert.Equal(t, session.Fields{"user": "42", "step": "done"}, updated.Fields)

	ttl, err := client.TTL(ctx, key(id)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	_, err = repo.UpdateSession(ctx, uuid.NewString(), session.Fields{"x": 1})
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.FetchSession(ctx, uuid.NewString())
	require.ErrorIs(t, err, domain.ErrNotFound)
}
