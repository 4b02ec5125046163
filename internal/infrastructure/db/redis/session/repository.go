// Package session keeps verification sessions in redis hashes. Each session
// field is stored JSON-encoded under its own hash field, so a merge is a
// single HSET of the changed keys.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/session"
)

const (
	keyPrefix      = "filelink:session:"
	createdAtField = "created_at"
	fieldPrefix    = "f:"
	maxAttempts    = 3
	defaultTimeout = 5 * time.Second
)

type Repository struct {
	client  redis.UniversalClient
	ttl     time.Duration
	timeout time.Duration
}

// NewRepository stores sessions that expire after ttl; ttl 0 keeps them forever.
func NewRepository(client redis.UniversalClient, ttl, timeout time.Duration) session.Repository {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Repository{client: client, ttl: ttl, timeout: timeout}
}

func key(sessionID string) string { return keyPrefix + sessionID }

func (r *Repository) CreateSession(ctx context.Context, in *session.Session) (*session.Session, error) {
	createdAt := in.CreatedAt.UTC()
	values, err := encodeFields(in.Fields)
	if err != nil {
		return nil, err
	}
	values = append(values, createdAtField, createdAt.Format(time.RFC3339Nano))

	k := key(in.SessionID)
	err = r.write(ctx, func(ctx context.Context) error {
		return r.client.Watch(ctx, func(tx *redis.Tx) error {
			n, err := tx.Exists(ctx, k).Result()
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("session %s: %w", in.SessionID, domain.ErrDuplicateKey)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, k, values...)
				if r.ttl > 0 {
					pipe.Expire(ctx, k, r.ttl)
				}
				return nil
			})
			return err
		}, k)
	})
	if err != nil {
		return nil, err
	}

	return r.FetchSession(ctx, in.SessionID)
}

func (r *Repository) FetchSession(ctx context.Context, sessionID string) (*session.Session, error) {
	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := r.client.HGetAll(rctx, key(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}

	return decode(sessionID, raw)
}

func (r *Repository) UpdateSession(ctx context.Context, sessionID string, fields session.Fields) (*session.Session, error) {
	values, err := encodeFields(fields)
	if err != nil {
		return nil, err
	}

	k := key(sessionID)
	err = r.write(ctx, func(ctx context.Context) error {
		return r.client.Watch(ctx, func(tx *redis.Tx) error {
			n, err := tx.Exists(ctx, k).Result()
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
			}
			if len(values) == 0 {
				return nil
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, k, values...)
				return nil
			})
			return err
		}, k)
	})
	if err != nil {
		return nil, err
	}

	return r.FetchSession(ctx, sessionID)
}

// write retries optimistic-lock conflicts and connection failures on a
// context detached from the caller.
func (r *Repository) write(ctx context.Context, op func(ctx context.Context) error) error {
	ctx = context.WithoutCancel(ctx)
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAttempts-1)

	err := backoff.Retry(func() error {
		actx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		err := op(actx)
		if err == nil || isRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, b)

	if err != nil && isRetryable(err) {
		return fmt.Errorf("%w: %w", domain.ErrTransient, err)
	}
	return err
}

func isRetryable(err error) bool {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDuplicateKey) || errors.Is(err, domain.ErrInvalidInput) {
		return false
	}
	return errors.Is(err, redis.TxFailedErr) || !isRedisReply(err)
}

// isRedisReply reports server-side command errors, which retrying cannot fix.
func isRedisReply(err error) bool {
	var re redis.Error
	return errors.As(err, &re) && !errors.Is(err, redis.TxFailedErr)
}

func encodeFields(fields session.Fields) ([]any, error) {
	values := make([]any, 0, 2*len(fields))
	for name, v := range fields {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("session field %q: %w", name, domain.ErrInvalidInput)
		}
		values = append(values, fieldPrefix+name, string(b))
	}
	return values, nil
}

func decode(sessionID string, raw map[string]string) (*session.Session, error) {
	s := &session.Session{SessionID: sessionID, Fields: session.Fields{}}

	for name, v := range raw {
		if name == createdAtField {
			ts, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, fmt.Errorf("session %s created_at: %w", sessionID, err)
			}
			s.CreatedAt = ts
			continue
		}

		field, ok := strings.CutPrefix(name, fieldPrefix)
		if !ok {
			continue
		}
		var val any
		if err := json.Unmarshal([]byte(v), &val); err != nil {
			return nil, fmt.Errorf("session %s field %q: %w", sessionID, field, err)
		}
		s.Fields[field] = val
	}

	return s, nil
}
