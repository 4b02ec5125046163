package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/session"
	"filelink-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db      postgres.DBTX
	timeout time.Duration
}

func NewRepository(db postgres.DBTX, timeout time.Duration) session.Repository {
	return &Repository{db: db, timeout: timeout}
}

func scanSession(row pgx.Row, s *Session) error {
	return row.Scan(&s.SessionID, &s.CreatedAt, &s.Fields)
}

func (r *Repository) CreateSession(ctx context.Context, req *session.Session) (*session.Session, error) {
	s := new(Session)

	err := postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		return scanSession(r.db.QueryRow(
			ctx,
			InsertSession,
			req.SessionID, req.CreatedAt, toJSONFields(req.Fields),
		), s)
	})
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, fmt.Errorf("session %s: %w", req.SessionID, domain.ErrDuplicateKey)
		}
		return nil, err
	}

	return fromDBModel(s), nil
}

func (r *Repository) FetchSession(ctx context.Context, sessionID string) (*session.Session, error) {
	s := new(Session)

	err := postgres.Read(ctx, r.timeout, func(ctx context.Context) error {
		return scanSession(r.db.QueryRow(ctx, SelectSessionByID, sessionID), s)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
		}
		return nil, err
	}

	return fromDBModel(s), nil
}

// UpdateSession merges fields into the stored ones; keys absent from fields
// are left untouched.
func (r *Repository) UpdateSession(ctx context.Context, sessionID string, fields session.Fields) (*session.Session, error) {
	s := new(Session)

	err := postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		return scanSession(r.db.QueryRow(ctx, MergeSessionFields, sessionID, toJSONFields(fields)), s)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
		}
		return nil, err
	}

	return fromDBModel(s), nil
}
