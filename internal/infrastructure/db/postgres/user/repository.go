package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db      postgres.DBTX
	timeout time.Duration
}

func NewRepository(db postgres.DBTX, timeout time.Duration) user.Repository {
	return &Repository{db: db, timeout: timeout}
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,

		&u.JoinedAt,
		&u.TotalUploads,
		&u.TotalDownloads,
		&u.IsVerified,
	)
}

func (r *Repository) FetchUserByID(ctx context.Context, id user.ID) (*user.User, error) {
	u := new(User)

	err := postgres.Read(ctx, r.timeout, func(ctx context.Context) error {
		return scanUser(r.db.QueryRow(ctx, SelectUserByID, int64(id)), u)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	return fromDBModel(u), nil
}

// UpsertUser creates the user or merges the non-nil patch fields into the
// stored row. Concurrent upserts of different fields both survive.
func (r *Repository) UpsertUser(ctx context.Context, p user.Patch) (*user.User, error) {
	u := new(User)

	err := postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		return scanUser(r.db.QueryRow(
			ctx,
			UpsertUserByID,
			int64(p.ID), p.Username, p.FirstName, p.IsVerified,
		), u)
	})
	if err != nil {
		return nil, err
	}

	return fromDBModel(u), nil
}

func (r *Repository) IncrementStats(ctx context.Context, id user.ID, uploads, downloads uint64) error {
	if uploads == 0 && downloads == 0 {
		return nil
	}

	return postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		_, err := r.db.Exec(ctx, IncrementUserStats, int64(id), uploads, downloads)
		return err
	})
}
