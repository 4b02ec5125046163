package premium

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"filelink-api/internal/domain"
	"filelink-api/internal/domain/premium"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db      postgres.DBTX
	timeout time.Duration
}

func NewRepository(db postgres.DBTX, timeout time.Duration) premium.Repository {
	return &Repository{db: db, timeout: timeout}
}

func scanGrant(row pgx.Row, g *Grant) error {
	return row.Scan(&g.UserID, &g.IsPremium, &g.GrantedAt, &g.ExpiresAt)
}

func (r *Repository) FetchGrant(ctx context.Context, userID user.ID) (*premium.Grant, error) {
	g := new(Grant)

	err := postgres.Read(ctx, r.timeout, func(ctx context.Context) error {
		return scanGrant(r.db.QueryRow(ctx, SelectGrantByUserID, int64(userID)), g)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("premium grant %d: %w", userID, domain.ErrNotFound)
		}
		return nil, err
	}

	return fromDBModel(g), nil
}

func (r *Repository) UpsertGrant(ctx context.Context, req premium.Grant) (*premium.Grant, error) {
	g := new(Grant)

	err := postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		return scanGrant(r.db.QueryRow(
			ctx,
			UpsertGrantByUserID,
			int64(req.UserID), req.IsPremium, req.GrantedAt, req.ExpiresAt,
		), g)
	})
	if err != nil {
		return nil, err
	}

	return fromDBModel(g), nil
}

// RevokeGrant keeps the row for history and only clears is_premium.
func (r *Repository) RevokeGrant(ctx context.Context, userID user.ID) error {
	var affected int64

	err := postgres.Write(ctx, r.timeout, func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, RevokeGrantByUserID, int64(userID))
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("premium grant %d: %w", userID, domain.ErrNotFound)
	}

	return nil
}
