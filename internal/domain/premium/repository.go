package premium

import (
	"context"

	"filelink-api/internal/domain/user"
)

type Repository interface {
	FetchGrant(ctx context.Context, userID user.ID) (*Grant, error)
	UpsertGrant(ctx context.Context, g Grant) (*Grant, error)
	RevokeGrant(ctx context.Context, userID user.ID) error
}
