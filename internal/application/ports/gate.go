package ports

import (
	"context"

	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/user"
)

type Gate interface {
	Evaluate(ctx context.Context, userID user.ID, membership access.Membership, policy access.Policy) (access.Decision, error)
}
