package ports

import (
	"context"

	"filelink-api/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, id user.ID) (*user.User, error)
	UpsertUser(ctx context.Context, p user.Patch) (*user.User, error)
}
