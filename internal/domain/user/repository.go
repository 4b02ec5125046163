package user

import (
	"context"
)

type Repository interface {
	FetchUserByID(ctx context.Context, id ID) (*User, error)
	UpsertUser(ctx context.Context, p Patch) (*User, error)
	IncrementStats(ctx context.Context, id ID, uploads, downloads uint64) error
}
