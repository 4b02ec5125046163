package ports

import (
	"context"
	"time"

	"filelink-api/internal/domain/premium"
	"filelink-api/internal/domain/user"
)

type PremiumService interface {
	IsEntitled(ctx context.Context, userID user.ID, now time.Time) (bool, error)
	IsPremium(ctx context.Context, userID user.ID) (bool, error)
	GrantPremium(ctx context.Context, userID user.ID, durationDays int) (*premium.Grant, error)
	RevokePremium(ctx context.Context, userID user.ID) error
	Status(ctx context.Context, userID user.ID) (*premium.Grant, error)
}
