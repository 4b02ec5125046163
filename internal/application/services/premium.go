package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/premium"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/infrastructure/cache"
	"filelink-api/internal/infrastructure/mq"
)

const DefaultPremiumDays = 30

type grantEvent struct {
	UserID    int64      `json:"user_id"`
	GrantedAt time.Time  `json:"granted_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type PremiumService struct {
	repository premium.Repository
	cache      *cache.Grants
	mq         ports.EventPublisher
	logger     *zap.Logger
	mCounter   *prometheus.CounterVec
	now        func() time.Time
}

// NewPremiumService evaluates grants straight from the repository when
// grantCache is nil.
func NewPremiumService(
	repository premium.Repository,
	grantCache *cache.Grants,
	mq ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) ports.PremiumService {
	return &PremiumService{
		repository: repository,
		cache:      grantCache,
		mq:         mq,
		logger:     logger,
		mCounter:   mCounter,
		now:        time.Now,
	}
}

func (ps *PremiumService) grant(ctx context.Context, userID user.ID) (*premium.Grant, error) {
	var gen uint64
	if ps.cache != nil {
		g, ok, cgen := ps.cache.Get(userID)
		if ok {
			return g, nil
		}
		gen = cgen
	}

	g, err := ps.repository.FetchGrant(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		g = nil
	}

	if ps.cache != nil {
		ps.cache.Set(userID, g, gen)
	}

	return g, nil
}

// IsEntitled reports whether userID holds a premium grant valid at now.
// A user without any grant is simply not entitled.
func (ps *PremiumService) IsEntitled(ctx context.Context, userID user.ID, now time.Time) (bool, error) {
	g, err := ps.grant(ctx, userID)
	if err != nil {
		return false, err
	}
	return g.EntitledAt(now), nil
}

func (ps *PremiumService) IsPremium(ctx context.Context, userID user.ID) (bool, error) {
	return ps.IsEntitled(ctx, userID, ps.now())
}

// GrantPremium sets or replaces the grant of userID. durationDays 0 grants
// without expiry.
func (ps *PremiumService) GrantPremium(ctx context.Context, userID user.ID, durationDays int) (*premium.Grant, error) {
	if userID <= 0 || durationDays < 0 {
		return nil, fmt.Errorf("grant premium to %d for %d days: %w", userID, durationDays, domain.ErrInvalidInput)
	}

	now := ps.now().UTC()
	g := premium.Grant{UserID: userID, IsPremium: true, GrantedAt: now}
	if durationDays > 0 {
		exp := now.AddDate(0, 0, durationDays)
		g.ExpiresAt = &exp
	}

	stored, err := ps.repository.UpsertGrant(ctx, g)
	if ps.cache != nil {
		// The write may have landed even when an error came back.
		ps.cache.Invalidate(userID)
	}
	if err != nil {
		return nil, err
	}

	ps.mq.Publish(mq.NewEvent(mq.PremiumGranted, int64(userID), grantEvent{
		UserID:    int64(stored.UserID),
		GrantedAt: stored.GrantedAt,
		ExpiresAt: stored.ExpiresAt,
	}))
	ps.mCounter.WithLabelValues("premium_granted_total").Inc()
	ps.logger.Info("premium granted",
		zap.Int64("user_id", int64(userID)),
		zap.Int("duration_days", durationDays),
	)

	return stored, nil
}

func (ps *PremiumService) RevokePremium(ctx context.Context, userID user.ID) error {
	err := ps.repository.RevokeGrant(ctx, userID)
	if ps.cache != nil {
		ps.cache.Invalidate(userID)
	}
	if err != nil {
		return err
	}

	ps.mq.Publish(mq.NewEvent(mq.PremiumRevoked, int64(userID), nil))
	ps.mCounter.WithLabelValues("premium_revoked_total").Inc()
	ps.logger.Info("premium revoked", zap.Int64("user_id", int64(userID)))

	return nil
}

// Status returns the stored grant, active or not.
func (ps *PremiumService) Status(ctx context.Context, userID user.ID) (*premium.Grant, error) {
	return ps.repository.FetchGrant(ctx, userID)
}
