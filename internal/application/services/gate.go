package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/user"
)

type Entitlements interface {
	IsEntitled(ctx context.Context, userID user.ID, now time.Time) (bool, error)
}

type GateService struct {
	premium  Entitlements
	logger   *zap.Logger
	mCounter *prometheus.CounterVec
	now      func() time.Time
}

func NewGateService(premium Entitlements, logger *zap.Logger, mCounter *prometheus.CounterVec) ports.Gate {
	return &GateService{
		premium:  premium,
		logger:   logger,
		mCounter: mCounter,
		now:      time.Now,
	}
}

// Evaluate admits userID under policy. Subscription is checked before
// premium, so a non-member is refused whatever their premium standing unless
// the policy allows premium to bypass it.
//
// An Unknown membership is admitted as a member (fail-open): availability is
// preferred over a strict gate while the transport cannot answer. Every such
// admission is logged and flagged on the decision.
func (gs *GateService) Evaluate(
	ctx context.Context,
	userID user.ID,
	membership access.Membership,
	policy access.Policy,
) (access.Decision, error) {
	var d access.Decision

	if membership == access.MembershipUnknown {
		d.FailOpen = true
		membership = access.Member
		gs.mCounter.WithLabelValues("gate_fail_open_total").Inc()
		gs.logger.Warn("membership unknown, admitting (fail-open)",
			zap.Int64("user_id", int64(userID)),
			zap.Bool("require_subscription", policy.RequireSubscription),
		)
	}

	entitled, err := gs.premium.IsEntitled(ctx, userID, gs.now())
	if err != nil {
		needed := policy.RequirePremium ||
			(policy.RequireSubscription && policy.PremiumBypass && membership == access.NotMember)
		if needed {
			return access.Decision{}, err
		}
		// Only the response variant depends on premium here.
		gs.logger.Warn("premium lookup failed, using standard variant",
			zap.Int64("user_id", int64(userID)),
			zap.Error(err),
		)
		entitled = false
	}

	d.Variant = access.VariantStandard
	if entitled {
		d.Variant = access.VariantPremium
	}

	switch {
	case policy.RequireSubscription && membership == access.NotMember && !(policy.PremiumBypass && entitled):
		d.Outcome = access.RequiresSubscription
	case policy.RequirePremium && !entitled:
		d.Outcome = access.RequiresPremium
	default:
		d.Outcome = access.Allowed
	}

	gs.mCounter.WithLabelValues("gate_" + string(d.Outcome) + "_total").Inc()

	return d, nil
}
