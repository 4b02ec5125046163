package premium

import (
	"time"

	"filelink-api/internal/domain/premium"
)

type (
	// GrantRequest.DurationDays nil means the default duration, 0 never expires.
	GrantRequest struct {
		DurationDays *int `json:"duration_days"`
	}
	Grant struct {
		UserID    int64      `json:"user_id"`
		IsPremium bool       `json:"is_premium"`
		Active    bool       `json:"active"`
		GrantedAt time.Time  `json:"granted_at"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
)

func ToResponseGrant(g premium.Grant, now time.Time) Grant {
	return Grant{
		UserID:    int64(g.UserID),
		IsPremium: g.IsPremium,
		Active:    g.EntitledAt(now),
		GrantedAt: g.GrantedAt,
		ExpiresAt: g.ExpiresAt,
	}
}
