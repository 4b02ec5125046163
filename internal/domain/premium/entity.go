package premium

import (
	"time"

	"filelink-api/internal/domain/user"
)

type Grant struct {
	UserID    user.ID
	IsPremium bool
	GrantedAt time.Time
	// ExpiresAt nil means the grant never expires.
	ExpiresAt *time.Time
}

// EntitledAt reports whether the grant entitles its holder at now. Expiry is
// strict: at exactly ExpiresAt the grant is no longer valid.
func (g *Grant) EntitledAt(now time.Time) bool {
	if g == nil || !g.IsPremium {
		return false
	}
	return g.ExpiresAt == nil || g.ExpiresAt.After(now)
}
