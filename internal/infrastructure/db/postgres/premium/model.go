package premium

import (
	"time"
)

type (
	Grant struct {
		UserID    int64
		IsPremium bool
		GrantedAt time.Time
		ExpiresAt *time.Time
	}
)
