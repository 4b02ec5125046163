package session

import (
	"time"
)

type (
	Session struct {
		SessionID string
		CreatedAt time.Time
		Fields    map[string]any
	}
)
