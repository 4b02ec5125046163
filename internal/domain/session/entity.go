package session

import "time"

type (
	// Fields are owned by the verification flow; the store only merges them.
	Fields  map[string]any
	Session struct {
		SessionID string
		CreatedAt time.Time
		Fields    Fields
	}
)
