package session

import (
	"time"

	"filelink-api/internal/domain/session"
)

type (
	CreateRequest struct {
		SessionID string         `json:"session_id"`
		Fields    map[string]any `json:"fields"`
	}
	UpdateRequest struct {
		Fields map[string]any `json:"fields"`
	}
	Session struct {
		SessionID string         `json:"session_id"`
		CreatedAt time.Time      `json:"created_at"`
		Fields    map[string]any `json:"fields"`
	}
)

func ToResponseSession(s session.Session) Session {
	return Session{
		SessionID: s.SessionID,
		CreatedAt: s.CreatedAt,
		Fields:    s.Fields,
	}
}
