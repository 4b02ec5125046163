package ports

import (
	"context"

	"filelink-api/internal/domain/session"
)

type SessionService interface {
	CreateSession(ctx context.Context, sessionID string, fields session.Fields) (*session.Session, error)
	FindSession(ctx context.Context, sessionID string) (*session.Session, error)
	UpdateSession(ctx context.Context, sessionID string, fields session.Fields) (*session.Session, error)
}
