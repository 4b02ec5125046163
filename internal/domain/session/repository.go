package session

import "context"

type Repository interface {
	CreateSession(ctx context.Context, s *Session) (*Session, error)
	FetchSession(ctx context.Context, sessionID string) (*Session, error)
	UpdateSession(ctx context.Context, sessionID string, fields Fields) (*Session, error)
}
