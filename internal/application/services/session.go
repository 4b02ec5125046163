package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"filelink-api/internal/application/ports"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/session"
)

const maxSessionIDLen = 128

type SessionService struct {
	repository session.Repository
	mCounter   *prometheus.CounterVec
	now        func() time.Time
}

func NewSessionService(repository session.Repository, mCounter *prometheus.CounterVec) ports.SessionService {
	return &SessionService{
		repository: repository,
		mCounter:   mCounter,
		now:        time.Now,
	}
}

// CreateSession stores a new session; an empty sessionID gets a random one.
func (ss *SessionService) CreateSession(ctx context.Context, sessionID string, fields session.Fields) (*session.Session, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if len(sessionID) > maxSessionIDLen {
		return nil, fmt.Errorf("session id too long: %w", domain.ErrInvalidInput)
	}

	s, err := ss.repository.CreateSession(ctx, &session.Session{
		SessionID: sessionID,
		CreatedAt: ss.now().UTC(),
		Fields:    fields,
	})
	if err != nil {
		return nil, err
	}

	ss.mCounter.WithLabelValues("session_created_total").Inc()

	return s, nil
}

func (ss *SessionService) FindSession(ctx context.Context, sessionID string) (*session.Session, error) {
	return ss.repository.FetchSession(ctx, sessionID)
}

func (ss *SessionService) UpdateSession(ctx context.Context, sessionID string, fields session.Fields) (*session.Session, error) {
	return ss.repository.UpdateSession(ctx, sessionID, fields)
}
