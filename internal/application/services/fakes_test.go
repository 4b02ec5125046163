package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"filelink-api/config"
	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/infrastructure/landing"
	"filelink-api/internal/infrastructure/mq"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counters"}, []string{"result"})
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeMinter struct {
	MintFunc func(principal user.ID, transportFileID string, ts time.Time) (string, error)
}

func (f *fakeMinter) Mint(principal user.ID, transportFileID string, ts time.Time) (string, error) {
	return f.MintFunc(principal, transportFileID, ts)
}

type fakeResolver struct {
	ResolveMembershipFunc func(ctx context.Context, channel string, userID user.ID) (access.Membership, error)
}

func (f *fakeResolver) ResolveMembership(ctx context.Context, channel string, userID user.ID) (access.Membership, error) {
	return f.ResolveMembershipFunc(ctx, channel, userID)
}

type fakeEntitlements struct {
	IsEntitledFunc func(ctx context.Context, userID user.ID, now time.Time) (bool, error)
}

func (f *fakeEntitlements) IsEntitled(ctx context.Context, userID user.ID, now time.Time) (bool, error) {
	return f.IsEntitledFunc(ctx, userID, now)
}

func newTestLanding(t *testing.T) *landing.Engine {
	t.Helper()

	e, err := landing.New(config.Landing{
		BaseURL:        "https://pages.example.com/get",
		DeepLinkScheme: "tg",
		DelaySeconds:   5,
	})
	require.NoError(t, err)
	return e
}

func nopLogger() *zap.Logger { return zap.NewNop() }
