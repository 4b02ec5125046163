package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filelink-api/internal/application/services"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/premium"
	"filelink-api/internal/domain/user"
)

type FakePremiumService struct {
	GrantPremiumFunc  func(ctx context.Context, userID user.ID, durationDays int) (*premium.Grant, error)
	RevokePremiumFunc func(ctx context.Context, userID user.ID) error
	StatusFunc        func(ctx context.Context, userID user.ID) (*premium.Grant, error)
}

func (f *FakePremiumService) IsEntitled(context.Context, user.ID, time.Time) (bool, error) {
	return false, errors.New("not used")
}
func (f *FakePremiumService) IsPremium(context.Context, user.ID) (bool, error) {
	return false, errors.New("not used")
}
func (f *FakePremiumService) GrantPremium(ctx context.Context, userID user.ID, durationDays int) (*premium.Grant, error) {
	if f.GrantPremiumFunc == nil {
		return nil, errors.New("not used")
	}
	return f.GrantPremiumFunc(ctx, userID, durationDays)
}
func (f *FakePremiumService) RevokePremium(ctx context.Context, userID user.ID) error {
	if f.RevokePremiumFunc == nil {
		return errors.New("not used")
	}
	return f.RevokePremiumFunc(ctx, userID)
}
func (f *FakePremiumService) Status(ctx context.Context, userID user.ID) (*premium.Grant, error) {
	if f.StatusFunc == nil {
		return nil, errors.New("not used")
	}
	return f.StatusFunc(ctx, userID)
}

var premiumNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newPremiumRouter(t *testing.T, svc *FakePremiumService) (*PremiumController, func(method, path string, body any, role string) map[string]any, func(method, path string, body any, role string) int) {
	t.Helper()

	r, j, logger := newTestEngine(t)
	pc := NewPremiumController(r, svc, logger, j)
	pc.now = func() time.Time { return premiumNow }

	headers := func(role string) map[string]string {
		if role == "" {
			return nil
		}
		return bearer(t, j, role)
	}
	body := func(method, path string, b any, role string) map[string]any {
		return decodeBody(t, doReq(t, r, method, path, b, headers(role)))
	}
	status := func(method, path string, b any, role string) int {
		return doReq(t, r, method, path, b, headers(role)).Code
	}
	return pc, body, status
}

func TestPremiumController_GrantPremiumHandler(t *testing.T) {
	zero := 0
	negative := -1
	tests := []struct {
		name       string
		body       any
		role       string
		wantDays   int
		wantStatus int
	}{
		{name: "401 without token", body: nil, role: "", wantStatus: http.StatusUnauthorized},
		{name: "403 for non admin", body: nil, role: "bot", wantStatus: http.StatusForbidden},
		{name: "default duration", body: nil, role: services.RoleAdmin, wantDays: services.DefaultPremiumDays, wantStatus: http.StatusOK},
		{name: "non-expiring", body: map[string]*int{"duration_days": &zero}, role: services.RoleAdmin, wantDays: 0, wantStatus: http.StatusOK},
		{name: "400 on negative", body: map[string]*int{"duration_days": &negative}, role: services.RoleAdmin, wantDays: -1, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			gotDays := -100
			_, _, status := newPremiumRouter(t, &FakePremiumService{
				GrantPremiumFunc: func(_ context.Context, id user.ID, days int) (*premium.Grant, error) {
					gotDays = days
					if days < 0 {
						return nil, fmt.Errorf("duration %d: %w", days, domain.ErrInvalidInput)
					}
					var exp *time.Time
					if days > 0 {
						e := premiumNow.AddDate(0, 0, days)
						exp = &e
					}
					return &premium.Grant{UserID: id, IsPremium: true, GrantedAt: premiumNow, ExpiresAt: exp}, nil
				},
			})

			got := status(http.MethodPut, "/api/v1/users/7/premium", tt.body, tt.role)
			require.Equal(t, tt.wantStatus, got)
			if tt.role == services.RoleAdmin {
				assert.Equal(t, tt.wantDays, gotDays)
			}
		})
	}
}

func TestPremiumController_StatusAndRevoke(t *testing.T) {
	expired := premiumNow.Add(-time.Hour)
	revoked := false
	_, body, status := newPremiumRouter(t, &FakePremiumService{
		StatusFunc: func(_ context.Context, id user.ID) (*premium.Grant, error) {
			if id != 7 {
				return nil, domain.ErrNotFound
			}
			return &premium.Grant{UserID: id, IsPremium: true, GrantedAt: premiumNow.AddDate(0, -2, 0), ExpiresAt: &expired}, nil
		},
		RevokePremiumFunc: func(_ context.Context, id user.ID) error {
			if id != 7 {
				return domain.ErrNotFound
			}
			revoked = true
			return nil
		},
	})

	resp := body(http.MethodGet, "/api/v1/users/7/premium", nil, services.RoleAdmin)
	assert.Equal(t, true, resp["is_premium"])
	assert.Equal(t, false, resp["active"])

	assert.Equal(t, http.StatusNotFound, status(http.MethodGet, "/api/v1/users/8/premium", nil, services.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, status(http.MethodDelete, "/api/v1/users/7/premium", nil, services.RoleAdmin))
	assert.True(t, revoked)
	assert.Equal(t, http.StatusNotFound, status(http.MethodDelete, "/api/v1/users/8/premium", nil, services.RoleAdmin))
}
