package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"filelink-api/config"
	"filelink-api/internal/domain"
	"filelink-api/internal/domain/access"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(config.Bot{Token: "123:abc", APIURL: srv.URL + "/", Timeout: time.Second}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(config.Bot{}, zap.NewNop())
	require.Error(t, err)
}

func TestServiceHandle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/getMe", r.URL.Path)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"username":"MyBot"}}`))
	})

	handle, err := c.ServiceHandle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "MyBot", handle)
}

func TestResolveMembership(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    access.Membership
		wantErr bool
	}{
		{name: "member", status: 200, body: `{"ok":true,"result":{"status":"member"}}`, want: access.Member},
		{name: "creator", status: 200, body: `{"ok":true,"result":{"status":"creator"}}`, want: access.Member},
		{name: "restricted member", status: 200, body: `{"ok":true,"result":{"status":"restricted","is_member":true}}`, want: access.Member},
		{name: "restricted non-member", status: 200, body: `{"ok":true,"result":{"status":"restricted","is_member":false}}`, want: access.NotMember},
		{name: "left", status: 200, body: `{"ok":true,"result":{"status":"left"}}`, want: access.NotMember},
		{name: "kicked", status: 200, body: `{"ok":true,"result":{"status":"kicked"}}`, want: access.NotMember},
		{name: "user not found", status: 400, body: `{"ok":false,"error_code":400,"description":"Bad Request: user not found"}`, want: access.NotMember},
		{name: "chat not found", status: 400, body: `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`, want: access.MembershipUnknown, wantErr: true},
		{name: "unknown status", status: 200, body: `{"ok":true,"result":{"status":"owner"}}`, want: access.MembershipUnknown, wantErr: true},
		{name: "garbage", status: 502, body: `<html>`, want: access.MembershipUnknown, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "@chan", r.URL.Query().Get("chat_id"))
				assert.Equal(t, "42", r.URL.Query().Get("user_id"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := c.ResolveMembership(context.Background(), "@chan", 42)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrMembershipCheckFailed)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResolveMembership_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := c.ResolveMembership(ctx, "@chan", 42)
	assert.Equal(t, access.MembershipUnknown, got)
	require.ErrorIs(t, err, domain.ErrMembershipCheckFailed)
}
