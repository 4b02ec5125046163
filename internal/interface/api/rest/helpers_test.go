package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"filelink-api/internal/application/services"
	jwtSvc "filelink-api/internal/infrastructure/jwt"
)

const testSecret = "test-secret"

func newTestEngine(t *testing.T) (*gin.Engine, *jwtSvc.Service, *zap.Logger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return gin.New(), jwtSvc.New(testSecret), zap.NewNop()
}

func bearer(t *testing.T, j *jwtSvc.Service, role string) map[string]string {
	t.Helper()

	token, err := j.GenerateJWT("tester", role, time.Hour)
	require.NoError(t, err)

	return map[string]string{"Authorization": "Bearer " + token}
}

func adminHeaders(t *testing.T, j *jwtSvc.Service) map[string]string {
	return bearer(t, j, services.RoleAdmin)
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	switch v := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
