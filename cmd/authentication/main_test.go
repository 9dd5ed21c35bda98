package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gartstein/warranty/internal/warranty/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTokenHandler(t *testing.T) {
	const secret = "test-secret"
	handler := tokenHandler(secret, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/token?tenant=acme", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The issued token must pass the service middleware with its tenant.
	var tenant string
	protected := auth.HTTPMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		tenant, _ = auth.TenantFromContext(r.Context())
	}), secret)
	req := httptest.NewRequest(http.MethodGet, "/v1/config", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	protected.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "acme", tenant)
}

func TestTokenHandlerRequiresTenant(t *testing.T) {
	handler := tokenHandler("test-secret", zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/token", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
