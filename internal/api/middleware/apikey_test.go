package middleware_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pip-tracker/pip-backend/internal/api/middleware"
)

const testAPIKey = "pip-test-key-12345"

// serveGuarded runs one request through the API key guard and reports
// whether the guarded handler was reached.
func serveGuarded(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false
	guarded := middleware.APIKeyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/prices/refresh", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	guarded.ServeHTTP(w, req)
	return w, reached
}

// backdate rewrites the issue time of a time token to at and signs it again.
func backdate(t *testing.T, token string, at time.Time) string {
	t.Helper()
	raw, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)

	key := sha256.Sum256([]byte(testAPIKey))
	body := raw[:len(raw)-sha256.Size]
	binary.BigEndian.PutUint64(body[1:9], uint64(at.Unix()))

	mac := hmac.New(sha256.New, key[:16])
	mac.Write(body)
	return base64.URLEncoding.EncodeToString(mac.Sum(body))
}

// TestAPIKeyMiddleware tests the guard of the price ingestion endpoints.
//
// WHY: Ingestion writes to the price table. Only callers holding the key
// and a fresh time token derived from it may trigger it.
func TestAPIKeyMiddleware(t *testing.T) {
	t.Setenv("INTERNAL_API_KEY", testAPIKey)

	tests := []struct {
		name    string
		headers map[string]string
		details string
	}{
		{name: "missing API key", headers: nil, details: "Missing API key"},
		{name: "wrong API key", headers: map[string]string{"X-API-Key": "invalid"}, details: "Invalid API key"},
		{name: "missing time token", headers: map[string]string{"X-API-Key": testAPIKey}, details: "Missing Time token"},
		{
			name:    "garbage time token",
			headers: map[string]string{"X-API-Key": testAPIKey, "X-Time-Token": "invalid"},
			details: "Time token is invalid or expired",
		},
		{
			name: "token signed with another key",
			headers: map[string]string{
				"X-API-Key":    testAPIKey,
				"X-Time-Token": middleware.GenerateTimeToken("some-other-key"),
			},
			details: "Time token is invalid or expired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, reached := serveGuarded(t, tt.headers)

			assert.False(t, reached)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.details, body["details"])
		})
	}

	t.Run("fresh token passes", func(t *testing.T) {
		w, reached := serveGuarded(t, map[string]string{
			"X-API-Key":    testAPIKey,
			"X-Time-Token": middleware.GenerateTimeToken(testAPIKey),
		})

		assert.True(t, reached)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("token older than five minutes is rejected", func(t *testing.T) {
		fresh := middleware.GenerateTimeToken(testAPIKey)
		stale := backdate(t, fresh, time.Now().Add(-6*time.Minute))

		w, reached := serveGuarded(t, map[string]string{"X-API-Key": testAPIKey, "X-Time-Token": stale})

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token inside the window passes", func(t *testing.T) {
		fresh := middleware.GenerateTimeToken(testAPIKey)
		recent := backdate(t, fresh, time.Now().Add(-4*time.Minute))

		_, reached := serveGuarded(t, map[string]string{"X-API-Key": testAPIKey, "X-Time-Token": recent})

		assert.True(t, reached)
	})
}

// TestAPIKeyMiddleware_KeyNotConfigured tests a server started without a key.
//
// WHY: An empty INTERNAL_API_KEY must not turn into "any empty header passes".
func TestAPIKeyMiddleware_KeyNotConfigured(t *testing.T) {
	t.Setenv("INTERNAL_API_KEY", "")

	w, reached := serveGuarded(t, map[string]string{"X-API-Key": ""})

	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Authentication not loaded", body["details"])
}
