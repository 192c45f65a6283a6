package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(userID int) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
		"iat":     time.Now().Unix(),
	}
}

func protected(t *testing.T) (http.Handler, *int) {
	seen := new(int)
	h := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserIDFromContext(r.Context())
		require.NoError(t, err)
		*seen = id
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, seen
}

func TestAuthenticateBearerToken(t *testing.T) {
	h, seen := protected(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(42)))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 42, *seen)
}

func TestAuthenticateCookie(t *testing.T) {
	h, seen := protected(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: signToken(t, testSecret, validClaims(7))})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 7, *seen)
}

func TestAuthenticateRejects(t *testing.T) {
	good := signToken(t, testSecret, validClaims(42))
	// payload of another user under the original signature
	parts := strings.Split(good, ".")
	forged := strings.Split(signToken(t, testSecret, validClaims(1)), ".")
	tampered := parts[0] + "." + forged[1] + "." + parts[2]
	expired := signToken(t, testSecret, jwt.MapClaims{"user_id": 42, "exp": time.Now().Add(-time.Minute).Unix()})
	foreign := signToken(t, "other-secret", validClaims(42))

	tests := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"tampered signature", "Bearer " + tampered},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
		{"wrong scheme", "Basic " + good},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, seen := protected(t)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Zero(t, *seen)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestGetUserIDFromContext(t *testing.T) {
	id, err := GetUserIDFromContext(WithUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context(), 9))
	require.NoError(t, err)
	assert.Equal(t, 9, id)

	_, err = GetUserIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.Error(t, err)
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	h := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"), "other clients have their own bucket")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5003"))
}

func TestIPRateLimiterSweepsIdleVisitorsPeriodically(t *testing.T) {
	limiter := NewIPRateLimiter(1, 1)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.Allow("10.0.0.1"))
	first := limiter.lastSweep

	// Внутри окна idleTTL новых проходов по карте нет.
	now = now.Add(limiter.idleTTL / 2)
	require.True(t, limiter.Allow("10.0.0.2"))
	assert.Equal(t, first, limiter.lastSweep)
	assert.Len(t, limiter.visitors, 2)

	// 10.0.0.1 простаивает дольше idleTTL и удаляется при следующей чистке.
	now = now.Add(limiter.idleTTL/2 + time.Second)
	require.True(t, limiter.Allow("10.0.0.3"))
	assert.Equal(t, now, limiter.lastSweep)
	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Contains(t, limiter.visitors, "10.0.0.2")
	assert.Contains(t, limiter.visitors, "10.0.0.3")
}
