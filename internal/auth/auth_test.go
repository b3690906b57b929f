package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/stage/internal/typeid"
)

const secret = "test-secret"

func newService(t *testing.T, password string, ttl time.Duration) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(secret, string(hash), ttl)
}

func TestLogin(t *testing.T) {
	svc := newService(t, "hunter22", time.Hour)

	res, err := svc.Login("hunter22")
	require.NoError(t, err)
	require.NoError(t, typeid.Validate(res.SessionID, typeid.PrefixSession))
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)

	sessionID, err := svc.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.SessionID, sessionID)

	_, err = svc.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabled(t *testing.T) {
	_, err := NewService(secret, "", time.Hour).Login("anything")
	assert.ErrorIs(t, err, ErrLoginDisabled)
}

func TestValidateToken(t *testing.T) {
	svc := newService(t, "pw", time.Hour)

	t.Run("expired", func(t *testing.T) {
		res, err := newService(t, "pw", -time.Minute).Login("pw")
		require.NoError(t, err)
		_, err = svc.ValidateToken(res.Token)
		assert.Error(t, err)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewService("other", "", time.Hour)
		tok, err := other.issueToken(typeid.NewSessionID(), time.Now().Add(time.Hour))
		require.NoError(t, err)
		_, err = svc.ValidateToken(tok)
		assert.Error(t, err)
	})

	t.Run("wrong subject", func(t *testing.T) {
		tok, err := svc.issueToken("someone", time.Now().Add(time.Hour))
		require.NoError(t, err)
		_, err = svc.ValidateToken(tok)
		assert.Error(t, err)
	})

	t.Run("unsigned", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": typeid.NewSessionID()}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(tok)
		assert.Error(t, err)
	})
}

func TestLoginHandler(t *testing.T) {
	h := NewHandler(newService(t, "pw", time.Hour))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"ok", `{"password":"pw"}`, http.StatusOK},
		{"wrong", `{"password":"nope"}`, http.StatusUnauthorized},
		{"empty", `{}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}

	rec := httptest.NewRecorder()
	NewHandler(NewService(secret, "", time.Hour)).Login(rec,
		httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"password":"pw"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	svc := newService(t, "pw", time.Hour)
	res, err := svc.Login("pw")
	require.NoError(t, err)

	var seen string
	protected := svc.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"scheme", "Basic " + res.Token, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + res.Token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/camera", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusNoContent {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.NotEmpty(t, body["error"])
			}
		})
	}
	assert.Equal(t, res.SessionID, seen)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/camera", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	protected.ServeHTTP(rec, req)
	assert.Equal(t, res.SessionID, rec.Header().Get("X-Session-ID"))
}

func TestAuthMiddlewareLoginDisabled(t *testing.T) {
	svc := NewService(secret, "", time.Hour)
	assert.False(t, svc.Enabled())

	// a token signed with the right secret is still refused
	tok, err := svc.issueToken(typeid.NewSessionID(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	called := false
	protected := svc.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/camera", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
