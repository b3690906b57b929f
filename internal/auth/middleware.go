package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey string

const SessionIDKey contextKey = "sessionID"

// Enabled reports whether an operator password is configured. Without one no
// token can be issued, so scene control is closed.
func (s *Service) Enabled() bool {
	return len(s.passwordHash) > 0
}

// AuthMiddleware admits requests carrying a bearer token for an operator
// session and stores the session id in the request context.
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "scene control disabled"})
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or malformed bearer token"})
			return
		}

		sessionID, err := s.ValidateToken(token)
		if err != nil {
			slog.Warn("rejected operator token", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		slog.Debug("operator request", "session", sessionID, "method", r.Method, "path", r.URL.Path)
		w.Header().Set("X-Session-ID", sessionID)
		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", false
	}
	return token, true
}

func SessionIDFromContext(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionIDKey).(string)
	return sessionID
}
