package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/camden-git/familymapbackend/services"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// SessionContextKey is the key used to store the session in the request context.
	SessionContextKey ContextKey = "session"
)

// AuthMiddleware verifies the session JWT and puts the live session into the
// request context. Browsers cannot set headers on websocket upgrades, so a
// token query parameter is accepted as well.
func AuthMiddleware(jwtManager *JWTManager, sessions *services.SessionService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Authorization header required")
			return
		}

		sessionID, err := jwtManager.Parse(tokenString)
		if err != nil {
			WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid token: "+err.Error())
			return
		}

		sess, err := sessions.Session(sessionID)
		if err != nil {
			// the server restarted or the user logged out
			WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "session expired")
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFromContext(r *http.Request) *services.Session {
	sess, _ := r.Context().Value(SessionContextKey).(*services.Session)
	return sess
}

// RequireAdminKey guards the maintenance endpoints with a shared key.
func RequireAdminKey(adminKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if adminKey == "" {
			WriteAPIError(w, http.StatusForbidden, CodeForbidden, "admin endpoints are disabled")
			return
		}
		given := r.Header.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(given), []byte(adminKey)) != 1 {
			WriteAPIError(w, http.StatusForbidden, CodeForbidden, "invalid admin key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
