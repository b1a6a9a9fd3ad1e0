package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/services"
	"github.com/camden-git/familymapbackend/workers"
	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "familymapbackend"

// JWTManager signs and verifies session tokens. The subject is the session ID.
type JWTManager struct {
	key        []byte
	expiration time.Duration
}

func NewJWTManager(secret string, expirationHours int) *JWTManager {
	if expirationHours <= 0 {
		expirationHours = 24
	}
	return &JWTManager{key: []byte(secret), expiration: time.Duration(expirationHours) * time.Hour}
}

func (m *JWTManager) Issue(sessionID string) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(m.expiration)
	claims := &jwt.RegisteredClaims{
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    jwtIssuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// Parse verifies tokenString and returns the session ID it was issued for
func (m *JWTManager) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.key, nil
	}, jwt.WithIssuer(jwtIssuer))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

// SessionHandler opens and closes engine sessions
type SessionHandler struct {
	Sessions *services.SessionService
	JWT      *JWTManager
	Searches *workers.SearchCoordinator
	Log      *logger.Logger
}

type SessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Username  string          `json:"username"`
	PersonID  string          `json:"personID"`
	Stats     graph.LoadStats `json:"stats"`
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload services.LoginRequest
	if err := decodeAndValidate(r, &payload, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	sess, stats, err := h.Sessions.Login(r.Context(), payload)
	if err != nil {
		h.Log.Info("Login failed", "username", payload.Username, "error", err)
		writeEngineError(w, h.Log, err)
		return
	}
	h.respondWithSession(w, http.StatusOK, sess, stats)
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.RegisterRequest
	if err := decodeAndValidate(r, &payload, false); err != nil {
		writeDecodeError(w, err)
		return
	}
	sess, stats, err := h.Sessions.Register(r.Context(), payload)
	if err != nil {
		h.Log.Info("Registration failed", "username", payload.Username, "error", err)
		writeEngineError(w, h.Log, err)
		return
	}
	h.respondWithSession(w, http.StatusCreated, sess, stats)
}

func (h *SessionHandler) respondWithSession(w http.ResponseWriter, status int, sess *services.Session, stats graph.LoadStats) {
	tokenString, expiresAt, err := h.JWT.Issue(sess.ID)
	if err != nil {
		h.Log.Error("Failed to issue session token", "session_id", sess.ID, "error", err)
		_ = h.Sessions.Logout(sess.ID)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "failed to generate token")
		return
	}
	writeJSON(w, status, SessionResponse{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		Username:  sess.Username,
		PersonID:  sess.PersonID,
		Stats:     stats,
	})
}

// Logout stops the session's running search, then drops the session and
// its dataset
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	if h.Searches != nil {
		h.Searches.Cancel(sess.ID)
	}
	if err := h.Sessions.Logout(sess.ID); err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh refetches the session's dataset from the family service
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r)
	stats, err := h.Sessions.Refresh(r.Context(), sess.ID)
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
