// Package auth exchanges the shared trip password for a session token.
package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	"roadtrip/middleware"
	"roadtrip/session"
	"roadtrip/utils"
)

type Handler struct {
	hash     []byte
	secret   []byte
	sessions *session.Manager
	now      func() time.Time
}

// NewHandler hashes password so the plain text is not kept in memory.
func NewHandler(password string, secret []byte, sessions *session.Manager) (*Handler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash app password: %w", err)
	}
	return &Handler{hash: hash, secret: secret, sessions: sessions, now: time.Now}, nil
}

// IssueToken signs a token for session id sid.
func IssueToken(secret []byte, sid string, ttl time.Duration, now time.Time) (string, error) {
	claims := middleware.Claims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := bcrypt.CompareHashAndPassword(h.hash, []byte(req.Password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			slog.Error("Password check failed", "error", err)
		}
		utils.RespondWithError(w, http.StatusUnauthorized, "wrong password, please try again")
		return
	}

	sid := h.sessions.NewID()
	token, err := IssueToken(h.secret, sid, h.sessions.TTL(), h.now())
	if err != nil {
		slog.Error("Failed to sign token", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "could not log in")
		return
	}
	if _, err := h.sessions.Acquire(r.Context(), sid); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "could not log in")
		return
	}
	slog.Info("Login", "session", sid)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token})
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sid := middleware.SessionIDFrom(r)
	if err := h.sessions.Revoke(r.Context(), sid); err != nil {
		slog.Warn("Revocation not shared", "session", sid, "error", err)
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true})
}
