package middleware

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"roadtrip/globals"
	"roadtrip/metrics"
	"roadtrip/session"
	"roadtrip/utils"
)

// JWT claims
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Auth validates bearer tokens and attaches the caller's session.
type Auth struct {
	secret   []byte
	sessions *session.Manager
}

func NewAuth(secret []byte, sessions *session.Manager) *Auth {
	return &Auth{secret: secret, sessions: sessions}
}

// ParseToken returns the claims of a valid, unexpired token.
func (a *Auth) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return h[7:]
	}
	// browsers cannot set headers on a WebSocket handshake
	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get("token")
	}
	return ""
}

func (a *Auth) authenticate(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	tokenString := bearer(r)
	if tokenString == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing token")
		return nil, false
	}
	claims, err := a.ParseToken(tokenString)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	}
	sess, err := a.sessions.Acquire(r.Context(), claims.SessionID)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "session ended, please log in again")
		return nil, false
	}
	return sess, true
}

// Authenticate checks the token only. Long-lived handlers such as the
// change feed use it so they do not hold the session.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sess, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		ctx := context.WithValue(r.Context(), globals.SessionIDKey, sess.ID)
		next(w, r.WithContext(ctx), ps)
	}
}

// WithSession authenticates and holds the session lock for the whole
// request, so one browser's actions run one at a time.
func (a *Auth) WithSession(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sess, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		sess.Lock()
		defer sess.Unlock()

		ctx := context.WithValue(r.Context(), globals.SessionIDKey, sess.ID)
		ctx = context.WithValue(ctx, globals.SessionKey, sess)
		next(w, r.WithContext(ctx), ps)
	}
}

// SessionFrom returns the session attached by WithSession.
func SessionFrom(r *http.Request) *session.Session {
	s, _ := r.Context().Value(globals.SessionKey).(*session.Session)
	return s
}

func SessionIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(globals.SessionIDKey).(string)
	return id
}

// SecurityHeaders applies a set of recommended HTTP security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack passes the connection through for WebSocket upgrades.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Logging logs each request method, path, status and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// Instrument counts and times a route under its pattern.
func Instrument(route string, next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r, ps)
		metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
