package adapthttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"oncocare/internal/app"
	"oncocare/internal/domain"
	"oncocare/internal/metrics"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the signed-in user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userContextKey).(*domain.User)
	return u, ok && u != nil
}

// authMiddleware validates the session cookie and scopes storage to the user.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if disabled (for tests and single-user installs)
		if s.disableAuth {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}

		user, err := s.authSvc.ValidateSession(r.Context(), cookie.Value)
		if errors.Is(err, app.ErrSessionNotFound) || errors.Is(err, app.ErrSessionExpired) || errors.Is(err, app.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}
		if err != nil {
			s.log.Error("session lookup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = app.WithScope(ctx, userScope(user.ID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userScope(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// guardMiddleware lets each Idempotency-Key through once per TTL so a
// double-tapped submit button cannot add the same medication twice. Only a
// 2xx response consumes the key; a rejected request may be retried with it.
func (s *Server) guardMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if s.guard == nil || key == "" || !isMutation(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		scoped := guardKey(r, key)
		first, err := s.guard.AcquireOnce(r.Context(), scoped, s.guardTTL)
		if err != nil {
			// Better a rare duplicate than a lost medication.
			s.log.Warn("submission guard unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		if !first {
			metrics.DuplicateSubmissions.Inc()
			s.log.Info("duplicate submission rejected",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
			)
			writeError(w, http.StatusConflict, errors.New("duplicate submission"))
			return
		}

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		if rw.status >= 200 && rw.status < 300 {
			return
		}
		// The request context may be gone once the client has its answer.
		if err := s.guard.Release(context.WithoutCancel(r.Context()), scoped); err != nil {
			s.log.Warn("release submission claim", zap.Error(err))
		}
	})
}

// guardKey binds an Idempotency-Key to the caller and the target resource.
func guardKey(r *http.Request, key string) string {
	k := r.Method + " " + r.URL.Path + " " + key
	if scope := app.ScopeFromContext(r.Context()); scope != "" {
		k = scope + "/" + k
	}
	return k
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs each request and records its duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		d := time.Since(start)
		metrics.RecordHTTPRequestDuration(r.Method, routeLabel(r.URL.Path), strconv.Itoa(rw.status), d)
		s.log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("duration", d),
		)
	})
}

// routeLabel collapses path parameters to keep metric cardinality bounded.
func routeLabel(p string) string {
	for _, prefix := range []string{"/api/medications/", "/api/symptoms/", "/api/experiences/"} {
		if strings.HasPrefix(p, prefix) && len(p) > len(prefix) {
			return prefix + "{id}"
		}
	}
	if strings.HasPrefix(p, "/api/") || p == "/metrics" {
		return p
	}
	return "/static"
}
