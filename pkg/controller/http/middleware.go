package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
)

// Middleware provides common HTTP middleware
type Middleware struct {
	authUC usecase.AuthUseCase
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authUC usecase.AuthUseCase) *Middleware {
	return &Middleware{
		authUC: authUC,
	}
}

// RequireAuth rejects requests while no operator session is active (chi compatible)
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.authUC.Current()
		if !session.IsValid() {
			ctxlog.From(r.Context()).Debug("Rejected unauthenticated request", "path", r.URL.Path)
			writeError(w, r, errUnauthorized, http.StatusUnauthorized)
			return
		}

		ctxlog.From(r.Context()).Debug("Authenticated request", "identity", session.Identity)
		next.ServeHTTP(w, r)
	})
}

// NoCache marks API responses as uncacheable; every view reflects live state
func NoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// LoggingMiddleware creates a chi-compatible logging middleware
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Embed logger from the initial context into request context
			logger := ctxlog.From(ctx)
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				logger = logger.With("request_id", reqID)
			}
			r = r.WithContext(ctxlog.With(r.Context(), logger))

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.Query(),
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}
