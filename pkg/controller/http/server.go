package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/frontend"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
)

var errUnauthorized = goerr.New("login required")

// UseCases bundles the view-models served over HTTP
type UseCases struct {
	Auth      usecase.AuthUseCase
	Dashboard *usecase.Dashboard
	Entries   *usecase.Entries
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

type serverOptions struct {
	frontendFS http.FileSystem
}

// ServerOption customises NewServer
type ServerOption func(*serverOptions)

// WithFrontendFS serves fsys instead of the embedded frontend build
func WithFrontendFS(fsys http.FileSystem) ServerOption {
	return func(o *serverOptions) {
		o.frontendFS = fsys
	}
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, uc *UseCases, opts ...ServerOption) (*Server, error) {
	if uc == nil || uc.Auth == nil || uc.Dashboard == nil || uc.Entries == nil {
		return nil, goerr.New("use cases are required")
	}

	options := &serverOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// View state belongs to the session that produced it
	uc.Auth.OnSessionEnd(func(ctx context.Context) {
		uc.Dashboard.Reset(ctx)
		uc.Entries.Reset()
	})

	router := chi.NewRouter()
	authMiddleware := NewMiddleware(uc.Auth)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	authHandler := NewAuthHandler(uc.Auth)
	dashboardHandler := NewDashboardHandler(uc.Dashboard)
	entriesHandler := NewEntriesHandler(uc.Dashboard, uc.Entries)

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Use(NoCache)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, r, goerr.New("not found", goerr.V("path", r.URL.Path)), http.StatusNotFound)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Get("/session", authHandler.HandleSession)
			r.Get("/sites", dashboardHandler.HandleSites)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", dashboardHandler.HandleView)
				r.Put("/", dashboardHandler.HandleSelect)
				r.Post("/reload", dashboardHandler.HandleReload)
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", dashboardHandler.HandleAlerts)
				r.Delete("/", dashboardHandler.HandleClearAlerts)
			})

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", entriesHandler.HandleShow)
				r.Post("/refresh", entriesHandler.HandleRefresh)
			})
		})
	})

	fsys := options.frontendFS
	if fsys == nil {
		embedded, err := frontend.GetHTTPFS()
		if err != nil {
			ctxlog.From(ctx).Warn("Failed to get embedded frontend, using fallback",
				"error", err,
			)
		}
		fsys = embedded
	}

	if fsys != nil {
		spa, err := NewSPAHandler(fsys)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create frontend handler")
		}
		ctxlog.From(ctx).Info("Serving frontend")
		router.Handle("/*", spa)
	} else {
		router.Get("/*", handleFallbackHome)
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}, nil
}

// ShutdownWithTimeout stops the server, waiting at most timeout for open requests
func (s *Server) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Server.Shutdown(ctx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server")
	}
	return nil
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "crowdlens",
	})
}

// handleFallbackHome handles the root path when frontend is not available
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>crowdlens</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #0f172a;
            color: #e2e8f0;
        }
        code {
            color: #38bdf8;
        }
    </style>
</head>
<body>
    <div>
        <h1>crowdlens</h1>
        <p>The dashboard API is served under <code>/api</code>.</p>
        <p>Start with <code>POST /api/auth/login</code>, then <code>GET /api/dashboard</code>.</p>
    </div>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}

	writeJSON(w, r, status, map[string]string{
		"error": message,
	})
}
