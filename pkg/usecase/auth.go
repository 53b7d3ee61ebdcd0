package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

// Auth holds the single operator session
type Auth struct {
	repo          interfaces.SessionRepository
	backend       interfaces.Backend
	loginFallback bool

	mu      sync.RWMutex
	current *model.Session
	onEnd   []func(ctx context.Context)
}

// AuthOption customises Auth
type AuthOption func(*Auth)

// WithLoginFallback makes Login succeed with a placeholder session when the auth endpoint is unreachable
func WithLoginFallback(enabled bool) AuthOption {
	return func(a *Auth) {
		a.loginFallback = enabled
	}
}

// NewAuth creates a new Auth use case
func NewAuth(repo interfaces.SessionRepository, backend interfaces.Backend, opts ...AuthOption) *Auth {
	a := &Auth{
		repo:    repo,
		backend: backend,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

var _ AuthUseCase = (*Auth)(nil)

// OnSessionEnd implements AuthUseCase
func (a *Auth) OnSessionEnd(hook func(ctx context.Context)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEnd = append(a.onEnd, hook)
}

func (a *Auth) endSession(ctx context.Context) {
	a.mu.RLock()
	hooks := append([]func(context.Context){}, a.onEnd...)
	a.mu.RUnlock()

	for _, hook := range hooks {
		hook(ctx)
	}
}

// Login implements AuthUseCase
func (a *Auth) Login(ctx context.Context, identity, secret string) (bool, error) {
	logger := ctxlog.From(ctx)

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return false, goerr.Wrap(model.ErrIdentityRequired, "failed to login")
	}

	token, ok, err := a.backend.Login(ctx, identity, secret)
	if err != nil {
		if !a.loginFallback {
			return false, goerr.Wrap(model.ErrAuthUnreachable, "login failed",
				goerr.V("identity", identity),
				goerr.V("cause", err.Error()))
		}

		logger.Warn("auth endpoint unreachable, storing fallback session",
			"identity", identity,
			"error", err,
		)
		token, ok = model.TokenFallback, true
	}

	if !ok {
		logger.Info("login rejected", "identity", identity)
		return false, nil
	}

	session := model.NewSession(identity, token)
	session.ExpiresAt = tokenExpiry(session.Token)

	if err := a.repo.SaveSession(ctx, session); err != nil {
		return false, goerr.Wrap(err, "failed to save session")
	}

	a.mu.Lock()
	previous := a.current
	a.current = session
	a.mu.Unlock()

	if previous != nil && previous.Identity != session.Identity {
		a.endSession(ctx)
	}

	logger.Info("logged in",
		"identity", identity,
		"fallback", session.IsFallback(),
		"expiresAt", session.ExpiresAt,
	)
	return true, nil
}

// Logout implements AuthUseCase. The in-memory session is cleared even when the store fails.
func (a *Auth) Logout(ctx context.Context) error {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
	a.endSession(ctx)

	if err := a.repo.DeleteSession(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}

	ctxlog.From(ctx).Info("logged out")
	return nil
}

// Boot implements AuthUseCase
func (a *Auth) Boot(ctx context.Context) (*model.Session, error) {
	session, err := a.repo.GetSession(ctx)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read persisted session")
	}

	if !session.IsValid() {
		ctxlog.From(ctx).Warn("ignoring incomplete persisted session")
		return nil, nil
	}
	session.ExpiresAt = tokenExpiry(session.Token)

	a.mu.Lock()
	a.current = session
	a.mu.Unlock()

	copied := *session
	return &copied, nil
}

// Current implements AuthUseCase
func (a *Auth) Current() *model.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.current == nil {
		return nil
	}
	copied := *a.current
	return &copied
}

// Token implements TokenSource
func (a *Auth) Token() (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.current == nil {
		return "", goerr.Wrap(model.ErrNotAuthenticated, "no current session")
	}
	return a.current.Token, nil
}
