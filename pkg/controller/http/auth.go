package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUC usecase.AuthUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse describes the active operator session
type SessionResponse struct {
	Identity  string     `json:"identity"`
	Fallback  bool       `json:"fallback"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Expired   bool       `json:"expired"`
}

func newSessionResponse(session *model.Session) *SessionResponse {
	return &SessionResponse{
		Identity:  session.Identity,
		Fallback:  session.IsFallback(),
		ExpiresAt: session.ExpiresAt,
		Expired:   session.IsExpired(time.Now()),
	}
}

// HandleLogin authenticates with the backend and stores the session
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid login request"), http.StatusBadRequest)
		return
	}

	ok, err := h.authUC.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, model.ErrIdentityRequired):
		writeError(w, r, err, http.StatusBadRequest)
		return
	case errors.Is(err, model.ErrAuthUnreachable):
		writeError(w, r, err, http.StatusBadGateway)
		return
	case err != nil:
		ctxlog.From(r.Context()).Error("Failed to login", "error", err)
		writeError(w, r, err, http.StatusInternalServerError)
		return
	case !ok:
		writeError(w, r, goerr.New("invalid credentials"), http.StatusUnauthorized)
		return
	}

	writeJSON(w, r, http.StatusOK, newSessionResponse(h.authUC.Current()))
}

// HandleLogout clears the session. It always succeeds for the client.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.authUC.Logout(r.Context()); err != nil {
		ctxlog.From(r.Context()).Warn("Failed to delete persisted session", "error", err)
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

// HandleSession returns the current session
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	session := h.authUC.Current()
	if session == nil {
		writeError(w, r, errUnauthorized, http.StatusUnauthorized)
		return
	}
	writeJSON(w, r, http.StatusOK, newSessionResponse(session))
}
