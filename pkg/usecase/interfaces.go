package usecase

import (
	"context"
	"time"

	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
)

// TokenSource provides the bearer token of the current session
type TokenSource interface {
	// Token returns model.ErrNotAuthenticated when nobody is logged in
	Token() (string, error)
}

// AuthUseCase defines the interface for session operations
type AuthUseCase interface {
	TokenSource

	// Login authenticates against the backend and persists the session. It returns false
	// when the backend rejected the credentials.
	Login(ctx context.Context, identity, secret string) (bool, error)

	// Logout clears the in-memory and persisted session
	Logout(ctx context.Context) error

	// Boot reads the persisted session once. It returns nil without error when there is none.
	Boot(ctx context.Context) (*model.Session, error)

	// Current returns a copy of the current session or nil
	Current() *model.Session

	// OnSessionEnd registers hook to run after logout or after a login replaced another operator
	OnSessionEnd(hook func(ctx context.Context))
}

// SitesUseCase defines the interface for the site directory
type SitesUseCase interface {
	// ListSites returns an empty slice when the directory cannot be loaded
	ListSites(ctx context.Context) []model.Site
}

// SnapshotUseCase defines the interface for metric snapshot loads
type SnapshotUseCase interface {
	LoadDaySnapshot(ctx context.Context, siteID types.SiteID, day time.Time) (*model.DaySnapshot, error)
}

// RecordsUseCase defines the interface for entry/exit record pages
type RecordsUseCase interface {
	LoadRecordsPage(ctx context.Context, siteID types.SiteID, day time.Time, page, pageSize int) (*model.RecordsPage, error)
}
