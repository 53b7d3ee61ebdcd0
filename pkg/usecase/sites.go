package usecase

import (
	"context"

	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/utils/apperr"
)

// Sites loads the site directory
type Sites struct {
	backend interfaces.Backend
	tokens  TokenSource
}

var _ SitesUseCase = (*Sites)(nil)

// NewSites creates a new Sites use case
func NewSites(backend interfaces.Backend, tokens TokenSource) *Sites {
	return &Sites{
		backend: backend,
		tokens:  tokens,
	}
}

// ListSites implements SitesUseCase
func (s *Sites) ListSites(ctx context.Context) []model.Site {
	token, err := s.tokens.Token()
	if err != nil {
		apperr.Handle(ctx, "failed to load sites", err)
		return []model.Site{}
	}

	sites, err := s.backend.ListSites(ctx, token)
	if err != nil {
		apperr.Handle(ctx, "failed to load sites", err)
		return []model.Site{}
	}
	return sites
}
