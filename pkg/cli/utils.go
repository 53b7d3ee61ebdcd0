package cli

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/cli/config"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/secmon-lab/crowdlens/pkg/service/backend"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
	"github.com/urfave/cli/v3"
)

var errNotLoggedIn = goerr.New("not logged in, run `crowdlens login` first")

// joinFlags combines multiple flag slices into one
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var result []cli.Flag
	for _, f := range flags {
		result = append(result, f...)
	}
	return result
}

// clientConfig is the configuration every backend-facing command shares
type clientConfig struct {
	backend   config.Backend
	session   config.Session
	dashboard config.Dashboard
}

func (c *clientConfig) Flags() []cli.Flag {
	return joinFlags(c.backend.Flags(), c.session.Flags(), c.dashboard.Flags())
}

// runtime holds the collaborators built from clientConfig
type runtime struct {
	repo    interfaces.SessionRepository
	client  *backend.Client
	auth    *usecase.Auth
	display *model.DashboardConfig
}

// open builds the collaborators and restores the persisted session
func (c *clientConfig) open(ctx context.Context) (*runtime, error) {
	ctxlog.From(ctx).Debug("Opening backend session",
		"backend", c.backend,
		"session", c.session,
		"dashboard", c.dashboard,
	)

	display, err := c.dashboard.Configure()
	if err != nil {
		return nil, err
	}

	client, err := c.backend.Configure()
	if err != nil {
		return nil, err
	}

	repo, err := c.session.Configure(ctx)
	if err != nil {
		return nil, err
	}

	auth := usecase.NewAuth(repo, client, usecase.WithLoginFallback(c.backend.LoginFallback))
	if _, err := auth.Boot(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}

	return &runtime{
		repo:    repo,
		client:  client,
		auth:    auth,
		display: display,
	}, nil
}

func (r *runtime) Close(ctx context.Context) {
	if err := r.repo.Close(); err != nil {
		ctxlog.From(ctx).Warn("Failed to close session store", "error", err)
	}
}

func (r *runtime) requireSession() error {
	if r.auth.Current() == nil {
		return errNotLoggedIn
	}
	return nil
}

func (r *runtime) newDashboard(stream interfaces.EventStream, opts ...usecase.DashboardOption) (*usecase.Dashboard, error) {
	opts = append([]usecase.DashboardOption{usecase.WithDashboardConfig(r.display)}, opts...)
	return usecase.NewDashboard(
		usecase.NewSites(r.client, r.auth),
		usecase.NewSnapshot(r.client, r.auth),
		stream,
		r.auth,
		opts...,
	)
}

// selection holds the --site and --day flags of the read commands
type selection struct {
	site string
	day  string
}

func (s *selection) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "site",
			Usage:       "Site ID (default: first site)",
			Destination: &s.site,
		},
		&cli.StringFlag{
			Name:        "day",
			Usage:       "Day as YYYY-MM-DD (default: today)",
			Destination: &s.day,
		},
	}
}

// apply loads the site directory and applies the flags to dashboard
func (s *selection) apply(ctx context.Context, dashboard *usecase.Dashboard) error {
	sites := dashboard.LoadSites(ctx)
	if len(sites) == 0 {
		return goerr.New("no sites available")
	}

	if s.site != "" {
		if err := dashboard.SelectSite(types.SiteID(s.site)); err != nil {
			return err
		}
	}
	if s.day != "" {
		day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s.day), dashboard.Location())
		if err != nil {
			return goerr.Wrap(err, "invalid day, expected YYYY-MM-DD", goerr.V("day", s.day))
		}
		dashboard.SelectDay(day)
	}
	return nil
}
