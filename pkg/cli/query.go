package cli

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdSites() *cli.Command {
	var clientCfg clientConfig

	return &cli.Command{
		Name:  "sites",
		Usage: "List the sites visible to the session",
		Flags: clientCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := clientCfg.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if err := rt.requireSession(); err != nil {
				return err
			}

			renderSites(c.Root().Writer, usecase.NewSites(rt.client, rt.auth).ListSites(ctx))
			return nil
		},
	}
}

func cmdOverview() *cli.Command {
	var (
		clientCfg clientConfig
		sel       selection
	)

	return &cli.Command{
		Name:    "overview",
		Aliases: []string{"dashboard"},
		Usage:   "Show the metric overview of a site and day",
		Flags:   joinFlags(clientCfg.Flags(), sel.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := clientCfg.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if err := rt.requireSession(); err != nil {
				return err
			}

			dashboard, err := rt.newDashboard(nil)
			if err != nil {
				return err
			}
			if err := sel.apply(ctx, dashboard); err != nil {
				return err
			}

			// A failed load is shown in the view
			if err := dashboard.Reload(ctx); err != nil && !errors.Is(err, model.ErrStaleResponse) {
				ctxlog.From(ctx).Debug("Overview load failed", "error", err)
			}

			renderOverview(c.Root().Writer, dashboard.View())
			return nil
		},
	}
}

func cmdEntries() *cli.Command {
	var (
		clientCfg clientConfig
		sel       selection
		page      int
	)

	return &cli.Command{
		Name:  "entries",
		Usage: "Show a page of entry/exit records",
		Flags: joinFlags(clientCfg.Flags(), sel.Flags(), []cli.Flag{
			&cli.IntFlag{
				Name:        "page",
				Aliases:     []string{"p"},
				Usage:       "Page number",
				Value:       1,
				Destination: &page,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := clientCfg.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			if err := rt.requireSession(); err != nil {
				return err
			}

			dashboard, err := rt.newDashboard(nil)
			if err != nil {
				return err
			}
			if err := sel.apply(ctx, dashboard); err != nil {
				return err
			}

			entries := usecase.NewEntries(usecase.NewRecords(rt.client, rt.auth), rt.display.PageSize)
			siteID, day := dashboard.Selection()
			view, err := entries.Show(ctx, siteID, day, max(1, page))
			if err != nil {
				return err
			}

			renderEntries(c.Root().Writer, view)
			return nil
		},
	}
}
