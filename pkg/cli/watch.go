package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// watchPrinter prints push stream events of one site as they arrive
type watchPrinter struct {
	mu     sync.Mutex
	w      io.Writer
	siteID types.SiteID
}

var _ interfaces.StreamHandler = (*watchPrinter)(nil)

func (p *watchPrinter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *watchPrinter) OnConnecting(ctx context.Context, attempt int) {
	if attempt > 1 {
		p.printf("%s\n", colorMuted.Sprintf("reconnecting (attempt %d)", attempt))
	}
}

func (p *watchPrinter) OnConnected(ctx context.Context) {
	p.printf("%s\n", colorUp.Sprint("connected"))
}

func (p *watchPrinter) OnAlert(ctx context.Context, alert model.Alert) {
	if p.siteID != "" && alert.SiteID != p.siteID {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	renderAlert(p.w, alert)
}

func (p *watchPrinter) OnLiveOccupancy(ctx context.Context, event model.LiveOccupancy) {
	if p.siteID != "" && event.SiteID != p.siteID {
		return
	}
	p.printf("occupancy %s: %d\n", event.SiteID, max(0, event.Count))
}

func (p *watchPrinter) OnDisconnected(ctx context.Context, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		p.printf("%s\n", colorMuted.Sprint("disconnected"))
		return
	}
	p.printf("%s\n", colorDown.Sprintf("disconnected: %v", err))
}

func cmdWatch() *cli.Command {
	var (
		clientCfg clientConfig
		siteID    string
	)

	return &cli.Command{
		Name:  "watch",
		Usage: "Print live alerts and occupancy from the push stream",
		Flags: joinFlags(clientCfg.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "site",
				Usage:       "Only print events of this site",
				Destination: &siteID,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := clientCfg.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			token, err := rt.auth.Token()
			if err != nil {
				return errNotLoggedIn
			}

			streamClient, err := clientCfg.backend.ConfigureStream()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			printer := &watchPrinter{w: c.Root().Writer, siteID: types.SiteID(siteID)}
			if err := streamClient.Subscribe(ctx, token, printer); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
