package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/cli/config"
	controller "github.com/secmon-lab/crowdlens/pkg/controller/http"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
	"github.com/secmon-lab/crowdlens/pkg/utils/async"
	"github.com/urfave/cli/v3"
)

const (
	tokenPollInterval = time.Second
)

func cmdServe() *cli.Command {
	var (
		clientCfg clientConfig
		serverCfg config.Server
		slackCfg  config.Slack
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the dashboard HTTP server",
		Flags: joinFlags(
			serverCfg.Flags(),
			clientCfg.Flags(),
			slackCfg.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting crowdlens server",
				slog.Any("server", serverCfg),
				slog.Any("backend", clientCfg.backend),
				slog.Any("session", clientCfg.session),
				slog.Any("slack", slackCfg),
			)

			if err := serverCfg.Validate(); err != nil {
				return err
			}

			rt, err := clientCfg.open(ctx)
			if err != nil {
				return err
			}
			defer rt.Close(ctx)

			streamClient, err := clientCfg.backend.ConfigureStream()
			if err != nil {
				return err
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return err
			}

			var opts []usecase.DashboardOption
			if notifier != nil {
				opts = append(opts, usecase.WithNotifier(notifier, async.NewDispatcher()))
			}
			dashboard, err := rt.newDashboard(streamClient, opts...)
			if err != nil {
				return err
			}
			entries := usecase.NewEntries(usecase.NewRecords(rt.client, rt.auth), rt.display.PageSize)

			server, err := controller.NewServer(ctx, serverCfg.Addr, &controller.UseCases{
				Auth:      rt.auth,
				Dashboard: dashboard,
				Entries:   entries,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				superviseStream(ctx, rt.auth, dashboard, tokenPollInterval)
			}()
			go func() {
				defer wg.Done()
				reloadLoop(ctx, rt.auth, dashboard, serverCfg.ReloadInterval)
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "HTTP server stopped")
				}
				close(errCh)
			}()

			var serveErr error
			select {
			case <-ctx.Done():
				logger.Info("Shutting down...")
			case serveErr = <-errCh:
				stop()
			}

			if err := server.ShutdownWithTimeout(serverCfg.ShutdownTimeout); err != nil {
				logger.Warn("Failed to shutdown server gracefully", "error", err)
			}
			wg.Wait()
			dashboard.Wait()

			logger.Info("Server shutdown complete")
			return serveErr
		},
	}
}

type streamRunner interface {
	Run(ctx context.Context) error
}

// superviseStream keeps one stream subscription running per session token. A token change
// restarts the subscription and a logout stops it. A subscription that exits on its own is
// restarted on the next poll.
func superviseStream(ctx context.Context, tokens usecase.TokenSource, runner streamRunner, poll time.Duration) {
	logger := ctxlog.From(ctx)

	var (
		current string
		cancel  context.CancelFunc
		done    chan struct{}
	)

	halt := func() {
		if cancel != nil {
			cancel()
			<-done
		}
		current, cancel, done = "", nil, nil
	}
	defer halt()

	start := func(token string) {
		runCtx, runCancel := context.WithCancel(ctx)
		runDone := make(chan struct{})
		go func() {
			defer close(runDone)
			if err := runner.Run(runCtx); err != nil {
				logger.Warn("Stream subscription stopped", "error", err)
			}
		}()
		current, cancel, done = token, runCancel, runDone
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if done != nil {
			select {
			case <-done:
				halt()
			default:
			}
		}

		token, err := tokens.Token()
		if err != nil {
			token = ""
		}
		if token != current {
			halt()
			if token != "" {
				logger.Debug("Starting stream subscription")
				start(token)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// reloadLoop refreshes the dashboard snapshot every interval while somebody is logged in
func reloadLoop(ctx context.Context, auth usecase.AuthUseCase, dashboard *usecase.Dashboard, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !auth.Current().IsValid() {
			continue
		}
		if siteID, _ := dashboard.Selection(); siteID == "" {
			dashboard.LoadSites(ctx)
		}

		if err := dashboard.Reload(ctx); err != nil {
			switch {
			case errors.Is(err, model.ErrStaleResponse), errors.Is(err, model.ErrNoSiteSelected),
				errors.Is(err, model.ErrNotAuthenticated), errors.Is(err, context.Canceled):
				ctxlog.From(ctx).Debug("Skipped background reload", "error", err)
			default:
				ctxlog.From(ctx).Warn("Background reload failed", "error", err)
			}
		}
	}
}
