package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Server holds server configuration
type Server struct {
	Addr            string
	ReloadInterval  time.Duration
	ShutdownTimeout time.Duration
}

// Flags returns CLI flags for Server configuration
func (s *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Category:    "Server",
			Value:       "localhost:8080",
			Sources:     cli.EnvVars("CROWDLENS_ADDR"),
			Destination: &s.Addr,
		},
		&cli.DurationFlag{
			Name:        "reload-interval",
			Usage:       "Interval of background snapshot reloads (0 disables)",
			Category:    "Server",
			Value:       time.Minute,
			Sources:     cli.EnvVars("CROWDLENS_RELOAD_INTERVAL"),
			Destination: &s.ReloadInterval,
		},
		&cli.DurationFlag{
			Name:        "shutdown-timeout",
			Usage:       "Grace period for open requests on shutdown",
			Category:    "Server",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("CROWDLENS_SHUTDOWN_TIMEOUT"),
			Destination: &s.ShutdownTimeout,
		},
	}
}

// Validate validates the server configuration
func (s *Server) Validate() error {
	if s.Addr == "" {
		return goerr.New("server address is required")
	}
	if s.ReloadInterval < 0 {
		return goerr.New("reload interval must not be negative", goerr.V("interval", s.ReloadInterval))
	}
	return nil
}

// LogValue returns structured log value
func (s Server) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", s.Addr),
		slog.Duration("reload_interval", s.ReloadInterval),
		slog.Duration("shutdown_timeout", s.ShutdownTimeout),
	)
}
