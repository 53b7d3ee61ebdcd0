package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/service/backend"
	"github.com/secmon-lab/crowdlens/pkg/service/stream"
	"github.com/urfave/cli/v3"
)

// Backend holds the crowd-monitoring backend configuration
type Backend struct {
	URL           string
	StreamURL     string
	Namespace     string
	Timeout       time.Duration
	LoginFallback bool
}

// Flags returns CLI flags for Backend configuration
func (b *Backend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-url",
			Usage:       "Base URL of the backend REST API",
			Category:    "Backend",
			Value:       "http://localhost:5000",
			Sources:     cli.EnvVars("CROWDLENS_BACKEND_URL"),
			Destination: &b.URL,
		},
		&cli.StringFlag{
			Name:        "stream-url",
			Usage:       "Base URL of the push stream (defaults to the backend URL)",
			Category:    "Backend",
			Sources:     cli.EnvVars("CROWDLENS_STREAM_URL"),
			Destination: &b.StreamURL,
		},
		&cli.StringFlag{
			Name:        "stream-namespace",
			Usage:       "Socket.IO namespace of the push stream",
			Category:    "Backend",
			Value:       "/",
			Sources:     cli.EnvVars("CROWDLENS_STREAM_NAMESPACE"),
			Destination: &b.Namespace,
		},
		&cli.DurationFlag{
			Name:        "backend-timeout",
			Usage:       "Timeout of each backend request",
			Category:    "Backend",
			Value:       backend.DefaultTimeout,
			Sources:     cli.EnvVars("CROWDLENS_BACKEND_TIMEOUT"),
			Destination: &b.Timeout,
		},
		&cli.BoolFlag{
			Name:        "login-fallback",
			Usage:       "Store a placeholder session when the auth endpoint is unreachable",
			Category:    "Backend",
			Sources:     cli.EnvVars("CROWDLENS_LOGIN_FALLBACK"),
			Destination: &b.LoginFallback,
		},
	}
}

// Configure creates the REST client
func (b *Backend) Configure() (*backend.Client, error) {
	if b.Timeout <= 0 {
		return nil, goerr.New("backend timeout must be positive", goerr.V("timeout", b.Timeout))
	}
	client, err := backend.New(b.URL, backend.WithTimeout(b.Timeout))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure backend client")
	}
	return client, nil
}

// ConfigureStream creates the push stream client
func (b *Backend) ConfigureStream() (*stream.Client, error) {
	base := b.StreamURL
	if base == "" {
		base = b.URL
	}
	client, err := stream.New(base, stream.WithNamespace(b.Namespace))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure stream client")
	}
	return client, nil
}

// LogValue returns structured log value
func (b Backend) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", b.URL),
		slog.String("stream_url", b.StreamURL),
		slog.String("namespace", b.Namespace),
		slog.Duration("timeout", b.Timeout),
		slog.Bool("login_fallback", b.LoginFallback),
	)
}
