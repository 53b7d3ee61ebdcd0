package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	slackSvc "github.com/secmon-lab/crowdlens/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds the alert forwarding configuration
type Slack struct {
	OAuthToken  string
	ChannelID   string
	MinSeverity string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack bot token used to forward alerts",
			Category:    "Slack",
			Sources:     cli.EnvVars("CROWDLENS_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID alerts are posted to",
			Category:    "Slack",
			Sources:     cli.EnvVars("CROWDLENS_SLACK_CHANNEL"),
			Destination: &s.ChannelID,
		},
		&cli.StringFlag{
			Name:        "slack-min-severity",
			Usage:       "Lowest alert severity forwarded (low, medium, high)",
			Category:    "Slack",
			Value:       string(types.SeverityHigh),
			Sources:     cli.EnvVars("CROWDLENS_SLACK_MIN_SEVERITY"),
			Destination: &s.MinSeverity,
		},
	}
}

// IsConfigured checks if alert forwarding is enabled
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.ChannelID != ""
}

// Configure creates the alert notifier. It returns nil without error when Slack is not configured.
func (s *Slack) Configure() (interfaces.AlertNotifier, error) {
	if s.OAuthToken == "" && s.ChannelID == "" {
		return nil, nil
	}
	if !s.IsConfigured() {
		return nil, goerr.New("both slack token and channel are required to forward alerts")
	}

	severity := types.Severity(s.MinSeverity)
	if severity.Level() != severity {
		return nil, goerr.New("invalid slack min severity", goerr.V("severity", s.MinSeverity))
	}

	return slackSvc.New(s.OAuthToken, s.ChannelID, slackSvc.WithMinSeverity(severity)), nil
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.ChannelID),
		slog.String("min_severity", s.MinSeverity),
	)
}
