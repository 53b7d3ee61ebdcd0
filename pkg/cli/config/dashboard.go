package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Dashboard holds the display settings: an optional YAML file plus flag overrides
type Dashboard struct {
	File     string
	Timezone string
}

// Flags returns CLI flags for Dashboard configuration
func (d *Dashboard) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dashboard-config",
			Usage:       "YAML file with dashboard settings (chart_start_hour, page_size, alert_capacity, timezone)",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("CROWDLENS_DASHBOARD_CONFIG"),
			Destination: &d.File,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "IANA zone days are resolved in (default: local zone)",
			Category:    "Dashboard",
			Sources:     cli.EnvVars("CROWDLENS_TIMEZONE"),
			Destination: &d.Timezone,
		},
	}
}

// Configure loads and validates the settings
func (d *Dashboard) Configure() (*model.DashboardConfig, error) {
	cfg := model.DefaultDashboardConfig()

	if d.File != "" {
		loaded, err := LoadDashboardConfig(d.File)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if d.Timezone != "" {
		cfg.Timezone = d.Timezone
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid dashboard config", goerr.V("file", d.File))
	}
	return cfg, nil
}

// LoadDashboardConfig reads a dashboard settings file
func LoadDashboardConfig(path string) (*model.DashboardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read dashboard config", goerr.V("path", path))
	}

	var cfg model.DashboardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse dashboard config", goerr.V("path", path))
	}
	return &cfg, nil
}

// LogValue returns structured log value
func (d Dashboard) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("file", d.File),
		slog.String("timezone", d.Timezone),
	)
}
