package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DashboardConfig holds the display settings of the dashboard views
type DashboardConfig struct {
	ChartStartHour int    `yaml:"chart_start_hour"`
	PageSize       int    `yaml:"page_size"`
	AlertCapacity  int    `yaml:"alert_capacity"`
	Timezone       string `yaml:"timezone"`
}

// DefaultDashboardConfig returns the settings used when no file is given
func DefaultDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		ChartStartHour: DefaultChartStartHour,
		PageSize:       DefaultPageSize,
		AlertCapacity:  DefaultAlertCapacity,
	}
}

// ApplyDefaults fills zero fields with defaults
func (c *DashboardConfig) ApplyDefaults() {
	def := DefaultDashboardConfig()
	if c.ChartStartHour == 0 {
		c.ChartStartHour = def.ChartStartHour
	}
	if c.PageSize == 0 {
		c.PageSize = def.PageSize
	}
	if c.AlertCapacity == 0 {
		c.AlertCapacity = def.AlertCapacity
	}
}

// Validate validates the dashboard configuration
func (c *DashboardConfig) Validate() error {
	if c.ChartStartHour < 0 || c.ChartStartHour > 23 {
		return goerr.New("chart start hour must be between 0 and 23",
			goerr.V("chart_start_hour", c.ChartStartHour))
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return goerr.New("page size must be between 1 and 100",
			goerr.V("page_size", c.PageSize))
	}
	if c.AlertCapacity < 1 {
		return goerr.New("alert capacity must be positive",
			goerr.V("alert_capacity", c.AlertCapacity))
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. Empty means the local zone.
func (c *DashboardConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid timezone", goerr.V("timezone", c.Timezone))
	}
	return loc, nil
}
