package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

func TestDashboardConfigValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		gt.NoError(t, model.DefaultDashboardConfig().Validate())
	})

	t.Run("apply defaults", func(t *testing.T) {
		cfg := &model.DashboardConfig{Timezone: "UTC"}
		cfg.ApplyDefaults()
		gt.Equal(t, model.DefaultChartStartHour, cfg.ChartStartHour)
		gt.Equal(t, model.DefaultPageSize, cfg.PageSize)
		gt.Equal(t, model.DefaultAlertCapacity, cfg.AlertCapacity)
		gt.NoError(t, cfg.Validate())
	})

	t.Run("invalid start hour", func(t *testing.T) {
		cfg := model.DefaultDashboardConfig()
		cfg.ChartStartHour = 24
		gt.Error(t, cfg.Validate())
	})

	t.Run("invalid page size", func(t *testing.T) {
		cfg := model.DefaultDashboardConfig()
		cfg.PageSize = 0
		gt.Error(t, cfg.Validate())
	})

	t.Run("invalid timezone", func(t *testing.T) {
		cfg := model.DefaultDashboardConfig()
		cfg.Timezone = "Mars/Olympus"
		gt.Error(t, cfg.Validate())
	})
}
