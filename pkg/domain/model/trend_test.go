package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

func TestCalcTrend(t *testing.T) {
	tests := []struct {
		name      string
		today     float64
		yesterday float64
		expected  model.Trend
	}{
		{"increase", 120, 100, model.Trend{Value: 20, IsPositive: true}},
		{"decrease", 80, 100, model.Trend{Value: 20, IsPositive: false}},
		{"no change", 100, 100, model.Trend{Value: 0, IsPositive: true}},
		{"zero yesterday", 42, 0, model.Trend{Value: 0, IsPositive: true}},
		{"zero both", 0, 0, model.Trend{Value: 0, IsPositive: true}},
		{"rounds", 101.6, 100, model.Trend{Value: 2, IsPositive: true}},
		{"drop to zero", 0, 50, model.Trend{Value: 100, IsPositive: false}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, tc.expected, model.CalcTrend(tc.today, tc.yesterday))
		})
	}
}

func TestTrendString(t *testing.T) {
	gt.Equal(t, "↑ 20%", model.Trend{Value: 20, IsPositive: true}.String())
	gt.Equal(t, "↓ 5%", model.Trend{Value: 5}.String())
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		12345:    "12,345",
		1234567:  "1,234,567",
		-4321:    "-4,321",
	}
	for n, expected := range tests {
		gt.Equal(t, expected, model.FormatCount(n))
	}
}
