package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

func TestBucketHour(t *testing.T) {
	tests := []struct {
		name  string
		local string
		hour  int
		ok    bool
	}{
		{"full timestamp", "2024-05-01 13:00:00", 13, true},
		{"hour and minute only", "2024-05-01 09:30", 9, true},
		{"midnight", "2024-05-01 00:00:00", 0, true},
		{"empty", "", 0, false},
		{"date only", "2024-05-01", 0, false},
		{"garbage time", "2024-05-01 ab:cd:ef", 0, false},
		{"hour out of range", "2024-05-01 25:00:00", 0, false},
		{"minute out of range", "2024-05-01 10:75:00", 0, false},
		{"short time", "2024-05-01 9:00", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hour, ok := model.BucketHour(tc.local)
			gt.Equal(t, tc.ok, ok)
			gt.Equal(t, tc.hour, hour)
		})
	}
}

func TestChartWindow(t *testing.T) {
	t.Run("today ends at current hour", func(t *testing.T) {
		w := model.ChartWindow(8, true, 14)
		gt.Equal(t, 8, w.Start)
		gt.Equal(t, 14, w.End)
		gt.Equal(t, 14-8+1, w.Len())
	})

	t.Run("today before start hour keeps one hour", func(t *testing.T) {
		w := model.ChartWindow(8, true, 6)
		gt.Equal(t, 1, w.Len())
		gt.Equal(t, 8, w.End)
	})

	t.Run("other day covers full day", func(t *testing.T) {
		w := model.ChartWindow(8, false, 10)
		gt.Equal(t, 23, w.End)
		gt.Equal(t, 16, w.Len())
	})
}

func TestOccupancySeries(t *testing.T) {
	buckets := []model.MetricBucket{
		{Local: "2024-05-01 08:00:00", AvgOccupancy: 12.4},
		{Local: "2024-05-01 10:00:00", Avg: 30.6, AvgOccupancy: 1},
		{Local: "", AvgOccupancy: 99},
		{Local: "not a time", AvgOccupancy: 99},
		{Local: "2024-05-01 07:00:00", AvgOccupancy: 99},
		{Local: "2024-05-01 16:00:00", AvgOccupancy: 99},
	}

	t.Run("fills missing hours with zero and drops malformed", func(t *testing.T) {
		series := model.OccupancySeries(buckets, model.ChartWindow(8, true, 11))
		gt.Equal(t, 4, len(series))
		gt.Equal(t, model.OccupancyPoint{Time: "08:00", Count: 12}, series[0])
		gt.Equal(t, model.OccupancyPoint{Time: "09:00", Count: 0}, series[1])
		gt.Equal(t, model.OccupancyPoint{Time: "10:00", Count: 31}, series[2])
		gt.Equal(t, model.OccupancyPoint{Time: "11:00", Count: 0}, series[3])
	})

	t.Run("length follows current hour", func(t *testing.T) {
		for hour := 0; hour < 24; hour++ {
			series := model.OccupancySeries(nil, model.ChartWindow(8, true, hour))
			gt.Equal(t, max(1, hour-8+1), len(series))
			for _, p := range series {
				gt.Equal(t, 0, p.Count)
			}
		}
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		w := model.ChartWindow(8, false, 0)
		first := model.OccupancySeries(buckets, w)
		second := model.OccupancySeries(buckets, w)
		gt.Equal(t, first, second)
		gt.Equal(t, 99, first[16-8].Count)
	})
}

func TestDemographicsSeries(t *testing.T) {
	buckets := []model.MetricBucket{
		{Local: "2024-05-01 09:00:00", Male: 5, Female: 7},
		{Local: "broken", Male: 100, Female: 100},
	}
	series := model.DemographicsSeries(buckets, model.ChartWindow(8, true, 10))
	gt.Equal(t, 3, len(series))
	gt.Equal(t, model.DemographicsPoint{Time: "08:00"}, series[0])
	gt.Equal(t, model.DemographicsPoint{Time: "09:00", Male: 5, Female: 7}, series[1])
	gt.Equal(t, model.DemographicsPoint{Time: "10:00"}, series[2])
}

func TestDemographicsPie(t *testing.T) {
	t.Run("no data splits evenly", func(t *testing.T) {
		pie := model.DemographicsPie(nil)
		gt.Equal(t, []model.PieSlice{{Name: "Male", Value: 50}, {Name: "Female", Value: 50}}, pie)
	})

	t.Run("percentages over all buckets", func(t *testing.T) {
		pie := model.DemographicsPie([]model.MetricBucket{
			{Male: 30, Female: 10},
			{Male: 30, Female: 30},
		})
		gt.Equal(t, 60, pie[0].Value)
		gt.Equal(t, 40, pie[1].Value)
	})
}

func TestYAxisMax(t *testing.T) {
	gt.Equal(t, 100, model.YAxisMax(nil))
	gt.Equal(t, 100, model.YAxisMax([]model.OccupancyPoint{{Count: 20}}))
	gt.Equal(t, 150, model.YAxisMax([]model.OccupancyPoint{{Count: 51}, {Count: 3}}))
	gt.Equal(t, 300, model.YAxisMax([]model.OccupancyPoint{{Count: 250}}))
}
