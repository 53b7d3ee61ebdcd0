package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultChartStartHour is the first hour shown on the hourly charts
	DefaultChartStartHour = 8
	lastHourOfDay         = 23
	yAxisStep             = 50
)

// HourWindow is the inclusive hour range of a chart
type HourWindow struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ChartWindow returns start..currentHour for today and start..23 for any other day.
// The window always holds at least one hour.
func ChartWindow(startHour int, isToday bool, currentHour int) HourWindow {
	end := lastHourOfDay
	if isToday {
		end = currentHour
	}
	if end < startHour {
		end = startHour
	}
	return HourWindow{Start: startHour, End: end}
}

// Len returns the number of hours in the window
func (w HourWindow) Len() int {
	return w.End - w.Start + 1
}

// HourLabel formats hour as "HH:00"
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// BucketHour parses the hour out of a bucket local-time string ("2024-05-01 13:00:00").
// The time part must start with a valid "HH:MM".
func BucketHour(local string) (int, bool) {
	_, timePart, found := strings.Cut(strings.TrimSpace(local), " ")
	if !found || len(timePart) < 5 || timePart[2] != ':' {
		return 0, false
	}

	hour, err := strconv.Atoi(timePart[0:2])
	if err != nil || hour < 0 || hour > lastHourOfDay {
		return 0, false
	}
	minute, err := strconv.Atoi(timePart[3:5])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour, true
}

// OccupancyPoint is one hour of the occupancy chart
type OccupancyPoint struct {
	Time  string `json:"time"`
	Count int    `json:"count"`
}

// OccupancySeries builds one point per hour of window from buckets.
// Hours without a bucket are zero, malformed or out-of-window buckets are dropped.
// When several buckets share an hour the last one wins.
func OccupancySeries(buckets []MetricBucket, window HourWindow) []OccupancyPoint {
	byHour := make(map[int]int)
	for _, b := range buckets {
		hour, ok := BucketHour(b.Local)
		if !ok || hour < window.Start || hour > window.End {
			continue
		}
		byHour[hour] = int(math.Round(b.Occupancy()))
	}

	series := make([]OccupancyPoint, 0, window.Len())
	for hour := window.Start; hour <= window.End; hour++ {
		series = append(series, OccupancyPoint{
			Time:  HourLabel(hour),
			Count: byHour[hour],
		})
	}
	return series
}

// DemographicsPoint is one hour of the demographics timeline
type DemographicsPoint struct {
	Time   string  `json:"time"`
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
}

// DemographicsSeries builds one point per hour of window, same rules as OccupancySeries
func DemographicsSeries(buckets []MetricBucket, window HourWindow) []DemographicsPoint {
	byHour := make(map[int]MetricBucket)
	for _, b := range buckets {
		hour, ok := BucketHour(b.Local)
		if !ok || hour < window.Start || hour > window.End {
			continue
		}
		byHour[hour] = b
	}

	series := make([]DemographicsPoint, 0, window.Len())
	for hour := window.Start; hour <= window.End; hour++ {
		b := byHour[hour]
		series = append(series, DemographicsPoint{
			Time:   HourLabel(hour),
			Male:   b.Male,
			Female: b.Female,
		})
	}
	return series
}

// PieSlice is one share of the demographics pie
type PieSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DemographicsPie returns male/female percentages over all buckets, 50/50 when there is no data
func DemographicsPie(buckets []MetricBucket) []PieSlice {
	var male, female float64
	for _, b := range buckets {
		male += b.Male
		female += b.Female
	}
	total := male + female
	if total <= 0 {
		return []PieSlice{{Name: "Male", Value: 50}, {Name: "Female", Value: 50}}
	}
	return []PieSlice{
		{Name: "Male", Value: int(math.Round(male / total * 100))},
		{Name: "Female", Value: int(math.Round(female / total * 100))},
	}
}

// YAxisMax returns the occupancy chart ceiling: the max count (at least 50)
// rounded up to a multiple of 50, plus one step of headroom.
func YAxisMax(series []OccupancyPoint) int {
	peak := yAxisStep
	for _, p := range series {
		peak = max(peak, p.Count)
	}
	return (peak+yAxisStep-1)/yAxisStep*yAxisStep + yAxisStep
}
