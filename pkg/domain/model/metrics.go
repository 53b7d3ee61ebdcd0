package model

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/secmon-lab/crowdlens/pkg/domain/types"
)

// TimeRange is an inclusive window in epoch milliseconds
type TimeRange struct {
	FromUTC int64 `json:"fromUtc"`
	ToUTC   int64 `json:"toUtc"`
}

// StartOfDay returns midnight of t in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in a's location
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b.In(a.Location())))
}

// DayRange returns [00:00:00.000, 23:59:59.999] of day in day's location
func DayRange(day time.Time) TimeRange {
	start := StartOfDay(day)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return TimeRange{
		FromUTC: start.UnixMilli(),
		ToUTC:   end.UnixMilli(),
	}
}

// PreviousDay returns the calendar day before day
func PreviousDay(day time.Time) time.Time {
	return StartOfDay(day).AddDate(0, 0, -1)
}

// MetricQuery is the request body shared by the analytics endpoints
type MetricQuery struct {
	SiteID types.SiteID `json:"siteId"`
	TimeRange
}

// MetricBucket is one hour-aligned, pre-aggregated sample.
// Missing numeric fields decode as zero.
type MetricBucket struct {
	Local        string  `json:"local"`
	Avg          float64 `json:"avg"`
	AvgOccupancy float64 `json:"avgOccupancy"`
	Male         float64 `json:"male"`
	Female       float64 `json:"female"`
}

// Occupancy returns avg when set, otherwise avgOccupancy. Charts and hourly comparisons
// plot this value; the live counter seeds from AvgOccupancy alone.
func (b MetricBucket) Occupancy() float64 {
	if b.Avg != 0 {
		return b.Avg
	}
	return b.AvgOccupancy
}

// UnmarshalJSON implements json.Unmarshaler. Numeric fields that are absent, null
// or not a number decode as zero instead of failing the whole response.
func (b *MetricBucket) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*b = MetricBucket{}
	if v, ok := raw["local"]; ok {
		_ = json.Unmarshal(v, &b.Local)
	}
	b.Avg = lenientFloat(raw["avg"])
	b.AvgOccupancy = lenientFloat(raw["avgOccupancy"])
	b.Male = lenientFloat(raw["male"])
	b.Female = lenientFloat(raw["female"])
	return nil
}

func lenientFloat(v json.RawMessage) float64 {
	if len(v) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}

// DwellResult is the response of the dwell endpoint
type DwellResult struct {
	AvgDwellMinutes float64 `json:"avgDwellMinutes"`
}

// FootfallResult is the response of the footfall endpoint
type FootfallResult struct {
	Footfall int `json:"footfall"`
}

// BucketsResult is the response of the occupancy and demographics endpoints
type BucketsResult struct {
	Buckets []MetricBucket `json:"buckets"`
}

// DayMetrics holds the four series for one day
type DayMetrics struct {
	AvgDwellMinutes float64        `json:"avgDwellMinutes"`
	Footfall        int            `json:"footfall"`
	Occupancy       []MetricBucket `json:"occupancy"`
	Demographics    []MetricBucket `json:"demographics"`
}

// LatestOccupancy returns the rounded avgOccupancy of the last bucket, 0 when there is none.
// A bucket that only carries avg seeds the live counter with 0.
func (m DayMetrics) LatestOccupancy() int {
	if len(m.Occupancy) == 0 {
		return 0
	}
	return int(math.Round(m.Occupancy[len(m.Occupancy)-1].AvgOccupancy))
}

// OccupancyAtHour returns the rounded occupancy of the bucket labelled hour, 0 when absent
func (m DayMetrics) OccupancyAtHour(hour int) int {
	for _, b := range m.Occupancy {
		h, ok := BucketHour(b.Local)
		if ok && h == hour {
			return int(math.Round(b.Occupancy()))
		}
	}
	return 0
}

// DemographicsTotals sums male and female counts over all buckets
func (m DayMetrics) DemographicsTotals() (male, female float64) {
	for _, b := range m.Demographics {
		male += b.Male
		female += b.Female
	}
	return male, female
}

// DaySnapshot is the result of one snapshot load
type DaySnapshot struct {
	SiteID    types.SiteID `json:"siteId"`
	Day       time.Time    `json:"day"`
	Current   DayMetrics   `json:"current"`
	Previous  DayMetrics   `json:"previous"`
	FetchedAt time.Time    `json:"fetchedAt"`
}
