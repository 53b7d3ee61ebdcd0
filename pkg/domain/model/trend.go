package model

import (
	"fmt"
	"math"
	"strconv"
)

// Trend is the day-over-day change shown on a stat card
type Trend struct {
	Value      int  `json:"value"`
	IsPositive bool `json:"isPositive"`
}

// CalcTrend returns the rounded absolute percentage change from yesterday to today.
// A zero yesterday yields {0, true}.
func CalcTrend(today, yesterday float64) Trend {
	if yesterday == 0 {
		return Trend{Value: 0, IsPositive: true}
	}
	diff := (today - yesterday) / yesterday * 100
	return Trend{
		Value:      int(math.Round(math.Abs(diff))),
		IsPositive: diff >= 0,
	}
}

// String formats the trend as "↑ 20%" or "↓ 20%"
func (t Trend) String() string {
	arrow := "↑"
	if !t.IsPositive {
		arrow = "↓"
	}
	return fmt.Sprintf("%s %d%%", arrow, t.Value)
}

// FormatCount formats n with thousands separators, e.g. 12,345
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return sign + s
}
