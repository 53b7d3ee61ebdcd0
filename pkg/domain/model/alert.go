package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
)

// Alert is one entry/exit event pushed by the stream
type Alert struct {
	ID         types.EventID   `json:"eventId"`
	PersonName string          `json:"personName"`
	ZoneName   string          `json:"zoneName"`
	Direction  types.Direction `json:"direction"`
	Severity   types.Severity  `json:"severity"`
	SiteID     types.SiteID    `json:"siteId"`
	Timestamp  EventTime       `json:"ts"`
}

// LiveOccupancy is the authoritative current count pushed by the stream
type LiveOccupancy struct {
	SiteID types.SiteID `json:"siteId"`
	Count  int          `json:"count"`
}

// EventTime accepts epoch milliseconds or an RFC 3339 string
type EventTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (t *EventTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return goerr.Wrap(err, "failed to decode event time string")
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms)
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return goerr.Wrap(err, "invalid event time", goerr.V("value", s))
		}
		t.Time = parsed
		return nil
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return goerr.Wrap(err, "invalid event time", goerr.V("value", string(data)))
	}
	t.Time = time.UnixMilli(int64(ms))
	return nil
}

// MarshalJSON implements json.Marshaler. The zero time encodes as null.
func (t EventTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
