package types

import (
	"strings"

	"github.com/google/uuid"
)

// SiteID represents a monitored site identifier
type SiteID string

// String returns the string representation
func (id SiteID) String() string {
	return string(id)
}

// EventID represents a push event identifier
type EventID string

// String returns the string representation
func (id EventID) String() string {
	return string(id)
}

// NewEventID creates a new EventID. Used when the stream delivers an alert without one.
func NewEventID() EventID {
	return EventID("evt-" + uuid.New().String())
}

// PersonID represents a tracked visitor identifier
type PersonID string

// String returns the string representation
func (id PersonID) String() string {
	return string(id)
}

// RequestID identifies one outbound backend call in logs
type RequestID string

// String returns the string representation
func (id RequestID) String() string {
	return string(id)
}

// NewRequestID creates a new RequestID using UUID v7
func NewRequestID() RequestID {
	id, err := uuid.NewV7()
	if err != nil {
		return RequestID(uuid.New().String())
	}
	return RequestID(id.String())
}

// Direction is the free-form movement text of an alert, e.g. "zone-entry"
type Direction string

// String returns the string representation
func (d Direction) String() string {
	return string(d)
}

// IsEntry reports whether the direction text denotes an entry.
// Anything else is treated as an exit.
func (d Direction) IsEntry() bool {
	return strings.Contains(string(d), "entry")
}

// Severity is the alert or record severity reported by the backend
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// String returns the string representation
func (s Severity) String() string {
	return string(s)
}

// Level normalizes the severity to high, medium or low
func (s Severity) Level() Severity {
	switch s {
	case SeverityHigh, SeverityMedium:
		return s
	default:
		return SeverityLow
	}
}

// Rank orders normalized severities, low=1 through high=3
func (s Severity) Rank() int {
	switch s.Level() {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}

// AtLeast reports whether s is as severe as threshold
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Rank() >= threshold.Rank()
}
