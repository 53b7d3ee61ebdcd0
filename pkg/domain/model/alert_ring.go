package model

import (
	"strconv"
	"sync"
)

// DefaultAlertCapacity is the number of alerts kept for the notification panel
const DefaultAlertCapacity = 20

// AlertRing keeps the most recent alerts in a fixed-capacity buffer.
// Pushing onto a full ring evicts the oldest alert.
type AlertRing struct {
	mu    sync.RWMutex
	buf   []Alert
	head  int // index of the newest alert
	count int
}

// NewAlertRing creates a ring holding at most capacity alerts
func NewAlertRing(capacity int) *AlertRing {
	if capacity <= 0 {
		capacity = DefaultAlertCapacity
	}
	return &AlertRing{
		buf:  make([]Alert, capacity),
		head: -1,
	}
}

// Push adds alert as the newest entry
func (r *AlertRing) Push(alert Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.head = (r.head + 1) % len(r.buf)
	r.buf[r.head] = alert
	if r.count < len(r.buf) {
		r.count++
	}
}

// List returns the alerts newest first
func (r *AlertRing) List() []Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Alert, 0, r.count)
	for i := 0; i < r.count; i++ {
		idx := (r.head - i + len(r.buf)) % len(r.buf)
		result = append(result, r.buf[idx])
	}
	return result
}

// Len returns the number of alerts held
func (r *AlertRing) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Cap returns the ring capacity
func (r *AlertRing) Cap() int {
	return len(r.buf)
}

// Clear drops every alert
func (r *AlertRing) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.buf)
	r.head = -1
	r.count = 0
}

// BadgeLabel returns the unread badge text: empty, the count, or "9+"
func BadgeLabel(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 9:
		return "9+"
	default:
		return strconv.Itoa(n)
	}
}
