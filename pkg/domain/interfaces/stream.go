package interfaces

//go:generate moq -out mocks/stream_mock.go -pkg mocks . EventStream AlertNotifier

import (
	"context"

	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

// StreamHandler receives push stream callbacks. Calls are made from a single goroutine in arrival order.
type StreamHandler interface {
	// OnConnecting is called before every dial, attempt counts from 1
	OnConnecting(ctx context.Context, attempt int)
	OnConnected(ctx context.Context)
	OnAlert(ctx context.Context, alert model.Alert)
	OnLiveOccupancy(ctx context.Context, event model.LiveOccupancy)
	OnDisconnected(ctx context.Context, err error)
}

// EventStream is a push stream subscription. Subscribe blocks until ctx is cancelled,
// reconnecting on its own schedule in between.
type EventStream interface {
	Subscribe(ctx context.Context, token string, handler StreamHandler) error
}

// AlertNotifier forwards alerts to an external channel
type AlertNotifier interface {
	NotifyAlert(ctx context.Context, site *model.Site, alert model.Alert) error
}
