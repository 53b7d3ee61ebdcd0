package interfaces

//go:generate moq -out mocks/backend_mock.go -pkg mocks . Backend

import (
	"context"

	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

// Backend is the crowd-monitoring REST API
type Backend interface {
	// Login exchanges credentials for a token. ok is false when the backend rejected the credentials;
	// err is set only when the endpoint could not be reached or answered garbage.
	Login(ctx context.Context, identity, secret string) (token string, ok bool, err error)

	ListSites(ctx context.Context, token string) ([]model.Site, error)

	Dwell(ctx context.Context, token string, q model.MetricQuery) (*model.DwellResult, error)
	Footfall(ctx context.Context, token string, q model.MetricQuery) (*model.FootfallResult, error)
	Occupancy(ctx context.Context, token string, q model.MetricQuery) (*model.BucketsResult, error)
	Demographics(ctx context.Context, token string, q model.MetricQuery) (*model.BucketsResult, error)

	EntryExit(ctx context.Context, token string, q model.RecordsQuery) (*model.RecordsPage, error)
}
