package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces/mocks"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
)

type staticToken string

func (s staticToken) Token() (string, error) {
	if s == "" {
		return "", goerr.Wrap(model.ErrNotAuthenticated, "no token")
	}
	return string(s), nil
}

// metricsBackend serves today and previous from the range start of each query
type metricsBackend struct {
	today     model.DayMetrics
	previous  model.DayMetrics
	todayFrom int64

	failToday    string
	failPrevious map[string]bool
}

func (m *metricsBackend) pick(q model.MetricQuery, metric string) (*model.DayMetrics, error) {
	if q.FromUTC == m.todayFrom {
		if m.failToday == metric {
			return nil, goerr.New("primary failed", goerr.V("metric", metric))
		}
		return &m.today, nil
	}
	if m.failPrevious[metric] {
		return nil, goerr.New("comparison failed", goerr.V("metric", metric))
	}
	return &m.previous, nil
}

func (m *metricsBackend) mock() *mocks.BackendMock {
	return &mocks.BackendMock{
		DwellFunc: func(ctx context.Context, token string, q model.MetricQuery) (*model.DwellResult, error) {
			d, err := m.pick(q, "dwell")
			if err != nil {
				return nil, err
			}
			return &model.DwellResult{AvgDwellMinutes: d.AvgDwellMinutes}, nil
		},
		FootfallFunc: func(ctx context.Context, token string, q model.MetricQuery) (*model.FootfallResult, error) {
			d, err := m.pick(q, "footfall")
			if err != nil {
				return nil, err
			}
			return &model.FootfallResult{Footfall: d.Footfall}, nil
		},
		OccupancyFunc: func(ctx context.Context, token string, q model.MetricQuery) (*model.BucketsResult, error) {
			d, err := m.pick(q, "occupancy")
			if err != nil {
				return nil, err
			}
			return &model.BucketsResult{Buckets: d.Occupancy}, nil
		},
		DemographicsFunc: func(ctx context.Context, token string, q model.MetricQuery) (*model.BucketsResult, error) {
			d, err := m.pick(q, "demographics")
			if err != nil {
				return nil, err
			}
			return &model.BucketsResult{Buckets: d.Demographics}, nil
		},
	}
}

func newMetricsBackend(day time.Time) *metricsBackend {
	return &metricsBackend{
		todayFrom: model.DayRange(day).FromUTC,
		today: model.DayMetrics{
			AvgDwellMinutes: 12,
			Footfall:        120,
			Occupancy: []model.MetricBucket{
				{Local: "2024-05-02 08:00:00", Avg: 10},
				{Local: "2024-05-02 09:00:00", AvgOccupancy: 14.6},
			},
			Demographics: []model.MetricBucket{
				{Local: "2024-05-02 08:00:00", Male: 6, Female: 4},
			},
		},
		previous: model.DayMetrics{
			AvgDwellMinutes: 10,
			Footfall:        100,
			Occupancy: []model.MetricBucket{
				{Local: "2024-05-01 09:00:00", Avg: 20},
			},
			Demographics: []model.MetricBucket{
				{Local: "2024-05-01 08:00:00", Male: 5, Female: 5},
			},
		},
		failPrevious: map[string]bool{},
	}
}

func TestLoadDaySnapshot(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 5, 2, 10, 0, 0, 0, time.Local)

	t.Run("loads primary and comparison", func(t *testing.T) {
		data := newMetricsBackend(day)
		backend := data.mock()
		snapshot := usecase.NewSnapshot(backend, staticToken("tok"))

		snap, err := snapshot.LoadDaySnapshot(ctx, "s-1", day)
		gt.NoError(t, err).Required()
		gt.Equal(t, types.SiteID("s-1"), snap.SiteID)
		gt.True(t, snap.Day.Equal(model.StartOfDay(day)))
		gt.Equal(t, 120, snap.Current.Footfall)
		gt.Equal(t, 12.0, snap.Current.AvgDwellMinutes)
		gt.Equal(t, 15, snap.Current.LatestOccupancy())
		gt.Equal(t, 100, snap.Previous.Footfall)
		gt.Equal(t, 20, snap.Previous.OccupancyAtHour(9))

		// Four primary plus four comparison requests
		gt.Equal(t, 2, len(backend.DwellCalls()))
		gt.Equal(t, 2, len(backend.FootfallCalls()))
		gt.Equal(t, 2, len(backend.OccupancyCalls()))
		gt.Equal(t, 2, len(backend.DemographicsCalls()))

		for _, call := range backend.DwellCalls() {
			gt.Equal(t, "tok", call.Token)
			gt.Equal(t, types.SiteID("s-1"), call.Q.SiteID)
			gt.Equal(t, int64(24*time.Hour/time.Millisecond-1), call.Q.ToUTC-call.Q.FromUTC)
		}
	})

	t.Run("comparison failure does not block primary", func(t *testing.T) {
		data := newMetricsBackend(day)
		data.failPrevious["footfall"] = true
		data.failPrevious["occupancy"] = true
		snapshot := usecase.NewSnapshot(data.mock(), staticToken("tok"))

		snap, err := snapshot.LoadDaySnapshot(ctx, "s-1", day)
		gt.NoError(t, err).Required()
		gt.Equal(t, 120, snap.Current.Footfall)
		gt.Equal(t, 0, snap.Previous.Footfall)
		gt.Equal(t, 0, len(snap.Previous.Occupancy))
		gt.NotNil(t, snap.Previous.Occupancy)
		gt.Equal(t, 10.0, snap.Previous.AvgDwellMinutes)
	})

	t.Run("slow comparison does not delay primary", func(t *testing.T) {
		data := newMetricsBackend(day)
		backend := data.mock()
		backend.DwellFunc = func(ctx context.Context, token string, q model.MetricQuery) (*model.DwellResult, error) {
			if q.FromUTC == data.todayFrom {
				return &model.DwellResult{AvgDwellMinutes: data.today.AvgDwellMinutes}, nil
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return &model.DwellResult{AvgDwellMinutes: 99}, nil
			}
		}
		snapshot := usecase.NewSnapshot(backend, staticToken("tok"), usecase.WithComparisonGrace(100*time.Millisecond))

		start := time.Now()
		snap, err := snapshot.LoadDaySnapshot(ctx, "s-1", day)
		elapsed := time.Since(start)

		gt.NoError(t, err).Required()
		gt.True(t, elapsed < 2*time.Second)
		gt.Equal(t, 12.0, snap.Current.AvgDwellMinutes)
		gt.Equal(t, 120, snap.Current.Footfall)
		gt.Equal(t, 0.0, snap.Previous.AvgDwellMinutes)
		gt.Equal(t, 100, snap.Previous.Footfall)
	})

	t.Run("primary failure fails the load", func(t *testing.T) {
		data := newMetricsBackend(day)
		data.failToday = "demographics"
		snapshot := usecase.NewSnapshot(data.mock(), staticToken("tok"))

		_, err := snapshot.LoadDaySnapshot(ctx, "s-1", day)
		gt.Error(t, err)
	})

	t.Run("no site", func(t *testing.T) {
		snapshot := usecase.NewSnapshot(&mocks.BackendMock{}, staticToken("tok"))
		_, err := snapshot.LoadDaySnapshot(ctx, "", day)
		gt.True(t, errors.Is(err, model.ErrNoSiteSelected))
	})

	t.Run("not authenticated", func(t *testing.T) {
		snapshot := usecase.NewSnapshot(&mocks.BackendMock{}, staticToken(""))
		_, err := snapshot.LoadDaySnapshot(ctx, "s-1", day)
		gt.True(t, errors.Is(err, model.ErrNotAuthenticated))
	})

	t.Run("requests run concurrently", func(t *testing.T) {
		var inflight, peak atomic.Int32
		release := make(chan struct{})
		block := func() {
			n := inflight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			inflight.Add(-1)
		}

		backend := &mocks.BackendMock{
			DwellFunc: func(ctx context.Context, token string, q model.MetricQuery) (*model.DwellResult, error) {
				block()
				return &model.DwellResult{}, nil
			},
			FootfallFunc: func(ctx context.Context, token string, q model.MetricQuery) (*model.FootfallResult, error) {
				block()
				return &model.FootfallResult{}, nil
			},
			OccupancyFunc: func(ctx context.Context, token string, q model.MetricQuery) (*model.BucketsResult, error) {
				block()
				return &model.BucketsResult{}, nil
			},
			DemographicsFunc: func(ctx context.Context, token string, q model.MetricQuery) (*model.BucketsResult, error) {
				block()
				return &model.BucketsResult{}, nil
			},
		}
		snapshot := usecase.NewSnapshot(backend, staticToken("tok"))

		done := make(chan error, 1)
		go func() {
			_, err := snapshot.LoadDaySnapshot(ctx, "s-1", day)
			done <- err
		}()

		deadline := time.After(5 * time.Second)
		for peak.Load() < 8 {
			select {
			case <-deadline:
				t.Fatalf("only %d requests in flight", peak.Load())
			case <-time.After(time.Millisecond):
			}
		}
		close(release)
		gt.NoError(t, <-done)
	})
}

func TestListSites(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sites", func(t *testing.T) {
		backend := &mocks.BackendMock{
			ListSitesFunc: func(ctx context.Context, token string) ([]model.Site, error) {
				gt.Equal(t, "tok", token)
				return []model.Site{{ID: "s-1", Name: "Main Hall"}}, nil
			},
		}
		sites := usecase.NewSites(backend, staticToken("tok")).ListSites(ctx)
		gt.Equal(t, 1, len(sites))
	})

	t.Run("failure yields empty list", func(t *testing.T) {
		backend := &mocks.BackendMock{
			ListSitesFunc: func(ctx context.Context, token string) ([]model.Site, error) {
				return nil, goerr.New("boom")
			},
		}
		sites := usecase.NewSites(backend, staticToken("tok")).ListSites(ctx)
		gt.NotNil(t, sites)
		gt.Equal(t, 0, len(sites))
	})

	t.Run("not authenticated yields empty list", func(t *testing.T) {
		backend := &mocks.BackendMock{}
		sites := usecase.NewSites(backend, staticToken("")).ListSites(ctx)
		gt.Equal(t, 0, len(sites))
		gt.Equal(t, 0, len(backend.ListSitesCalls()))
	})
}
