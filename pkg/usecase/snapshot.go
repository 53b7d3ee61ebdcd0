package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/secmon-lab/crowdlens/pkg/utils/apperr"
	"golang.org/x/sync/errgroup"
)

// Snapshot loads the four day metrics for a site and its previous day
type Snapshot struct {
	backend interfaces.Backend
	tokens  TokenSource
	now     func() time.Time

	comparisonGrace time.Duration
}

var _ SnapshotUseCase = (*Snapshot)(nil)

// DefaultComparisonGrace is how long a load waits for comparison metrics once the primary day is in
const DefaultComparisonGrace = 500 * time.Millisecond

var errComparisonPending = goerr.New("comparison metrics still pending")

// SnapshotOption customises Snapshot
type SnapshotOption func(*Snapshot)

// WithComparisonGrace sets how long comparison metrics may lag behind the primary day.
// Metrics still pending after grace are defaulted to zero.
func WithComparisonGrace(grace time.Duration) SnapshotOption {
	return func(s *Snapshot) {
		if grace >= 0 {
			s.comparisonGrace = grace
		}
	}
}

// NewSnapshot creates a new Snapshot use case
func NewSnapshot(backend interfaces.Backend, tokens TokenSource, opts ...SnapshotOption) *Snapshot {
	s := &Snapshot{
		backend:         backend,
		tokens:          tokens,
		now:             time.Now,
		comparisonGrace: DefaultComparisonGrace,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type comparisonResult struct {
	index int
	part  model.DayMetrics
}

// metricLoader fetches one metric into dst
type metricLoader struct {
	name string
	load func(ctx context.Context, token string, q model.MetricQuery, dst *model.DayMetrics) error
}

func (s *Snapshot) loaders() []metricLoader {
	return []metricLoader{
		{name: "dwell", load: func(ctx context.Context, token string, q model.MetricQuery, dst *model.DayMetrics) error {
			res, err := s.backend.Dwell(ctx, token, q)
			if err != nil {
				return err
			}
			dst.AvgDwellMinutes = res.AvgDwellMinutes
			return nil
		}},
		{name: "footfall", load: func(ctx context.Context, token string, q model.MetricQuery, dst *model.DayMetrics) error {
			res, err := s.backend.Footfall(ctx, token, q)
			if err != nil {
				return err
			}
			dst.Footfall = res.Footfall
			return nil
		}},
		{name: "occupancy", load: func(ctx context.Context, token string, q model.MetricQuery, dst *model.DayMetrics) error {
			res, err := s.backend.Occupancy(ctx, token, q)
			if err != nil {
				return err
			}
			dst.Occupancy = res.Buckets
			return nil
		}},
		{name: "demographics", load: func(ctx context.Context, token string, q model.MetricQuery, dst *model.DayMetrics) error {
			res, err := s.backend.Demographics(ctx, token, q)
			if err != nil {
				return err
			}
			dst.Demographics = res.Buckets
			return nil
		}},
	}
}

// LoadDaySnapshot implements SnapshotUseCase. Any primary failure fails the load;
// each comparison metric falls back to zero on its own or when it misses the grace period.
func (s *Snapshot) LoadDaySnapshot(ctx context.Context, siteID types.SiteID, day time.Time) (*model.DaySnapshot, error) {
	if siteID == "" {
		return nil, goerr.Wrap(model.ErrNoSiteSelected, "failed to load snapshot")
	}
	token, err := s.tokens.Token()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load snapshot")
	}

	primaryQuery := model.MetricQuery{SiteID: siteID, TimeRange: model.DayRange(day)}
	previousQuery := model.MetricQuery{SiteID: siteID, TimeRange: model.DayRange(model.PreviousDay(day))}
	loaders := s.loaders()

	// Comparison loads report through a buffered channel so they never block after the load returned
	cmpCtx, cancelCmp := context.WithCancel(ctx)
	defer cancelCmp()

	results := make(chan comparisonResult, len(loaders))
	for i, l := range loaders {
		go func() {
			var part model.DayMetrics
			if err := l.load(cmpCtx, token, previousQuery, &part); err != nil {
				apperr.Warn(ctx, "comparison metric defaulted", err,
					"metric", l.name,
					"site_id", siteID,
				)
				part = model.DayMetrics{}
			}
			results <- comparisonResult{index: i, part: part}
		}()
	}

	var current model.DayMetrics
	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	for _, l := range loaders {
		eg.Go(func() error {
			var part model.DayMetrics
			if err := l.load(egCtx, token, primaryQuery, &part); err != nil {
				return goerr.Wrap(err, "failed to load primary metric",
					goerr.V("metric", l.name),
					goerr.V("site_id", siteID))
			}
			mu.Lock()
			mergeMetrics(&current, part)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	previous := s.collectComparison(ctx, results, len(loaders), siteID)
	normalizeMetrics(&current)
	normalizeMetrics(&previous)

	return &model.DaySnapshot{
		SiteID:    siteID,
		Day:       model.StartOfDay(day),
		Current:   current,
		Previous:  previous,
		FetchedAt: s.now(),
	}, nil
}

// collectComparison merges the comparison parts that arrive within the grace period
func (s *Snapshot) collectComparison(ctx context.Context, results <-chan comparisonResult, n int, siteID types.SiteID) model.DayMetrics {
	parts := make([]model.DayMetrics, n)
	grace := time.NewTimer(s.comparisonGrace)
	defer grace.Stop()

	received := 0
wait:
	for received < n {
		select {
		case r := <-results:
			parts[r.index] = r.part
			received++
		case <-grace.C:
			apperr.Warn(ctx, "comparison metrics defaulted", errComparisonPending,
				"pending", n-received,
				"site_id", siteID,
			)
			break wait
		case <-ctx.Done():
			break wait
		}
	}

	var previous model.DayMetrics
	for _, part := range parts {
		mergeMetrics(&previous, part)
	}
	return previous
}

// mergeMetrics copies the fields set in part into dst
func mergeMetrics(dst *model.DayMetrics, part model.DayMetrics) {
	if part.AvgDwellMinutes != 0 {
		dst.AvgDwellMinutes = part.AvgDwellMinutes
	}
	if part.Footfall != 0 {
		dst.Footfall = part.Footfall
	}
	if part.Occupancy != nil {
		dst.Occupancy = part.Occupancy
	}
	if part.Demographics != nil {
		dst.Demographics = part.Demographics
	}
}

func normalizeMetrics(m *model.DayMetrics) {
	if m.Occupancy == nil {
		m.Occupancy = []model.MetricBucket{}
	}
	if m.Demographics == nil {
		m.Demographics = []model.MetricBucket{}
	}
}
