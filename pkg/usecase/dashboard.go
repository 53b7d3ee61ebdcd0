package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/secmon-lab/crowdlens/pkg/utils/async"
)

// ConnectionState is the push stream state shown by the dashboard
type ConnectionState string

const (
	ConnectionDisconnected ConnectionState = "disconnected"
	ConnectionConnecting   ConnectionState = "connecting"
	ConnectionConnected    ConnectionState = "connected"
)

// Dashboard is the view-model of the overview screen: site/day selection, the last snapshot,
// live counters reconciled from the push stream and the recent alerts.
// Every mutation happens under one lock, so stream events and reloads apply one at a time.
type Dashboard struct {
	sites    SitesUseCase
	snapshot SnapshotUseCase
	stream   interfaces.EventStream
	tokens   TokenSource

	notifier   interfaces.AlertNotifier
	dispatcher *async.Dispatcher

	cfg *model.DashboardConfig
	loc *time.Location
	now func() time.Time

	mu         sync.Mutex
	siteList   []model.Site
	siteID     types.SiteID
	day        time.Time
	generation uint64
	inflight   int
	snap       *model.DaySnapshot
	live       int
	footfall   int
	alerts     *model.AlertRing
	conn       ConnectionState
	lastError  string
	streamErr  string
}

var _ interfaces.StreamHandler = (*Dashboard)(nil)

// DashboardOption customises Dashboard
type DashboardOption func(*Dashboard)

// WithNotifier forwards every received alert to notifier through dispatcher
func WithNotifier(notifier interfaces.AlertNotifier, dispatcher *async.Dispatcher) DashboardOption {
	return func(d *Dashboard) {
		d.notifier = notifier
		d.dispatcher = dispatcher
	}
}

// WithClock overrides the wall clock
func WithClock(now func() time.Time) DashboardOption {
	return func(d *Dashboard) {
		if now != nil {
			d.now = now
		}
	}
}

// WithDashboardConfig sets the display settings
func WithDashboardConfig(cfg *model.DashboardConfig) DashboardOption {
	return func(d *Dashboard) {
		if cfg != nil {
			d.cfg = cfg
		}
	}
}

// NewDashboard creates a dashboard selecting today in the configured location
func NewDashboard(sites SitesUseCase, snapshot SnapshotUseCase, stream interfaces.EventStream, tokens TokenSource, opts ...DashboardOption) (*Dashboard, error) {
	d := &Dashboard{
		sites:    sites,
		snapshot: snapshot,
		stream:   stream,
		tokens:   tokens,
		cfg:      model.DefaultDashboardConfig(),
		now:      time.Now,
		conn:     ConnectionDisconnected,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.cfg.ApplyDefaults()
	if err := d.cfg.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid dashboard config")
	}
	loc, err := d.cfg.Location()
	if err != nil {
		return nil, err
	}
	d.loc = loc
	d.alerts = model.NewAlertRing(d.cfg.AlertCapacity)
	d.day = model.StartOfDay(d.clock())
	if d.dispatcher == nil {
		d.dispatcher = async.NewDispatcher()
	}
	return d, nil
}

func (d *Dashboard) clock() time.Time {
	return d.now().In(d.loc)
}

// Location returns the zone days are resolved in
func (d *Dashboard) Location() *time.Location {
	return d.loc
}

// isToday must be called with mu held
func (d *Dashboard) isToday() bool {
	return model.SameDay(d.clock(), d.day)
}

// LoadSites refreshes the site list. The first site is selected when none is selected yet;
// an existing selection is never changed.
func (d *Dashboard) LoadSites(ctx context.Context) []model.Site {
	sites := d.sites.ListSites(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.siteList = sites
	if d.siteID == "" && len(sites) > 0 {
		d.siteID = sites[0].ID
		d.generation++
		ctxlog.From(ctx).Info("selected first site", "site_id", d.siteID)
	}
	return append([]model.Site(nil), sites...)
}

// Selection returns the selected site and day
func (d *Dashboard) Selection() (types.SiteID, time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.siteID, d.day
}

// SelectSite changes the selected site. Responses of loads issued before are discarded.
func (d *Dashboard) SelectSite(siteID types.SiteID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if siteID == "" {
		return goerr.Wrap(model.ErrNoSiteSelected, "site id is empty")
	}
	if len(d.siteList) > 0 && model.FindSite(d.siteList, siteID) == nil {
		return goerr.New("unknown site", goerr.V("site_id", siteID))
	}
	if siteID == d.siteID {
		return nil
	}
	d.siteID = siteID
	d.resetLocked()
	return nil
}

// SelectDay changes the selected day. Responses of loads issued before are discarded.
func (d *Dashboard) SelectDay(day time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := model.StartOfDay(day.In(d.loc))
	if start.Equal(d.day) {
		return
	}
	d.day = start
	d.resetLocked()
}

// Reset drops everything shown to the previous operator: site list, selection, snapshot,
// live counters and alerts. The selected day returns to today.
func (d *Dashboard) Reset(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.siteList = nil
	d.siteID = ""
	d.day = model.StartOfDay(d.clock())
	d.resetLocked()
	d.alerts = model.NewAlertRing(d.cfg.AlertCapacity)
	d.streamErr = ""
	ctxlog.From(ctx).Debug("dashboard reset")
}

func (d *Dashboard) resetLocked() {
	d.generation++
	d.snap = nil
	d.live = 0
	d.footfall = 0
	d.lastError = ""
}

// Reload fetches the snapshot of the current selection. On failure the previous values are kept
// and the error is recorded. It returns model.ErrStaleResponse when the selection changed while loading.
func (d *Dashboard) Reload(ctx context.Context) error {
	d.mu.Lock()
	gen, siteID, day := d.generation, d.siteID, d.day
	if siteID == "" {
		d.mu.Unlock()
		return goerr.Wrap(model.ErrNoSiteSelected, "failed to reload dashboard")
	}
	d.inflight++
	d.mu.Unlock()

	snap, err := d.snapshot.LoadDaySnapshot(ctx, siteID, day)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--

	if gen != d.generation {
		ctxlog.From(ctx).Debug("discarding stale snapshot", "site_id", siteID, "day", day)
		return goerr.Wrap(model.ErrStaleResponse, "snapshot discarded", goerr.V("site_id", siteID))
	}

	if err != nil {
		d.lastError = err.Error()
		return goerr.Wrap(err, "failed to reload dashboard", goerr.V("site_id", siteID))
	}

	d.snap = snap
	d.live = snap.Current.LatestOccupancy()
	d.footfall = snap.Current.Footfall
	d.lastError = ""
	return nil
}

// ApplyAlert records alert and, for the selected site on today, adjusts the live counters:
// an entry increments occupancy and footfall, anything else decrements occupancy down to zero.
func (d *Dashboard) ApplyAlert(ctx context.Context, alert model.Alert) {
	d.mu.Lock()
	d.alerts.Push(alert)
	if d.isToday() && alert.SiteID == d.siteID {
		if alert.Direction.IsEntry() {
			d.live++
			d.footfall++
		} else {
			d.live = max(0, d.live-1)
		}
	}
	site := model.FindSite(d.siteList, alert.SiteID)
	d.mu.Unlock()

	if d.notifier != nil {
		notifier := d.notifier
		d.dispatcher.Dispatch(ctx, func(ctx context.Context) error {
			return notifier.NotifyAlert(ctx, site, alert)
		})
	}
}

// ApplyLiveOccupancy overwrites live occupancy for the selected site on today
func (d *Dashboard) ApplyLiveOccupancy(ctx context.Context, event model.LiveOccupancy) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isToday() || event.SiteID != d.siteID {
		return
	}
	d.live = max(0, event.Count)
}

// OnConnecting implements interfaces.StreamHandler
func (d *Dashboard) OnConnecting(ctx context.Context, attempt int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn = ConnectionConnecting
}

// OnConnected implements interfaces.StreamHandler
func (d *Dashboard) OnConnected(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn = ConnectionConnected
	d.streamErr = ""
	ctxlog.From(ctx).Info("stream connected")
}

// OnAlert implements interfaces.StreamHandler
func (d *Dashboard) OnAlert(ctx context.Context, alert model.Alert) {
	d.ApplyAlert(ctx, alert)
}

// OnLiveOccupancy implements interfaces.StreamHandler
func (d *Dashboard) OnLiveOccupancy(ctx context.Context, event model.LiveOccupancy) {
	d.ApplyLiveOccupancy(ctx, event)
}

// OnDisconnected implements interfaces.StreamHandler
func (d *Dashboard) OnDisconnected(ctx context.Context, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.conn = ConnectionDisconnected
	if err != nil {
		d.streamErr = err.Error()
	}
}

// Run subscribes to the push stream with the session token and blocks until ctx is cancelled
func (d *Dashboard) Run(ctx context.Context) error {
	token, err := d.tokens.Token()
	if err != nil {
		return goerr.Wrap(err, "failed to start stream")
	}
	if err := d.stream.Subscribe(ctx, token, d); err != nil && !errors.Is(err, context.Canceled) {
		return goerr.Wrap(err, "stream stopped")
	}
	return nil
}

// Wait blocks until dispatched notifications finished
func (d *Dashboard) Wait() {
	d.dispatcher.Wait()
}

// Alerts returns the recent alerts, newest first
func (d *Dashboard) Alerts() []model.Alert {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.alerts.List()
}

// ClearAlerts empties the alert list
func (d *Dashboard) ClearAlerts() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.alerts.Clear()
}

// Connection returns the push stream state
func (d *Dashboard) Connection() ConnectionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn
}

// LiveCounters returns live occupancy and footfall
func (d *Dashboard) LiveCounters() (occupancy, footfall int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live, d.footfall
}

// LastError returns the error of the last failed reload, empty after a successful one
func (d *Dashboard) LastError() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastError
}

// StatCard is one headline value with its comparison against the previous day
type StatCard struct {
	Value string      `json:"value"`
	Trend model.Trend `json:"trend"`
}

// DashboardView is the render-ready state of the dashboard
type DashboardView struct {
	Sites        []model.Site    `json:"sites"`
	SelectedSite *model.Site     `json:"selectedSite,omitempty"`
	Day          string          `json:"day"`
	IsToday      bool            `json:"isToday"`
	Loading      bool            `json:"loading"`
	Loaded       bool            `json:"loaded"`
	FetchedAt    *time.Time      `json:"fetchedAt,omitempty"`
	Connection   ConnectionState `json:"connection"`
	LastError    string          `json:"lastError,omitempty"`
	StreamError  string          `json:"streamError,omitempty"`

	LiveOccupancy     int      `json:"liveOccupancy"`
	Occupancy         StatCard `json:"occupancy"`
	Footfall          StatCard `json:"footfall"`
	AvgDwell          StatCard `json:"avgDwell"`
	DemographicsTotal StatCard `json:"demographicsTotal"`

	Window             model.HourWindow          `json:"window"`
	OccupancySeries    []model.OccupancyPoint    `json:"occupancySeries"`
	YAxisMax           int                       `json:"yAxisMax"`
	DemographicsSeries []model.DemographicsPoint `json:"demographicsSeries"`
	DemographicsPie    []model.PieSlice          `json:"demographicsPie"`

	Alerts     []model.Alert `json:"alerts"`
	AlertBadge string        `json:"alertBadge"`
}

// View returns the current render-ready state
func (d *Dashboard) View() *DashboardView {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock()
	isToday := d.isToday()
	window := model.ChartWindow(d.cfg.ChartStartHour, isToday, now.Hour())

	view := &DashboardView{
		Sites:        append([]model.Site{}, d.siteList...),
		SelectedSite: model.FindSite(d.siteList, d.siteID),
		Day:          d.day.Format(time.DateOnly),
		IsToday:      isToday,
		Loading:      d.inflight > 0,
		Loaded:       d.snap != nil,
		Connection:   d.conn,
		LastError:    d.lastError,
		StreamError:  d.streamErr,
		Window:       window,
		Alerts:       d.alerts.List(),
		AlertBadge:   model.BadgeLabel(d.alerts.Len()),
	}
	if view.SelectedSite == nil && d.siteID != "" {
		view.SelectedSite = &model.Site{ID: d.siteID}
	}

	var current, previous model.DayMetrics
	if d.snap != nil {
		current, previous = d.snap.Current, d.snap.Previous
		fetched := d.snap.FetchedAt
		view.FetchedAt = &fetched
	}

	view.LiveOccupancy = d.live
	view.Occupancy = StatCard{
		Value: model.FormatCount(d.live),
		Trend: model.CalcTrend(float64(d.live), float64(previous.OccupancyAtHour(now.Hour()))),
	}
	view.Footfall = StatCard{
		Value: model.FormatCount(d.footfall),
		Trend: model.CalcTrend(float64(d.footfall), float64(previous.Footfall)),
	}
	view.AvgDwell = StatCard{
		Value: model.FormatDwell(current.AvgDwellMinutes),
		Trend: model.CalcTrend(current.AvgDwellMinutes, previous.AvgDwellMinutes),
	}

	male, female := current.DemographicsTotals()
	prevMale, prevFemale := previous.DemographicsTotals()
	view.DemographicsTotal = StatCard{
		Value: model.FormatCount(int(male + female)),
		Trend: model.CalcTrend(male+female, prevMale+prevFemale),
	}

	view.OccupancySeries = model.OccupancySeries(current.Occupancy, window)
	view.YAxisMax = model.YAxisMax(view.OccupancySeries)
	view.DemographicsSeries = model.DemographicsSeries(current.Demographics, window)
	view.DemographicsPie = model.DemographicsPie(current.Demographics)

	return view
}
