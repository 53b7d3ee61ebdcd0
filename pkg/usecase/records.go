package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
)

// Records loads pages of entry/exit records
type Records struct {
	backend interfaces.Backend
	tokens  TokenSource
}

var _ RecordsUseCase = (*Records)(nil)

// NewRecords creates a new Records use case
func NewRecords(backend interfaces.Backend, tokens TokenSource) *Records {
	return &Records{
		backend: backend,
		tokens:  tokens,
	}
}

// LoadRecordsPage implements RecordsUseCase. A pageSize of 0 means model.DefaultPageSize.
func (r *Records) LoadRecordsPage(ctx context.Context, siteID types.SiteID, day time.Time, page, pageSize int) (*model.RecordsPage, error) {
	if siteID == "" {
		return nil, goerr.Wrap(model.ErrNoSiteSelected, "failed to load records")
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}

	token, err := r.tokens.Token()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load records")
	}

	result, err := r.backend.EntryExit(ctx, token, model.RecordsQuery{
		SiteID:     siteID,
		TimeRange:  model.DayRange(day),
		PageSize:   pageSize,
		PageNumber: page,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load records",
			goerr.V("site_id", siteID),
			goerr.V("page", page))
	}
	return result, nil
}

// RecordRow is one render-ready table row
type RecordRow struct {
	PersonID   types.PersonID `json:"personId"`
	PersonName string         `json:"personName"`
	ZoneName   string         `json:"zoneName"`
	EntryLocal string         `json:"entryLocal"`
	ExitLocal  string         `json:"exitLocal"`
	Dwell      string         `json:"dwell"`
	Severity   types.Severity `json:"severity"`
	Inside     bool           `json:"inside"`
}

// EntriesView is the render-ready state of the entries table
type EntriesView struct {
	SiteID       types.SiteID       `json:"siteId"`
	Day          string             `json:"day"`
	Rows         []RecordRow        `json:"rows"`
	PageNumber   int                `json:"pageNumber"`
	TotalPages   int                `json:"totalPages"`
	TotalRecords int                `json:"totalRecords"`
	Summary      string             `json:"summary"`
	Buttons      []model.PageButton `json:"buttons"`
	Loaded       bool               `json:"loaded"`
	LastError    string             `json:"lastError,omitempty"`
}

// Entries is the view-model of the entries screen. It keeps the last good page when a load fails.
type Entries struct {
	records  RecordsUseCase
	pageSize int

	mu         sync.Mutex
	generation uint64
	siteID     types.SiteID
	day        time.Time
	requested  int
	page       *model.RecordsPage
	lastError  string
}

// NewEntries creates an entries view-model. A pageSize of 0 means model.DefaultPageSize.
func NewEntries(records RecordsUseCase, pageSize int) *Entries {
	if pageSize <= 0 {
		pageSize = model.DefaultPageSize
	}
	return &Entries{
		records:  records,
		pageSize: pageSize,
	}
}

// Show loads page for siteID and day. A different site or day drops the cached page.
// It returns model.ErrStaleResponse when a newer Show was issued while loading.
func (e *Entries) Show(ctx context.Context, siteID types.SiteID, day time.Time, page int) (*EntriesView, error) {
	day = model.StartOfDay(day)

	e.mu.Lock()
	if siteID != e.siteID || !day.Equal(e.day) {
		e.siteID = siteID
		e.day = day
		e.page = nil
		e.lastError = ""
	}
	e.generation++
	e.requested = page
	gen := e.generation
	e.mu.Unlock()

	result, err := e.records.LoadRecordsPage(ctx, siteID, day, page, e.pageSize)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		ctxlog.From(ctx).Debug("discarding stale records page", "site_id", siteID, "page", page)
		return nil, goerr.Wrap(model.ErrStaleResponse, "records page discarded", goerr.V("page", page))
	}
	if err != nil {
		e.lastError = err.Error()
		return e.viewLocked(), err
	}

	e.page = result
	e.lastError = ""
	return e.viewLocked(), nil
}

// Refresh reloads the last requested page of the current selection, which may differ from the
// displayed page when that request failed
func (e *Entries) Refresh(ctx context.Context) (*EntriesView, error) {
	e.mu.Lock()
	siteID, day := e.siteID, e.day
	page := max(1, e.requested)
	e.mu.Unlock()

	return e.Show(ctx, siteID, day, page)
}

// Reset drops the selection and the cached page. Loads in flight are discarded.
func (e *Entries) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	e.siteID = ""
	e.day = time.Time{}
	e.requested = 0
	e.page = nil
	e.lastError = ""
}

// View returns the current state
func (e *Entries) View() *EntriesView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Entries) viewLocked() *EntriesView {
	view := &EntriesView{
		SiteID:    e.siteID,
		Rows:      []RecordRow{},
		LastError: e.lastError,
	}
	if !e.day.IsZero() {
		view.Day = e.day.Format(time.DateOnly)
	}

	if e.page == nil {
		view.Summary = model.PageSummary(1, e.pageSize, 0)
		return view
	}

	view.Loaded = true
	view.PageNumber = e.page.PageNumber
	view.TotalPages = e.page.TotalPages
	view.TotalRecords = e.page.TotalRecords
	view.Summary = e.page.Summary()
	view.Buttons = model.PageButtons(e.page.PageNumber, e.page.TotalPages)

	for _, rec := range e.page.Records {
		view.Rows = append(view.Rows, RecordRow{
			PersonID:   rec.PersonID,
			PersonName: rec.PersonName,
			ZoneName:   rec.ZoneName,
			EntryLocal: rec.EntryLocal,
			ExitLocal:  rec.ExitLocal,
			Dwell:      rec.DwellLabel(),
			Severity:   rec.Severity.Level(),
			Inside:     rec.IsInside(),
		})
	}
	return view
}
