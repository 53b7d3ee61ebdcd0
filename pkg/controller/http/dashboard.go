package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
)

// DashboardHandler serves the overview view-model
type DashboardHandler struct {
	dashboard *usecase.Dashboard
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *usecase.Dashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

type selectRequest struct {
	SiteID *types.SiteID `json:"siteId"`
	Day    *string       `json:"day"`
}

// AlertsResponse is the notification panel state
type AlertsResponse struct {
	Alerts []model.Alert `json:"alerts"`
	Badge  string        `json:"badge"`
}

// parseDay reads a YYYY-MM-DD day in loc
func parseDay(s string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, goerr.Wrap(err, "invalid day, expected YYYY-MM-DD", goerr.V("day", s))
	}
	return day, nil
}

// reload refreshes the snapshot. A failure is recorded on the view-model and shown in the view.
func (h *DashboardHandler) reload(r *http.Request) {
	if err := h.dashboard.Reload(r.Context()); err != nil {
		switch {
		case errors.Is(err, model.ErrStaleResponse), errors.Is(err, model.ErrNoSiteSelected):
			ctxlog.From(r.Context()).Debug("Skipped dashboard reload", "error", err)
		default:
			ctxlog.From(r.Context()).Warn("Failed to reload dashboard", "error", err)
		}
	}
}

// HandleSites returns the site directory, selecting the first site when none is selected
func (h *DashboardHandler) HandleSites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.dashboard.LoadSites(r.Context()))
}

// HandleView returns the dashboard view. The first view after boot loads sites and the snapshot.
func (h *DashboardHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	if siteID, _ := h.dashboard.Selection(); siteID == "" {
		h.dashboard.LoadSites(r.Context())
		h.reload(r)
	}
	writeJSON(w, r, http.StatusOK, h.dashboard.View())
}

// HandleSelect changes the selected site and/or day and reloads the snapshot
func (h *DashboardHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, goerr.Wrap(err, "invalid selection request"), http.StatusBadRequest)
		return
	}

	if req.SiteID != nil {
		if err := h.dashboard.SelectSite(*req.SiteID); err != nil {
			writeError(w, r, err, http.StatusBadRequest)
			return
		}
	}
	if req.Day != nil {
		day, err := parseDay(*req.Day, h.dashboard.Location())
		if err != nil {
			writeError(w, r, err, http.StatusBadRequest)
			return
		}
		h.dashboard.SelectDay(day)
	}

	h.reload(r)
	writeJSON(w, r, http.StatusOK, h.dashboard.View())
}

// HandleReload refreshes the snapshot of the current selection
func (h *DashboardHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	h.reload(r)
	writeJSON(w, r, http.StatusOK, h.dashboard.View())
}

// HandleAlerts returns the recent alerts
func (h *DashboardHandler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts := h.dashboard.Alerts()
	writeJSON(w, r, http.StatusOK, &AlertsResponse{
		Alerts: alerts,
		Badge:  model.BadgeLabel(len(alerts)),
	})
}

// HandleClearAlerts empties the alert list
func (h *DashboardHandler) HandleClearAlerts(w http.ResponseWriter, r *http.Request) {
	h.dashboard.ClearAlerts()
	w.WriteHeader(http.StatusNoContent)
}

// EntriesHandler serves the entries table of the dashboard selection
type EntriesHandler struct {
	dashboard *usecase.Dashboard
	entries   *usecase.Entries
}

// NewEntriesHandler creates a new entries handler
func NewEntriesHandler(dashboard *usecase.Dashboard, entries *usecase.Entries) *EntriesHandler {
	return &EntriesHandler{
		dashboard: dashboard,
		entries:   entries,
	}
}

func (h *EntriesHandler) respond(w http.ResponseWriter, r *http.Request, view *usecase.EntriesView, err error) {
	switch {
	case errors.Is(err, model.ErrNoSiteSelected):
		writeError(w, r, err, http.StatusConflict)
	case errors.Is(err, model.ErrStaleResponse):
		writeJSON(w, r, http.StatusOK, h.entries.View())
	case err != nil && view == nil:
		writeError(w, r, err, http.StatusBadGateway)
	default:
		if err != nil {
			ctxlog.From(r.Context()).Warn("Failed to load records page", "error", err)
		}
		writeJSON(w, r, http.StatusOK, view)
	}
}

// HandleShow loads ?page=N (default 1) of the selected site and day. Without a selection the
// site directory is loaded first.
func (h *EntriesHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, goerr.New("page must be a positive integer", goerr.V("page", raw)), http.StatusBadRequest)
			return
		}
		page = n
	}

	siteID, day := h.dashboard.Selection()
	if siteID == "" {
		// Opened before the dashboard: load the directory to select the first site
		h.dashboard.LoadSites(r.Context())
		siteID, day = h.dashboard.Selection()
	}
	view, err := h.entries.Show(r.Context(), siteID, day, page)
	h.respond(w, r, view, err)
}

// HandleRefresh reloads the current page
func (h *EntriesHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	view, err := h.entries.Refresh(r.Context())
	h.respond(w, r, view, err)
}
