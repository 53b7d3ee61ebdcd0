package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
)

func init() {
	color.NoColor = true
}

func TestRenderSites(t *testing.T) {
	var buf bytes.Buffer
	renderSites(&buf, nil)
	gt.Equal(t, "No sites\n", buf.String())

	buf.Reset()
	renderSites(&buf, []model.Site{
		{ID: "s-1", Name: "Main Hall"},
		{ID: "s-2", Name: "Annex"},
	})
	out := buf.String()
	gt.S(t, out).Contains("ID")
	gt.S(t, out).Contains("s-1")
	gt.S(t, out).Contains("Main Hall")
	gt.S(t, out).Contains("Annex")
}

func TestRenderSession(t *testing.T) {
	now := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	t.Run("not logged in", func(t *testing.T) {
		var buf bytes.Buffer
		renderSession(&buf, nil, now)
		gt.Equal(t, "Not logged in\n", buf.String())
	})

	t.Run("fallback", func(t *testing.T) {
		var buf bytes.Buffer
		renderSession(&buf, model.NewSession("ops@example.com", model.TokenFallback), now)
		gt.S(t, buf.String()).Contains("Logged in as ops@example.com")
		gt.S(t, buf.String()).Contains("Offline placeholder session")
	})

	t.Run("expired token", func(t *testing.T) {
		expiry := now.Add(-time.Hour)
		session := model.NewSession("ops@example.com", "tok")
		session.ExpiresAt = &expiry

		var buf bytes.Buffer
		renderSession(&buf, session, now)
		gt.S(t, buf.String()).Contains("(expired)")
	})
}

func TestRenderOverview(t *testing.T) {
	view := &usecase.DashboardView{
		SelectedSite: &model.Site{ID: "s-1", Name: "Main Hall"},
		Day:          "2024-05-02",
		IsToday:      true,
		Connection:   usecase.ConnectionConnected,
		LastError:    "boom",
		Occupancy:    usecase.StatCard{Value: "45", Trend: model.Trend{Value: 10}},
		Footfall:     usecase.StatCard{Value: "120", Trend: model.Trend{Value: 20, IsPositive: true}},
		AvgDwell:     usecase.StatCard{Value: "12min 30sec", Trend: model.Trend{Value: 25, IsPositive: true}},
		DemographicsTotal: usecase.StatCard{
			Value: "120",
			Trend: model.Trend{Value: 20, IsPositive: true},
		},
		OccupancySeries: []model.OccupancyPoint{{Time: "08:00", Count: 50}, {Time: "09:00", Count: 0}},
		YAxisMax:        100,
		DemographicsPie: []model.PieSlice{{Name: "Male", Value: 50}, {Name: "Female", Value: 50}},
		Alerts: []model.Alert{
			{PersonName: "Alice", ZoneName: "Lobby", Direction: "zone-entry", Severity: types.SeverityHigh, SiteID: "s-1"},
			{PersonName: "Bob", ZoneName: "Lobby", Direction: "zone-exit", Severity: "HIGH", SiteID: "s-1"},
		},
		AlertBadge: "2",
	}

	var buf bytes.Buffer
	renderOverview(&buf, view)
	out := buf.String()

	gt.S(t, out).Contains("Main Hall  2024-05-02 (today)  ● live")
	gt.S(t, out).Contains("Last load failed: boom")
	gt.S(t, out).Contains("↓ 10%")
	gt.S(t, out).Contains("↑ 20%")
	gt.S(t, out).Contains("12min 30sec")
	gt.S(t, out).Contains("08:00 ████████████████████ 50")
	gt.S(t, out).Contains("09:00  0")
	gt.S(t, out).Contains("Male 50% / Female 50%")
	gt.S(t, out).Contains("Alerts [2]")
	gt.S(t, out).Contains("--:--:--  high    Alice entered Lobby (site s-1)")
	gt.S(t, out).Contains("--:--:--  low     Bob exited Lobby (site s-1)")
}

func TestRenderEntries(t *testing.T) {
	view := &usecase.EntriesView{
		Rows: []usecase.RecordRow{
			{PersonName: "Alice", ZoneName: "Lobby", EntryLocal: "09:00", ExitLocal: "10:15", Dwell: "1h 15m", Severity: types.SeverityHigh},
			{PersonName: "Bob", ZoneName: "Lobby", EntryLocal: "09:30", Dwell: "1h 15m+", Severity: types.SeverityLow, Inside: true},
		},
		Summary: "Showing 11 to 20 of 25 entries",
		Buttons: []model.PageButton{{Page: 1}, {Page: 2, Current: true}, {Page: 3}},
	}

	var buf bytes.Buffer
	renderEntries(&buf, view)
	out := buf.String()

	gt.S(t, out).Contains("PERSON")
	gt.S(t, out).Contains("10:15")
	gt.S(t, out).Contains("inside")
	gt.S(t, out).Contains("1h 15m+")
	gt.S(t, out).Contains("Showing 11 to 20 of 25 entries")
	gt.S(t, out).Contains("1 [2] 3")
}

func TestPageButtonsLabel(t *testing.T) {
	gt.Equal(t, "1 … 4 [5] 6 … 10", pageButtonsLabel([]model.PageButton{
		{Page: 1},
		{Ellipsis: true},
		{Page: 4},
		{Page: 5, Current: true},
		{Page: 6},
		{Ellipsis: true},
		{Page: 10},
	}))
}

func TestWatchPrinter(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	p := &watchPrinter{w: &buf, siteID: "s-1"}

	p.OnConnecting(ctx, 1)
	p.OnConnected(ctx)
	p.OnAlert(ctx, model.Alert{PersonName: "Alice", ZoneName: "Lobby", Direction: "entry", Severity: types.SeverityMedium, SiteID: "s-1"})
	p.OnAlert(ctx, model.Alert{PersonName: "Carol", ZoneName: "Dock", Direction: "entry", SiteID: "s-2"})
	p.OnLiveOccupancy(ctx, model.LiveOccupancy{SiteID: "s-1", Count: -3})
	p.OnConnecting(ctx, 2)
	p.OnDisconnected(ctx, errors.New("eof"))

	out := buf.String()
	gt.S(t, out).Contains("connected\n")
	gt.S(t, out).Contains("Alice entered Lobby")
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("Carol")))
	gt.S(t, out).Contains("occupancy s-1: 0")
	gt.S(t, out).Contains("reconnecting (attempt 2)")
	gt.S(t, out).Contains("disconnected: eof")
}
