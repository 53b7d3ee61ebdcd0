package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/secmon-lab/crowdlens/pkg/usecase"
)

var (
	colorHigh   = color.New(color.FgRed, color.Bold)
	colorMedium = color.New(color.FgYellow)
	colorLow    = color.New(color.FgGreen)
	colorUp     = color.New(color.FgGreen)
	colorDown   = color.New(color.FgRed)
	colorMuted  = color.New(color.Faint)
)

func severityLabel(s types.Severity) string {
	level := s.Level()
	switch level {
	case types.SeverityHigh:
		return colorHigh.Sprint(level)
	case types.SeverityMedium:
		return colorMedium.Sprint(level)
	default:
		return colorLow.Sprint(level)
	}
}

func trendLabel(t model.Trend) string {
	if t.IsPositive {
		return colorUp.Sprint(t.String())
	}
	return colorDown.Sprint(t.String())
}

func connectionLabel(state usecase.ConnectionState) string {
	switch state {
	case usecase.ConnectionConnected:
		return colorUp.Sprint("● live")
	case usecase.ConnectionConnecting:
		return colorMedium.Sprint("◌ connecting")
	default:
		return colorMuted.Sprint("○ offline")
	}
}

func renderSession(w io.Writer, session *model.Session, now time.Time) {
	if session == nil {
		fmt.Fprintln(w, "Not logged in")
		return
	}

	fmt.Fprintf(w, "Logged in as %s\n", session.Identity)
	if session.IsFallback() {
		fmt.Fprintln(w, colorMedium.Sprint("Offline placeholder session: the backend was unreachable at login"))
	}
	if session.ExpiresAt != nil {
		state := "valid"
		if session.IsExpired(now) {
			state = colorDown.Sprint("expired")
		}
		fmt.Fprintf(w, "Token expires %s (%s)\n", session.ExpiresAt.Local().Format(time.RFC3339), state)
	}
}

func renderSites(w io.Writer, sites []model.Site) {
	if len(sites) == 0 {
		fmt.Fprintln(w, "No sites")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, s := range sites {
		fmt.Fprintf(tw, "%s\t%s\n", s.ID, s.Name)
	}
	_ = tw.Flush()
}

func renderOverview(w io.Writer, view *usecase.DashboardView) {
	site := "(none)"
	if view.SelectedSite != nil {
		site = view.SelectedSite.Name
		if site == "" {
			site = view.SelectedSite.ID.String()
		}
	}

	day := view.Day
	if view.IsToday {
		day += " (today)"
	}
	fmt.Fprintf(w, "%s  %s  %s\n", site, day, connectionLabel(view.Connection))
	if view.LastError != "" {
		fmt.Fprintln(w, colorDown.Sprint("Last load failed: "+view.LastError))
	}
	if view.StreamError != "" {
		fmt.Fprintln(w, colorMuted.Sprint("Stream: "+view.StreamError))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Occupancy\t%s\t%s\n", view.Occupancy.Value, trendLabel(view.Occupancy.Trend))
	fmt.Fprintf(tw, "Footfall\t%s\t%s\n", view.Footfall.Value, trendLabel(view.Footfall.Trend))
	fmt.Fprintf(tw, "Avg dwell\t%s\t%s\n", view.AvgDwell.Value, trendLabel(view.AvgDwell.Trend))
	fmt.Fprintf(tw, "Demographics\t%s\t%s\n", view.DemographicsTotal.Value, trendLabel(view.DemographicsTotal.Trend))
	_ = tw.Flush()

	fmt.Fprintln(w)
	renderOccupancyChart(w, view.OccupancySeries, view.YAxisMax)

	if len(view.DemographicsPie) == 2 {
		fmt.Fprintf(w, "\n%s %d%% / %s %d%%\n",
			view.DemographicsPie[0].Name, view.DemographicsPie[0].Value,
			view.DemographicsPie[1].Name, view.DemographicsPie[1].Value)
	}

	if len(view.Alerts) > 0 {
		fmt.Fprintf(w, "\nAlerts [%s]\n", view.AlertBadge)
		for _, a := range view.Alerts {
			renderAlert(w, a)
		}
	}
}

const chartWidth = 40

func renderOccupancyChart(w io.Writer, series []model.OccupancyPoint, yMax int) {
	if yMax <= 0 {
		yMax = 1
	}
	for _, p := range series {
		n := p.Count * chartWidth / yMax
		fmt.Fprintf(w, "%s %s %d\n", p.Time, strings.Repeat("█", max(0, n)), p.Count)
	}
}

func renderAlert(w io.Writer, a model.Alert) {
	ts := "--:--:--"
	if !a.Timestamp.IsZero() {
		ts = a.Timestamp.Local().Format(time.TimeOnly)
	}
	movement := "exited"
	if a.Direction.IsEntry() {
		movement = "entered"
	}
	fmt.Fprintf(w, "%s  %-6s  %s %s %s (site %s)\n", ts, severityLabel(a.Severity), a.PersonName, movement, a.ZoneName, a.SiteID)
}

func renderEntries(w io.Writer, view *usecase.EntriesView) {
	if view.LastError != "" {
		fmt.Fprintln(w, colorDown.Sprint("Last load failed: "+view.LastError))
	}

	if len(view.Rows) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PERSON\tZONE\tENTRY\tEXIT\tDWELL\tSEVERITY")
		for _, row := range view.Rows {
			exit := row.ExitLocal
			if row.Inside {
				exit = "inside"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				row.PersonName, row.ZoneName, row.EntryLocal, exit, row.Dwell, severityLabel(row.Severity))
		}
		_ = tw.Flush()
	}

	fmt.Fprintln(w, view.Summary)
	if len(view.Buttons) > 1 {
		fmt.Fprintln(w, pageButtonsLabel(view.Buttons))
	}
}

func pageButtonsLabel(buttons []model.PageButton) string {
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		switch {
		case b.Ellipsis:
			parts = append(parts, "…")
		case b.Current:
			parts = append(parts, fmt.Sprintf("[%d]", b.Page))
		default:
			parts = append(parts, fmt.Sprintf("%d", b.Page))
		}
	}
	return strings.Join(parts, " ")
}
