package model

import (
	"fmt"
	"math"

	"github.com/secmon-lab/crowdlens/pkg/domain/types"
)

// DefaultPageSize is the records page size used by the entries view
const DefaultPageSize = 10

// EntryExitRecord is one visitor's stay in a zone
type EntryExitRecord struct {
	PersonID     types.PersonID `json:"personId"`
	PersonName   string         `json:"personName"`
	ZoneName     string         `json:"zoneName"`
	EntryUTC     int64          `json:"entryUtc"`
	EntryLocal   string         `json:"entryLocal"`
	ExitUTC      *int64         `json:"exitUtc,omitempty"`
	ExitLocal    string         `json:"exitLocal,omitempty"`
	DwellMinutes float64        `json:"dwellMinutes"`
	Severity     types.Severity `json:"severity"`
}

// IsInside reports whether the visitor has not exited yet
func (r EntryExitRecord) IsInside() bool {
	return r.ExitUTC == nil || *r.ExitUTC == 0
}

// DwellLabel formats the dwell time for the records table; open stays get a "+" suffix
func (r EntryExitRecord) DwellLabel() string {
	label := FormatRecordDwell(r.DwellMinutes)
	if r.IsInside() {
		label += "+"
	}
	return label
}

// RecordsQuery is the request body of the entry-exit endpoint
type RecordsQuery struct {
	SiteID types.SiteID `json:"siteId"`
	TimeRange
	PageSize   int `json:"pageSize"`
	PageNumber int `json:"pageNumber"`
}

// RecordsPage is one page of entry/exit records
type RecordsPage struct {
	Records      []EntryExitRecord `json:"records"`
	TotalPages   int               `json:"totalPages"`
	TotalRecords int               `json:"totalRecords"`
	PageNumber   int               `json:"pageNumber"`
	PageSize     int               `json:"pageSize"`
}

// Normalize applies the defaults used when the backend omits fields
func (p *RecordsPage) Normalize() {
	if p.Records == nil {
		p.Records = []EntryExitRecord{}
	}
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.TotalRecords < 0 {
		p.TotalRecords = 0
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
}

// Summary returns the "Showing X to Y of Z entries" footer
func (p RecordsPage) Summary() string {
	return PageSummary(p.PageNumber, p.PageSize, p.TotalRecords)
}

// PageSummary returns the footer text for page of pageSize within total records
func PageSummary(page, pageSize, total int) string {
	if total <= 0 {
		return "No entries"
	}
	from := (page-1)*pageSize + 1
	to := min(page*pageSize, total)
	return fmt.Sprintf("Showing %d to %d of %d entries", from, to, total)
}

// PageButton is one pagination control. Ellipsis buttons carry no page number.
type PageButton struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// PageButtons returns the compact control list: every page up to 5 pages,
// otherwise first, neighbours of current and last with ellipses between gaps.
func PageButtons(current, totalPages int) []PageButton {
	var buttons []PageButton
	add := func(page int) {
		buttons = append(buttons, PageButton{Page: page, Current: page == current})
	}

	if totalPages <= 5 {
		for i := 1; i <= totalPages; i++ {
			add(i)
		}
		return buttons
	}

	add(1)
	if current > 3 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	for i := max(2, current-1); i <= min(totalPages-1, current+1); i++ {
		add(i)
	}
	if current < totalPages-2 {
		buttons = append(buttons, PageButton{Ellipsis: true})
	}
	add(totalPages)
	return buttons
}

// FormatRecordDwell formats minutes as "Xm" or "Hh Mm"
func FormatRecordDwell(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", int(math.Round(minutes)))
	}
	return fmt.Sprintf("%dh %dm", int(minutes)/60, int(math.Round(math.Mod(minutes, 60))))
}

// FormatDwell formats the average dwell stat as "MMmin SSsec" below an hour, "Hh Mm" above
func FormatDwell(minutes float64) string {
	if minutes <= 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return "0m"
	}
	totalSecs := int(math.Round(minutes * 60))
	mins := totalSecs / 60
	secs := totalSecs % 60
	if mins < 60 {
		return fmt.Sprintf("%02dmin %02dsec", mins, secs)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}
