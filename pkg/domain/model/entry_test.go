package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
)

func TestPageSummary(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		total    int
		expected string
	}{
		{"first page", 1, 10, 25, "Showing 1 to 10 of 25 entries"},
		{"middle page", 2, 10, 25, "Showing 11 to 20 of 25 entries"},
		{"last page", 3, 10, 25, "Showing 21 to 25 of 25 entries"},
		{"single partial page", 1, 10, 4, "Showing 1 to 4 of 4 entries"},
		{"empty", 1, 10, 0, "No entries"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, tc.expected, model.PageSummary(tc.page, tc.size, tc.total))
		})
	}
}

func TestRecordsPageNormalize(t *testing.T) {
	page := model.RecordsPage{}
	page.Normalize()
	gt.NotNil(t, page.Records)
	gt.Equal(t, 1, page.TotalPages)
	gt.Equal(t, 1, page.PageNumber)
	gt.Equal(t, model.DefaultPageSize, page.PageSize)
	gt.Equal(t, "No entries", page.Summary())
}

func pages(buttons []model.PageButton) []int {
	var result []int
	for _, b := range buttons {
		if b.Ellipsis {
			result = append(result, -1)
			continue
		}
		result = append(result, b.Page)
	}
	return result
}

func TestPageButtons(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected []int
	}{
		{"few pages", 2, 3, []int{1, 2, 3}},
		{"five pages", 5, 5, []int{1, 2, 3, 4, 5}},
		{"start of many", 1, 10, []int{1, 2, -1, 10}},
		{"middle of many", 5, 10, []int{1, -1, 4, 5, 6, -1, 10}},
		{"end of many", 10, 10, []int{1, -1, 9, 10}},
		{"near start", 3, 10, []int{1, 2, 3, 4, -1, 10}},
		{"near end", 8, 10, []int{1, -1, 7, 8, 9, 10}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buttons := model.PageButtons(tc.current, tc.total)
			gt.Equal(t, tc.expected, pages(buttons))
			for _, b := range buttons {
				gt.Equal(t, b.Page == tc.current && !b.Ellipsis, b.Current)
			}
		})
	}
}

func TestFormatRecordDwell(t *testing.T) {
	gt.Equal(t, "0m", model.FormatRecordDwell(0))
	gt.Equal(t, "45m", model.FormatRecordDwell(44.6))
	gt.Equal(t, "1h 30m", model.FormatRecordDwell(90))
	gt.Equal(t, "2h 5m", model.FormatRecordDwell(125.2))
}

func TestFormatDwell(t *testing.T) {
	gt.Equal(t, "0m", model.FormatDwell(0))
	gt.Equal(t, "05min 30sec", model.FormatDwell(5.5))
	gt.Equal(t, "00min 45sec", model.FormatDwell(0.75))
	gt.Equal(t, "1h 15m", model.FormatDwell(75))

	// Minutes and seconds come from the same rounded total
	gt.Equal(t, "05min 36sec", model.FormatDwell(5.6))
	gt.Equal(t, "06min 00sec", model.FormatDwell(5.9999))
}

func TestEntryExitRecordDwellLabel(t *testing.T) {
	exit := int64(1714560000000)
	closed := model.EntryExitRecord{DwellMinutes: 12, ExitUTC: &exit}
	open := model.EntryExitRecord{DwellMinutes: 12}

	gt.False(t, closed.IsInside())
	gt.True(t, open.IsInside())
	gt.Equal(t, "12m", closed.DwellLabel())
	gt.Equal(t, "12m+", open.DwellLabel())
}
