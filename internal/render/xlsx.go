package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

// Sheet names in the workbook written by WriteXLSX.
const (
	SheetSummary    = "Summary"
	SheetTopSongs   = "Top Songs"
	SheetTopArtists = "Top Artists"
	SheetMonthly    = "Monthly"
	SheetHourly     = "Hourly"
	SheetCalendar   = "Calendar"
)

// WriteXLSX writes the report as a workbook with one sheet per section.
func WriteXLSX(w io.Writer, r *analysis.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	summary := [][]any{
		{"Year", r.Year},
		{"Persona", r.Persona()},
		{"Total Songs", r.TotalSongs},
		{"Total Minutes", r.TotalMinutes},
		{"Time of Day", r.TimeOfDay},
	}
	if err := writeRows(f, SheetSummary, nil, summary); err != nil {
		return err
	}

	songs := make([][]any, 0, len(r.TopSongs))
	for i, s := range r.TopSongs {
		songs = append(songs, []any{i + 1, s.Name, s.Artist, s.Count})
	}
	if err := writeSheet(f, SheetTopSongs, []any{"Rank", "Song", "Artist", "Plays"}, songs); err != nil {
		return err
	}

	artists := make([][]any, 0, len(r.TopArtists))
	for i, a := range r.TopArtists {
		artists = append(artists, []any{i + 1, a.Name, a.Count})
	}
	if err := writeSheet(f, SheetTopArtists, []any{"Rank", "Artist", "Plays"}, artists); err != nil {
		return err
	}

	months := make([][]any, 0, len(r.MonthlyStats))
	for _, m := range r.MonthlyStats {
		months = append(months, []any{m.Month, m.Count, m.TopArtist})
	}
	if err := writeSheet(f, SheetMonthly, []any{"Month", "Plays", "Top Artist"}, months); err != nil {
		return err
	}

	hours := make([][]any, 0, len(r.HourlyActivity))
	for h, n := range r.HourlyActivity {
		hours = append(hours, []any{h, n})
	}
	if err := writeSheet(f, SheetHourly, []any{"Hour", "Plays"}, hours); err != nil {
		return err
	}

	days := make([]string, 0, len(r.CalendarData))
	for day := range r.CalendarData {
		days = append(days, day)
	}
	sort.Strings(days)
	calendar := make([][]any, 0, len(days))
	for _, day := range days {
		calendar = append(calendar, []any{day, r.CalendarData[day]})
	}
	if err := writeSheet(f, SheetCalendar, []any{"Date", "Plays"}, calendar); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %q: %w", sheet, err)
	}
	return writeRows(f, sheet, header, rows)
}

func writeRows(f *excelize.File, sheet string, header []any, rows [][]any) error {
	row := 1
	if header != nil {
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("writing %q header: %w", sheet, err)
		}
		row++
	}
	for _, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing %q row %d: %w", sheet, row, err)
		}
		row++
	}
	return nil
}
