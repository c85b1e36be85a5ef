package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

var heatmapShades = []string{"·", "░", "▒", "▓", "█"}

const hourlyBarWidth = 40

// WriteText renders the report as console tables.
func WriteText(w io.Writer, r *analysis.Report) error {
	fmt.Fprintf(w, "# %d Wrapped: %s\n\n", r.Year, r.Persona())
	fmt.Fprintf(w, "%d songs, %d minutes, mostly in the %s.\n", r.TotalSongs, r.TotalMinutes, strings.ToLower(r.TimeOfDay))

	fmt.Fprintln(w, "\n## Top Songs")
	rows := make([][]string, 0, len(r.TopSongs))
	for i, s := range r.TopSongs {
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Name, s.Artist, strconv.Itoa(s.Count)})
	}
	if err := table(w, []string{"#", "Song", "Artist", "Plays"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n## Top Artists")
	rows = rows[:0]
	for i, a := range r.TopArtists {
		rows = append(rows, []string{strconv.Itoa(i + 1), a.Name, strconv.Itoa(a.Count)})
	}
	if err := table(w, []string{"#", "Artist", "Plays"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n## Months")
	rows = rows[:0]
	for _, m := range r.MonthlyStats {
		rows = append(rows, []string{m.Month, strconv.Itoa(m.Count), m.TopArtist})
	}
	if err := table(w, []string{"Month", "Plays", "Top Artist"}, rows); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n## Hours")
	writeHourly(w, r.HourlyActivity)

	fmt.Fprintln(w, "\n## Calendar")
	writeHeatmap(w, r)
	return nil
}

func table(w io.Writer, header []string, rows [][]string) error {
	t := tablewriter.NewWriter(w)
	t.Header(header)
	for _, row := range rows {
		if err := t.Append(row); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := t.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

func writeHourly(w io.Writer, hourly [24]int) {
	peak := 1
	for _, n := range hourly {
		peak = max(peak, n)
	}
	for h, n := range hourly {
		bar := strings.Repeat("#", n*hourlyBarWidth/peak)
		fmt.Fprintf(w, "%02d:00 %-*s %d\n", h, hourlyBarWidth, bar, n)
	}
}

// writeHeatmap prints one row per weekday slot and one column per week.
func writeHeatmap(w io.Writer, r *analysis.Report) {
	grid := analysis.Heatmap(r)
	peak := analysis.HeatmapMax(r)
	for d := 0; d < analysis.HeatmapDays; d++ {
		var sb strings.Builder
		for wk := 0; wk < analysis.HeatmapWeeks; wk++ {
			sb.WriteString(heatmapShades[analysis.HeatmapLevel(grid[wk][d], peak)])
		}
		fmt.Fprintln(w, sb.String())
	}
}

// WriteForgotten prints forgotten artists and songs, strongest band first.
func WriteForgotten(w io.Writer, artists, songs map[string][]analysis.Forgotten) error {
	fmt.Fprintln(w, "## Forgotten Artists")
	for _, band := range analysis.Bands {
		if err := forgottenBand(w, artists[band], band, true); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Forgotten Songs")
	for _, band := range analysis.Bands {
		if err := forgottenBand(w, songs[band], band, false); err != nil {
			return err
		}
	}
	return nil
}

func forgottenBand(w io.Writer, items []analysis.Forgotten, band string, isArtist bool) error {
	if len(items) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n### %s Interest (%d+ plays)\n", band, analysis.GetThreshold(band, isArtist))

	header := []string{"Artist", "Plays", "Last Played"}
	if !isArtist {
		header = []string{"Artist", "Song", "Plays", "Last Played"}
	}
	rows := make([][]string, 0, len(items))
	for _, f := range items {
		row := []string{f.Artist}
		if !isArtist {
			row = append(row, f.Title)
		}
		row = append(row, strconv.FormatInt(f.Plays, 10), f.LastPlay.Format("2006-01-02"))
		rows = append(rows, row)
	}
	return table(w, header, rows)
}
