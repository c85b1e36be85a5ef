package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

func testReport(t *testing.T) *analysis.Report {
	t.Helper()
	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("time.Parse(%q): %v", s, err)
		}
		return ts
	}
	return analysis.GenerateReportFromPlays([]analysis.Play{
		{Timestamp: at("2025-03-05T20:00:00Z"), Title: "Song A", Artist: "Artist X"},
		{Timestamp: at("2025-03-05T20:10:00Z"), Title: "Song A", Artist: "Artist X"},
		{Timestamp: at("2025-07-01T08:00:00Z"), Title: "Song <B>", Artist: "Artist Y"},
	}, analysis.DefaultConfig())
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		if got, err := ParseFormat(string(f)); err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Errorf("expected csv to be rejected")
	}
}

func TestWriteJSON(t *testing.T) {
	report := testReport(t)
	var buf bytes.Buffer
	if err := Write(&buf, report, JSON); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var decoded analysis.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded.TotalSongs != 3 || decoded.TotalMinutes != 10 || decoded.TopSongs[0].Name != "Song A" {
		t.Errorf("unexpected decoded report: %+v", decoded)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testReport(t), YAML); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"year: 2025", "total_songs: 3", "time_of_day: Evening", "top_artist: Artist X", "hourly_activity: ["} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testReport(t), Text); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"# 2025 Wrapped: The Casual Listener", "3 songs, 10 minutes, mostly in the evening.", "Song A", "Artist Y", "20:00 ", "## Calendar"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	// Three active days at most; the rest of the calendar is empty.
	if !strings.Contains(out, "█") {
		t.Errorf("expected the busiest day at the top level:\n%s", out)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testReport(t), XLSX); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetSummary, SheetTopSongs, SheetTopArtists, SheetMonthly, SheetHourly, SheetCalendar}
	if strings.Join(sheets, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected sheets %v", sheets)
	}

	rows, err := f.GetRows(SheetTopSongs)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[1][1] != "Song A" || rows[1][3] != "2" {
		t.Errorf("unexpected top songs rows: %v", rows)
	}

	rows, err = f.GetRows(SheetMonthly)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 13 || rows[3][0] != "Mar" || rows[3][2] != "Artist X" || rows[1][2] != analysis.NoTopArtist {
		t.Errorf("unexpected monthly rows: %v", rows)
	}

	rows, err = f.GetRows(SheetCalendar)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "2025-03-05" || rows[1][1] != "2" {
		t.Errorf("unexpected calendar rows: %v", rows)
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, testReport(t), "https://img/x.jpg"); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<B>") || !strings.Contains(out, "Song &lt;B&gt;") {
		t.Errorf("song titles should be escaped:\n%s", out)
	}
	if !strings.Contains(out, `<img src="https://img/x.jpg" alt="Artist X"`) {
		t.Errorf("missing artist image:\n%s", out)
	}
	if !strings.Contains(out, "<td>1</td><td>Song A</td>") {
		t.Errorf("expected ranks to start at 1:\n%s", out)
	}
}

func TestWriteForgotten(t *testing.T) {
	last := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	artists := map[string][]analysis.Forgotten{
		analysis.BandStrong: {{ListenStats: analysis.ListenStats{Artist: "Old Band", Plays: 60, LastPlay: last}, Band: analysis.BandStrong}},
	}
	var buf bytes.Buffer
	if err := WriteForgotten(&buf, artists, nil); err != nil {
		t.Fatalf("WriteForgotten: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"## Forgotten Artists", "### Strong Interest (50+ plays)", "Old Band", "2023-05-01", "## Forgotten Songs"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Obsession") {
		t.Errorf("empty bands should be skipped:\n%s", out)
	}
}
