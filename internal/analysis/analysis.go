package analysis

import (
	"context"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/export"
)

// FilterStats counts filter verdicts over one build.
type FilterStats map[Verdict]int

func (s FilterStats) merge(other FilterStats) {
	for v, n := range other {
		s[v] += n
	}
}

// Rejected is the number of events that did not become plays.
func (s FilterStats) Rejected() int {
	total := 0
	for v, n := range s {
		if v != Accepted {
			total += n
		}
	}
	return total
}

// GenerateReport builds the report for config.TargetYear from raw events.
func GenerateReport(events []export.RawEvent, config Config) *Report {
	report, _ := GenerateReportWithStats(events, config)
	return report
}

// GenerateReportWithStats is GenerateReport that also says why events were
// dropped.
func GenerateReportWithStats(events []export.RawEvent, config Config) (*Report, FilterStats) {
	agg, stats := Fold(events, config)
	return Assemble(agg, config), stats
}

// Fold filters, cleans and aggregates events in one pass.
func Fold(events []export.RawEvent, config Config) (*Aggregates, FilterStats) {
	agg, stats, _ := foldContext(context.Background(), events, config)
	return agg, stats
}

// GenerateReportFromPlays builds the report from plays that were already
// filtered and cleaned, such as those kept in the play store. Plays outside
// the target year are skipped.
func GenerateReportFromPlays(plays []Play, config Config) *Report {
	loc := config.location()
	millis := config.MillisPerPlay()

	agg := NewAggregates()
	for _, p := range plays {
		p.Timestamp = p.Timestamp.In(loc)
		if p.Timestamp.Year() != config.TargetYear {
			continue
		}
		agg.Add(p, millis)
	}
	return Assemble(agg, config)
}

// Assemble derives the report from finished aggregates. It does not recount
// anything.
func Assemble(agg *Aggregates, config Config) *Report {
	report := &Report{
		Year:           config.TargetYear,
		TotalSongs:     agg.TotalSongs,
		TotalMinutes:   agg.TotalMillis / 60000,
		TopSongs:       TopSongs(agg, config.TopN),
		TopArtists:     TopArtists(agg, config.TopN),
		HourlyActivity: agg.Hourly,
		TimeOfDay:      TimeOfDay(PeakHour(agg.Hourly)),
		CalendarData:   make(map[string]int, len(agg.Calendar)),
	}
	for m := range report.MonthlyStats {
		report.MonthlyStats[m] = MonthStat{
			Month:     MonthName(m),
			Count:     agg.MonthCount(m),
			TopArtist: MonthTopArtist(agg, m),
		}
	}
	for day, n := range agg.Calendar {
		report.CalendarData[day] = n
	}
	return report
}

// MonthName is the short English name of month m (0 = January).
func MonthName(m int) string {
	return time.Month(m + 1).String()[:3]
}
