package analysis

import "sort"

const (
	HeatmapWeeks = 52
	HeatmapDays  = 7
)

// Heatmap lays the active days of the calendar out as weeks of seven cells.
// Cell [w][d] holds the (w*7+d)th active day in date order; it is not aligned
// to real weekdays, and days past the grid are dropped.
func Heatmap(r *Report) [HeatmapWeeks][HeatmapDays]int {
	days := make([]string, 0, len(r.CalendarData))
	for day := range r.CalendarData {
		days = append(days, day)
	}
	sort.Strings(days)

	var grid [HeatmapWeeks][HeatmapDays]int
	for i, day := range days {
		if i >= HeatmapWeeks*HeatmapDays {
			break
		}
		grid[i/HeatmapDays][i%HeatmapDays] = r.CalendarData[day]
	}
	return grid
}

// HeatmapMax is the busiest day's count, and at least 1.
func HeatmapMax(r *Report) int {
	peak := 1
	for _, n := range r.CalendarData {
		peak = max(peak, n)
	}
	return peak
}

// HeatmapLevel buckets a day's count into 0 (no plays) through 4.
func HeatmapLevel(count, peak int) int {
	p := float64(peak)
	c := float64(count)
	switch {
	case c > p*0.75:
		return 4
	case c > p*0.5:
		return 3
	case c > p*0.25:
		return 2
	case count > 0:
		return 1
	default:
		return 0
	}
}

// Persona is the listener title shown on the summary card.
func (r *Report) Persona() string {
	switch mins := r.TotalMinutes; {
	case mins > 60000:
		return "The Main Character"
	case mins > 30000:
		return "The Audiophile"
	case mins > 15000:
		return "The Vibe Curator"
	case mins > 5000:
		return "The Explorer"
	default:
		return "The Casual Listener"
	}
}
