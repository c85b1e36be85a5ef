package analysis

const (
	Morning   = "Morning"
	Afternoon = "Afternoon"
	Evening   = "Evening"
	Night     = "Night"
)

// PeakHour is the hour with the most plays; the earliest hour wins a tie, so
// an empty distribution peaks at midnight.
func PeakHour(hourly [24]int) int {
	peak := 0
	for h := 1; h < len(hourly); h++ {
		if hourly[h] > hourly[peak] {
			peak = h
		}
	}
	return peak
}

// TimeOfDay labels an hour: [5,12) Morning, [12,17) Afternoon,
// [17,22) Evening, everything else Night.
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 22:
		return Evening
	default:
		return Night
	}
}
