package analysis

import "testing"

func TestTimeOfDay(t *testing.T) {
	want := map[int]string{
		0: Night, 4: Night,
		5: Morning, 11: Morning,
		12: Afternoon, 16: Afternoon,
		17: Evening, 21: Evening,
		22: Night, 23: Night,
	}
	for hour, label := range want {
		if got := TimeOfDay(hour); got != label {
			t.Errorf("TimeOfDay(%d) = %s, want %s", hour, got, label)
		}
	}
}

func TestPeakHour(t *testing.T) {
	var hourly [24]int
	if PeakHour(hourly) != 0 {
		t.Errorf("empty distribution should peak at 0")
	}
	hourly[9] = 4
	hourly[18] = 4
	hourly[3] = 2
	if got := PeakHour(hourly); got != 9 {
		t.Errorf("expected the earlier hour to win the tie, got %d", got)
	}
}
