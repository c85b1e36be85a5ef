package analysis

import (
	"testing"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/export"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("time.Parse(%q): %v", s, err)
	}
	return ts
}

func TestFilterCheck(t *testing.T) {
	filter := NewFilter(DefaultConfig())

	withSubtitles := export.RawEvent{
		Time:  export.Some("2025-05-01T10:00:00Z"),
		Title: export.Some("Watched Song"),
		Subtitles: export.OptionalSubtitles{
			Items:   []export.Subtitle{{Name: export.Some("Artist")}},
			Present: true,
		},
	}
	withURL := export.RawEvent{
		Time:     export.Some("2025-05-01T10:00:00Z"),
		TitleURL: export.Some("https://music.youtube.com/watch?v=1"),
	}
	emptySubtitles := export.RawEvent{
		Time:      export.Some("2025-05-01T10:00:00Z"),
		Header:    export.Some("YouTube"),
		Subtitles: export.OptionalSubtitles{Items: []export.Subtitle{}, Present: true},
	}
	removed := musicEvent("2025-05-01T10:00:00Z", "Watched a video that has been removed", "")

	cases := []struct {
		name string
		ev   export.RawEvent
		want Verdict
	}{
		{"header", musicEvent("2025-05-01T10:00:00Z", "Song", ""), Accepted},
		{"subtitles", withSubtitles, Accepted},
		{"url", withURL, Accepted},
		{"no time", export.RawEvent{Header: export.Some("YouTube Music")}, RejectNoTime},
		{"bad time", musicEvent("yesterday", "Song", "Artist"), RejectBadTime},
		{"wrong year", musicEvent("2024-12-31T23:59:59Z", "Song", "Artist"), RejectWrongYear},
		{"not music", emptySubtitles, RejectNotMusic},
		{"removed", removed, RejectRemoved},
	}
	for _, c := range cases {
		if _, got := filter.Check(c.ev); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestFilterCheckIsRepeatable(t *testing.T) {
	filter := NewFilter(DefaultConfig())
	ev := musicEvent("2025-05-01T10:00:00Z", "Song", "Artist")
	ts1, v1 := filter.Check(ev)
	ts2, v2 := filter.Check(ev)
	if v1 != v2 || !ts1.Equal(ts2) {
		t.Errorf("verdict changed between calls: %v/%v", v1, v2)
	}
}

func TestFilterCheckAnyYear(t *testing.T) {
	filter := NewFilter(DefaultConfig())
	ev := musicEvent("2019-05-01T10:00:00Z", "Song", "Artist")
	if _, v := filter.Check(ev); v != RejectWrongYear {
		t.Errorf("expected wrong year, got %v", v)
	}
	if _, v := filter.CheckAnyYear(ev); v != Accepted {
		t.Errorf("expected accepted, got %v", v)
	}
}

func TestFilterYearUsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	config := DefaultConfig()
	config.Location = tokyo

	ts, v := NewFilter(config).Check(musicEvent("2024-12-31T20:00:00Z", "Song", "Artist"))
	if v != Accepted {
		t.Fatalf("expected the play to land in 2025 local time, got %v", v)
	}
	if ts.Hour() != 5 || ts.Location() != tokyo {
		t.Errorf("expected 05:00 JST, got %v", ts)
	}
}

func TestParseTimestamp(t *testing.T) {
	inputs := []string{
		"2025-03-05T20:00:00Z",
		"2025-03-05T20:00:00.123456Z",
		"2025-03-05T21:00:00+01:00",
		"2025-03-05T20:00:00",
		" 2025-03-05T20:00:00Z ",
	}
	for _, in := range inputs {
		ts, err := ParseTimestamp(in, time.UTC)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error: %v", in, err)
			continue
		}
		if ts.Hour() != 20 || ts.Day() != 5 {
			t.Errorf("ParseTimestamp(%q) = %v", in, ts)
		}
	}

	day, err := ParseTimestamp("2025-03-05", time.UTC)
	if err != nil || day.Day() != 5 || day.Hour() != 0 {
		t.Errorf("ParseTimestamp(date) = %v, %v", day, err)
	}

	for _, in := range []string{"", "March 5th", "2025-13-40T00:00:00Z"} {
		if _, err := ParseTimestamp(in, time.UTC); err == nil {
			t.Errorf("ParseTimestamp(%q) expected error", in)
		}
	}
}

func TestVerdictString(t *testing.T) {
	if RejectWrongYear.String() != "wrong_year" || Verdict(99).String() != "unknown" {
		t.Errorf("unexpected verdict names")
	}
}
