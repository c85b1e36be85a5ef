package analysis

import (
	"strings"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/export"
)

const (
	musicHeader   = "YouTube Music"
	musicDomain   = "music.youtube.com"
	removedMarker = "Watched a video that has been removed"
)

// Verdict is the outcome of filtering one event. Rejections are not errors.
type Verdict int

const (
	Accepted Verdict = iota
	RejectNoTime
	RejectBadTime
	RejectWrongYear
	RejectNotMusic
	RejectRemoved
)

var verdictNames = map[Verdict]string{
	Accepted:        "accepted",
	RejectNoTime:    "no_time",
	RejectBadTime:   "bad_time",
	RejectWrongYear: "wrong_year",
	RejectNotMusic:  "not_music",
	RejectRemoved:   "removed",
}

func (v Verdict) String() string {
	if name, ok := verdictNames[v]; ok {
		return name
	}
	return "unknown"
}

// Filter decides whether an event is a music play in the target year.
type Filter struct {
	TargetYear int
	Location   *time.Location
}

func NewFilter(config Config) Filter {
	return Filter{TargetYear: config.TargetYear, Location: config.location()}
}

// Check returns the parsed timestamp together with the verdict. The timestamp
// is only meaningful when the verdict is Accepted.
func (f Filter) Check(ev export.RawEvent) (time.Time, Verdict) {
	return f.check(ev, true)
}

// CheckAnyYear applies every rule except the year match.
func (f Filter) CheckAnyYear(ev export.RawEvent) (time.Time, Verdict) {
	return f.check(ev, false)
}

func (f Filter) check(ev export.RawEvent, matchYear bool) (time.Time, Verdict) {
	if !ev.Time.Present {
		return time.Time{}, RejectNoTime
	}
	ts, err := ParseTimestamp(ev.Time.Value, f.location())
	if err != nil {
		return time.Time{}, RejectBadTime
	}
	if matchYear && ts.Year() != f.TargetYear {
		return ts, RejectWrongYear
	}
	if !isMusic(ev) {
		return ts, RejectNotMusic
	}
	if ev.Title.Present && ev.Title.Value == removedMarker {
		return ts, RejectRemoved
	}
	return ts, Accepted
}

func (f Filter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// A channel or artist credit is enough to count as music.
func isMusic(ev export.RawEvent) bool {
	if ev.Header.Present && ev.Header.Value == musicHeader {
		return true
	}
	if ev.TitleURL.Present && strings.Contains(ev.TitleURL.Value, musicDomain) {
		return true
	}
	return ev.Subtitles.Len() > 0
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 timestamps, and zone-less date-times or
// dates which are read in loc. The result is expressed in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localLayouts {
		if lt, lerr := time.ParseInLocation(layout, s, loc); lerr == nil {
			return lt, nil
		}
	}
	return time.Time{}, err
}
