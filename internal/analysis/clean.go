package analysis

import (
	"regexp"
	"strings"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/export"
)

// CleanRule is one step of title / artist cleaning.
type CleanRule struct {
	Name  string
	Apply func(string) string
}

// CleanRules run in order; each rule sees the output of the previous one.
var CleanRules = []CleanRule{
	{"watched-prefix", removeFirst("Watched ")},
	{"topic-suffix", removeFirst(" - Topic")},
	{"vevo", removeFirst("VEVO")},
	{"official-video", removeAll(regexp.MustCompile(`(?i)official video`))},
	{"official-audio", removeAll(regexp.MustCompile(`(?i)official audio`))},
	{"lyrics", removeAll(regexp.MustCompile(`(?i)lyrics`))},
	{"brackets", removeRepeatedly(regexp.MustCompile(`[\(\[].*?[\)\]]`))},
	{"trim", strings.TrimSpace},
}

// Clean strips platform noise so that near-duplicate titles share one key.
func Clean(s string) string {
	for _, rule := range CleanRules {
		s = rule.Apply(s)
	}
	return s
}

// CleanOptional is Clean for a field that may be absent.
func CleanOptional(s export.OptionalString) string {
	if !s.Present {
		return ""
	}
	return Clean(s.Value)
}

// Normalize turns an accepted event into a play.
func Normalize(ev export.RawEvent, ts time.Time) Play {
	artist := UnknownArtist
	if first := ev.Subtitles.First(); first.Present {
		artist = Clean(first.Value)
	}
	return Play{
		Timestamp: ts,
		Title:     CleanOptional(ev.Title),
		Artist:    artist,
	}
}

func removeFirst(token string) func(string) string {
	return func(s string) string {
		return strings.Replace(s, token, "", 1)
	}
}

func removeAll(re *regexp.Regexp) func(string) string {
	return func(s string) string {
		return re.ReplaceAllString(s, "")
	}
}

func removeRepeatedly(re *regexp.Regexp) func(string) string {
	return func(s string) string {
		for re.MatchString(s) {
			s = re.ReplaceAllString(s, "")
		}
		return s
	}
}
