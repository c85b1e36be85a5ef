package analysis

import (
	"fmt"
	"time"
)

// Report is the yearly listening summary. It is built once and only read
// afterwards.
type Report struct {
	Year           int            `json:"year" yaml:"year"`
	TotalSongs     int            `json:"totalSongs" yaml:"total_songs"`
	TotalMinutes   int64          `json:"totalMinutes" yaml:"total_minutes"`
	TopSongs       []SongStat     `json:"topSongs" yaml:"top_songs"`
	TopArtists     []ArtistStat   `json:"topArtists" yaml:"top_artists"`
	HourlyActivity [24]int        `json:"hourlyActivity" yaml:"hourly_activity,flow"`
	TimeOfDay      string         `json:"timeOfDay" yaml:"time_of_day"`
	MonthlyStats   [12]MonthStat  `json:"monthlyStats" yaml:"monthly_stats"`
	CalendarData   map[string]int `json:"calendarData" yaml:"calendar_data"`
}

type SongStat struct {
	Name   string `json:"name" yaml:"name"`
	Artist string `json:"artist" yaml:"artist"`
	Count  int    `json:"count" yaml:"count"`
}

type ArtistStat struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type MonthStat struct {
	Month     string `json:"month" yaml:"month"`
	Count     int    `json:"count" yaml:"count"`
	TopArtist string `json:"topArtist" yaml:"top_artist"`
}

// Play is one accepted, cleaned listening event.
type Play struct {
	Timestamp time.Time
	Title     string
	Artist    string
}

const (
	UnknownArtist = "Unknown Artist"
	NoTopArtist   = "N/A"
)

// Config controls which plays count and how the report is sized.
type Config struct {
	TargetYear int

	// Estimated length of one play.
	MinutesPerPlay float64

	// Length of the top song and top artist lists.
	TopN int

	// Hours, months and calendar days are taken in this location.
	Location *time.Location
}

func DefaultConfig() Config {
	return Config{
		TargetYear:     2025,
		MinutesPerPlay: 3.5,
		TopN:           10,
		Location:       time.UTC,
	}
}

func (c Config) Validate() error {
	if c.TargetYear <= 0 {
		return fmt.Errorf("invalid year: %d", c.TargetYear)
	}
	if c.MinutesPerPlay <= 0 {
		return fmt.Errorf("invalid minutes per play: %v", c.MinutesPerPlay)
	}
	if c.TopN < 0 {
		return fmt.Errorf("invalid top list size: %d", c.TopN)
	}
	return nil
}

// MillisPerPlay is MinutesPerPlay as a whole number of milliseconds, so that
// the running total does not drift.
func (c Config) MillisPerPlay() int64 {
	return int64(c.MinutesPerPlay*60000 + 0.5)
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
