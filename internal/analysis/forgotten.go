package analysis

import (
	"sort"
	"time"
)

// ListenStats summarizes every stored play of one artist, or of one song when
// Title is set.
type ListenStats struct {
	Artist    string
	Title     string
	Plays     int64
	FirstPlay time.Time
	LastPlay  time.Time
}

type ForgottenConfig struct {
	LastPlayedAfter   time.Time
	LastPlayedBefore  time.Time
	FirstPlayedAfter  time.Time
	FirstPlayedBefore time.Time
	MinArtistPlays    int
	MinSongPlays      int
	ResultsPerBand    int
	SortBy            string // "dormancy" or "plays"
}

// DefaultForgottenConfig looks for music not played in the 90 days before now.
func DefaultForgottenConfig(now time.Time) ForgottenConfig {
	return ForgottenConfig{
		LastPlayedAfter:   time.Unix(0, 0),
		LastPlayedBefore:  now.AddDate(0, 0, -90),
		FirstPlayedAfter:  time.Unix(0, 0),
		FirstPlayedBefore: now,
		MinArtistPlays:    ThresholdArtistModerate,
		MinSongPlays:      ThresholdSongModerate,
		ResultsPerBand:    10,
		SortBy:            SortByDormancy,
	}
}

// Forgotten is an artist or song that dropped out of rotation.
type Forgotten struct {
	ListenStats
	DaysSinceLast int
	Band          string
}

const (
	SortByDormancy = "dormancy"
	SortByPlays    = "plays"
)

const (
	BandObsession = "Obsession"
	BandStrong    = "Strong"
	BandModerate  = "Moderate"

	ThresholdArtistObsession = 120
	ThresholdArtistStrong    = 50
	ThresholdArtistModerate  = 15

	ThresholdSongObsession = 40
	ThresholdSongStrong    = 20
	ThresholdSongModerate  = 8
)

// Bands lists interest bands from strongest to weakest.
var Bands = []string{BandObsession, BandStrong, BandModerate}

// GetThreshold returns the minimum plays for a band.
func GetThreshold(band string, isArtist bool) int {
	if isArtist {
		switch band {
		case BandObsession:
			return ThresholdArtistObsession
		case BandStrong:
			return ThresholdArtistStrong
		case BandModerate:
			return ThresholdArtistModerate
		}
	} else {
		switch band {
		case BandObsession:
			return ThresholdSongObsession
		case BandStrong:
			return ThresholdSongStrong
		case BandModerate:
			return ThresholdSongModerate
		}
	}
	return 0
}

func determineBand(plays int64, isArtist bool) string {
	for _, band := range Bands {
		if plays >= int64(GetThreshold(band, isArtist)) {
			return band
		}
	}
	return ""
}

// GroupForgotten sorts stats into interest bands, drops anything below the
// weakest band, and keeps at most cfg.ResultsPerBand entries per band.
func GroupForgotten(stats []ListenStats, isArtist bool, cfg ForgottenConfig, now time.Time) map[string][]Forgotten {
	results := make(map[string][]Forgotten)

	for _, s := range stats {
		f := Forgotten{
			ListenStats:   s,
			DaysSinceLast: int(now.Sub(s.LastPlay).Hours() / 24),
			Band:          determineBand(s.Plays, isArtist),
		}
		if f.Band == "" {
			continue
		}
		results[f.Band] = append(results[f.Band], f)
	}

	for band := range results {
		sortForgotten(results[band], cfg.SortBy)
		if cfg.ResultsPerBand > 0 && len(results[band]) > cfg.ResultsPerBand {
			results[band] = results[band][:cfg.ResultsPerBand]
		}
	}

	return results
}

func sortForgotten(items []Forgotten, sortBy string) {
	sort.SliceStable(items, func(i, j int) bool {
		if sortBy == SortByPlays {
			return items[i].Plays > items[j].Plays
		}
		// Longest dormancy first.
		return items[i].LastPlay.Before(items[j].LastPlay)
	})
}
