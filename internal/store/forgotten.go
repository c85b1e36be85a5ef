package store

import (
	"fmt"
	"math"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

type ForgottenQueryOptions struct {
	MinPlays          int
	LastPlayedAfter   time.Time
	LastPlayedBefore  time.Time
	FirstPlayedAfter  time.Time
	FirstPlayedBefore time.Time
}

func forgottenOptions(cfg analysis.ForgottenConfig, minPlays int) ForgottenQueryOptions {
	return ForgottenQueryOptions{
		MinPlays:          minPlays,
		LastPlayedAfter:   cfg.LastPlayedAfter,
		LastPlayedBefore:  cfg.LastPlayedBefore,
		FirstPlayedAfter:  cfg.FirstPlayedAfter,
		FirstPlayedBefore: cfg.FirstPlayedBefore,
	}
}

// bounds converts the options to millisecond query arguments. A zero upper
// bound is unbounded.
func (o ForgottenQueryOptions) bounds() []any {
	before := func(t time.Time) int64 {
		if t.IsZero() {
			return math.MaxInt64
		}
		return t.UnixMilli()
	}
	return []any{o.MinPlays, o.LastPlayedAfter.UnixMilli(), before(o.LastPlayedBefore),
		o.FirstPlayedAfter.UnixMilli(), before(o.FirstPlayedBefore)}
}

// GetForgottenArtists returns play statistics for every artist whose first
// and last plays fall in the option ranges.
func (s *Store) GetForgottenArtists(user string, opts ForgottenQueryOptions) ([]analysis.ListenStats, error) {
	query := `
		SELECT
			artist,
			'' as title,
			COUNT(*) as total_plays,
			MIN(date) as first_play,
			MAX(date) as last_play
		FROM Play
		WHERE user = ?
		GROUP BY artist
		HAVING total_plays >= ? AND last_play >= ? AND last_play <= ? AND first_play >= ? AND first_play <= ?
		ORDER BY MIN(id)
	`
	return s.queryListenStats(query, user, opts)
}

// GetForgottenSongs is GetForgottenArtists for individual songs.
func (s *Store) GetForgottenSongs(user string, opts ForgottenQueryOptions) ([]analysis.ListenStats, error) {
	query := `
		SELECT
			artist,
			title,
			COUNT(*) as total_plays,
			MIN(date) as first_play,
			MAX(date) as last_play
		FROM Play
		WHERE user = ?
		GROUP BY artist, title
		HAVING total_plays >= ? AND last_play >= ? AND last_play <= ? AND first_play >= ? AND first_play <= ?
		ORDER BY MIN(id)
	`
	return s.queryListenStats(query, user, opts)
}

// Forgotten runs both queries for cfg and groups the results into bands.
func (s *Store) Forgotten(user string, cfg analysis.ForgottenConfig, now time.Time) (artists, songs map[string][]analysis.Forgotten, err error) {
	artistStats, err := s.GetForgottenArtists(user, forgottenOptions(cfg, cfg.MinArtistPlays))
	if err != nil {
		return nil, nil, err
	}
	songStats, err := s.GetForgottenSongs(user, forgottenOptions(cfg, cfg.MinSongPlays))
	if err != nil {
		return nil, nil, err
	}
	return analysis.GroupForgotten(artistStats, true, cfg, now), analysis.GroupForgotten(songStats, false, cfg, now), nil
}

func (s *Store) queryListenStats(query, user string, opts ForgottenQueryOptions) ([]analysis.ListenStats, error) {
	args := append([]any{user}, opts.bounds()...)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying forgotten music: %w", err)
	}
	defer rows.Close()

	var stats []analysis.ListenStats
	for rows.Next() {
		var a analysis.ListenStats
		var first, last int64
		if err := rows.Scan(&a.Artist, &a.Title, &a.Plays, &first, &last); err != nil {
			return nil, err
		}
		a.FirstPlay = time.UnixMilli(first).UTC()
		a.LastPlay = time.UnixMilli(last).UTC()
		stats = append(stats, a)
	}
	return stats, rows.Err()
}
