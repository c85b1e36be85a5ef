package store

import (
	"fmt"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

// GetTopArtistsWithCount ranks artists by plays in [start, end). Ties keep the
// order the artists were first imported in.
func (s *Store) GetTopArtistsWithCount(user string, start, end time.Time, limit int) ([]analysis.ArtistStat, error) {
	query := `
	SELECT artist, COUNT(id)
	FROM Play
	WHERE user = ?
	AND date >= ? AND date < ?
	GROUP BY artist
	ORDER BY COUNT(*) DESC, MIN(id) ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, user, start.UnixMilli(), end.UnixMilli(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying top artists: %w", err)
	}
	defer rows.Close()

	results := []analysis.ArtistStat{}
	for rows.Next() {
		var a analysis.ArtistStat
		if err := rows.Scan(&a.Name, &a.Count); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// GetTopSongsWithCount ranks (title, artist) pairs by plays in [start, end).
func (s *Store) GetTopSongsWithCount(user string, start, end time.Time, limit int) ([]analysis.SongStat, error) {
	query := `
	SELECT title, artist, COUNT(id)
	FROM Play
	WHERE user = ?
	AND date >= ? AND date < ?
	GROUP BY title, artist
	ORDER BY COUNT(*) DESC, MIN(id) ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, user, start.UnixMilli(), end.UnixMilli(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying top songs: %w", err)
	}
	defer rows.Close()

	results := []analysis.SongStat{}
	for rows.Next() {
		var song analysis.SongStat
		if err := rows.Scan(&song.Name, &song.Artist, &song.Count); err != nil {
			return nil, err
		}
		results = append(results, song)
	}
	return results, rows.Err()
}

// GetNewArtists returns the artists first played in [start, end), with their
// plays in that period. limit <= 0 returns all of them.
func (s *Store) GetNewArtists(user string, start, end time.Time, limit int) ([]analysis.ArtistStat, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
	SELECT artist, COUNT(id)
	FROM Play
	WHERE user = ?
	AND date >= ? AND date < ?
	AND artist NOT IN (
		SELECT artist FROM Play WHERE user = ? AND date < ?
	)
	GROUP BY artist
	ORDER BY COUNT(*) DESC, MIN(id) ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, user, start.UnixMilli(), end.UnixMilli(), user, start.UnixMilli(), limit)
	if err != nil {
		return nil, fmt.Errorf("querying new artists: %w", err)
	}
	defer rows.Close()

	results := []analysis.ArtistStat{}
	for rows.Next() {
		var a analysis.ArtistStat
		if err := rows.Scan(&a.Name, &a.Count); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}
