package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

// ErrNoReport is returned when no report was saved for the user and year.
var ErrNoReport = errors.New("no saved report")

// ReportSummary describes a saved report without decoding it.
type ReportSummary struct {
	User       string
	Year       int
	Generated  time.Time
	TotalSongs int
}

// Artwork is a cached image lookup.
type Artwork struct {
	URL     string
	Source  string
	Fetched time.Time
}

func (s *Store) GetLastImported(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_imported FROM User WHERE name = ?", user)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last imported: %w", err)
	}
	return t.Time, nil
}

// GetPlaysInRange returns the user's plays in [start, end) in the order they
// were imported.
func (s *Store) GetPlaysInRange(user string, start, end time.Time) ([]analysis.Play, error) {
	query := `
		SELECT date, title, artist
		FROM Play
		WHERE user = ?
		AND date >= ?
		AND date < ?
		ORDER BY id ASC
	`
	rows, err := s.db.Query(query, user, start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("querying plays: %w", err)
	}
	defer rows.Close()

	var plays []analysis.Play
	for rows.Next() {
		var millis int64
		var p analysis.Play
		if err := rows.Scan(&millis, &p.Title, &p.Artist); err != nil {
			return nil, err
		}
		p.Timestamp = time.UnixMilli(millis).UTC()
		plays = append(plays, p)
	}
	return plays, rows.Err()
}

// GetPlaysInYear returns the user's plays during year in loc.
func (s *Store) GetPlaysInYear(user string, year int, loc *time.Location) ([]analysis.Play, error) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	return s.GetPlaysInRange(user, start, start.AddDate(1, 0, 0))
}

func (s *Store) CountPlays(user string) (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM Play WHERE user = ?", user).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting plays: %w", err)
	}
	return count, nil
}

// GetReport decodes the user's saved report for year.
func (s *Store) GetReport(user string, year int) (*analysis.Report, time.Time, error) {
	row := s.db.QueryRow("SELECT generated, body FROM Report WHERE user = ? AND year = ?", user, year)
	var generated time.Time
	var body string
	err := row.Scan(&generated, &body)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, ErrNoReport
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("getting report: %w", err)
	}

	var report analysis.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding report for %q (%d): %w", user, year, err)
	}
	return &report, generated, nil
}

// ListReports returns saved reports, newest year first. An empty user lists
// every user's reports.
func (s *Store) ListReports(user string) ([]ReportSummary, error) {
	query := "SELECT user, year, generated, total_songs FROM Report"
	var args []any
	if user != "" {
		query += " WHERE user = ?"
		args = append(args, user)
	}
	query += " ORDER BY user ASC, year DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []ReportSummary
	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.User, &r.Year, &r.Generated, &r.TotalSongs); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// GetArtwork returns the cached lookup for artist and track, if one exists
// and was fetched after notBefore.
func (s *Store) GetArtwork(artist, track string, notBefore time.Time) (Artwork, bool, error) {
	row := s.db.QueryRow(
		"SELECT url, source, fetched FROM Artwork WHERE artist = ? AND track = ? AND fetched >= ?",
		artist, track, notBefore.UTC())
	var a Artwork
	err := row.Scan(&a.URL, &a.Source, &a.Fetched)
	if err == sql.ErrNoRows {
		return Artwork{}, false, nil
	}
	if err != nil {
		return Artwork{}, false, fmt.Errorf("getting artwork for %q: %w", artist, err)
	}
	return a, true, nil
}
