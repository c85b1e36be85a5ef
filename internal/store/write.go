package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

// CreateUser ensures a user exists in the database.
func (s *Store) CreateUser(user string) error {
	row := s.db.QueryRow("SELECT name FROM User WHERE name = ?", user)
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		_, err := s.db.Exec("INSERT INTO User (name) VALUES (?)", user)
		if err != nil {
			return fmt.Errorf("inserting user %q: %w", user, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking user %q: %w", user, err)
	}
	return nil
}

func (s *Store) SetLastImported(user string, imported time.Time) error {
	_, err := s.db.Exec("UPDATE User SET last_imported = ? WHERE name = ?", imported, user)
	if err != nil {
		return fmt.Errorf("updating last_imported for %q: %w", user, err)
	}
	return nil
}

// AddPlays inserts a batch of plays transactionally and returns how many were
// new. A play already stored for the user with the same time, title and
// artist is skipped.
func (s *Store) AddPlays(user string, plays []analysis.Play) (int, error) {
	added := 0
	err := withRetry(func() error {
		var err error
		added, err = s.addPlays(user, plays)
		return err
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

func (s *Store) addPlays(user string, plays []analysis.Play) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO Play (user, date, title, artist) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, p := range plays {
		res, err := stmt.Exec(user, p.Timestamp.UnixMilli(), p.Title, p.Artist)
		if err != nil {
			return 0, fmt.Errorf("inserting play %q: %w", p.Title, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("counting inserted rows: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return added, nil
}

// SaveReport stores report as the user's report for its year, replacing any
// earlier one.
func (s *Store) SaveReport(user string, report *analysis.Report, generated time.Time) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return withRetry(func() error {
		_, err := s.db.Exec(
			"INSERT OR REPLACE INTO Report (user, year, generated, total_songs, body) VALUES (?, ?, ?, ?, ?)",
			user, report.Year, generated.UTC(), report.TotalSongs, string(body))
		if err != nil {
			return fmt.Errorf("saving report for %q (%d): %w", user, report.Year, err)
		}
		return nil
	})
}

// DeleteReport removes the user's report for year. It is not an error if
// there is none.
func (s *Store) DeleteReport(user string, year int) error {
	_, err := s.db.Exec("DELETE FROM Report WHERE user = ? AND year = ?", user, year)
	if err != nil {
		return fmt.Errorf("deleting report for %q (%d): %w", user, year, err)
	}
	return nil
}

// SaveArtwork records an image URL for an artist, or for one of their tracks
// when track is non-empty.
func (s *Store) SaveArtwork(artist, track, url, source string, fetched time.Time) error {
	return withRetry(func() error {
		_, err := s.db.Exec(
			"INSERT OR REPLACE INTO Artwork (artist, track, url, source, fetched) VALUES (?, ?, ?, ?, ?)",
			artist, track, url, source, fetched.UTC())
		if err != nil {
			return fmt.Errorf("saving artwork for %q: %w", artist, err)
		}
		return nil
	})
}
