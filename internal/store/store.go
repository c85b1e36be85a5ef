package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/mattn/go-sqlite3"
)

// Store keeps imported plays, generated reports and looked-up artwork in a
// SQLite file.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isBusy(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrBusy || serr.Code == sqlite3.ErrLocked
	}
	return false
}

// withRetry runs fn again while another connection holds the database lock.
// The error is fn's last one.
func withRetry(fn func() error) error {
	var last error
	err := retry.Do(
		func() error {
			last = fn()
			return last
		},
		retry.Attempts(5),
		retry.Delay(50*time.Millisecond),
		retry.RetryIf(isBusy),
	)
	if err != nil {
		return last
	}
	return nil
}
