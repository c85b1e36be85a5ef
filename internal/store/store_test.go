package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

func createTestDb(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "wrapped.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New(%s) error: %v", dbPath, err)
	}

	return store
}

func play(t *testing.T, ts, title, artist string) analysis.Play {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("time.Parse(%q): %v", ts, err)
	}
	return analysis.Play{Timestamp: parsed, Title: title, Artist: artist}
}

func TestMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "wrapped.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	version, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() error: %v", err)
	}
	if version != 2 {
		t.Errorf("expected schema version 2, got %d", version)
	}
	s.Close()

	// Reopening an up-to-date database is a no-op.
	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	s.Close()
}

func TestCreateUser(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	err := s.CreateUser(user)
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}

	// Idempotency
	err = s.CreateUser(user)
	if err != nil {
		t.Fatalf("CreateUser(%q) error: %v", user, err)
	}
}

func TestAddPlays(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	if err := s.CreateUser(user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	plays := []analysis.Play{
		play(t, "2025-03-05T20:00:00Z", "Song A", "Artist X"),
		play(t, "2025-03-05T20:10:00Z", "Song A", "Artist X"),
		play(t, "2024-01-01T10:00:00Z", "Song B", "Artist Y"),
	}

	added, err := s.AddPlays(user, plays)
	if err != nil {
		t.Fatalf("AddPlays failed: %v", err)
	}
	if added != 3 {
		t.Errorf("Expected 3 new plays, got %d", added)
	}

	// Importing the same export again adds nothing.
	added, err = s.AddPlays(user, plays)
	if err != nil {
		t.Fatalf("AddPlays (repeat) failed: %v", err)
	}
	if added != 0 {
		t.Errorf("Expected 0 new plays after repeat, got %d", added)
	}

	count, err := s.CountPlays(user)
	if err != nil {
		t.Fatalf("CountPlays: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3 plays, got %d", count)
	}
}

func TestGetPlaysInYear(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	s.CreateUser(user)
	plays := []analysis.Play{
		play(t, "2025-06-01T12:00:00Z", "Second", "A"),
		play(t, "2025-01-01T00:00:00Z", "First", "A"),
		play(t, "2024-12-31T23:59:59Z", "Old", "A"),
		play(t, "2026-01-01T00:00:00Z", "New", "A"),
	}
	if _, err := s.AddPlays(user, plays); err != nil {
		t.Fatalf("AddPlays: %v", err)
	}
	if _, err := s.AddPlays("someone else", plays[:1]); err == nil {
		t.Errorf("expected plays for an unknown user to be rejected")
	}

	got, err := s.GetPlaysInYear(user, 2025, time.UTC)
	if err != nil {
		t.Fatalf("GetPlaysInYear: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 plays, got %v", got)
	}
	// Import order is kept so reports built from the store tie-break the
	// same way as reports built from the export.
	if got[0].Title != "Second" || got[1].Title != "First" {
		t.Errorf("unexpected order: %v", got)
	}
	if !got[1].Timestamp.Equal(plays[1].Timestamp) {
		t.Errorf("timestamp changed on the way through: %v", got[1].Timestamp)
	}

	tokyo := time.FixedZone("JST", 9*60*60)
	got, err = s.GetPlaysInYear(user, 2025, tokyo)
	if err != nil {
		t.Fatalf("GetPlaysInYear: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("Expected the 2024-12-31 play to fall in 2025 in Tokyo, got %v", got)
	}
}

func TestReports(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	user := "testuser"
	s.CreateUser(user)

	if _, _, err := s.GetReport(user, 2025); !errors.Is(err, ErrNoReport) {
		t.Fatalf("expected ErrNoReport, got %v", err)
	}

	report := analysis.GenerateReportFromPlays([]analysis.Play{
		play(t, "2025-03-05T20:00:00Z", "Song A", "Artist X"),
	}, analysis.DefaultConfig())
	generated := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	if err := s.SaveReport(user, report, generated); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	got, when, err := s.GetReport(user, 2025)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if !when.Equal(generated) {
		t.Errorf("expected generated %v, got %v", generated, when)
	}
	if got.TotalSongs != 1 || got.TopSongs[0].Name != "Song A" || got.MonthlyStats[2].TopArtist != "Artist X" {
		t.Errorf("report did not survive storage: %+v", got)
	}

	// Saving again replaces the report for the year.
	report.TotalSongs = 5
	if err := s.SaveReport(user, report, generated.Add(time.Hour)); err != nil {
		t.Fatalf("SaveReport (replace): %v", err)
	}
	list, err := s.ListReports(user)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(list) != 1 || list[0].TotalSongs != 5 || list[0].Year != 2025 {
		t.Errorf("unexpected reports: %+v", list)
	}

	if err := s.DeleteReport(user, 2025); err != nil {
		t.Fatalf("DeleteReport: %v", err)
	}
	list, err = s.ListReports("")
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected no reports, got %+v", list)
	}
}

func TestArtwork(t *testing.T) {
	s := createTestDb(t)
	defer s.Close()

	fetched := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SaveArtwork("Artist", "", "https://img/artist.jpg", "itunes", fetched); err != nil {
		t.Fatalf("SaveArtwork: %v", err)
	}

	a, ok, err := s.GetArtwork("Artist", "", fetched.AddDate(0, 0, -1))
	if err != nil || !ok {
		t.Fatalf("GetArtwork: %v, %v", ok, err)
	}
	if a.URL != "https://img/artist.jpg" || a.Source != "itunes" {
		t.Errorf("unexpected artwork: %+v", a)
	}

	if _, ok, _ := s.GetArtwork("Artist", "", fetched.AddDate(0, 0, 1)); ok {
		t.Errorf("expected stale artwork to be ignored")
	}
	if _, ok, _ := s.GetArtwork("Artist", "Track", time.Time{}); ok {
		t.Errorf("expected no track artwork")
	}
}
