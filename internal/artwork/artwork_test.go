package artwork

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ademuri/lastfm-go/lastfm"

	"github.com/ademuri/ytm-wrapped/internal/store"
)

func newITunesServer(t *testing.T, results map[string]string) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.URL.Query().Get("limit") != "1" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		key := r.URL.Query().Get("entity") + ":" + r.URL.Query().Get("term")
		mu.Lock()
		queries = append(queries, key)
		mu.Unlock()

		if key == "album:broken" {
			http.Error(w, "oops", http.StatusInternalServerError)
			return
		}
		art, ok := results[key]
		if !ok {
			fmt.Fprint(w, `{"resultCount": 0, "results": []}`)
			return
		}
		fmt.Fprintf(w, `{"resultCount": 1, "results": [{"artworkUrl100": %q}]}`, art)
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func TestITunesArtistImage(t *testing.T) {
	srv, _ := newITunesServer(t, map[string]string{
		"album:Artist X": "https://is1.example/img/100x100bb.jpg",
	})
	c := NewITunes(srv.URL, time.Second)

	got, err := c.ArtistImage(context.Background(), "Artist X")
	if err != nil {
		t.Fatalf("ArtistImage: %v", err)
	}
	if got != "https://is1.example/img/600x600bb.jpg" {
		t.Errorf("expected the high-res URL, got %q", got)
	}

	got, err = c.ArtistImage(context.Background(), "Nobody")
	if err != nil || got != "" {
		t.Errorf("expected no image, got %q, %v", got, err)
	}

	if _, err := c.ArtistImage(context.Background(), "broken"); err == nil || !strings.Contains(err.Error(), "http 500") {
		t.Errorf("expected an http error, got %v", err)
	}
}

func TestITunesTrackImageFallsBackToArtist(t *testing.T) {
	srv, queries := newITunesServer(t, map[string]string{
		"song:Artist X Song A": "https://is1.example/song/100x100bb.jpg",
		"album:Artist X":       "https://is1.example/album/100x100bb.jpg",
	})
	c := NewITunes(srv.URL, time.Second)
	ctx := context.Background()

	got, err := c.TrackImage(ctx, "Artist X", "Song A")
	if err != nil || got != "https://is1.example/song/600x600bb.jpg" {
		t.Errorf("unexpected track image %q, %v", got, err)
	}

	got, err = c.TrackImage(ctx, "Artist X", "Unknown Song")
	if err != nil || got != "https://is1.example/album/600x600bb.jpg" {
		t.Errorf("expected artist fallback, got %q, %v", got, err)
	}
	if want := []string{"song:Artist X Song A", "song:Artist X Unknown Song", "album:Artist X"}; strings.Join(*queries, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected queries: %v", *queries)
	}

	if got, _ := c.TrackImage(ctx, "Artist X", ""); got != "" {
		t.Errorf("expected no lookup for an empty track, got %q", got)
	}
}

func TestLastFMNotFound(t *testing.T) {
	calls := 0
	l := &LastFM{
		artistInfo: func(p lastfm.P) (lastfm.ArtistGetInfo, error) {
			calls++
			if p["artist"] != "Nobody" {
				t.Errorf("unexpected params %v", p)
			}
			return lastfm.ArtistGetInfo{}, &lastfm.LastfmError{Code: lastfmNotFound}
		},
	}
	got, err := l.ArtistImage(context.Background(), "Nobody")
	if err != nil || got != "" {
		t.Errorf("expected not found to be empty, got %q, %v", got, err)
	}
	if calls != 1 {
		t.Errorf("expected one lookup, got %d calls", calls)
	}
}

func TestLastFMReturnsServerErrors(t *testing.T) {
	calls := 0
	l := &LastFM{
		artistInfo: func(p lastfm.P) (lastfm.ArtistGetInfo, error) {
			calls++
			return lastfm.ArtistGetInfo{}, &lastfm.LastfmError{Code: 500}
		},
	}
	_, err := l.ArtistImage(context.Background(), "Artist")
	var lerr *lastfm.LastfmError
	if !errors.As(err, &lerr) || lerr.Code != 500 {
		t.Errorf("expected the last.fm error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestLastFMTrackFallsBackToArtist(t *testing.T) {
	var artists []string
	l := &LastFM{
		artistInfo: func(p lastfm.P) (lastfm.ArtistGetInfo, error) {
			artists = append(artists, p["artist"].(string))
			return lastfm.ArtistGetInfo{}, nil
		},
		trackInfo: func(p lastfm.P) (lastfm.TrackGetInfo, error) {
			return lastfm.TrackGetInfo{}, &lastfm.LastfmError{Code: lastfmNotFound}
		},
	}
	got, err := l.TrackImage(context.Background(), "Artist", "Song")
	if err != nil || got != "" {
		t.Errorf("expected empty result, got %q, %v", got, err)
	}
	if len(artists) != 1 || artists[0] != "Artist" {
		t.Errorf("expected an artist lookup, got %v", artists)
	}
}

func TestPickImage(t *testing.T) {
	images := []lastfmImage{
		{Size: "small", Url: "https://img/s.png"},
		{Size: "extralarge", Url: "https://img/" + lastfmPlaceholder + ".png"},
		{Size: "large", Url: "https://img/l.png"},
	}
	if got := pickImage(images); got != "https://img/l.png" {
		t.Errorf("expected the largest real image, got %q", got)
	}
	if got := pickImage(nil); got != "" {
		t.Errorf("expected no image, got %q", got)
	}
}

type fakeProvider struct {
	calls int
	err   error
}

func (f *fakeProvider) ArtistImage(ctx context.Context, artist string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if artist == "Nobody" {
		return "", nil
	}
	return "img:" + artist, nil
}

func (f *fakeProvider) TrackImage(ctx context.Context, artist, track string) (string, error) {
	f.calls++
	return "img:" + artist + "/" + track, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestCached(t *testing.T) {
	fake := &fakeProvider{}
	c := NewCached(fake, 2, time.Hour)
	var results []string
	c.OnLookup = func(source, result string) { results = append(results, source+":"+result) }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if got, _ := c.ArtistImage(ctx, "A"); got != "img:A" {
			t.Fatalf("unexpected image %q", got)
		}
	}
	if got, _ := c.ArtistImage(ctx, "Nobody"); got != "" {
		t.Fatalf("unexpected image %q", got)
	}
	c.ArtistImage(ctx, "Nobody")
	if fake.calls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", fake.calls)
	}
	if strings.Join(results, ",") != "fake:miss,fake:hit,fake:hit,fake:miss,fake:hit" {
		t.Errorf("unexpected lookup results: %v", results)
	}

	// Artist and track lookups do not collide.
	if got, _ := c.TrackImage(ctx, "A", "B"); got != "img:A/B" {
		t.Errorf("unexpected track image %q", got)
	}
	if c.cache.size() != 2 {
		t.Errorf("expected the cache to hold 2 entries, got %d", c.cache.size())
	}

	fake.err = errors.New("down")
	if _, err := c.ArtistImage(ctx, "C"); err == nil {
		t.Errorf("expected the provider error")
	}
	fake.err = nil
	if got, _ := c.ArtistImage(ctx, "C"); got != "img:C" {
		t.Errorf("errors should not be cached, got %q", got)
	}
}

func TestLRUExpiryAndEviction(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := newLRU(2, time.Minute)
	c.now = func() time.Time { return now }

	c.set("a", "1")
	c.set("b", "2")
	c.get("a")
	c.set("c", "3")
	if _, ok := c.get("b"); ok {
		t.Errorf("expected b to be evicted as least recently used")
	}
	if v, ok := c.get("a"); !ok || v != "1" {
		t.Errorf("expected a to survive")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.get("a"); ok {
		t.Errorf("expected a to expire")
	}
	if c.size() != 1 {
		t.Errorf("expected only c left, got %d", c.size())
	}
}

func TestRateLimitedRespectsContext(t *testing.T) {
	fake := &fakeProvider{}
	r := NewRateLimited(fake, time.Hour, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := r.ArtistImage(ctx, "A"); err != nil {
		t.Fatalf("first lookup should use the burst: %v", err)
	}
	cancel()
	if _, err := r.ArtistImage(ctx, "B"); err == nil {
		t.Errorf("expected the cancelled wait to fail")
	}
	if fake.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", fake.calls)
	}
}

func TestPersisted(t *testing.T) {
	db, err := store.New(filepath.Join(t.TempDir(), "wrapped.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	defer db.Close()

	fake := &fakeProvider{}
	p := NewPersisted(fake, db, 24*time.Hour)
	now := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if got, err := p.ArtistImage(ctx, "A"); err != nil || got != "img:A" {
			t.Fatalf("ArtistImage: %q, %v", got, err)
		}
	}
	if fake.calls != 1 {
		t.Errorf("expected the second lookup to come from the database, got %d calls", fake.calls)
	}

	now = now.Add(48 * time.Hour)
	p.ArtistImage(ctx, "A")
	if fake.calls != 2 {
		t.Errorf("expected a stale lookup to be refetched, got %d calls", fake.calls)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(Options{Source: "none"})
	if err != nil || p != nil {
		t.Errorf("expected no provider for none, got %v, %v", p, err)
	}
	if _, err := NewProvider(Options{Source: "lastfm"}); err == nil {
		t.Errorf("expected lastfm without a key to fail")
	}
	if _, err := NewProvider(Options{Source: "spotify"}); err == nil {
		t.Errorf("expected an unknown source to fail")
	}
	p, err = NewProvider(DefaultOptions())
	if err != nil || p.Name() != "itunes" {
		t.Errorf("expected an itunes provider, got %v, %v", p, err)
	}
}
