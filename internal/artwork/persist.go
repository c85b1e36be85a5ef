package artwork

import (
	"context"
	"time"

	"github.com/ademuri/ytm-wrapped/internal/store"
)

// Persisted keeps lookups in the play database so they survive restarts.
// Lookups older than MaxAge are fetched again.
type Persisted struct {
	Provider
	DB     *store.Store
	MaxAge time.Duration
	now    func() time.Time
}

func NewPersisted(p Provider, db *store.Store, maxAge time.Duration) *Persisted {
	return &Persisted{Provider: p, DB: db, MaxAge: maxAge, now: time.Now}
}

func (p *Persisted) ArtistImage(ctx context.Context, artist string) (string, error) {
	return p.lookup(artist, "", func() (string, error) {
		return p.Provider.ArtistImage(ctx, artist)
	})
}

func (p *Persisted) TrackImage(ctx context.Context, artist, track string) (string, error) {
	return p.lookup(artist, track, func() (string, error) {
		return p.Provider.TrackImage(ctx, artist, track)
	})
}

func (p *Persisted) lookup(artist, track string, fetch func() (string, error)) (string, error) {
	now := p.now()
	saved, ok, err := p.DB.GetArtwork(artist, track, now.Add(-p.MaxAge))
	if err != nil {
		return "", err
	}
	if ok {
		return saved.URL, nil
	}

	url, err := fetch()
	if err != nil {
		return "", err
	}
	if err := p.DB.SaveArtwork(artist, track, url, p.Name(), now); err != nil {
		return "", err
	}
	return url, nil
}
