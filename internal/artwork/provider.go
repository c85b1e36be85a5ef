package artwork

import (
	"context"
	"fmt"
	"time"
)

// FallbackImage is shown when no artwork could be found.
const FallbackImage = "https://img.icons8.com/ios-filled/500/222222/vinyl-record.png"

// Provider looks up cover art. A lookup that finds nothing returns "" and a
// nil error; errors are reserved for transport or API failures.
type Provider interface {
	ArtistImage(ctx context.Context, artist string) (string, error)
	TrackImage(ctx context.Context, artist, track string) (string, error)
	Name() string
}

// Options configures NewProvider.
type Options struct {
	Source    string // "itunes", "lastfm" or "none"
	BaseURL   string
	APIKey    string
	Secret    string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
	Every     time.Duration // minimum spacing between upstream requests
}

func DefaultOptions() Options {
	return Options{
		Source:    "itunes",
		Timeout:   10 * time.Second,
		CacheSize: 512,
		CacheTTL:  24 * time.Hour,
		Every:     200 * time.Millisecond,
	}
}

// NewProvider builds a rate-limited, cached provider for opts.Source. It
// returns nil for "none".
func NewProvider(opts Options) (Provider, error) {
	var p Provider
	switch opts.Source {
	case "itunes":
		p = NewITunes(opts.BaseURL, opts.Timeout)
	case "lastfm":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("lastfm artwork needs an api_key")
		}
		p = NewLastFM(opts.APIKey, opts.Secret)
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown artwork source: %s", opts.Source)
	}
	return NewCached(NewRateLimited(p, opts.Every, 1), opts.CacheSize, opts.CacheTTL), nil
}
