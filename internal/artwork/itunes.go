package artwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// iTunes Search API: https://performance-partners.apple.com/search-api
// No key; /search?term=<q>&entity=album|song&limit=1

type ITunes struct {
	baseURL string
	client  *http.Client
}

type itunesResp struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		ArtworkURL100 string `json:"artworkUrl100"`
	} `json:"results"`
}

func NewITunes(baseURL string, timeout time.Duration) *ITunes {
	if baseURL == "" {
		baseURL = "https://itunes.apple.com"
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &ITunes{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

func (c *ITunes) Name() string { return "itunes" }

// ArtistImage uses the cover of the artist's top album.
func (c *ITunes) ArtistImage(ctx context.Context, artist string) (string, error) {
	if artist == "" {
		return "", nil
	}
	return c.search(ctx, artist, "album")
}

// TrackImage falls back to the artist's image when the song is not found.
func (c *ITunes) TrackImage(ctx context.Context, artist, track string) (string, error) {
	if track == "" {
		return "", nil
	}
	img, err := c.search(ctx, artist+" "+track, "song")
	if err != nil || img != "" {
		return img, err
	}
	return c.ArtistImage(ctx, artist)
}

func (c *ITunes) search(ctx context.Context, term, entity string) (string, error) {
	q := url.Values{}
	q.Set("term", term)
	q.Set("entity", entity)
	q.Set("limit", "1")

	u := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("itunes: rate limited (%d)", resp.StatusCode)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("itunes: http %d", resp.StatusCode)
	}

	var data itunesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("itunes: decoding response: %w", err)
	}
	if len(data.Results) == 0 || data.Results[0].ArtworkURL100 == "" {
		return "", nil
	}
	return HighRes(data.Results[0].ArtworkURL100), nil
}

// HighRes rewrites a 100px iTunes artwork URL to its 600px variant.
func HighRes(u string) string {
	return strings.Replace(u, "100x100bb", "600x600bb", 1)
}
