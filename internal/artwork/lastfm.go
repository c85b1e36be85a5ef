package artwork

import (
	"context"
	"errors"
	"strings"

	"github.com/ademuri/lastfm-go/lastfm"
)

// last.fm error code for an unknown artist or track.
const lastfmNotFound = 6

// Served by last.fm for artists that have no picture.
const lastfmPlaceholder = "2a96cbd8b46e442fc41c2b86b821562f"

var imageSizes = []string{"mega", "extralarge", "large", "medium", "small"}

type lastfmImage struct {
	Size string
	Url  string
}

type LastFM struct {
	artistInfo func(lastfm.P) (lastfm.ArtistGetInfo, error)
	trackInfo  func(lastfm.P) (lastfm.TrackGetInfo, error)
}

func NewLastFM(apiKey, secret string) *LastFM {
	client := lastfm.New(apiKey, secret)
	return &LastFM{
		artistInfo: func(p lastfm.P) (lastfm.ArtistGetInfo, error) { return client.Artist.GetInfo(p) },
		trackInfo:  func(p lastfm.P) (lastfm.TrackGetInfo, error) { return client.Track.GetInfo(p) },
	}
}

func (l *LastFM) Name() string { return "lastfm" }

func (l *LastFM) ArtistImage(ctx context.Context, artist string) (string, error) {
	if artist == "" {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := l.artistInfo(lastfm.P{
		"artist":      artist,
		"autocorrect": 1,
	})
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	images := make([]lastfmImage, 0, len(info.Images))
	for _, img := range info.Images {
		images = append(images, lastfmImage{Size: img.Size, Url: img.Url})
	}
	return pickImage(images), nil
}

// TrackImage uses the cover of the track's album, then the artist's image.
func (l *LastFM) TrackImage(ctx context.Context, artist, track string) (string, error) {
	if track == "" {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := l.trackInfo(lastfm.P{
		"artist":      artist,
		"track":       track,
		"autocorrect": 1,
	})
	if err != nil && !isNotFound(err) {
		return "", err
	}

	images := make([]lastfmImage, 0, len(info.Album.Images))
	for _, img := range info.Album.Images {
		images = append(images, lastfmImage{Size: img.Size, Url: img.Url})
	}
	if img := pickImage(images); img != "" {
		return img, nil
	}
	return l.ArtistImage(ctx, artist)
}

func isNotFound(err error) bool {
	var lerr *lastfm.LastfmError
	return errors.As(err, &lerr) && lerr.Code == lastfmNotFound
}

// pickImage returns the largest non-placeholder image.
func pickImage(images []lastfmImage) string {
	for _, size := range imageSizes {
		for _, img := range images {
			if img.Size == size && img.Url != "" && !strings.Contains(img.Url, lastfmPlaceholder) {
				return img.Url
			}
		}
	}
	return ""
}
