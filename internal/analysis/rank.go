package analysis

import "sort"

type ranked struct {
	key   string
	count int
}

// rank orders a counter by count, highest first. The sort is stable, so equal
// counts keep first-seen order.
func rank(c *counter, n int) []ranked {
	if n <= 0 {
		return []ranked{}
	}
	all := make([]ranked, len(c.keys))
	for i, key := range c.keys {
		all[i] = ranked{key: key, count: c.counts[i]}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].count > all[j].count
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// TopSongs returns at most n songs by play count.
func TopSongs(a *Aggregates, n int) []SongStat {
	top := rank(a.songs, n)
	songs := make([]SongStat, 0, len(top))
	for _, r := range top {
		entry := a.entries[r.key]
		songs = append(songs, SongStat{Name: entry.title, Artist: entry.artist, Count: r.count})
	}
	return songs
}

// TopArtists returns at most n artists by play count.
func TopArtists(a *Aggregates, n int) []ArtistStat {
	top := rank(a.artists, n)
	artists := make([]ArtistStat, 0, len(top))
	for _, r := range top {
		artists = append(artists, ArtistStat{Name: r.key, Count: r.count})
	}
	return artists
}

// MonthTopArtist is the most played artist in month m (0 = January). A later
// artist has to beat the current leader outright, so the first one seen wins
// a tie.
func MonthTopArtist(a *Aggregates, m int) string {
	top := NoTopArtist
	maxPlays := 0
	artists := a.monthly[m].artists
	for i, artist := range artists.keys {
		if artists.counts[i] > maxPlays {
			maxPlays = artists.counts[i]
			top = artist
		}
	}
	return top
}
