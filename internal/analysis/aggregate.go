package analysis

const songKeySeparator = "|||"

// counter counts string keys and remembers the order keys were first seen in,
// which is what ties are broken by.
type counter struct {
	index  map[string]int
	keys   []string
	counts []int
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	i, ok := c.index[key]
	if !ok {
		i = len(c.keys)
		c.index[key] = i
		c.keys = append(c.keys, key)
		c.counts = append(c.counts, 0)
	}
	c.counts[i] += n
}

func (c *counter) get(key string) int {
	if i, ok := c.index[key]; ok {
		return c.counts[i]
	}
	return 0
}

func (c *counter) len() int {
	return len(c.keys)
}

// merge adds other's counts, appending keys this counter has not seen in
// other's order.
func (c *counter) merge(other *counter) {
	for i, key := range other.keys {
		c.add(key, other.counts[i])
	}
}

type songEntry struct {
	title  string
	artist string
}

type monthAggregate struct {
	count   int
	artists *counter
}

// Aggregates is the running state of one fold over plays. It belongs to a
// single report build and is never shared.
type Aggregates struct {
	TotalSongs  int
	TotalMillis int64
	Hourly      [24]int
	Calendar    map[string]int

	songs   *counter
	entries map[string]songEntry
	artists *counter
	monthly [12]monthAggregate
}

func NewAggregates() *Aggregates {
	a := &Aggregates{
		Calendar: make(map[string]int),
		songs:    newCounter(),
		entries:  make(map[string]songEntry),
		artists:  newCounter(),
	}
	for i := range a.monthly {
		a.monthly[i].artists = newCounter()
	}
	return a
}

func songKey(title, artist string) string {
	return title + songKeySeparator + artist
}

// Add folds one play in. The play's timestamp must already be in the report
// location.
func (a *Aggregates) Add(p Play, millisPerPlay int64) {
	a.TotalSongs++

	key := songKey(p.Title, p.Artist)
	if _, ok := a.entries[key]; !ok {
		a.entries[key] = songEntry{title: p.Title, artist: p.Artist}
	}
	a.songs.add(key, 1)
	a.artists.add(p.Artist, 1)

	a.Hourly[p.Timestamp.Hour()]++

	month := &a.monthly[p.Timestamp.Month()-1]
	month.count++
	month.artists.add(p.Artist, 1)

	a.Calendar[p.Timestamp.Format("2006-01-02")]++
	a.TotalMillis += millisPerPlay
}

// Merge adds other into a. Merging the partial results of consecutive shards
// in order gives the same state as one pass over the whole input.
func (a *Aggregates) Merge(other *Aggregates) {
	a.TotalSongs += other.TotalSongs
	a.TotalMillis += other.TotalMillis
	for h, n := range other.Hourly {
		a.Hourly[h] += n
	}
	for day, n := range other.Calendar {
		a.Calendar[day] += n
	}
	for _, key := range other.songs.keys {
		if _, ok := a.entries[key]; !ok {
			a.entries[key] = other.entries[key]
		}
	}
	a.songs.merge(other.songs)
	a.artists.merge(other.artists)
	for m := range a.monthly {
		a.monthly[m].count += other.monthly[m].count
		a.monthly[m].artists.merge(other.monthly[m].artists)
	}
}

// SongCount is the number of plays of one title by one artist.
func (a *Aggregates) SongCount(title, artist string) int {
	return a.songs.get(songKey(title, artist))
}

func (a *Aggregates) ArtistCount(artist string) int {
	return a.artists.get(artist)
}

// MonthCount is the number of plays in month m (0 = January).
func (a *Aggregates) MonthCount(m int) int {
	return a.monthly[m].count
}

// UniqueSongs is the number of distinct (title, artist) pairs.
func (a *Aggregates) UniqueSongs() int {
	return a.songs.len()
}

func (a *Aggregates) UniqueArtists() int {
	return a.artists.len()
}
