package artwork

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// lru maps lookup keys to image URLs. Entries expire after ttl and the least
// recently used entry goes first when the cache is full.
type lru struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	items   map[string]*list.Element
	order   *list.List
}

type lruEntry struct {
	key       string
	url       string
	expiresAt time.Time
}

func newLRU(maxSize int, ttl time.Duration) *lru {
	return &lru{
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *lru) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return "", false
	}
	entry := elem.Value.(*lruEntry)
	if c.now().After(entry.expiresAt) {
		c.remove(elem)
		return "", false
	}
	c.order.MoveToFront(elem)
	return entry.url, true
}

func (c *lru) set(key, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &lruEntry{key: key, url: url, expiresAt: c.now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(entry)
	if c.order.Len() > c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
		}
	}
}

func (c *lru) remove(elem *list.Element) {
	delete(c.items, elem.Value.(*lruEntry).key)
	c.order.Remove(elem)
}

func (c *lru) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Cached remembers lookups, including ones that found nothing. Failed lookups
// are not cached.
type Cached struct {
	Provider
	cache *lru

	// OnLookup, when set, is told the outcome of every lookup: "hit",
	// "miss" or "error".
	OnLookup func(source, result string)
}

func NewCached(p Provider, size int, ttl time.Duration) *Cached {
	return &Cached{Provider: p, cache: newLRU(size, ttl)}
}

func (c *Cached) ArtistImage(ctx context.Context, artist string) (string, error) {
	return c.lookup(cacheKey(artist), func() (string, error) {
		return c.Provider.ArtistImage(ctx, artist)
	})
}

func (c *Cached) TrackImage(ctx context.Context, artist, track string) (string, error) {
	return c.lookup(cacheKey(artist, track), func() (string, error) {
		return c.Provider.TrackImage(ctx, artist, track)
	})
}

func (c *Cached) lookup(key string, fetch func() (string, error)) (string, error) {
	if url, ok := c.cache.get(key); ok {
		c.observe("hit")
		return url, nil
	}
	url, err := fetch()
	if err != nil {
		c.observe("error")
		return "", err
	}
	c.observe("miss")
	c.cache.set(key, url)
	return url, nil
}

func (c *Cached) observe(result string) {
	if c.OnLookup != nil {
		c.OnLookup(c.Name(), result)
	}
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}

// RateLimited spaces out upstream requests.
type RateLimited struct {
	Provider
	limiter *rate.Limiter
}

func NewRateLimited(p Provider, every time.Duration, burst int) *RateLimited {
	return &RateLimited{Provider: p, limiter: rate.NewLimiter(rate.Every(every), burst)}
}

func (r *RateLimited) ArtistImage(ctx context.Context, artist string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.Provider.ArtistImage(ctx, artist)
}

func (r *RateLimited) TrackImage(ctx context.Context, artist, track string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.Provider.TrackImage(ctx, artist, track)
}
