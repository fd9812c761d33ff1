package correlation

import (
	"time"

	"PortSentinel/internal/model"
)

// Clock abstracts wall-clock time so cache expiry is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// priceCache is a time-boxed memoization of price signals. The whole cache
// expires at once: every entry written within a validity window is served
// together until the window lapses, then the cache is cleared wholesale.
type priceCache struct {
	clock   Clock
	ttl     time.Duration
	written time.Time
	entries map[string]*model.AssetPrice
}

func newPriceCache(clock Clock, ttl time.Duration) *priceCache {
	return &priceCache{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]*model.AssetPrice),
	}
}

func (c *priceCache) expired() bool {
	return c.written.IsZero() || c.clock.Now().Sub(c.written) >= c.ttl
}

func (c *priceCache) get(ticker string) (*model.AssetPrice, bool) {
	if c.expired() {
		return nil, false
	}
	ap, ok := c.entries[ticker]
	return ap, ok
}

func (c *priceCache) put(ticker string, ap *model.AssetPrice) {
	if c.expired() {
		c.entries = make(map[string]*model.AssetPrice)
	}
	c.entries[ticker] = ap
	c.written = c.clock.Now()
}
