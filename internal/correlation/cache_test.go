package correlation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortSentinel/internal/model"
)

func TestPriceCache_ServesWithinWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	c := newPriceCache(clock, 5*time.Minute)

	ap := &model.AssetPrice{Ticker: "GLD", Price: 190}
	c.put("GLD", ap)

	clock.Advance(4 * time.Minute)
	got, ok := c.get("GLD")
	require.True(t, ok)
	assert.Same(t, ap, got)
}

func TestPriceCache_EmptyMiss(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	c := newPriceCache(clock, 5*time.Minute)

	_, ok := c.get("GLD")
	assert.False(t, ok)
}

func TestPriceCache_WholesaleExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)}
	c := newPriceCache(clock, 5*time.Minute)

	c.put("GLD", &model.AssetPrice{Ticker: "GLD"})
	c.put("SLV", &model.AssetPrice{Ticker: "SLV"})

	clock.Advance(5 * time.Minute)

	_, ok := c.get("GLD")
	assert.False(t, ok, "expired entry must not be served")
	_, ok = c.get("SLV")
	assert.False(t, ok, "every entry expires together")

	// A write after expiry starts a fresh window without stale entries.
	c.put("QQQ", &model.AssetPrice{Ticker: "QQQ"})
	_, ok = c.get("GLD")
	assert.False(t, ok, "stale entries are dropped wholesale")
	_, ok = c.get("QQQ")
	assert.True(t, ok)
}
