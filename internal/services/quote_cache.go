package services

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/carteiralabs/carteira/internal/models"
)

// QuoteFreshness is how long a live quote is served without refetching.
const QuoteFreshness = 15 * time.Minute

// quoteCache keeps two tiers: a fresh tier bounded by the freshness
// window, and a stale tier that never expires so a dead API still leaves
// something to render.
type quoteCache struct {
	fresh *gocache.Cache
	stale *gocache.Cache
}

// NewQuoteCache creates an in-memory quote cache with the standard
// freshness window.
func NewQuoteCache() QuoteCache {
	return &quoteCache{
		fresh: gocache.New(QuoteFreshness, 5*time.Minute),
		stale: gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *quoteCache) Get(ticker string) (*models.Quote, bool) {
	if v, ok := c.fresh.Get(ticker); ok {
		return v.(*models.Quote), true
	}
	return nil, false
}

func (c *quoteCache) GetStale(ticker string) (*models.Quote, bool) {
	if v, ok := c.stale.Get(ticker); ok {
		return v.(*models.Quote), true
	}
	return nil, false
}

func (c *quoteCache) Put(ticker string, q *models.Quote) {
	c.fresh.Set(ticker, q, gocache.DefaultExpiration)
	c.stale.Set(ticker, q, gocache.NoExpiration)
}
