// Package pricecache puts a TTL cache in front of a price oracle.
package pricecache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// Source is the oracle being cached.
type Source interface {
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	HistoricalClose(ctx context.Context, symbol string, from, to time.Time) (decimal.Decimal, error)
	CompanyMetadata(ctx context.Context, symbol string) (model.CompanyMetadata, error)
}

type entry struct {
	value   any
	expires time.Time
}

// Cache memoizes successful Source lookups for a TTL. Concurrent misses on one key
// share a single upstream call. Errors are never cached.
type Cache struct {
	source       Source
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

// DefaultFetchTimeout bounds a shared upstream call when no other timeout is set.
const DefaultFetchTimeout = 30 * time.Second

// New returns a Cache over source. A ttl <= 0 disables caching but keeps call de-duplication.
func New(source Source, ttl time.Duration) *Cache {
	return &Cache{
		source:       source,
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		now:          time.Now,
		entries:      make(map[string]entry),
	}
}

// WithFetchTimeout sets the timeout of shared upstream calls. A d <= 0 keeps the current value.
func (c *Cache) WithFetchTimeout(d time.Duration) *Cache {
	if d > 0 {
		c.fetchTimeout = d
	}
	return c
}

// CurrentPrice returns the cached current price of symbol.
func (c *Cache) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	v, err := c.get(ctx, "price:"+symbol, func(ctx context.Context) (any, error) {
		return c.source.CurrentPrice(ctx, symbol)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// HistoricalClose returns the cached close of symbol in [from, to). Past closes do not change,
// so they share the TTL only to bound memory.
func (c *Cache) HistoricalClose(ctx context.Context, symbol string, from, to time.Time) (decimal.Decimal, error) {
	key := fmt.Sprintf("close:%s:%d:%d", symbol, from.Unix(), to.Unix())
	v, err := c.get(ctx, key, func(ctx context.Context) (any, error) {
		return c.source.HistoricalClose(ctx, symbol, from, to)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// CompanyMetadata returns the cached metadata of symbol.
func (c *Cache) CompanyMetadata(ctx context.Context, symbol string) (model.CompanyMetadata, error) {
	v, err := c.get(ctx, "meta:"+symbol, func(ctx context.Context) (any, error) {
		return c.source.CompanyMetadata(ctx, symbol)
	})
	if err != nil {
		return model.CompanyMetadata{}, err
	}
	return v.(model.CompanyMetadata), nil
}

// Refresh refetches the current price of each symbol, replacing cached values on success.
// It returns the number of symbols refreshed.
func (c *Cache) Refresh(ctx context.Context, symbols []string) (int, error) {
	var (
		refreshed int
		firstErr  error
	)
	for _, symbol := range symbols {
		price, err := c.source.CurrentPrice(ctx, symbol)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("refresh %s: %w", symbol, err)
			}
			continue
		}
		c.store("price:"+symbol, price)
		refreshed++
	}
	return refreshed, firstErr
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expires) {
			n++
		}
	}
	return n
}

func (c *Cache) get(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expires) {
		return e.value, nil
	}

	// The upstream call is shared by every caller waiting on key, so it must not
	// inherit the cancellation of whichever caller started it.
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		value, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.store(key, value)
		return value, nil
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) store(key string, value any) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
