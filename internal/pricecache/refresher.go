package pricecache

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// SymbolLister returns the symbols worth keeping warm.
type SymbolLister func(ctx context.Context) ([]string, error)

// Refresher warms the cache on a cron schedule.
type Refresher struct {
	cache   *Cache
	symbols SymbolLister
	timeout time.Duration
	log     zerolog.Logger
	cron    *cron.Cron
}

// NewRefresher parses schedule (standard 5-field cron, or descriptors like "@every 5m") and
// registers the warming job. The scheduler does not run until Start.
func NewRefresher(cache *Cache, symbols SymbolLister, schedule string, timeout time.Duration, log zerolog.Logger) (*Refresher, error) {
	r := &Refresher{
		cache:   cache,
		symbols: symbols,
		timeout: timeout,
		log:     log.With().Str("component", "price-refresher").Logger(),
		cron:    cron.New(),
	}
	if _, err := r.cron.AddFunc(schedule, r.run); err != nil {
		return nil, err
	}
	return r, nil
}

// Start runs the scheduler in its own goroutine.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop stops the scheduler and returns a context that is done when a running job finishes.
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}

// RunOnce warms the cache immediately.
func (r *Refresher) RunOnce(ctx context.Context) (int, error) {
	symbols, err := r.symbols(ctx)
	if err != nil {
		return 0, err
	}
	return r.cache.Refresh(ctx, symbols)
}

func (r *Refresher) run() {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	n, err := r.RunOnce(ctx)
	if err != nil {
		r.log.Warn().Err(err).Int("refreshed", n).Msg("price refresh incomplete")
		return
	}
	r.log.Debug().Int("refreshed", n).Msg("price cache refreshed")
}
