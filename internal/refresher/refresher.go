// Package refresher runs the background loop that keeps the snapshot store
// current.
package refresher

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"p2p-price-api/internal/cache"
	"p2p-price-api/internal/config"
	"p2p-price-api/internal/metrics"
	"p2p-price-api/internal/models"
)

// Fetcher produces fresh per-currency snapshots for the configured pairs.
type Fetcher interface {
	FetchAllPairs(ctx context.Context, pairs []config.Pair) map[string]models.CurrencySnapshot
}

// Refresher cycles fetch → publish → sleep for the process lifetime. The
// store lock is taken only for the publish step, so a slow upstream never
// blocks concurrent readers. There is no per-cycle deadline; a stuck request
// is bounded only by its client timeout.
type Refresher struct {
	fetcher  Fetcher
	store    *cache.Store
	pairs    []config.Pair
	interval time.Duration
	started  atomic.Bool
	log      *logrus.Entry
}

// New creates a refresher; Start must be called to begin cycling.
func New(fetcher Fetcher, store *cache.Store, pairs []config.Pair, interval time.Duration) *Refresher {
	return &Refresher{
		fetcher:  fetcher,
		store:    store,
		pairs:    pairs,
		interval: interval,
		log:      logrus.WithField("component", "refresher"),
	}
}

// Start launches the refresh loop in its own goroutine. Calling it more than
// once is a no-op; the loop stops when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	r.log.WithField("interval", r.interval).Info("background refresher started")

	go func() {
		for {
			r.runCycle(ctx)

			select {
			case <-ctx.Done():
				r.log.Info("background refresher stopped")
				return
			case <-time.After(r.interval):
			}
		}
	}()
}

// runCycle performs one fetch-and-publish pass. A cycle-level failure leaves
// the store untouched, so readers keep seeing the previous complete cycle.
func (r *Refresher) runCycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.RefreshFailures.Inc()
			r.log.WithField("panic", fmt.Sprint(rec)).Error("refresh cycle failed")
		}
	}()

	fresh := r.fetcher.FetchAllPairs(ctx, r.pairs)
	r.store.ReplaceAll(fresh)

	metrics.RefreshCycles.Inc()
	r.log.Info("prices refreshed")
}
