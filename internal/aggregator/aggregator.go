// Package aggregator fans one fetch request out across every registered
// exchange adapter and assembles the per-currency snapshots.
package aggregator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"p2p-price-api/internal/config"
	"p2p-price-api/internal/exchange"
	"p2p-price-api/internal/metrics"
	"p2p-price-api/internal/models"
)

// Aggregator runs the registered exchanges in a fixed order. One exchange
// failing only yields an error snapshot in its slot; the others still report.
type Aggregator struct {
	exchanges []exchange.Exchange
	log       *logrus.Entry
}

// New creates an aggregator over the given adapters. Registration order is
// preserved in every result list.
func New(exchanges []exchange.Exchange) *Aggregator {
	return &Aggregator{
		exchanges: exchanges,
		log:       logrus.WithField("component", "aggregator"),
	}
}

// FetchAll collects one snapshot per registered exchange for a single fiat
// currency, sequentially and in registration order.
func (a *Aggregator) FetchAll(ctx context.Context, fiat string, payFilter []string) []models.Snapshot {
	results := make([]models.Snapshot, 0, len(a.exchanges))
	for _, ex := range a.exchanges {
		a.log.WithFields(logrus.Fields{"exchange": ex.Name(), "fiat": fiat}).Debug("fetching")

		start := time.Now()
		snap := ex.Fetch(ctx, fiat, payFilter)
		metrics.FetchDuration.WithLabelValues(ex.Name()).Observe(time.Since(start).Seconds())
		if snap.Error != "" {
			metrics.FetchErrors.WithLabelValues(ex.Name()).Inc()
		}

		results = append(results, snap)
	}
	return results
}

// FetchAllPairs runs FetchAll for every configured pair, applying each pair's
// own payment filter, and stamps the refresh time per currency.
func (a *Aggregator) FetchAllPairs(ctx context.Context, pairs []config.Pair) map[string]models.CurrencySnapshot {
	all := make(map[string]models.CurrencySnapshot, len(pairs))
	for _, pair := range pairs {
		a.log.WithField("fiat", pair.Fiat).Info("fetching all exchanges")
		all[pair.Fiat] = models.CurrencySnapshot{
			Results:     a.FetchAll(ctx, pair.Fiat, pair.PayFilter),
			LastRefresh: time.Now().Format(models.TimeFormat),
		}
	}
	return all
}
