// Package cache holds the in-memory snapshot store shared between the
// background refresher and the HTTP handlers.
package cache

import (
	"sync"

	"p2p-price-api/internal/models"
)

// Store maps fiat currency codes to their latest CurrencySnapshot. The key
// set is fixed at construction; the refresher is the only writer and request
// handlers read concurrently. The lock is held only for the in-memory copy
// or swap, never across network calls.
type Store struct {
	mu   sync.RWMutex
	data map[string]models.CurrencySnapshot
}

// NewStore seeds the store with an empty snapshot for every configured fiat,
// so reads are valid before the first refresh completes.
func NewStore(fiats []string) *Store {
	data := make(map[string]models.CurrencySnapshot, len(fiats))
	for _, fiat := range fiats {
		data[fiat] = models.EmptyCurrencySnapshot()
	}
	return &Store{data: data}
}

// Get returns the snapshot for a fiat currency. The boolean reports whether
// the currency is configured; unknown currencies yield an empty snapshot.
func (s *Store) Get(fiat string) (models.CurrencySnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[fiat]
	if !ok {
		return models.EmptyCurrencySnapshot(), false
	}
	return snap, true
}

// ReplaceAll swaps in freshly fetched snapshots. Only configured currencies
// are updated; each currency's snapshot is replaced wholesale so readers see
// either the previous cycle or the new one, never a blend.
func (s *Store) ReplaceAll(fresh map[string]models.CurrencySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for fiat, snap := range fresh {
		if _, ok := s.data[fiat]; ok {
			s.data[fiat] = snap
		}
	}
}
