package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeFormat is the timestamp layout used throughout the API responses.
const TimeFormat = "2006-01-02 15:04:05"

// Snapshot is one exchange's normalized view of its ad book for a single
// currency pair, produced by one fetch. Either the statistics are populated
// from the ad lists or Error is set, never both.
type Snapshot struct {
	Exchange      string          `json:"exchange"`
	BuyAds        []Advertisement `json:"buy_ads"`
	SellAds       []Advertisement `json:"sell_ads"`
	BestBuyPrice  *float64        `json:"best_buy_price"`
	BestSellPrice *float64        `json:"best_sell_price"`
	AvgBuyPrice   *float64        `json:"avg_buy_price"`
	AvgSellPrice  *float64        `json:"avg_sell_price"`
	BuyCount      int             `json:"buy_count"`
	SellCount     int             `json:"sell_count"`
	LastUpdated   string          `json:"last_updated"`
	Error         string          `json:"error,omitempty"`
}

// CurrencySnapshot bundles the per-exchange snapshots for one fiat currency,
// in adapter registration order.
type CurrencySnapshot struct {
	Results     []Snapshot `json:"results"`
	LastRefresh string     `json:"last_refresh,omitempty"`
}

// EmptyCurrencySnapshot returns the zero-value snapshot served before the
// first refresh completes and for unconfigured currencies.
func EmptyCurrencySnapshot() CurrencySnapshot {
	return CurrencySnapshot{Results: []Snapshot{}}
}

// NewSnapshot builds a snapshot from normalized ad lists. Only ads with a
// positive price participate in the statistics; zero-priced ads stay in the
// lists but are excluded from best/avg prices and counts.
func NewSnapshot(exchange string, buyAds, sellAds []Advertisement) Snapshot {
	if buyAds == nil {
		buyAds = []Advertisement{}
	}
	if sellAds == nil {
		sellAds = []Advertisement{}
	}

	buyPrices := pricedOnly(buyAds)
	sellPrices := pricedOnly(sellAds)

	return Snapshot{
		Exchange:      exchange,
		BuyAds:        buyAds,
		SellAds:       sellAds,
		BestBuyPrice:  minPrice(buyPrices),
		BestSellPrice: maxPrice(sellPrices),
		AvgBuyPrice:   avgPrice(buyPrices),
		AvgSellPrice:  avgPrice(sellPrices),
		BuyCount:      len(buyPrices),
		SellCount:     len(sellPrices),
		LastUpdated:   time.Now().Format(TimeFormat),
	}
}

// NewErrorSnapshot builds the failure variant: empty lists, absent statistics,
// and a human-readable error description.
func NewErrorSnapshot(exchange string, err error) Snapshot {
	return Snapshot{
		Exchange:    exchange,
		BuyAds:      []Advertisement{},
		SellAds:     []Advertisement{},
		LastUpdated: time.Now().Format(TimeFormat),
		Error:       err.Error(),
	}
}

func pricedOnly(ads []Advertisement) []float64 {
	prices := make([]float64, 0, len(ads))
	for _, ad := range ads {
		if ad.Price > 0 {
			prices = append(prices, ad.Price)
		}
	}
	return prices
}

func minPrice(prices []float64) *float64 {
	if len(prices) == 0 {
		return nil
	}
	best := prices[0]
	for _, p := range prices[1:] {
		if p < best {
			best = p
		}
	}
	return &best
}

func maxPrice(prices []float64) *float64 {
	if len(prices) == 0 {
		return nil
	}
	best := prices[0]
	for _, p := range prices[1:] {
		if p > best {
			best = p
		}
	}
	return &best
}

func avgPrice(prices []float64) *float64 {
	if len(prices) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(decimal.NewFromFloat(p))
	}
	avg, _ := sum.Div(decimal.NewFromInt(int64(len(prices)))).Round(2).Float64()
	return &avg
}
