package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"p2p-price-api/internal/cache"
	"p2p-price-api/internal/config"
	"p2p-price-api/internal/models"
)

func testServer(t *testing.T) (*Server, *cache.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 5000},
		Market: config.MarketConfig{
			Asset: "USDT",
			Pairs: []config.Pair{
				{Fiat: "ETB", Label: "USDT/ETB"},
				{Fiat: "USD", Label: "USDT/USD", PayFilter: []string{"Payoneer"}},
			},
			RefreshInterval: 30 * time.Second,
			AdsPerSide:      10,
		},
	}
	store := cache.NewStore(cfg.Market.Fiats())
	return newServer(cfg, store), store
}

func seed(store *cache.Store) {
	best := func(v float64) *float64 { return &v }
	store.ReplaceAll(map[string]models.CurrencySnapshot{
		"ETB": {
			Results: []models.Snapshot{
				{Exchange: "MEXC", BuyAds: []models.Advertisement{}, SellAds: []models.Advertisement{}, Error: "timeout", LastUpdated: "2025-01-01 10:00:00"},
				{
					Exchange:      "Binance",
					BuyAds:        []models.Advertisement{{Price: 155}},
					SellAds:       []models.Advertisement{{Price: 158}},
					BestBuyPrice:  best(155),
					BestSellPrice: best(158),
					AvgBuyPrice:   best(155),
					AvgSellPrice:  best(158),
					BuyCount:      1,
					SellCount:     1,
					LastUpdated:   "2025-01-01 10:00:00",
				},
			},
			LastRefresh: "2025-01-01 10:00:00",
		},
	})
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.router.ServeHTTP(w, req)
	return w
}

func TestIndexPage(t *testing.T) {
	srv, _ := testServer(t)

	w := get(t, srv, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "USDT/ETB")
	assert.Contains(t, w.Body.String(), "30 seconds")
	assert.Contains(t, w.Body.String(), "Payoneer")
}

func TestGetPricesDefaultsToFirstPair(t *testing.T) {
	srv, store := testServer(t)
	seed(store)

	w := get(t, srv, "/api/prices")

	require.Equal(t, http.StatusOK, w.Code)
	var snap models.CurrencySnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Results, 2)
	assert.Equal(t, "MEXC", snap.Results[0].Exchange)
	assert.Equal(t, "timeout", snap.Results[0].Error)
	assert.Equal(t, "Binance", snap.Results[1].Exchange)
	assert.Equal(t, "2025-01-01 10:00:00", snap.LastRefresh)
}

func TestGetPricesUnknownFiatReturnsEmptySnapshot(t *testing.T) {
	srv, store := testServer(t)
	seed(store)

	w := get(t, srv, "/api/prices?fiat=XYZ")

	require.Equal(t, http.StatusOK, w.Code)
	var snap models.CurrencySnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Empty(t, snap.Results)
	assert.Empty(t, snap.LastRefresh)
}

func TestGetPricesLowercaseFiat(t *testing.T) {
	srv, store := testServer(t)
	seed(store)

	w := get(t, srv, "/api/prices?fiat=etb")

	require.Equal(t, http.StatusOK, w.Code)
	var snap models.CurrencySnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Len(t, snap.Results, 2)
}

func TestSimplePrice(t *testing.T) {
	srv, store := testServer(t)
	seed(store)

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"default field skips errored exchange", "/api/price/simple?fiat=ETB", "155"},
		{"explicit exchange and field", "/api/price/simple?fiat=ETB&exchange=binance&field=best_sell", "158"},
		{"exchange match is case-insensitive", "/api/price/simple?fiat=ETB&exchange=BINANCE&field=avg_buy", "155"},
		{"errored exchange has no value", "/api/price/simple?fiat=ETB&exchange=mexc", "N/A"},
		{"unknown exchange", "/api/price/simple?fiat=ETB&exchange=kraken", "N/A"},
		{"unknown field", "/api/price/simple?fiat=ETB&field=median", "N/A"},
		{"unconfigured fiat", "/api/price/simple?fiat=XYZ", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, srv, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, w.Body.String())
			assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	w := get(t, srv, "/health")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := testServer(t)

	w := get(t, srv, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
