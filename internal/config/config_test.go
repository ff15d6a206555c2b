package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "USDT", cfg.Market.Asset)
	assert.Equal(t, 30*time.Second, cfg.Market.RefreshInterval)
	assert.Equal(t, 10, cfg.Market.AdsPerSide)
	assert.Equal(t, 15*time.Second, cfg.Market.RequestTimeout)
	assert.Equal(t, 5000, cfg.Server.Port)

	require.Len(t, cfg.Market.Pairs, 3)
	assert.Equal(t, Pair{Fiat: "ETB", Label: "USDT/ETB"}, cfg.Market.Pairs[0])
	assert.Equal(t, "USD", cfg.Market.Pairs[1].Fiat)
	assert.Equal(t, []string{"Dukascopy", "Payoneer"}, cfg.Market.Pairs[1].PayFilter)
	assert.Equal(t, []string{"ETB", "USD", "EUR"}, cfg.Market.Fiats())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ASSET", "btc")
	t.Setenv("PAIRS", "ngn:Bank Transfer;usd")
	t.Setenv("REFRESH_INTERVAL", "1m")
	t.Setenv("ADS_PER_SIDE", "5")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "BTC", cfg.Market.Asset)
	assert.Equal(t, time.Minute, cfg.Market.RefreshInterval)
	assert.Equal(t, 5, cfg.Market.AdsPerSide)
	assert.Equal(t, 8080, cfg.Server.Port)

	require.Len(t, cfg.Market.Pairs, 2)
	assert.Equal(t, "NGN", cfg.Market.Pairs[0].Fiat)
	assert.Equal(t, "BTC/NGN", cfg.Market.Pairs[0].Label)
	assert.Equal(t, []string{"Bank Transfer"}, cfg.Market.Pairs[0].PayFilter)
	assert.Empty(t, cfg.Market.Pairs[1].PayFilter)
}

func TestLoadBareSecondsInterval(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Market.RefreshInterval)
}

func TestLoadRejectsInvalidFiat(t *testing.T) {
	t.Setenv("PAIRS", "EURO")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsEmptyPairs(t *testing.T) {
	t.Setenv("PAIRS", " ; ")

	_, err := Load()
	assert.Error(t, err)
}

func TestParsePairsTrimsAndUppercases(t *testing.T) {
	pairs, err := parsePairs(" etb ; usd : Payoneer , Dukascopy ", "USDT")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "ETB", pairs[0].Fiat)
	assert.Equal(t, []string{"Payoneer", "Dukascopy"}, pairs[1].PayFilter)
}
