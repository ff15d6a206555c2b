package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMapsSidesDirectly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))

		switch req.TradeType {
		case "BUY":
			fmt.Fprint(w, `{"data": [{"adv": {"price": "155.2", "surplusAmount": "3000", "minSingleTransAmount": "100", "maxSingleTransAmount": "1000", "tradeMethods": [{"tradeMethodName": "Payoneer"}]}, "advertiser": {"nickName": "alice"}}]}`)
		case "SELL":
			fmt.Fprint(w, `{"data": [{"adv": {"price": "158.1", "surplusAmount": "", "tradableQuantity": "500", "tradeMethods": [{"identifier": "DukascopyBank"}]}, "advertiser": {}}]}`)
		default:
			t.Errorf("unexpected tradeType %q", req.TradeType)
		}
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL})

	snap := client.Fetch(context.Background(), "USD", nil)

	require.Empty(t, snap.Error)
	require.Len(t, snap.BuyAds, 1)
	require.Len(t, snap.SellAds, 1)
	assert.Equal(t, 155.2, snap.BuyAds[0].Price)
	assert.Equal(t, "alice", snap.BuyAds[0].Merchant)
	assert.Equal(t, []string{"Payoneer"}, snap.BuyAds[0].PaymentMethods)
	assert.Equal(t, 158.1, snap.SellAds[0].Price)
	assert.Equal(t, "Unknown", snap.SellAds[0].Merchant)
	// surplusAmount empty, tradableQuantity used instead
	assert.Equal(t, 500.0, snap.SellAds[0].AvailableAmount)
	assert.Equal(t, []string{"DukascopyBank"}, snap.SellAds[0].PaymentMethods)
}

func TestFetchTranslatesPayTypes(t *testing.T) {
	var payloads []searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		payloads = append(payloads, req)
		fmt.Fprint(w, `{"data": []}`)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL, AdsPerSide: 5})

	snap := client.Fetch(context.Background(), "EUR", []string{"Dukascopy", "SEPA"})

	require.Empty(t, snap.Error)
	require.Len(t, payloads, 2)
	for _, p := range payloads {
		assert.Equal(t, []string{"DukascopyBank", "SEPA"}, p.PayTypes)
		assert.Equal(t, 5, p.Rows)
		assert.Equal(t, "EUR", p.Fiat)
		assert.Equal(t, "USDT", p.Asset)
	}
}

func TestFetchUpstreamErrorBecomesErrorSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(Config{BaseURL: srv.URL})

	snap := client.Fetch(context.Background(), "USD", nil)

	assert.NotEmpty(t, snap.Error)
	assert.Contains(t, snap.Error, "429")
	assert.Empty(t, snap.BuyAds)
	assert.Nil(t, snap.BestBuyPrice)
}
