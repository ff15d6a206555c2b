// Package mexc implements the MEXC P2P market adapter.
//
// MEXC labels trade sides from the maker's perspective: an upstream "BUY" ad
// is a maker buying the asset, which is a sell opportunity for our user. Both
// sides are therefore inverted during normalization.
package mexc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"p2p-price-api/internal/exchange"
	"p2p-price-api/internal/models"
)

const exchangeName = "MEXC"

// coinIDs maps asset symbols to MEXC's internal coin identifiers. The market
// endpoint keys on these rather than on symbols.
var coinIDs = map[string]string{
	"USDT": "128f589271cb4951b03e71e6323eb7be",
	"BTC":  "febc9973be4d4d53bb374476239eb219",
	"ETH":  "93c38b0169214f8689763ce9a63a73ff",
	"USDC": "34309140878b4ae99f195ac091d49bab",
}

// Config holds the MEXC client settings.
type Config struct {
	BaseURL        string
	Asset          string
	AdsPerSide     int
	Timeout        time.Duration
	PaymentTimeout time.Duration
}

// Client fetches P2P ads from MEXC.
type Client struct {
	baseURL    string
	asset      string
	adsPerSide int
	httpClient *http.Client
	limiter    *rate.Limiter
	payments   *methodTable
	log        *logrus.Entry
}

// NewClient creates a MEXC client, applying defaults for any unset config.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.mexc.com"
	}
	if cfg.Asset == "" {
		cfg.Asset = "USDT"
	}
	if cfg.AdsPerSide == 0 {
		cfg.AdsPerSide = 10
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.PaymentTimeout == 0 {
		cfg.PaymentTimeout = 10 * time.Second
	}

	log := logrus.WithField("exchange", exchangeName)

	return &Client{
		baseURL:    cfg.BaseURL,
		asset:      cfg.Asset,
		adsPerSide: cfg.AdsPerSide,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		payments: newMethodTable(
			cfg.BaseURL+"/api/platform/p2p/api/payment/method",
			&http.Client{Timeout: cfg.PaymentTimeout},
			log,
		),
		log: log,
	}
}

// Name implements exchange.Exchange.
func (c *Client) Name() string { return exchangeName }

// Fetch implements exchange.Exchange.
func (c *Client) Fetch(ctx context.Context, fiat string, payFilter []string) models.Snapshot {
	buyAds, sellAds, err := c.fetch(ctx, fiat, payFilter)
	if err != nil {
		c.log.WithField("fiat", fiat).WithError(err).Warn("fetch failed")
		return models.NewErrorSnapshot(exchangeName, err)
	}
	return models.NewSnapshot(exchangeName, buyAds, sellAds)
}

func (c *Client) fetch(ctx context.Context, fiat string, payFilter []string) (buy, sell []models.Advertisement, err error) {
	c.payments.ensureLoaded(ctx)

	coinID, ok := coinIDs[c.asset]
	if !ok {
		coinID = coinIDs["USDT"]
	}
	payMethodParam := c.payments.filterIDs(payFilter)

	// tradeType is the maker's side, so BUY feeds our sell list and SELL our
	// buy list.
	sides := []struct {
		tradeType string
		dest      *[]models.Advertisement
	}{
		{"BUY", &sell},
		{"SELL", &buy},
	}

	for _, side := range sides {
		ads, err := c.fetchSide(ctx, fiat, coinID, side.tradeType, payMethodParam)
		if err != nil {
			return nil, nil, err
		}
		*side.dest = ads
	}
	return buy, sell, nil
}

func (c *Client) fetchSide(ctx context.Context, fiat, coinID, tradeType, payMethod string) ([]models.Advertisement, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("adsType", "0")
	params.Set("allowTrade", "true")
	params.Set("amount", "")
	params.Set("blockTrade", "false")
	params.Set("certifiedMerchant", "false")
	params.Set("coinId", coinID)
	params.Set("countryCode", "")
	params.Set("currency", fiat)
	params.Set("follow", "false")
	params.Set("haveTrade", "false")
	params.Set("page", "1")
	params.Set("payMethod", payMethod)
	params.Set("tradeType", tradeType)

	endpoint := c.baseURL + "/api/platform/p2p/api/market?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", exchange.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Referer", "https://www.mexc.com/buy-crypto/p2p")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market request: %w", err)
	}
	body, err := exchange.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("market request: %w", err)
	}

	var parsed marketResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode market response: %w", err)
	}

	ads := []models.Advertisement{}
	for _, item := range parsed.Data {
		// Trade-disabled ("limited") ads are skipped before the cap applies.
		if !item.tradeEnabled() {
			continue
		}
		ads = append(ads, c.mapAd(item))
		if len(ads) == c.adsPerSide {
			break
		}
	}
	return ads, nil
}
