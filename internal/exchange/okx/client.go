// Package okx implements the OKX P2P market adapter.
//
// Like MEXC, OKX labels sides from the maker's perspective: the upstream
// "buy" book is makers buying the asset, which our user takes as a sell.
// Both books are inverted during normalization.
package okx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"p2p-price-api/internal/exchange"
	"p2p-price-api/internal/models"
)

const exchangeName = "OKX"

// payMethods translates generic payment provider names to OKX identifiers.
// Names without a mapping pass through unchanged.
var payMethods = map[string]string{
	"Dukascopy": "Dukascopy",
	"Payoneer":  "Payoneer",
}

// Config holds the OKX client settings.
type Config struct {
	BaseURL    string
	Asset      string
	AdsPerSide int
	Timeout    time.Duration
}

// Client fetches P2P ads from OKX.
type Client struct {
	baseURL    string
	asset      string
	adsPerSide int
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Entry
}

// NewClient creates an OKX client, applying defaults for any unset config.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.okx.com"
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

	return &Client{
		baseURL:    cfg.BaseURL,
		asset:      cfg.Asset,
		adsPerSide: cfg.AdsPerSide,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		log:        logrus.WithField("exchange", exchangeName),
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
	payMethodParam := "all"
	if len(payFilter) > 0 {
		mapped := make([]string, 0, len(payFilter))
		for _, p := range payFilter {
			if id, ok := payMethods[p]; ok {
				mapped = append(mapped, id)
			} else {
				mapped = append(mapped, p)
			}
		}
		payMethodParam = strings.Join(mapped, ",")
	}

	// The upstream "buy" book is the maker's buy side, so it feeds our sell
	// list and vice versa.
	sell, err = c.fetchSide(ctx, fiat, "buy", payMethodParam)
	if err != nil {
		return nil, nil, err
	}
	buy, err = c.fetchSide(ctx, fiat, "sell", payMethodParam)
	if err != nil {
		return nil, nil, err
	}
	return buy, sell, nil
}

func (c *Client) fetchSide(ctx context.Context, fiat, side, payMethod string) ([]models.Advertisement, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("quoteCurrency", strings.ToLower(fiat))
	params.Set("baseCurrency", strings.ToLower(c.asset))
	params.Set("side", side)
	params.Set("paymentMethod", payMethod)
	params.Set("userType", "all")
	params.Set("showTrade", "false")
	params.Set("showFollow", "false")
	params.Set("showAlreadyTraded", "false")
	params.Set("isAbleFilter", "true")
	params.Set("receivingAds", "false")

	endpoint := c.baseURL + "/v3/c2c/tradingOrders/books?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", exchange.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trading orders: %w", err)
	}
	body, err := exchange.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("trading orders: %w", err)
	}

	var parsed booksResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode trading orders: %w", err)
	}

	items := parsed.Data.Buy
	if side == "sell" {
		items = parsed.Data.Sell
	}
	if len(items) > c.adsPerSide {
		items = items[:c.adsPerSide]
	}

	ads := make([]models.Advertisement, 0, len(items))
	for _, item := range items {
		ads = append(ads, mapAd(item))
	}
	return ads, nil
}
