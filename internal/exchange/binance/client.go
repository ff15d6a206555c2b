// Package binance implements the Binance P2P market adapter. Binance labels
// trade sides from the taker's perspective, so no side inversion is needed.
package binance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"p2p-price-api/internal/exchange"
	"p2p-price-api/internal/models"
)

const exchangeName = "Binance"

// payMethods translates generic payment provider names to Binance pay-type
// identifiers. Names without a mapping pass through unchanged.
var payMethods = map[string]string{
	"Dukascopy": "DukascopyBank",
	"Payoneer":  "Payoneer",
}

// Config holds the Binance client settings.
type Config struct {
	BaseURL    string
	Asset      string
	AdsPerSide int
	Timeout    time.Duration
}

// Client fetches P2P ads from Binance.
type Client struct {
	baseURL    string
	asset      string
	adsPerSide int
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Entry
}

// NewClient creates a Binance client, applying defaults for any unset config.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://p2p.binance.com"
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
	payTypes := []string{}
	for _, p := range payFilter {
		if mapped, ok := payMethods[p]; ok {
			payTypes = append(payTypes, mapped)
		} else {
			payTypes = append(payTypes, p)
		}
	}

	buy, err = c.fetchSide(ctx, fiat, "BUY", payTypes)
	if err != nil {
		return nil, nil, err
	}
	sell, err = c.fetchSide(ctx, fiat, "SELL", payTypes)
	if err != nil {
		return nil, nil, err
	}
	return buy, sell, nil
}

func (c *Client) fetchSide(ctx context.Context, fiat, tradeType string, payTypes []string) ([]models.Advertisement, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(searchRequest{
		Fiat:       fiat,
		Page:       1,
		Rows:       c.adsPerSide,
		TradeType:  tradeType,
		Asset:      c.asset,
		Countries:  []string{},
		PayTypes:   payTypes,
		Classifies: []string{"mass", "profession"},
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/bapi/c2c/v2/friendly/c2c/adv/search"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", exchange.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("adv search: %w", err)
	}
	body, err := exchange.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("adv search: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode adv search: %w", err)
	}

	ads := make([]models.Advertisement, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		ads = append(ads, mapAd(item))
	}
	return ads, nil
}
