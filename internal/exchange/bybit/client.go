// Package bybit implements the Bybit P2P market adapter. Bybit side codes
// already match the taker's perspective ("1" buy, "0" sell), so no inversion
// is needed; ads restricted to takers with a posted ad are filtered out.
package bybit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"p2p-price-api/internal/exchange"
	"p2p-price-api/internal/models"
)

const exchangeName = "Bybit"

// Config holds the Bybit client settings.
type Config struct {
	BaseURL    string
	Asset      string
	AdsPerSide int
	Timeout    time.Duration
}

// Client fetches P2P ads from Bybit.
type Client struct {
	baseURL    string
	asset      string
	adsPerSide int
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Entry
}

// NewClient creates a Bybit client, applying defaults for any unset config.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api2.bybit.com"
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
	buy, err = c.fetchSide(ctx, fiat, "1", payFilter)
	if err != nil {
		return nil, nil, err
	}
	sell, err = c.fetchSide(ctx, fiat, "0", payFilter)
	if err != nil {
		return nil, nil, err
	}
	return buy, sell, nil
}

func (c *Client) fetchSide(ctx context.Context, fiat, side string, payFilter []string) ([]models.Advertisement, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if payFilter == nil {
		payFilter = []string{}
	}
	payload, err := json.Marshal(onlineRequest{
		TokenID:    c.asset,
		CurrencyID: fiat,
		Payment:    payFilter,
		Side:       side,
		Size:       strconv.Itoa(c.adsPerSide),
		Page:       "1",
		CanTrade:   true,
	})
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/fiat/otc/item/online"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", exchange.UserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("item online: %w", err)
	}
	body, err := exchange.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("item online: %w", err)
	}

	var parsed onlineResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode item online: %w", err)
	}

	ads := []models.Advertisement{}
	for _, item := range parsed.Result.Items {
		if item.requiresPostedAd() {
			continue
		}
		ads = append(ads, mapAd(item))
	}
	return ads, nil
}
