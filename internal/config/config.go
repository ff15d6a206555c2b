// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the application configuration, read once at startup.
type Config struct {
	Server ServerConfig
	Market MarketConfig
	Log    LogConfig
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Port            int           `validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	IdleTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// MarketConfig represents the polling configuration shared by all adapters.
type MarketConfig struct {
	Asset           string        `validate:"required,alphanum,uppercase"`
	Pairs           []Pair        `validate:"required,min=1,dive"`
	RefreshInterval time.Duration `validate:"gt=0"`
	AdsPerSide      int           `validate:"min=1"`
	RequestTimeout  time.Duration `validate:"gt=0"`

	// Base URL overrides, primarily for tests; empty means the real endpoint.
	MEXCBaseURL    string
	BinanceBaseURL string
	BybitBaseURL   string
	OKXBaseURL     string
}

// Pair is one tracked currency pair: the fiat side, its display label, and an
// optional list of generic payment provider names to filter ads by.
type Pair struct {
	Fiat      string `validate:"required,len=3,alpha,uppercase"`
	Label     string `validate:"required"`
	PayFilter []string
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level string `validate:"oneof=trace debug info warn error"`
}

// Load reads configuration from the environment, loading a .env file first
// when one is present, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	asset := strings.ToUpper(getEnv("ASSET", "USDT"))
	pairs, err := parsePairs(getEnv("PAIRS", "ETB;USD:Dukascopy,Payoneer;EUR:Dukascopy,Payoneer"), asset)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("PORT", 5000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "30s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "30s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", "10s"),
		},
		Market: MarketConfig{
			Asset:           asset,
			Pairs:           pairs,
			RefreshInterval: getEnvAsDuration("REFRESH_INTERVAL", "30s"),
			AdsPerSide:      getEnvAsInt("ADS_PER_SIDE", 10),
			RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", "15s"),
			MEXCBaseURL:     getEnv("MEXC_BASE_URL", ""),
			BinanceBaseURL:  getEnv("BINANCE_BASE_URL", ""),
			BybitBaseURL:    getEnv("BYBIT_BASE_URL", ""),
			OKXBaseURL:      getEnv("OKX_BASE_URL", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Fiats returns the configured fiat codes in pair order.
func (m MarketConfig) Fiats() []string {
	fiats := make([]string, 0, len(m.Pairs))
	for _, p := range m.Pairs {
		fiats = append(fiats, p.Fiat)
	}
	return fiats
}

// parsePairs decodes the PAIRS format: semicolon-separated entries of
// FIAT[:filter,filter...], e.g. "ETB;USD:Dukascopy,Payoneer".
func parsePairs(raw, asset string) ([]Pair, error) {
	var pairs []Pair
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		fiat, filterPart, _ := strings.Cut(entry, ":")
		fiat = strings.ToUpper(strings.TrimSpace(fiat))
		if fiat == "" {
			return nil, fmt.Errorf("invalid PAIRS entry %q", entry)
		}

		var filter []string
		for _, f := range strings.Split(filterPart, ",") {
			if f = strings.TrimSpace(f); f != "" {
				filter = append(filter, f)
			}
		}

		pairs = append(pairs, Pair{
			Fiat:      fiat,
			Label:     asset + "/" + fiat,
			PayFilter: filter,
		})
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("PAIRS is empty")
	}
	return pairs, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Bare numbers are taken as seconds, matching the original deployment.
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	duration, err := time.ParseDuration(defaultValue)
	if err != nil {
		return 30 * time.Second
	}
	return duration
}
