package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"p2p-price-api/internal/aggregator"
	"p2p-price-api/internal/cache"
	"p2p-price-api/internal/config"
	"p2p-price-api/internal/exchange"
	"p2p-price-api/internal/exchange/binance"
	"p2p-price-api/internal/exchange/bybit"
	"p2p-price-api/internal/exchange/mexc"
	"p2p-price-api/internal/exchange/okx"
	"p2p-price-api/internal/refresher"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("configuration error")
	}

	setupLogging(cfg.Log)

	store := cache.NewStore(cfg.Market.Fiats())
	agg := aggregator.New(buildExchanges(cfg.Market))
	refr := refresher.New(agg, store, cfg.Market.Pairs, cfg.Market.RefreshInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	refr.Start(ctx)

	if cfg.Log.Level != "debug" && cfg.Log.Level != "trace" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := newServer(cfg, store)

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logrus.WithField("addr", addr).Info("p2p price api listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("forced shutdown")
	}
	logrus.Info("server exited")
}

func setupLogging(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// buildExchanges assembles the adapter registry. Order matters: it fixes the
// order of results within every currency snapshot.
func buildExchanges(m config.MarketConfig) []exchange.Exchange {
	return []exchange.Exchange{
		mexc.NewClient(mexc.Config{
			BaseURL:    m.MEXCBaseURL,
			Asset:      m.Asset,
			AdsPerSide: m.AdsPerSide,
			Timeout:    m.RequestTimeout,
		}),
		binance.NewClient(binance.Config{
			BaseURL:    m.BinanceBaseURL,
			Asset:      m.Asset,
			AdsPerSide: m.AdsPerSide,
			Timeout:    m.RequestTimeout,
		}),
		bybit.NewClient(bybit.Config{
			BaseURL:    m.BybitBaseURL,
			Asset:      m.Asset,
			AdsPerSide: m.AdsPerSide,
			Timeout:    m.RequestTimeout,
		}),
		okx.NewClient(okx.Config{
			BaseURL:    m.OKXBaseURL,
			Asset:      m.Asset,
			AdsPerSide: m.AdsPerSide,
			Timeout:    m.RequestTimeout,
		}),
	}
}
