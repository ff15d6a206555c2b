package main

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"p2p-price-api/internal/cache"
	"p2p-price-api/internal/config"
	"p2p-price-api/internal/models"
)

//go:embed templates/index.html
var templatesFS embed.FS

// Server wires the HTTP routes to the snapshot store.
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	store  *cache.Store
}

func newServer(cfg *config.Config, store *cache.Store) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	s := &Server{
		router: router,
		cfg:    cfg,
		store:  store,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/prices", s.handleGetPrices)
		api.GET("/price/simple", s.handleSimplePrice)
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Asset":           s.cfg.Market.Asset,
		"Pairs":           s.cfg.Market.Pairs,
		"RefreshInterval": s.cfg.Market.RefreshInterval.Seconds(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "p2p-price-api",
		"pairs":   len(s.cfg.Market.Pairs),
	})
}

// handleGetPrices serves the full currency snapshot. Unknown fiat codes get
// an empty-results snapshot with HTTP 200, not an error.
func (s *Server) handleGetPrices(c *gin.Context) {
	fiat := strings.ToUpper(c.DefaultQuery("fiat", s.defaultFiat()))
	snap, _ := s.store.Get(fiat)
	c.JSON(http.StatusOK, snap)
}

// handleSimplePrice serves one bare price value as plain text, for scripted
// consumers. Every miss (unknown fiat, no matching exchange, absent value)
// returns the literal "N/A", always with HTTP 200.
func (s *Server) handleSimplePrice(c *gin.Context) {
	fiat := strings.ToUpper(c.DefaultQuery("fiat", s.defaultFiat()))
	exchangeFilter := c.Query("exchange")
	field := c.DefaultQuery("field", "best_buy")

	snap, _ := s.store.Get(fiat)
	for _, result := range snap.Results {
		if exchangeFilter != "" && !strings.EqualFold(result.Exchange, exchangeFilter) {
			continue
		}
		if value := priceField(result, field); value != nil {
			c.String(http.StatusOK, strconv.FormatFloat(*value, 'f', -1, 64))
			return
		}
	}
	c.String(http.StatusOK, "N/A")
}

func priceField(snap models.Snapshot, field string) *float64 {
	switch field {
	case "best_buy":
		return snap.BestBuyPrice
	case "best_sell":
		return snap.BestSellPrice
	case "avg_buy":
		return snap.AvgBuyPrice
	case "avg_sell":
		return snap.AvgSellPrice
	default:
		return nil
	}
}

func (s *Server) defaultFiat() string {
	return s.cfg.Market.Pairs[0].Fiat
}
