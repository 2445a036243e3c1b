package handler

import (
	"net/http"
	"time"

	"github.com/yourorg/egx-collector/internal/config"

	"github.com/gin-gonic/gin"
)

// InfoHandler serves service metadata: the root endpoint map and the
// non-secret collector configuration
type InfoHandler struct {
	cfg *config.Config
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(cfg *config.Config) *InfoHandler {
	return &InfoHandler{cfg: cfg}
}

// Root returns service information and the endpoint map.
// GET /
func (h *InfoHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "egx-collector",
		"description": "EGX reference data collection service",
		"version":     "1.0.0",
		"endpoints": gin.H{
			"health":                   "GET /health",
			"config":                   "GET /api/v1/config",
			"collect_stocks":           "POST /api/v1/stocks/collect",
			"collect_stocks_sync":      "POST /api/v1/stocks/collect/sync",
			"get_stocks":               "GET /api/v1/stocks",
			"collect_fair_values":      "POST /api/v1/fair-values/collect",
			"collect_fair_values_sync": "POST /api/v1/fair-values/collect/sync",
			"get_fair_values":          "GET /api/v1/fair-values",
			"collect_ipos":             "POST /api/v1/ipos/collect",
			"collect_ipos_sync":        "POST /api/v1/ipos/collect/sync",
			"get_ipos":                 "GET /api/v1/ipos",
		},
	})
}

// Config returns the collector-facing configuration. Database and broker
// settings stay private.
// GET /api/v1/config
func (h *InfoHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "egx-collector",
		"config": gin.H{
			"mubasher": gin.H{
				"englishBase":    h.cfg.Mubasher.EnglishBase,
				"arabicBase":     h.cfg.Mubasher.ArabicBase,
				"stocksEndpoint": h.cfg.Mubasher.StocksEndpoint,
				"fairValues":     h.cfg.Mubasher.FairValues,
				"ipos":           h.cfg.Mubasher.IPOs,
				"pageSize":       h.cfg.Mubasher.PageSize,
				"requestDelay":   h.cfg.Mubasher.RequestDelay.String(),
				"maxPages":       h.cfg.Mubasher.MaxPages,
			},
			"retry": gin.H{
				"maxAttempts":   h.cfg.Retry.MaxAttempts,
				"baseDelay":     h.cfg.Retry.BaseDelay.String(),
				"maxDelay":      h.cfg.Retry.MaxDelay.String(),
				"backoffFactor": h.cfg.Retry.BackoffFactor,
			},
		},
		"timestamp": time.Now(),
	})
}
