package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/yourorg/egx-collector/internal/model"
	"github.com/yourorg/egx-collector/internal/service"
	"github.com/yourorg/egx-collector/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StockHandler handles stock HTTP requests
type StockHandler struct {
	stockService *service.StockService
	logger       *zap.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		stockService: stockService,
		logger:       logger,
	}
}

// CollectStocks triggers stock collection in the background and returns
// immediately.
// POST /api/v1/stocks/collect
func (h *StockHandler) CollectStocks(c *gin.Context) {
	// Detached from the request context: the caller is not waiting and the
	// run must not die with the request.
	go func() {
		if _, err := h.stockService.CollectAndSave(context.Background()); err != nil {
			h.logger.Error("Background stock collection failed", zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, model.CollectionResponse{
		Success:   true,
		Message:   "Stock collection started in background",
		Timestamp: time.Now(),
	})
}

// CollectStocksSync triggers stock collection and waits for completion.
// POST /api/v1/stocks/collect/sync
func (h *StockHandler) CollectStocksSync(c *gin.Context) {
	count, err := h.stockService.CollectAndSave(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrCollectionInProgress) {
			utils.SendErrorResponse(c, http.StatusConflict, "Stock collection already in progress")
			return
		}
		h.logger.Error("Synchronous stock collection failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.CollectionResponse{
			Success:   false,
			Message:   "Collection failed: " + err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, model.CollectionResponse{
		Success:   true,
		Message:   "Stock collection completed successfully",
		Count:     &count,
		Timestamp: time.Now(),
	})
}

// GetStocks returns all active stocks.
// GET /api/v1/stocks
func (h *StockHandler) GetStocks(c *gin.Context) {
	stocks, err := h.stockService.GetStocks(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get stocks", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to get stocks")
		return
	}

	c.JSON(http.StatusOK, stocks)
}
