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

// IPOHandler handles IPO HTTP requests
type IPOHandler struct {
	ipoService *service.IPOService
	logger     *zap.Logger
}

// NewIPOHandler creates a new IPO handler
func NewIPOHandler(ipoService *service.IPOService, logger *zap.Logger) *IPOHandler {
	return &IPOHandler{
		ipoService: ipoService,
		logger:     logger,
	}
}

// CollectIPOs triggers IPO collection in the background.
// POST /api/v1/ipos/collect
func (h *IPOHandler) CollectIPOs(c *gin.Context) {
	go func() {
		if _, err := h.ipoService.CollectAndSave(context.Background()); err != nil {
			h.logger.Error("Background IPO collection failed", zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, model.CollectionResponse{
		Success:   true,
		Message:   "IPO collection started in background",
		Timestamp: time.Now(),
	})
}

// CollectIPOsSync triggers IPO collection and waits.
// POST /api/v1/ipos/collect/sync
func (h *IPOHandler) CollectIPOsSync(c *gin.Context) {
	count, err := h.ipoService.CollectAndSave(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrCollectionInProgress) {
			utils.SendErrorResponse(c, http.StatusConflict, "IPO collection already in progress")
			return
		}
		h.logger.Error("Synchronous IPO collection failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.CollectionResponse{
			Success:   false,
			Message:   "Collection failed: " + err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, model.CollectionResponse{
		Success:   true,
		Message:   "IPO collection completed successfully",
		Count:     &count,
		Timestamp: time.Now(),
	})
}

// GetIPOs returns all persisted IPO announcements.
// GET /api/v1/ipos
func (h *IPOHandler) GetIPOs(c *gin.Context) {
	ipos, err := h.ipoService.GetIPOs(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get IPOs", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to get IPOs")
		return
	}

	c.JSON(http.StatusOK, ipos)
}
