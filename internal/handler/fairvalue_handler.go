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

// FairValueHandler handles fair value HTTP requests
type FairValueHandler struct {
	fairValueService *service.FairValueService
	logger           *zap.Logger
}

// NewFairValueHandler creates a new fair value handler
func NewFairValueHandler(fairValueService *service.FairValueService, logger *zap.Logger) *FairValueHandler {
	return &FairValueHandler{
		fairValueService: fairValueService,
		logger:           logger,
	}
}

// CollectFairValues triggers fair value collection in the background.
// POST /api/v1/fair-values/collect
func (h *FairValueHandler) CollectFairValues(c *gin.Context) {
	go func() {
		if _, err := h.fairValueService.CollectAndSave(context.Background()); err != nil {
			h.logger.Error("Background fair value collection failed", zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, model.CollectionResponse{
		Success:   true,
		Message:   "Fair value collection started in background",
		Timestamp: time.Now(),
	})
}

// CollectFairValuesSync triggers fair value collection and waits.
// POST /api/v1/fair-values/collect/sync
func (h *FairValueHandler) CollectFairValuesSync(c *gin.Context) {
	count, err := h.fairValueService.CollectAndSave(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrCollectionInProgress) {
			utils.SendErrorResponse(c, http.StatusConflict, "Fair value collection already in progress")
			return
		}
		h.logger.Error("Synchronous fair value collection failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.CollectionResponse{
			Success:   false,
			Message:   "Collection failed: " + err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.JSON(http.StatusOK, model.CollectionResponse{
		Success:   true,
		Message:   "Fair value collection completed successfully",
		Count:     &count,
		Timestamp: time.Now(),
	})
}

// GetFairValues returns all persisted fair values.
// GET /api/v1/fair-values
func (h *FairValueHandler) GetFairValues(c *gin.Context) {
	fairValues, err := h.fairValueService.GetFairValues(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get fair values", zap.Error(err))
		utils.SendErrorResponse(c, http.StatusInternalServerError, "Failed to get fair values")
		return
	}

	c.JSON(http.StatusOK, fairValues)
}
