package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// HealthHandler reports service and database health
type HealthHandler struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sqlx.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// Health reports overall status. An unreachable database degrades the
// service instead of failing it; collection endpoints will error until the
// database returns.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "healthy"
	status := "healthy"

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		h.logger.Warn("Database health check failed", zap.Error(err))
		dbStatus = "unreachable"
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now(),
	})
}
