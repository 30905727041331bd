package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/retailops/backend/internal/interfaces/http/dto"
)

// SystemHandler exposes liveness and readiness endpoints.
type SystemHandler struct {
	BaseHandler
	db      *gorm.DB
	appName string
	env     string
}

// NewSystemHandler creates a system handler.
func NewSystemHandler(db *gorm.DB, appName, env string) *SystemHandler {
	return &SystemHandler{db: db, appName: appName, env: env}
}

// RegisterRoutes mounts the system endpoints on the router root so they stay
// outside the authenticated API group.
func (h *SystemHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}

// Health handles GET /health. It reports liveness only and never touches
// downstream dependencies.
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status": "ok",
		"app":    h.appName,
		"env":    h.env,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready. It fails when the database is unreachable.
func (h *SystemHandler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrCodeInternal, "Database unavailable"))
		return
	}
	h.Success(c, gin.H{"status": "ready"})
}
