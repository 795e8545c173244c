package handlers

import (
	"net/http"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// DebugHandlers contains the diagnostic handlers
type DebugHandlers struct {
	configService *services.ConfigService
	logger        *logging.ChanneledLogger
}

// NewDebugHandlers creates debug handlers with injected dependencies
func NewDebugHandlers(configService *services.ConfigService, logger *logging.ChanneledLogger) *DebugHandlers {
	return &DebugHandlers{
		configService: configService,
		logger:        logger,
	}
}

// GetStatus handles GET /api/v1/newsletter/debug - configuration presence
// report. Secret values are never included.
func (h *DebugHandlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.configService.Status(c.Request.Context()))
}

// GetHealth handles GET /api/v1/health - liveness probe
func (h *DebugHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
