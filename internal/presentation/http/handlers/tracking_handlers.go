package handlers

import (
	"net/http"
	"strings"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// 1x1 transparent GIF
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x2c,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackingHandlers serves the open pixel and click redirect embedded in
// every sent email. Both must respond normally no matter what the tracking
// store does.
type TrackingHandlers struct {
	trackingService *services.TrackingService
	siteURL         string
	logger          *logging.ChanneledLogger
}

// NewTrackingHandlers creates tracking handlers with injected dependencies
func NewTrackingHandlers(trackingService *services.TrackingService, siteURL string, logger *logging.ChanneledLogger) *TrackingHandlers {
	return &TrackingHandlers{
		trackingService: trackingService,
		siteURL:         siteURL,
		logger:          logger,
	}
}

// GetOpenPixel handles GET /api/v1/newsletter/track/open
func (h *TrackingHandlers) GetOpenPixel(c *gin.Context) {
	emailID := c.Query("emailId")
	email := c.Query("email")

	if emailID != "" && email != "" {
		h.trackingService.RecordOpen(c.Request.Context(), emailID, email, realIP(c), c.Request.UserAgent())
	}

	c.Header("Content-Type", "image/gif")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "image/gif", pixelGIF)
}

// GetClickRedirect handles GET /api/v1/newsletter/track/click. The reader
// is always redirected, falling back to the site root when the url
// parameter is absent.
func (h *TrackingHandlers) GetClickRedirect(c *gin.Context) {
	emailID := c.Query("emailId")
	email := c.Query("email")
	target := c.Query("url")

	if target == "" {
		target = h.siteURL
	}

	if emailID != "" && email != "" {
		h.trackingService.RecordClick(c.Request.Context(), emailID, email, target, realIP(c), c.Request.UserAgent())
	}

	c.Redirect(http.StatusTemporaryRedirect, target)
}

func realIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	return c.ClientIP()
}
