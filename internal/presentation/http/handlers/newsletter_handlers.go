// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// NewsletterHandlers contains the public subscribe/unsubscribe handlers
type NewsletterHandlers struct {
	subscriberService *services.SubscriberService
	logger            *logging.ChanneledLogger
}

// NewNewsletterHandlers creates newsletter handlers with injected dependencies
func NewNewsletterHandlers(subscriberService *services.SubscriberService, logger *logging.ChanneledLogger) *NewsletterHandlers {
	return &NewsletterHandlers{
		subscriberService: subscriberService,
		logger:            logger,
	}
}

type emailRequest struct {
	Email string `json:"email"`
}

// PostSubscribe handles POST /api/v1/newsletter/subscribe
func (h *NewsletterHandlers) PostSubscribe(c *gin.Context) {
	start := time.Now()

	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
		return
	}

	added, err := h.subscriberService.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe. Please try again."})
		return
	}

	if !added {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This email is already subscribed"})
		return
	}

	h.logger.Newsletter().Debug("Subscribe request served", "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully subscribed to the newsletter!",
	})
}

// PostUnsubscribe handles POST /api/v1/newsletter/unsubscribe
func (h *NewsletterHandlers) PostUnsubscribe(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
		return
	}
	h.unsubscribe(c, req.Email)
}

// GetUnsubscribe handles GET /api/v1/newsletter/unsubscribe?email= so the
// footer link in sent emails works without a form post.
func (h *NewsletterHandlers) GetUnsubscribe(c *gin.Context) {
	h.unsubscribe(c, c.Query("email"))
}

func (h *NewsletterHandlers) unsubscribe(c *gin.Context, email string) {
	removed, err := h.subscriberService.Unsubscribe(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unsubscribe. Please try again."})
		return
	}

	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found in subscriber list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully unsubscribed from the newsletter",
	})
}
