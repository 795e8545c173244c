package handlers

import (
	"errors"
	"net/http"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// SubscriberHandlers contains the admin subscriber management handlers
type SubscriberHandlers struct {
	subscriberService *services.SubscriberService
	logger            *logging.ChanneledLogger
}

// NewSubscriberHandlers creates subscriber handlers with injected dependencies
func NewSubscriberHandlers(subscriberService *services.SubscriberService, logger *logging.ChanneledLogger) *SubscriberHandlers {
	return &SubscriberHandlers{
		subscriberService: subscriberService,
		logger:            logger,
	}
}

// GetSubscribers handles GET /api/v1/newsletter/subscribers
func (h *SubscriberHandlers) GetSubscribers(c *gin.Context) {
	subs, err := h.subscriberService.List(c.Request.Context())
	if err != nil {
		h.logger.Newsletter().Error("Failed to list subscribers", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscribers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(subs),
		"subscribers": subs,
	})
}

// PostSubscriber handles POST /api/v1/newsletter/subscribers - manual add
func (h *SubscriberHandlers) PostSubscriber(c *gin.Context) {
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add subscriber"})
		return
	}

	if !added {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This email is already subscribed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteSubscriber handles DELETE /api/v1/newsletter/subscribers - remove
// by email, taken from the JSON body or the email query parameter.
func (h *SubscriberHandlers) DeleteSubscriber(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		req.Email = c.Query("email")
	}

	removed, err := h.subscriberService.Unsubscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, services.ErrInvalidEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valid email is required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscriber"})
		return
	}

	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Email not found in subscriber list"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
