package handlers

import (
	"net/http"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// SendHandlers contains the admin dispatch, post-check, and tracking-report
// handlers
type SendHandlers struct {
	dispatchService  *services.DispatchService
	postCheckService *services.PostCheckService
	trackingService  *services.TrackingService
	logger           *logging.ChanneledLogger
}

// NewSendHandlers creates send handlers with injected dependencies
func NewSendHandlers(
	dispatchService *services.DispatchService,
	postCheckService *services.PostCheckService,
	trackingService *services.TrackingService,
	logger *logging.ChanneledLogger,
) *SendHandlers {
	return &SendHandlers{
		dispatchService:  dispatchService,
		postCheckService: postCheckService,
		trackingService:  trackingService,
		logger:           logger,
	}
}

// PostSendPost handles POST /api/v1/newsletter/send-post - manual dispatch
// of a single post to every subscriber.
func (h *SendHandlers) PostSendPost(c *gin.Context) {
	var post newsletter.Post
	if err := c.ShouldBindJSON(&post); err != nil || post.Title == "" || post.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and slug are required"})
		return
	}

	start := time.Now()
	result, err := h.dispatchService.SendForPost(c.Request.Context(), post)
	if err != nil {
		h.logger.Email().Error("Manual dispatch failed", "slug", post.Slug, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send newsletter"})
		return
	}

	h.logger.Email().Info("Manual dispatch completed",
		"slug", post.Slug, "sent", result.Sent, "failed", result.Failed, "duration", time.Since(start))
	c.JSON(http.StatusOK, result)
}

// PostCheckNewPosts handles POST /api/v1/newsletter/check-new-posts - scan
// the content directory and dispatch every published post not yet sent.
func (h *SendHandlers) PostCheckNewPosts(c *gin.Context) {
	result, err := h.postCheckService.CheckContentDir(c.Request.Context())
	if err != nil {
		h.logger.Newsletter().Error("Post check failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check for new posts"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSentPosts handles GET /api/v1/newsletter/check-new-posts - the sent
// ledger listing.
func (h *SendHandlers) GetSentPosts(c *gin.Context) {
	markers, err := h.postCheckService.SentPosts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sent posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(markers),
		"sentPosts": markers,
	})
}

// GetTrackingRecords handles GET /api/v1/newsletter/tracking
func (h *SendHandlers) GetTrackingRecords(c *gin.Context) {
	records, stats, err := h.trackingService.ListWithStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tracking records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"records": records,
		"stats":   stats,
	})
}

// GetTrackingRecord handles GET /api/v1/newsletter/tracking/:emailId
func (h *SendHandlers) GetTrackingRecord(c *gin.Context) {
	emailID := c.Param("emailId")

	record, err := h.trackingService.GetRecord(c.Request.Context(), emailID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load tracking record"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tracking record not found"})
		return
	}

	c.JSON(http.StatusOK, record)
}
