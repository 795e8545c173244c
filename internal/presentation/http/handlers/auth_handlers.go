package handlers

import (
	"net/http"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains the admin authentication handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
	}
}

// PostLogin handles POST /api/v1/auth/login - admin authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()

	var loginReq struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	token, err := h.authService.Login(loginReq.Password)
	if err != nil {
		h.logger.Auth().Warn("Login attempt failed", "duration", time.Since(start))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	// HTTP-only cookie for the admin dashboard; the token is also returned
	// for API callers.
	c.SetCookie(
		"admin_auth", // name
		token,        // value
		86400,        // maxAge (24 hours in seconds)
		"/",          // path
		"",           // domain (empty for current domain)
		false,        // secure (set to true in production)
		true,         // httpOnly
	)

	h.logger.Auth().Info("Login successful", "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// PostLogout handles POST /api/v1/auth/logout - clears the admin cookie
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	c.SetCookie("admin_auth", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
