package middleware

import (
	"net/http"
	"strings"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards the privileged newsletter endpoints. It accepts
// either an admin JWT (from the login endpoint, via bearer header or the
// admin_auth cookie) or the static legacy API token used by cron callers.
func AdminAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie("admin_auth"); err == nil {
				token = cookie
			}
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		if authService.ValidLegacyToken(token) {
			c.Next()
			return
		}

		if err := authService.ValidateToken(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
