package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gerrylewin/shopguide-blog/internal/application/services"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*gin.Engine, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	authService := services.NewAuthService(&config.Config{
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		LegacyAPIToken:    "legacy-token",
	}, logger)

	r := gin.New()
	r.GET("/protected", AdminAuthMiddleware(authService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r, authService
}

func get(r *gin.Engine, header, cookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "admin_auth", Value: cookie})
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuth_RejectsMissingAndBadTokens(t *testing.T) {
	r, _ := newAuthFixture(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer garbage", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "", "garbage").Code)
}

func TestAdminAuth_AcceptsJWTFromLogin(t *testing.T) {
	r, authService := newAuthFixture(t)

	token, err := authService.Login("admin-pass")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token, "").Code)
	assert.Equal(t, http.StatusOK, get(r, "", token).Code, "cookie auth must work for the dashboard")
}

func TestAdminAuth_AcceptsLegacyToken(t *testing.T) {
	r, _ := newAuthFixture(t)

	assert.Equal(t, http.StatusOK, get(r, "Bearer legacy-token", "").Code)
}
