package services

import (
	"fmt"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"github.com/Gerrylewin/shopguide-blog/pkg/config"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthService issues and validates admin tokens for the dashboard and the
// privileged newsletter endpoints.
type AuthService struct {
	passwordHash string
	jwtSecret    string
	legacyToken  string
	tokenTTL     time.Duration
	logger       *logging.ChanneledLogger
}

// NewAuthService creates the auth service from configuration.
func NewAuthService(cfg *config.Config, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		passwordHash: cfg.AdminPasswordHash,
		jwtSecret:    cfg.JWTSecret,
		legacyToken:  cfg.LegacyAPIToken,
		tokenTTL:     config.AdminTokenTTL,
		logger:       logger,
	}
}

// Configured reports whether admin login is possible.
func (s *AuthService) Configured() bool {
	return s.passwordHash != "" && s.jwtSecret != ""
}

// Login checks the admin password and returns a signed JWT.
func (s *AuthService) Login(password string) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("admin auth is not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Auth().Warn("Admin login attempt failed")
		return "", fmt.Errorf("invalid password")
	}

	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	s.logger.Auth().Info("Admin login succeeded")
	return token, nil
}

// ValidateToken verifies an admin JWT.
func (s *AuthService) ValidateToken(tokenString string) error {
	if s.jwtSecret == "" {
		return fmt.Errorf("admin auth is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid token")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return fmt.Errorf("insufficient role")
	}
	return nil
}

// ValidLegacyToken accepts the original static bearer token so existing
// cron and webhook callers keep working.
func (s *AuthService) ValidLegacyToken(token string) bool {
	return s.legacyToken != "" && token == s.legacyToken
}
