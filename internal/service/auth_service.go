package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/auth"
	"github.com/betaops/beta-manager/internal/config"
	"github.com/betaops/beta-manager/pkg/util"
)

// AuthService authenticates the single configured admin account.
type AuthService struct {
	cfg    config.AuthConfig
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, tokens: tokens, logger: logger}
}

// Login verifies admin credentials and mints a session token. The same
// generic error covers unknown email and wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPasswordHash == "" {
		s.logger.Warn("login attempted with no admin account configured")
		return "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}

	if !strings.EqualFold(email, s.cfg.AdminEmail) {
		return "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(s.cfg.AdminPasswordHash, password); err != nil {
		s.logger.Info("failed login attempt", zap.String("email", email))
		return "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(s.cfg.AdminEmail)
	if err != nil {
		return "", time.Time{}, util.NewInternalError(err)
	}
	return token, expiresAt, nil
}

// TokenTTL exposes the session lifetime for cookie expiry.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
