package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/auth"
	"github.com/betaops/beta-manager/internal/config"
	"github.com/betaops/beta-manager/pkg/util"
)

func newAuthService(t *testing.T, email, password string) *AuthService {
	t.Helper()
	hash := ""
	if password != "" {
		var err error
		hash, err = auth.HashPassword(password)
		require.NoError(t, err)
	}
	cfg := config.AuthConfig{
		AdminEmail:        email,
		AdminPasswordHash: hash,
	}
	return NewAuthService(cfg, auth.NewTokenManager("test-secret", 1), zap.NewNop())
}

func TestAuthLogin(t *testing.T) {
	svc := newAuthService(t, "admin@example.com", "hunter2")

	token, expiresAt, err := svc.Login(context.Background(), "admin@example.com", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
}

func TestAuthLoginEmailCaseInsensitive(t *testing.T) {
	svc := newAuthService(t, "admin@example.com", "hunter2")

	_, _, err := svc.Login(context.Background(), "Admin@Example.COM", "hunter2")
	assert.NoError(t, err)
}

func TestAuthLoginRejections(t *testing.T) {
	cases := []struct {
		name     string
		svc      func(t *testing.T) *AuthService
		email    string
		password string
	}{
		{
			name:     "wrong password",
			svc:      func(t *testing.T) *AuthService { return newAuthService(t, "admin@example.com", "hunter2") },
			email:    "admin@example.com",
			password: "hunter3",
		},
		{
			name:     "unknown email",
			svc:      func(t *testing.T) *AuthService { return newAuthService(t, "admin@example.com", "hunter2") },
			email:    "intruder@example.com",
			password: "hunter2",
		},
		{
			name:     "no admin configured",
			svc:      func(t *testing.T) *AuthService { return newAuthService(t, "", "") },
			email:    "admin@example.com",
			password: "hunter2",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := tc.svc(t).Login(context.Background(), tc.email, tc.password)
			require.Error(t, err)

			// Every rejection reads the same so the response does not
			// leak which check failed.
			domainErr := util.ToDomainError(err)
			assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
			assert.Equal(t, "invalid credentials", domainErr.Message)
		})
	}
}
