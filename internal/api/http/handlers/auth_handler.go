package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/betaops/beta-manager/internal/api/dto"
	"github.com/betaops/beta-manager/internal/auth"
	"github.com/betaops/beta-manager/internal/service"
	"github.com/betaops/beta-manager/pkg/util"
)

// AuthHandler exposes login/logout for the admin dashboard.
type AuthHandler struct {
	auth   *service.AuthService
	secure bool
}

// NewAuthHandler constructs the handler. secure controls the cookie's
// Secure flag and should be true outside development.
func NewAuthHandler(authService *service.AuthService, secure bool) *AuthHandler {
	return &AuthHandler{auth: authService, secure: secure}
}

// Login handles POST /api/auth/login. The token is returned in the body
// and set as an HttpOnly cookie.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})

	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     req.Email,
	}})
}

// Logout handles POST /api/auth/logout by expiring the session cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Me handles GET /api/auth/me for session introspection.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("no session")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"email": principal.Email,
		"role":  principal.Role,
	}})
}
