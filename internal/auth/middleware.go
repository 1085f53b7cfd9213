package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/betaops/beta-manager/pkg/util"
)

const principalKey = "auth_principal"

// CookieName is the session cookie holding the signed token. The admin
// dashboard authenticates via this cookie; a Bearer header works too.
const CookieName = "token"

// Principal represents the authenticated caller.
type Principal struct {
	Email string
	Role  string
}

// Middleware validates session tokens on protected routes.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(CookieName)
	if token == "" {
		authHeader := c.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}
	}
	if token == "" {
		return apperrors.NewUnauthorized("no token provided")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(principalKey, &Principal{Email: claims.Email, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
