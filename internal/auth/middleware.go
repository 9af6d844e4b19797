package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AdminAuth protects administrative routes with a bearer token exchanged
// for the configured admin key. When no key hash is configured the
// middleware passes requests through, keeping the API open for
// development deployments.
type AdminAuth struct {
	tokens       *TokenManager
	adminKeyHash string
}

// NewAdminAuth builds the middleware and token issuer.
func NewAdminAuth(tokens *TokenManager, adminKeyHash string) *AdminAuth {
	return &AdminAuth{tokens: tokens, adminKeyHash: adminKeyHash}
}

// Enabled reports whether admin authentication is configured.
func (a *AdminAuth) Enabled() bool {
	return a.adminKeyHash != ""
}

// IssueToken exchanges the admin key for a signed JWT.
func (a *AdminAuth) IssueToken(key string) (string, int64, error) {
	if !a.Enabled() {
		return "", 0, apperrors.NewUnauthorized("admin authentication not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.adminKeyHash), []byte(key)); err != nil {
		return "", 0, apperrors.NewUnauthorized("invalid admin key")
	}
	token, expiresAt, err := a.tokens.GenerateToken()
	if err != nil {
		return "", 0, apperrors.MapError(err)
	}
	return token, expiresAt.Unix(), nil
}

// RequireAdmin validates the bearer token on protected routes.
func (a *AdminAuth) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !a.Enabled() {
			return c.Next()
		}
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return apperrors.NewUnauthorized("bearer token required")
		}
		claims, err := a.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil || claims.Role != "admin" {
			return apperrors.NewUnauthorized("invalid or expired token")
		}
		return c.Next()
	}
}
