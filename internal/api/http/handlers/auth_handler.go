package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/dto"
	"github.com/spec-kit/support-desk/internal/auth"
	apperrors "github.com/spec-kit/support-desk/pkg/util"
)

// AuthHandler issues admin bearer tokens.
type AuthHandler struct {
	admin *auth.AdminAuth
}

// NewAuthHandler constructs handler.
func NewAuthHandler(admin *auth.AdminAuth) *AuthHandler {
	return &AuthHandler{admin: admin}
}

// IssueToken POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Key == "" {
		return apperrors.NewValidationError("key required", nil)
	}
	token, expiresAt, err := h.admin.IssueToken(req.Key)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token, ExpiresAt: expiresAt})
}
