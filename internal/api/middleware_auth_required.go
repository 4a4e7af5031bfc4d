package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"jornada/internal/models"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		if errors.Is(err, errAccountDeactivated) {
			return apiError(c, fiber.StatusForbidden, "account deactivated")
		}
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserKey, user)
	if user.MustChangePassword && !isPasswordChangePath(c.Path()) {
		return apiError(c, fiber.StatusForbidden, "password change required")
	}

	return c.Next()
}

// isPasswordChangePath lists what an account with a temporary password may
// still reach.
func isPasswordChangePath(path string) bool {
	switch path {
	case "/api/auth/change-password", "/api/auth/me", "/api/auth/logout":
		return true
	default:
		return false
	}
}

// ManagerOnly must run after AuthRequired.
func (handler *Handler) ManagerOnly(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok || user == nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.Role != models.RoleManager {
		return apiError(c, fiber.StatusForbidden, "manager access required")
	}
	return c.Next()
}
