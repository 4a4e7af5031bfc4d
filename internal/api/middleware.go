package api

import (
	"github.com/gofiber/fiber/v2"

	"jornada/internal/models"
	"jornada/internal/services"
)

const (
	authCookieName = "jornada_auth"
	contextUserKey = "current_user"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

func currentActor(c *fiber.Ctx) (services.Actor, bool) {
	user, ok := currentUser(c)
	if !ok || user == nil {
		return services.Actor{}, false
	}
	return services.Actor{ID: user.ID, Role: user.Role}, true
}
