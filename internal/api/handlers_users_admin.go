package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"jornada/internal/models"
	"jornada/internal/security"
	"jornada/internal/services"
)

const tempPasswordLength = 12

func (handler *Handler) ListUsers(c *fiber.Ctx) error {
	handler.ensureDependencies()

	activeFilter := strings.TrimSpace(c.Query("active"))
	var users []models.User
	var err error
	if activeFilter == "" {
		users, err = handler.authService.ListUsers()
	} else {
		users, err = handler.authService.ListUsersByActive(parseBoolValue(activeFilter))
	}
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}

	return c.JSON(buildUserViews(users))
}

// CreateWorker provisions a worker account with a generated temporary
// password. The password appears in this response once and nowhere else.
func (handler *Handler) CreateWorker(c *fiber.Ctx) error {
	input := createWorkerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	email, err := services.NormalizeAuthEmail(input.Email)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid email")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return apiError(c, fiber.StatusBadRequest, "name is required")
	}

	handler.ensureDependencies()
	exists, err := handler.authService.RegistrationEmailExists(email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create user")
	}
	if exists {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	tempPassword, err := security.TempPassword(tempPasswordLength)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to generate password")
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	user := models.User{
		Email:              email,
		Name:               name,
		PasswordHash:       string(passwordHash),
		Role:               models.RoleWorker,
		Active:             true,
		MustChangePassword: true,
		CreatedAt:          time.Now().In(handler.location),
	}
	if err := handler.authService.CreateUser(&user); err != nil {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":          buildUserView(user),
		"temp_password": tempPassword,
	})
}

func (handler *Handler) DeactivateUser(c *fiber.Ctx) error {
	actingUser, ok := currentUser(c)
	if !ok || actingUser == nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if userID == actingUser.ID {
		return apiError(c, fiber.StatusBadRequest, "cannot deactivate your own account")
	}

	handler.ensureDependencies()
	user, err := handler.authService.FindByID(userID)
	if err != nil {
		return apiError(c, fiber.StatusNotFound, "user not found")
	}
	if err := handler.authService.SetUserActive(user.ID, false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to deactivate user")
	}

	user.Active = false
	return c.JSON(buildUserView(user))
}

func (handler *Handler) ReactivateUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	handler.ensureDependencies()
	user, err := handler.authService.FindByID(userID)
	if err != nil {
		return apiError(c, fiber.StatusNotFound, "user not found")
	}
	if err := handler.authService.SetUserActive(user.ID, true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to reactivate user")
	}

	user.Active = true
	return c.JSON(buildUserView(user))
}

// ResetUserPassword replaces the user's password with a generated temporary
// one and forces a change on next login.
func (handler *Handler) ResetUserPassword(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	handler.ensureDependencies()
	user, err := handler.authService.FindByID(userID)
	if err != nil {
		return apiError(c, fiber.StatusNotFound, "user not found")
	}

	tempPassword, err := security.TempPassword(tempPasswordLength)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to generate password")
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	if err := handler.authService.UpdatePassword(user.ID, string(passwordHash), true); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to reset password")
	}

	return c.JSON(fiber.Map{
		"user_id":       user.ID,
		"temp_password": tempPassword,
	})
}
