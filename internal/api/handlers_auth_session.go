package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"jornada/internal/models"
	"jornada/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	input, err := parseRegisterInput(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := services.ValidatePasswordStrength(input.Password); err != nil {
		return apiError(c, fiber.StatusBadRequest, "weak password")
	}

	handler.ensureDependencies()
	exists, err := handler.authService.RegistrationEmailExists(input.Email)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}
	if exists {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	// The first account to register runs the place.
	firstUser, err := handler.authService.FirstUserBecomesManager()
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create account")
	}
	role := models.RoleWorker
	if firstUser {
		role = models.RoleManager
	}

	user := models.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(passwordHash),
		Role:         role,
		Active:       true,
		CreatedAt:    time.Now().In(handler.location),
	}
	if err := handler.authService.CreateUser(&user); err != nil {
		return apiError(c, fiber.StatusConflict, "email already exists")
	}

	token, err := handler.issueAuthToken(c, &user, true)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  buildUserView(user),
		"token": token,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	credentials, err := parseCredentials(c)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.blocked(limiterKey, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	handler.ensureDependencies()
	user, err := handler.authService.FindByNormalizedEmail(credentials.Email)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		handler.loginLimiter.addFailure(limiterKey, now)
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if !user.Active {
		return apiError(c, fiber.StatusForbidden, "account deactivated")
	}

	handler.loginLimiter.reset(limiterKey)

	if user.MustChangePassword {
		// Short-lived token so the client can reach change-password with the
		// temporary credentials; the middleware gate blocks everything else.
		token, err := handler.buildToken(&user, passwordChangeTokenTTL)
		if err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to create session")
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":                "password change required",
			"must_change_password": true,
			"token":                token,
		})
	}

	token, err := handler.issueAuthToken(c, &user, credentials.RememberMe)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	return c.JSON(fiber.Map{
		"user":  buildUserView(user),
		"token": token,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok || user == nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(buildUserView(*user))
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok || user == nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	handler.ensureDependencies()
	if err := handler.authService.ValidatePasswordChange(user.PasswordHash, input.CurrentPassword, input.NewPassword, input.ConfirmPassword); err != nil {
		return apiError(c, fiber.StatusBadRequest, changePasswordErrorMessage(err))
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(input.NewPassword)), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to secure password")
	}

	if err := handler.authService.UpdatePassword(user.ID, string(newHash), false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to change password")
	}

	return c.JSON(fiber.Map{"ok": true})
}

func changePasswordErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrPasswordChangeInvalidInput):
		return "invalid input"
	case errors.Is(err, services.ErrPasswordMismatch):
		return "passwords do not match"
	case errors.Is(err, services.ErrInvalidCurrentPassword):
		return "current password is incorrect"
	case errors.Is(err, services.ErrNewPasswordMustDiffer):
		return "new password must differ"
	case errors.Is(err, services.ErrWeakPassword):
		return "weak password"
	default:
		return "invalid input"
	}
}
