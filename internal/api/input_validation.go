package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"jornada/internal/services"
)

func parseRegisterInput(c *fiber.Ctx) (registerInput, error) {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return registerInput{}, err
	}

	email, err := services.NormalizeAuthEmail(input.Email)
	if err != nil {
		return registerInput{}, errors.New("invalid email")
	}
	input.Email = email
	input.Name = strings.TrimSpace(input.Name)
	input.Password = strings.TrimSpace(input.Password)
	input.ConfirmPassword = strings.TrimSpace(input.ConfirmPassword)

	if input.Name == "" {
		return registerInput{}, errors.New("name is required")
	}
	if input.Password == "" {
		return registerInput{}, errors.New("missing credentials")
	}
	if input.Password != input.ConfirmPassword {
		return registerInput{}, errors.New("passwords do not match")
	}

	return input, nil
}

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	credentials := credentialsInput{}
	if err := c.BodyParser(&credentials); err != nil {
		return credentialsInput{}, err
	}

	credentials.RememberMe = credentials.RememberMe || parseBoolValue(c.FormValue("remember_me"))

	email, password, err := services.NormalizeCredentialsInput(credentials.Email, credentials.Password)
	if err != nil {
		return credentialsInput{}, errors.New("missing credentials")
	}
	credentials.Email = email
	credentials.Password = password

	return credentials, nil
}

func parseBoolValue(value string) bool {
	normalized := strings.ToLower(strings.TrimSpace(value))
	return normalized == "1" || normalized == "true" || normalized == "on" || normalized == "yes"
}

// parseDayQuery reads a YYYY-MM-DD query value, defaulting to today when the
// value is empty.
func parseDayQuery(raw string, now time.Time, location *time.Location) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return services.DateAtLocation(now, location), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, err
	}
	return services.DateAtLocation(parsed, location), nil
}

// parseOptionalDayQuery reads a YYYY-MM-DD query value, returning nil when
// the value is empty so callers can treat the bound as open.
func parseOptionalDayQuery(raw string, location *time.Location) (*time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, location)
	if err != nil {
		return nil, err
	}
	day := services.DateAtLocation(parsed, location)
	return &day, nil
}

// parseDateTimeValue accepts RFC 3339 or a local "YYYY-MM-DD HH:MM" stamp.
func parseDateTimeValue(raw string, location *time.Location) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, errors.New("timestamp is required")
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.In(location), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, location)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

func parseOptionalUintQuery(raw string) (*uint, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, errors.New("invalid id")
	}
	result := uint(parsed)
	return &result, nil
}

func parseOptionalDueDate(raw *string, location *time.Location) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return nil, errors.New("invalid due date")
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, location)
	if err != nil {
		return nil, errors.New("invalid due date")
	}
	date := services.DateAtLocation(parsed, location)
	return &date, nil
}
