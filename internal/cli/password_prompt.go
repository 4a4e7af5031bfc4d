package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"jornada/internal/services"
)

// promptPassword reads a password from the terminal with echo disabled.
func promptPassword(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	value, err := readSecretLine(os.Stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(value)), nil
}

// promptNewPassword asks for a password twice and enforces the same strength
// policy the API applies.
func promptNewPassword() (string, error) {
	password, err := promptPassword("Password: ")
	if err != nil {
		return "", err
	}
	if err := services.ValidatePasswordStrength(password); err != nil {
		return "", errors.New("password must be at least 8 characters with upper case, lower case and a digit")
	}

	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}

	return password, nil
}
