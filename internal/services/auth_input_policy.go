package services

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrAuthEmailInvalid       = errors.New("auth email invalid")
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
)

// NormalizeAuthEmail lowercases and trims the address, rejecting anything
// that does not parse as a plain mailbox.
func NormalizeAuthEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", ErrAuthEmailInvalid
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrAuthEmailInvalid
	}
	return email, nil
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email, err := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if err != nil || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}
