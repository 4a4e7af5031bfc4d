package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the services in this package. Callers select on
// these with errors.Is; presentation stays in the transport layer.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
)

// DomainError carries one of the kinds above plus the minimal context needed
// to describe the failure: the offending input fields and, for conflicts,
// the id of the record already holding the contested state.
type DomainError struct {
	Kind     error
	Message  string
	Fields   []string
	RecordID uint
}

func (domainErr *DomainError) Error() string {
	if len(domainErr.Fields) == 0 {
		return domainErr.Message
	}
	return fmt.Sprintf("%s: %s", domainErr.Message, strings.Join(domainErr.Fields, ", "))
}

func (domainErr *DomainError) Unwrap() error {
	return domainErr.Kind
}

// ErrorFields returns the offending field names when err wraps a DomainError.
func ErrorFields(err error) []string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Fields
	}
	return nil
}

// ErrorRecordID returns the conflicting record id when err wraps a
// DomainError, zero otherwise.
func ErrorRecordID(err error) uint {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.RecordID
	}
	return 0
}
