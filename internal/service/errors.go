package service

import (
	"errors"
	"strings"
)

var (
	ErrMealNotFound    = errors.New("meal not found")
	ErrMealExists      = errors.New("meal id already exists")
	ErrOrderNotFound   = errors.New("order not found")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrProfileNotFound = errors.New("profile not found")
)

// ValidationError is a client error. Message is safe to return as-is and
// Fields names the offending input fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missing(fields ...string) *ValidationError {
	return &ValidationError{
		Message: "Missing data: " + strings.Join(fields, ", ") + " is missing or invalid.",
		Fields:  fields,
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
