package service

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all services. Handlers map these onto HTTP
// statuses; services never import net/http.
var (
	ErrDuplicateIdentity  = errors.New("username or email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrNotFound           = errors.New("record not found")
	ErrExternalService    = errors.New("external recipe service unavailable")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
