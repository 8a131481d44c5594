package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Validation codes shared by the services and asserted on by clients.
const (
	CodeDuplicateIngredient = "duplicate ingredient"
	CodeAlreadyAdded        = "already added"
	CodeNotPresent          = "not present"
	CodeSelfFollow          = "self-follow"
	CodeAlreadyFollowing    = "already following"
	CodeNotFollowing        = "not following"
	CodeOutOfRange          = "out of range"
	CodeRequired            = "required"
	CodeInvalid             = "invalid"
	CodeTaken               = "taken"
)

type AppError struct {
	Err     error  // sentinel the error maps to
	Code    string // machine readable reason
	Message string // human readable message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Code:    "not_found",
		Message: fmt.Sprintf("%s not found with id %v", resource, id),
	}
}

func Validation(field, code, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// PermissionDenied is returned when the requester may not touch a resource.
// HTTP handlers map this to 403 Forbidden.
func PermissionDenied(message string) *AppError {
	return &AppError{
		Err:     ErrPermissionDenied,
		Code:    "permission_denied",
		Message: message,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Code:    "unauthorized",
		Message: message,
	}
}

// CodeOf returns the Code of the first AppError in err's chain.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
