// Package errors provides standardized domain errors with codes for the foodgram API.
//
// Usage:
//
//	// In services - return typed errors
//	if len(input.TagIDs) == 0 {
//	    return errors.FieldError(errors.CodeEmptyTags, "tags", "at least one tag is required")
//	}
//
//	// In handlers and tests - check with errors.Is
//	if errors.Is(err, errors.ErrDuplicateMembership) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeValidation         Code = "VALIDATION"
	CodeConflict           Code = "CONFLICT"
	CodeInternal           Code = "INTERNAL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"

	// Recipe payload rules.
	CodeEmptyTags            Code = "EMPTY_TAGS"
	CodeDuplicateTags        Code = "DUPLICATE_TAGS"
	CodeUnknownTag           Code = "UNKNOWN_TAG"
	CodeEmptyIngredients     Code = "EMPTY_INGREDIENTS"
	CodeDuplicateIngredients Code = "DUPLICATE_INGREDIENTS"
	CodeUnknownIngredient    Code = "UNKNOWN_INGREDIENT"
	CodeInvalidAmount        Code = "INVALID_AMOUNT"
	CodeInvalidCookingTime   Code = "INVALID_COOKING_TIME"
	CodeEmptyImage           Code = "EMPTY_IMAGE"

	// Favorites, shopping cart and follows.
	CodeDuplicateMembership     Code = "DUPLICATE_MEMBERSHIP"
	CodeMembershipNotFound      Code = "MEMBERSHIP_NOT_FOUND"
	CodeSelfReferenceNotAllowed Code = "SELF_REFERENCE_NOT_ALLOWED"
	CodeEmptyCart               Code = "EMPTY_CART"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidCredentials, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeValidation,
		CodeEmptyTags, CodeDuplicateTags, CodeUnknownTag,
		CodeEmptyIngredients, CodeDuplicateIngredients, CodeUnknownIngredient,
		CodeInvalidAmount, CodeInvalidCookingTime, CodeEmptyImage,
		CodeDuplicateMembership, CodeMembershipNotFound, CodeSelfReferenceNotAllowed,
		CodeEmptyCart:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// GetStatus reports the HTTP status so HTTP frameworks can render the error directly.
func (e *Error) GetStatus() int {
	return e.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrTokenExpired       = &Error{Code: CodeTokenExpired, Message: "token expired"}

	ErrEmptyTags            = &Error{Code: CodeEmptyTags, Message: "empty tags"}
	ErrDuplicateTags        = &Error{Code: CodeDuplicateTags, Message: "duplicate tags"}
	ErrUnknownTag           = &Error{Code: CodeUnknownTag, Message: "unknown tag"}
	ErrEmptyIngredients     = &Error{Code: CodeEmptyIngredients, Message: "empty ingredients"}
	ErrDuplicateIngredients = &Error{Code: CodeDuplicateIngredients, Message: "duplicate ingredients"}
	ErrUnknownIngredient    = &Error{Code: CodeUnknownIngredient, Message: "unknown ingredient"}
	ErrInvalidAmount        = &Error{Code: CodeInvalidAmount, Message: "invalid amount"}
	ErrInvalidCookingTime   = &Error{Code: CodeInvalidCookingTime, Message: "invalid cooking time"}
	ErrEmptyImage           = &Error{Code: CodeEmptyImage, Message: "empty image"}

	ErrDuplicateMembership     = &Error{Code: CodeDuplicateMembership, Message: "already added"}
	ErrMembershipNotFound      = &Error{Code: CodeMembershipNotFound, Message: "not added"}
	ErrSelfReferenceNotAllowed = &Error{Code: CodeSelfReferenceNotAllowed, Message: "self reference not allowed"}
	ErrEmptyCart               = &Error{Code: CodeEmptyCart, Message: "shopping cart is empty"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error {
	return &Error{Code: CodeForbidden, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// FieldError creates an error whose details are keyed by the offending request field.
func FieldError(code Code, field, msg string) *Error {
	return &Error{Code: code, Message: msg, Details: map[string]string{field: msg}}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// InvalidCredentials creates an invalid credentials error.
func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

// TokenExpired creates a token expired error.
func TokenExpired(msg string) *Error {
	return &Error{Code: CodeTokenExpired, Message: msg}
}
