// Package server provides the HTTP REST API for LernifyRoad.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/lernify/internal/catalog"
	"github.com/jonathan/lernify/internal/progress"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorCode returns the machine-readable code reported alongside an error.
func ErrorCode(err error) string {
	_, code := classify(err)
	return code
}

func classify(err error) (int, string) {
	var (
		emailExists    *ErrEmailAlreadyExists
		badCredentials *ErrInvalidCredentials
		userNotFound   *ErrUserNotFound
		mismatch       *ErrPasswordMismatch
		invalid        *ErrValidation
		unknownDomain  *catalog.UnknownDomainError
		unknownStep    *catalog.UnknownStepError
		outOfRange     *progress.ValidationError
		notInitialized *progress.ProgressNotInitializedError
		noProgress     *progress.NoProgressError
		incomplete     *progress.StepsIncompleteError
		locked         *progress.StepLockedError
		notFound       *progress.NotFoundError
		unavailable    *progress.StoreUnavailableError
	)

	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.As(err, &emailExists):
		return http.StatusConflict, "email_exists"
	case errors.As(err, &badCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.As(err, &userNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.As(err, &mismatch):
		return http.StatusBadRequest, "password_mismatch"
	case errors.As(err, &invalid), errors.As(err, &outOfRange):
		return http.StatusBadRequest, "validation_error"
	case errors.As(err, &unknownDomain):
		return http.StatusBadRequest, "unknown_domain"
	case errors.As(err, &unknownStep):
		return http.StatusBadRequest, "unknown_step"
	case errors.As(err, &notInitialized):
		return http.StatusConflict, "progress_not_initialized"
	case errors.As(err, &noProgress):
		return http.StatusConflict, "no_progress"
	case errors.As(err, &incomplete):
		return http.StatusConflict, "steps_incomplete"
	case errors.As(err, &locked):
		return http.StatusConflict, "step_locked"
	case errors.As(err, &notFound):
		return http.StatusNotFound, "not_found"
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, "store_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
