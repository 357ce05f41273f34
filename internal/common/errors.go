package common

import (
	"fmt"
	"net/http"

	"foodgo/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ValidationError reports malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthenticationError reports a missing or invalid credential.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ForbiddenError reports an authenticated caller acting outside its role or relationship.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// IllegalTransitionError reports a (current, target) pair outside the transition table.
type IllegalTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %s -> %s", e.From, e.To)
}

// AlreadyAssignedError reports a claim on an order that already has a courier.
type AlreadyAssignedError struct {
	OrderID uuid.UUID
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("order %s is already assigned to a courier", e.OrderID)
}

// NotAvailableError reports a claim on an order outside the claimable states.
type NotAvailableError struct {
	OrderID uuid.UUID
	Status  models.OrderStatus
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("order %s is not available for claiming (status %s)", e.OrderID, e.Status)
}

// CompareAndSetError reports a conditional write that lost against a concurrent writer.
type CompareAndSetError struct {
	OrderID  uuid.UUID
	Expected models.OrderStatus
}

func (e *CompareAndSetError) Error() string {
	return fmt.Sprintf("order %s changed concurrently (expected status %s)", e.OrderID, e.Expected)
}

// ConflictError reports a uniqueness clash such as a duplicate phone.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// RateLimitError reports too many attempts in the current window.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewForbiddenError(format string, args ...any) error {
	return &ForbiddenError{Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(resource string) error {
	return &NotFoundError{Resource: resource}
}

func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// StatusCode maps an error onto the HTTP status returned to callers.
func StatusCode(err error) int {
	var (
		validation  *ValidationError
		authn       *AuthenticationError
		forbidden   *ForbiddenError
		notFound    *NotFoundError
		illegal     *IllegalTransitionError
		assigned    *AlreadyAssignedError
		unavailable *NotAvailableError
		cas         *CompareAndSetError
		conflict    *ConflictError
		limited     *RateLimitError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &illegal),
		errors.As(err, &assigned), errors.As(err, &unavailable):
		return http.StatusBadRequest
	case errors.As(err, &authn):
		return http.StatusUnauthorized
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &cas), errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &limited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
