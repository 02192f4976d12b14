package usecase

import (
	"errors"
	"fmt"

	"hotel-booking/pkg/utils"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrExternal     = errors.New("external service failure")
)

// domainError carries its own message and unwraps to one of the kinds above.
type domainError struct {
	msg  string
	kind error
}

func (e *domainError) Error() string { return e.msg }
func (e *domainError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &domainError{msg: msg, kind: kind}
}

var (
	ErrNoAvailability     = newError(ErrConflict, "no availability")
	ErrEmptyCart          = newError(ErrConflict, "cart is empty")
	ErrInsufficientPoints = newError(ErrConflict, "insufficient points")
	ErrPointsExceedTotal  = newError(ErrConflict, "cannot use more points than total")
	ErrAlreadyCompleted   = newError(ErrConflict, "already completed")
	ErrAlreadySettled     = newError(ErrConflict, "cart already settled")
	ErrCheckoutInProgress = newError(ErrConflict, "checkout already in progress")
	ErrCartChanged        = newError(ErrConflict, "cart changed since the checkout session was created")
	ErrEmailTaken         = newError(ErrConflict, "email already registered")
	ErrInvalidCredentials = newError(ErrUnauthorized, "invalid credentials")
	ErrAccountDisabled    = newError(ErrForbidden, "account is deactivated")
	ErrNotCustomer        = newError(ErrForbidden, "customer account required")
)

func validationError(format string, args ...any) error {
	return newError(ErrValidation, "validation failed: "+fmt.Sprintf(format, args...))
}

func notFound(what string) error {
	return newError(ErrNotFound, what+" not found")
}

func forbidden(msg string) error {
	return newError(ErrForbidden, msg)
}

// validate runs struct tags and folds the result into ErrValidation.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError("%s", utils.FormatValidationErrors(errs))
	}
	return nil
}
