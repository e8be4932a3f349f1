package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s already exists", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// AuthError never says which credential was wrong.
type AuthError struct {
	Msg string
	Err error
}

func (e AuthError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "invalid credentials"
}

func (e AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// BusinessRuleError is a well-formed request that the current state forbids.
type BusinessRuleError struct {
	Msg string
	Err error
}

func (e BusinessRuleError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "operation not allowed"
}

func (e BusinessRuleError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func Validation(msg string) error { return ValidationError{Msg: msg} }

func NotFound(resource string) error { return NotFoundError{Resource: resource} }

func Conflict(msg string) error { return ConflictError{Msg: msg} }

func BusinessRule(msg string) error { return BusinessRuleError{Msg: msg} }

func Internal(msg string, err error) error { return InternalError{Msg: msg, Err: err} }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target AuthError
	return errors.As(err, &target)
}

func IsBusinessRule(err error) bool {
	var target BusinessRuleError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

// IsUniqueViolation reports whether a store error came from a UNIQUE constraint.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// FromStore classifies a raw data-access error. Errors already classified pass through.
func FromStore(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case HTTPStatus(err) != http.StatusInternalServerError || IsInternal(err):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return NotFoundError{Resource: resource, Err: err}
	case IsUniqueViolation(err):
		return ConflictError{Resource: resource, Err: err}
	default:
		return InternalError{Msg: "internal error", Err: err}
	}
}

// HTTPStatus maps an error to its response status. Unclassified errors are 500.
func HTTPStatus(err error) int {
	switch {
	case IsValidation(err), IsBusinessRule(err):
		return http.StatusBadRequest
	case IsAuth(err):
		return http.StatusUnauthorized
	case IsNotFound(err):
		return http.StatusNotFound
	case IsConflict(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
