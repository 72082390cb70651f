// internal/services/errors.go
package services

import (
	"errors"

	"github.com/javajoker/catalog-backend/internal/i18n"
	"github.com/javajoker/catalog-backend/internal/utils"
)

// Error kinds. Handlers map these onto HTTP status codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
)

// ServiceError pairs an error kind with a translatable message key and,
// for validation failures, the offending fields.
type ServiceError struct {
	Kind   error
	Key    string
	Fields []utils.ValidationError
	Err    error
}

func (e *ServiceError) Error() string {
	msg := e.Kind.Error()
	if e.Key != "" {
		msg += ": " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, key string, cause error) *ServiceError {
	return &ServiceError{Kind: kind, Key: key, Err: cause}
}

func validationFailed(fields []utils.ValidationError) *ServiceError {
	return &ServiceError{Kind: ErrBadRequest, Key: i18n.KeyValidationInvalid, Fields: fields}
}

// validateRequest runs struct validation and converts failures.
func validateRequest(req interface{}) error {
	if err := utils.ValidateStruct(req); err != nil {
		fields := utils.GetValidationErrors(err)
		if len(fields) == 0 {
			return newError(ErrBadRequest, i18n.KeyValidationInvalid, err)
		}
		return validationFailed(fields)
	}
	return nil
}
