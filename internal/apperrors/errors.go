package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidExtension indicates that a staged receipt file has an extension
// outside the jpg/jpeg/png whitelist.
var ErrInvalidExtension = fmt.Errorf("%w: invalid-extension", ErrValidation)

// ErrSubmitInFlight indicates that a submission already has a create call
// outstanding; the re-entrant attempt is ignored.
var ErrSubmitInFlight = errors.New("submission already in flight")

// StoreError is a failure reported by the bill store, carrying the HTTP
// status the store answered with (or 0 when it never answered).
type StoreError struct {
	StatusCode int
	Message    string
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("store error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("store error %d", e.StatusCode)
}

// NewStoreError builds a StoreError for the given status code.
func NewStoreError(statusCode int, message string) *StoreError {
	return &StoreError{StatusCode: statusCode, Message: message}
}

// AsStoreError unwraps err into a StoreError if it carries one.
func AsStoreError(err error) (*StoreError, bool) {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr, true
	}
	return nil, false
}
