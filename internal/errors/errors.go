// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMissingOptionParameter = errors.New("missing required option parameters")
	ErrNonPositiveDefinite    = errors.New("correlation matrix is not positive definite")
	ErrUnsupportedMethod      = errors.New("unsupported calculation method")
	ErrEmptyPortfolio         = errors.New("portfolio has no positions")
	ErrUnknownAssetClass      = errors.New("unknown asset class")
	ErrConfigInvalid          = errors.New("invalid configuration")
	ErrDataNotFound           = errors.New("data not found")
	ErrDatabaseError          = errors.New("database error")
)

// ValidationError represents a validation error raised before any
// computation runs. It is deterministic for a given input and is never
// worth retrying.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ComputationError represents a numerical failure inside an engine, such
// as a failed Cholesky factorization or a degenerate denominator that
// could not be special-cased.
type ComputationError struct {
	Operation string
	Reason    string
	Err       error
}

func (e *ComputationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("computation error [%s]: %s: %v", e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("computation error [%s]: %s", e.Operation, e.Reason)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// NewComputationError creates a new ComputationError.
func NewComputationError(operation, reason string, err error) *ComputationError {
	return &ComputationError{
		Operation: operation,
		Reason:    reason,
		Err:       err,
	}
}

// StoreError represents a result-store failure.
type StoreError struct {
	Operation string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s]: %v", e.Operation, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation string, err error) *StoreError {
	return &StoreError{Operation: operation, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
