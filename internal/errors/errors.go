// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrDataFetch       = errors.New("data fetch failed")
	ErrParse           = errors.New("parse failed")
	ErrNoCandidates    = errors.New("no tradeable candidates")
	ErrEdgeBelowFloor  = errors.New("edge below minimum threshold")
	ErrExecutionFailed = errors.New("order execution failed")
	ErrUnknownCadence  = errors.New("unknown cadence")
	ErrDuplicateJob    = errors.New("job already registered")
	ErrConfigInvalid   = errors.New("invalid configuration")
	ErrNotConfigured   = errors.New("gateway not configured")
	ErrTimeout         = errors.New("operation timed out")
)

// DataError represents a failure to fetch data from an external gateway.
type DataError struct {
	Gateway string
	Op      string
	Err     error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error [%s] %s: %v", e.Gateway, e.Op, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// Is lets DataError match the ErrDataFetch sentinel.
func (e *DataError) Is(target error) bool {
	return target == ErrDataFetch
}

// NewDataError creates a new DataError.
func NewDataError(gateway, op string, err error) *DataError {
	return &DataError{
		Gateway: gateway,
		Op:      op,
		Err:     err,
	}
}

// ParseError represents a malformed field on a single record. It is always
// contained at the record boundary: the record is skipped and the scan
// continues.
type ParseError struct {
	MarketID string
	Field    string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error [market %s] %s=%q: %v", e.MarketID, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("parse error [market %s] %s=%q", e.MarketID, e.Field, e.Value)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is lets ParseError match the ErrParse sentinel.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError.
func NewParseError(marketID, field, value string, err error) *ParseError {
	return &ParseError{
		MarketID: marketID,
		Field:    field,
		Value:    value,
		Err:      err,
	}
}

// ExecutionError represents a rejected or failed order submission. The cycle
// that hits one ends immediately; the next scheduled tick is the only retry
// path.
type ExecutionError struct {
	MarketID string
	Side     string
	Detail   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("execution error [%s] %s: %s: %v", e.MarketID, e.Side, e.Detail, e.Err)
	}
	return fmt.Sprintf("execution error [%s] %s: %s", e.MarketID, e.Side, e.Detail)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is lets ExecutionError match the ErrExecutionFailed sentinel.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecutionFailed
}

// NewExecutionError creates a new ExecutionError.
func NewExecutionError(marketID, side, detail string, err error) *ExecutionError {
	return &ExecutionError{
		MarketID: marketID,
		Side:     side,
		Detail:   detail,
		Err:      err,
	}
}

// GatewayError represents an unexpected response from an external service.
type GatewayError struct {
	Gateway    string
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("gateway error [%s] status %d: %s", e.Gateway, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway error [%s]: %s", e.Gateway, e.Message)
}

// NewGatewayError creates a new GatewayError.
func NewGatewayError(gateway string, statusCode int, message string) *GatewayError {
	return &GatewayError{
		Gateway:    gateway,
		StatusCode: statusCode,
		Message:    message,
	}
}

// ValidationError represents a validation error.
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
