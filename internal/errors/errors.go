package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit codes.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2   // a calculation hit its deadline
	ExitErrorMismatch = 3   // implementations disagreed on F(n)
	ExitErrorConfig   = 4   // bad flags, environment or arguments
	ExitErrorCanceled = 130 // SIGINT
)

// ConfigError is returned when flags, environment variables or positional
// arguments cannot be turned into a valid configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError marks a failure raised by an implementation itself, such
// as a trap in a WebAssembly guest. It keeps the cause reachable.
type CalculationError struct {
	Cause error
}

func (e CalculationError) Error() string { return e.Cause.Error() }

func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports a computation abandoned because its deadline passed.
// It unwraps to context.DeadlineExceeded, so errors.Is keeps matching callers
// that only know about the context error.
type TimeoutError struct {
	// Operation names what was running, e.g. "naive(50)".
	Operation string
	// Limit is the time budget the operation had when it started.
	Limit time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// ValidationError rejects a request parameter before any work starts.
// Message is written for the end user; Field names the offending input.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// FromContext turns the error of a finished context into the error a
// calculation reports. An expired deadline becomes a TimeoutError whose Limit
// is the budget ctx had at start; cancellation is returned unchanged.
func FromContext(ctx context.Context, operation string, start time.Time) error {
	err := ctx.Err()
	if !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var limit time.Duration
	if deadline, ok := ctx.Deadline(); ok {
		limit = deadline.Sub(start).Round(time.Millisecond)
	}
	return TimeoutError{Operation: operation, Limit: limit}
}

// WrapError prefixes err with a formatted message and keeps it unwrappable.
// A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err stems from cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
