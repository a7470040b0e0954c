package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape sequences used when reporting errors.
// It keeps this package free of any dependency on the UI layer.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// HandleCalculationError reports a calculation failure on out and returns the
// matching exit code. A nil error yields ExitSuccess and prints nothing.
//
// Parameters:
//   - err: The error returned by the calculation.
//   - duration: Time spent before the failure; omitted from the message when zero.
//   - out: The writer for the status line.
//   - colors: Escape sequences for the message.
//
// Returns:
//   - int: The process exit code.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}

	var timeoutErr TimeoutError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.As(err, &timeoutErr):
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). The execution limit was reached%s.%s\n",
			colors.Yellow(), suffix, colors.Reset())
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled by user%s.%s\n", colors.Yellow(), suffix, colors.Reset())
		return ExitErrorCanceled
	default:
		fmt.Fprintf(out, "%sStatus: Failure. Unexpected error%s: %v%s\n",
			colors.Red(), suffix, err, colors.Reset())
		return ExitErrorGeneric
	}
}
