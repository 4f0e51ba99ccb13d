package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/aurora/aurora-cli/internal/logger"
)

// ErrInvalidInput marks errors caused by malformed caller input rather than
// by a scheduling outcome.
var ErrInvalidInput = stderrors.New("invalid input")

// Invalidf returns an error wrapping ErrInvalidInput
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsInvalidInput reports whether err was caused by invalid input
func IsInvalidInput(err error) bool {
	return stderrors.Is(err, ErrInvalidInput)
}

// ExitCode maps an error to the process exit status: 0 for nil, 2 for
// invalid input, 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsInvalidInput(err):
		return 2
	default:
		return 1
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with the code ExitCode assigns it
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
