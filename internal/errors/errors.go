package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/nudge/internal/logger"
)

// warning is implemented by errors that report a completed operation with a
// degraded side effect, such as a saved reminder whose notifications are stale.
type warning interface {
	Warning() bool
}

// IsWarning reports whether err, or anything it wraps, is only a warning.
func IsWarning(err error) bool {
	var w warning
	return stderrors.As(err, &w) && w.Warning()
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	if IsWarning(err) {
		return fmt.Sprintf("Warning: %v", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Report prints err to w and reports whether the command should fail.
// Warnings are printed but do not fail the command.
func Report(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	fmt.Fprintln(w, Format(err))
	if IsWarning(err) {
		logger.Warn("Command completed with warnings", "error", err)
		return false
	}
	logger.Error("Command execution failed", "error", err)
	return true
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if Report(os.Stderr, err) {
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
