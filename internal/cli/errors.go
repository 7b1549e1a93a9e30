package cli

import (
	"errors"
	"strings"

	berrors "github.com/spetersoncode/buzz/internal/errors"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitNotFound     = 3
	ExitStateError   = 4
	ExitDBError      = 5
)

// ExitCode returns the exit code for any error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var berr *berrors.Error
	if errors.As(err, &berr) {
		return berr.ExitCode()
	}
	// cobra reports unknown flags and bad arg counts as plain errors
	if isUsageError(err) {
		return ExitInvalidArgs
	}
	return ExitGeneralError
}

// FormatErrorMessage returns formatted error with suggestion if available.
func FormatErrorMessage(err error) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(err.Error())

	var berr *berrors.Error
	if errors.As(err, &berr) && berr.Suggestion != "" {
		b.WriteString("\n\nSuggestion: ")
		b.WriteString(berr.Suggestion)
	}
	return b.String()
}

func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "accepts ", "requires at least", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// Common suggestions
const (
	SuggestRunInit    = "Run 'buzz init' to create a new database."
	SuggestListPosts  = "Run 'buzz post list' to see available posts."
	SuggestListIssues = "Run 'buzz issue list' to see available issues."
	SuggestTimestamp  = "Pass an ISO 8601 date, a locale date like 6/15/2024, or epoch seconds or milliseconds."
)
