package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
)

// FormatError formats an error message for CLI output
func FormatError(err error) string {
	return fmt.Sprintf("Error: %v", err)
}

// FormatSuccess formats a success message for CLI output
func FormatSuccess(msg string) string {
	return fmt.Sprintf("✓ %s", msg)
}

// FormatWarning formats a warning message for CLI output
func FormatWarning(msg string) string {
	return fmt.Sprintf("⚠ %s", msg)
}

// Success colors a success message.
func Success(msg string) string { return text.FgGreen.Sprint(FormatSuccess(msg)) }

// Warning colors a warning message.
func Warning(msg string) string { return text.FgYellow.Sprint(FormatWarning(msg)) }

// Failure colors an error message.
func Failure(err error) string { return text.FgRed.Sprint(FormatError(err)) }
