package cli

import (
	"fmt"
	"io"
)

// Notifier prints orchestrator messages to the terminal.
type Notifier struct {
	Out   io.Writer
	Quiet bool
}

// Info prints a success message unless quiet.
func (n Notifier) Info(msg string) {
	if n.Quiet {
		return
	}
	fmt.Fprintln(n.Out, Success(msg))
}

// Warn prints a warning, even when quiet.
func (n Notifier) Warn(msg string) {
	fmt.Fprintln(n.Out, Warning(msg))
}
