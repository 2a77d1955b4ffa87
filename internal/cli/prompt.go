package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user for input.
type Prompter interface {
	// ReadSecret reads a line without echoing it.
	ReadSecret(prompt string) (string, error)
	// Confirm asks a yes/no question. An empty answer means def.
	Confirm(prompt string, def bool) (bool, error)
}

// ReadlinePrompter prompts on the terminal through readline.
type ReadlinePrompter struct {
	Stdin  io.ReadCloser
	Stdout io.Writer
}

func (p ReadlinePrompter) instance(prompt string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          prompt,
		Stdin:           p.Stdin,
		Stdout:          p.Stdout,
		InterruptPrompt: "^C",
	})
}

// ReadSecret implements Prompter.
func (p ReadlinePrompter) ReadSecret(prompt string) (string, error) {
	rl, err := p.instance("")
	if err != nil {
		return "", fmt.Errorf("failed to open terminal: %w", err)
	}
	defer rl.Close()

	secret, err := rl.ReadPassword(prompt)
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

// Confirm implements Prompter.
func (p ReadlinePrompter) Confirm(prompt string, def bool) (bool, error) {
	suffix := " [y/N] "
	if def {
		suffix = " [Y/n] "
	}
	rl, err := p.instance(prompt + suffix)
	if err != nil {
		return false, fmt.Errorf("failed to open terminal: %w", err)
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return false, ErrAborted
		}
		return false, err
	}
	return ParseYesNo(line, def), nil
}

// ParseYesNo interprets a confirmation answer. Anything unrecognized means def.
func ParseYesNo(answer string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return def
	}
}
