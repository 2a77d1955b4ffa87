package app

import (
	"io"
)

// Config holds the per-invocation application settings taken from flags.
type Config struct {
	// Debug enables debug logging regardless of the configured level.
	Debug bool

	// Quiet suppresses success notices.
	Quiet bool

	// ConfigPath is the configuration directory. Empty means ~/.config/edsync.
	ConfigPath string

	// Editor and UserDataDir override the configuration file when set.
	Editor      string
	UserDataDir string

	// WaitPID is the editor process the registry helper waits for before
	// rewriting the profile registry. Zero applies in-process after Confirm.
	WaitPID int

	// AssumeYes skips the registry confirmation.
	AssumeYes bool

	// Confirm asks the user a yes/no question. Nil means every question is
	// declined unless AssumeYes is set.
	Confirm func(question string) (bool, error)

	// Out receives notices. Nil means stderr.
	Out io.Writer
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, editor, userDataDir string) *Config {
	return &Config{
		Debug:       debug,
		ConfigPath:  configPath,
		Editor:      editor,
		UserDataDir: userDataDir,
	}
}
