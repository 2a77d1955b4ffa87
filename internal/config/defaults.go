package config

import "time"

const (
	// DefaultAutoSyncDelay is the debounce delay used when none is configured.
	DefaultAutoSyncDelay = 5 * time.Second

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "warn"
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() EdsyncConfig {
	return EdsyncConfig{
		AutoSync:              false,
		AutoSyncDelay:         DefaultAutoSyncDelay,
		AutoInstallExtensions: true,
		LogLevel:              DefaultLogLevel,
	}
}
