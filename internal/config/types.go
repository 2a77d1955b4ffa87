package config

import "time"

// EdsyncConfig is the top-level configuration structure for edsync.
type EdsyncConfig struct {
	// Editor is the host editor's display name or kind. Empty means detect.
	Editor string `yaml:"editor,omitempty"`
	// UserDataDir overrides the resolved user data directory.
	UserDataDir string `yaml:"userDataDir,omitempty"`
	// AutoSync enables pushing on local changes in `edsync watch`.
	AutoSync bool `yaml:"autoSync"`
	// AutoSyncDelay is the debounce delay for auto-sync pushes.
	AutoSyncDelay time.Duration `yaml:"autoSyncDelay,omitempty"`
	// AutoInstallExtensions installs missing extensions after a pull.
	AutoInstallExtensions bool `yaml:"autoInstallExtensions"`
	// LocalBackupPath is the default path for local storage providers.
	LocalBackupPath string `yaml:"localBackupPath,omitempty"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel,omitempty"`
}
