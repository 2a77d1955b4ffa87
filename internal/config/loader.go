package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"edsync/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/edsync"
	configFileName = "config.yaml"
	secretsDirName = "secrets"
)

// Environment variables that override the configuration file.
const (
	EnvEditor          = "EDSYNC_EDITOR"
	EnvUserDataDir     = "EDSYNC_USER_DATA_DIR"
	EnvLocalBackupPath = "EDSYNC_LOCAL_BACKUP_PATH"
	EnvAutoSync        = "EDSYNC_AUTO_SYNC"
)

// osUserHomeDir is a variable to allow mocking in tests
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/edsync.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// SecretsDir returns the secret store directory inside configPath.
func SecretsDir(configPath string) string {
	return filepath.Join(configPath, secretsDirName)
}

// LoadConfig loads config.yaml from configPath, fills in defaults and applies
// environment overrides from the process environment.
func LoadConfig(configPath string) (EdsyncConfig, error) {
	return LoadConfigWithEnv(configPath, os.Getenv)
}

// LoadConfigWithEnv is LoadConfig with an injectable environment lookup.
func LoadConfigWithEnv(configPath string, getenv func(string) string) (EdsyncConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return EdsyncConfig{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
		}
		logging.Debug("ConfigLoader", "Loaded configuration from %s", configFilePath)
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	default:
		return EdsyncConfig{}, fmt.Errorf("error reading %s: %w", configFilePath, err)
	}

	if err := applyEnv(&config, getenv); err != nil {
		return EdsyncConfig{}, err
	}
	if config.AutoSyncDelay <= 0 {
		config.AutoSyncDelay = DefaultAutoSyncDelay
	}
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}

	config.LocalBackupPath, err = expandHome(config.LocalBackupPath)
	if err != nil {
		return EdsyncConfig{}, err
	}
	config.UserDataDir, err = expandHome(config.UserDataDir)
	if err != nil {
		return EdsyncConfig{}, err
	}

	if errs := Validate(config); errs.HasErrors() {
		return EdsyncConfig{}, fmt.Errorf("invalid configuration in %s: %w", configFilePath, errs)
	}
	return config, nil
}

func applyEnv(config *EdsyncConfig, getenv func(string) string) error {
	if v := getenv(EnvEditor); v != "" {
		config.Editor = v
	}
	if v := getenv(EnvUserDataDir); v != "" {
		config.UserDataDir = v
	}
	if v := getenv(EnvLocalBackupPath); v != "" {
		config.LocalBackupPath = v
	}
	if v := getenv(EnvAutoSync); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAutoSync, err)
		}
		config.AutoSync = b
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
