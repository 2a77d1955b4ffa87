package app

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"edsync/internal/config"
	"edsync/internal/paths"
	"edsync/pkg/logging"
)

// Variables to allow mocking in tests
var (
	osGetenv      = os.Getenv
	osUserHomeDir = os.UserHomeDir
	goos          = runtime.GOOS
)

// Application holds the resolved configuration and the wired services for
// one edsync invocation.
//
// Example usage:
//
//	cfg := app.NewConfig(false, "", "Cursor", "")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return err
//	}
//	result, err := application.Services.Orchestrator.Push(ctx, syncer.PushOptions{})
type Application struct {
	Config      *Config
	Settings    config.EdsyncConfig
	ConfigPath  string
	Editor      Editor
	UserDataDir string
	Services    *Services
}

// NewApplication loads configuration, resolves the editor and wires every
// service. It does not touch the editor's files or the network.
func NewApplication(cfg *Config) (*Application, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		p, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	settings, err := config.LoadConfigWithEnv(configPath, osGetenv)
	if err != nil {
		return nil, fmt.Errorf("failed to load edsync configuration from %s: %w", configPath, err)
	}

	InitLogging(cfg.Debug, settings.LogLevel, notifierOut(cfg))
	logging.Debug("Bootstrap", "Loaded configuration from %s", configPath)

	editor := DetectEditor(osGetenv, cfg.Editor, settings.Editor)
	userDataDir, err := resolveUserDataDir(editor, firstNonEmpty(cfg.UserDataDir, settings.UserDataDir))
	if err != nil {
		return nil, err
	}
	logging.Debug("Bootstrap", "Editor %s (%s), user data directory %s", editor.Kind, editor.DisplayName, userDataDir)

	a := &Application{
		Config:      cfg,
		Settings:    settings,
		ConfigPath:  configPath,
		Editor:      editor,
		UserDataDir: userDataDir,
	}

	services, err := InitializeServices(a)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	a.Services = services
	return a, nil
}

// InitLogging configures CLI logging. --debug wins over the configured level.
func InitLogging(debug bool, level string, out io.Writer) {
	logLevel, err := logging.ParseLevel(level)
	if debug {
		logLevel = logging.LevelDebug
	}
	logging.InitForCLI(logLevel, out)
	if err != nil {
		logging.Warn("Bootstrap", "%v", err)
	}
}

func resolveUserDataDir(editor Editor, override string) (string, error) {
	home, err := osUserHomeDir()
	if err != nil && override == "" {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return paths.ResolveUserDataDir(paths.Request{
		Kind:        editor.Kind,
		DisplayName: editor.DisplayName,
		Platform:    goos,
		HomeDir:     home,
		Env:         paths.EnvFrom(osGetenv),
		Override:    override,
	})
}

func notifierOut(cfg *Config) io.Writer {
	if cfg.Out != nil {
		return cfg.Out
	}
	return os.Stderr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
