package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edsync/internal/app"
	"edsync/internal/cli"
	"edsync/internal/config"
	"edsync/internal/storage"
	"edsync/internal/syncer"
)

// Exit codes for CLI commands.
// These follow common conventions so scripts can react to the failure class.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNoStorage indicates no provider is registered or none could connect.
	ExitCodeNoStorage = 2
	// ExitCodeAuthFailed indicates a storage backend rejected the credentials.
	ExitCodeAuthFailed = 3
	// ExitCodePushFailed indicates no provider accepted a push.
	ExitCodePushFailed = 4
)

// globalFlags are bound to the root command's persistent flags.
var globalFlags cli.CommandFlags

// rootCmd represents the base command for the edsync application.
// It is the entry point when the application is called without any subcommands.
var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edsync",
		Short: "Sync editor settings, keybindings, snippets and profiles",
		Long: `edsync synchronizes the configuration of VS Code family editors
(VS Code, Cursor, Windsurf, VSCodium, Antigravity, IDX) to and from a
private GitHub gist or a local file, including named profiles.

Register a storage provider first, then push from one machine and pull
on another:

  edsync provider add gist
  edsync push
  edsync pull --wait-pid <editor pid>`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
	}

	defaultConfigPath, err := config.GetDefaultConfigPath()
	if err != nil {
		defaultConfigPath = ""
	}
	cli.RegisterGlobalFlags(cmd, &globalFlags, defaultConfigPath)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newSelfUpdateCmd())
	cmd.AddCommand(newPushCmd())
	cmd.AddCommand(newPullCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newProviderCmd())
	cmd.AddCommand(newRegistryCmd())
	return cmd
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "edsync version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), cli.Failure(err))
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var pushFailed *syncer.PushFailedError
	if errors.As(err, &pushFailed) {
		return ExitCodePushFailed
	}

	// A failed connection set wraps the per-provider causes; an auth
	// failure among them is the more specific signal.
	if storage.IsAuthenticationError(err) {
		return ExitCodeAuthFailed
	}

	if errors.Is(err, syncer.ErrNoStorageConfigured) || errors.Is(err, syncer.ErrNoValidConnection) {
		return ExitCodeNoStorage
	}

	return ExitCodeError
}

// newApplication bootstraps the application from the global flags. mutate
// may adjust command-specific settings before services are built.
func newApplication(cmd *cobra.Command, mutate func(*app.Config)) (*app.Application, error) {
	cfg := app.NewConfig(globalFlags.Debug, globalFlags.ConfigPath, globalFlags.Editor, globalFlags.UserDataDir)
	cfg.Quiet = globalFlags.Quiet
	cfg.Out = cmd.ErrOrStderr()
	if mutate != nil {
		mutate(cfg)
	}
	return app.NewApplication(cfg)
}
