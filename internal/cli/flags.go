package cli

import (
	"github.com/spf13/cobra"
)

// CommandFlags holds the global flag values shared by every edsync command.
type CommandFlags struct {
	// ConfigPath is the configuration directory holding config.yaml and secrets/.
	ConfigPath string
	// Editor overrides the editor from configuration.
	Editor string
	// UserDataDir overrides the resolved user data directory.
	UserDataDir string
	// Debug enables debug logging.
	Debug bool
	// Quiet suppresses progress indicators and success messages.
	Quiet bool
}

// RegisterGlobalFlags registers the persistent flags on the root command.
//
// The registered flags are:
//   - --config-path: Configuration directory (default ~/.config/edsync)
//   - --editor: Editor display name or kind (env: EDSYNC_EDITOR)
//   - --user-data-dir: Editor user data directory (env: EDSYNC_USER_DATA_DIR)
//   - --debug: Enable debug logging
//   - --quiet/-q: Suppress non-essential output
func RegisterGlobalFlags(cmd *cobra.Command, flags *CommandFlags, defaultConfigPath string) {
	cmd.PersistentFlags().StringVar(&flags.ConfigPath, "config-path", defaultConfigPath, "Configuration directory")
	cmd.PersistentFlags().StringVar(&flags.Editor, "editor", "", "Editor display name or kind, e.g. \"Cursor\" or \"vscodium\" (env: EDSYNC_EDITOR)")
	cmd.PersistentFlags().StringVar(&flags.UserDataDir, "user-data-dir", "", "Editor user data directory (env: EDSYNC_USER_DATA_DIR)")
	cmd.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
}

// RegisterOutputFlag registers --output/-o on a command that prints data.
func RegisterOutputFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", string(OutputFormatTable), "Output format (table, json, yaml)")
}
