package cmd

import (
	"github.com/spf13/cobra"

	"edsync/internal/cli"
	"edsync/internal/syncer"
)

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the local editor configuration to every storage provider",
		Long: `Reads settings, keybindings, snippets, extensions and named profiles
from the editor's user data directory and writes them to every registered
storage provider concurrently.

The push succeeds if at least one provider accepted the configuration.

Examples:
  edsync push
  edsync push --editor cursor
  edsync push --user-data-dir ~/portable/data/user-data/User`,
		Args: cobra.NoArgs,
		RunE: runPush,
	}
}

func runPush(cmd *cobra.Command, args []string) error {
	a, err := newApplication(cmd, nil)
	if err != nil {
		return err
	}

	return cli.RunWithSpinner(cmd.ErrOrStderr(), globalFlags.Quiet, "Pushing configuration...", func() error {
		_, err := a.Services.Orchestrator.Push(cmd.Context(), syncer.PushOptions{Quiet: globalFlags.Quiet})
		return err
	})
}
