package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"edsync/internal/app"
	"edsync/internal/cli"
	"edsync/internal/syncer"
	edstrings "edsync/pkg/strings"
)

// pullFlags control how a pull hands the profile registry off.
type pullFlags struct {
	waitPID int
	yes     bool
}

func (f *pullFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.waitPID, "wait-pid", 0, "Editor process id; the profile registry is rewritten in the background once it exits")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "Rewrite the profile registry now without asking (the editor must be closed)")
}

// apply copies the flags into the application config and wires the
// confirmation prompt.
func (f *pullFlags) apply(cmd *cobra.Command) func(*app.Config) {
	return func(cfg *app.Config) {
		cfg.WaitPID = f.waitPID
		cfg.AssumeYes = f.yes
		prompter := newPrompter(cmd)
		cfg.Confirm = func(question string) (bool, error) {
			return prompter.Confirm(question, false)
		}
	}
}

// interactive reports whether the pull may stop to ask a question, in which
// case no spinner is drawn over the prompt.
func (f *pullFlags) interactive() bool {
	return f.waitPID == 0 && !f.yes
}

func newPullCmd() *cobra.Command {
	flags := &pullFlags{}
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Apply the configuration from the first storage provider that has one",
		Long: `Tries the registered storage providers in registration order and applies
the first configuration found to the editor's user data directory.

Named profiles are written to profiles/<location>. The editor keeps its
profile registry in memory and rewrites it on exit, so the registry is
updated separately:

  --wait-pid <pid>  start a background helper that waits for the editor
                    process to exit, then updates the registry
  --yes             update the registry now (the editor must be closed)

Without either flag edsync asks before touching the registry.

Examples:
  edsync pull --yes
  edsync pull --wait-pid $(pgrep -n Cursor)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPull(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runPull(cmd *cobra.Command, flags *pullFlags) error {
	a, err := newApplication(cmd, flags.apply(cmd))
	if err != nil {
		return err
	}

	var result *syncer.PullResult
	quiet := globalFlags.Quiet || flags.interactive()
	err = cli.RunWithSpinner(cmd.ErrOrStderr(), quiet, "Pulling configuration...", func() error {
		var pullErr error
		result, pullErr = a.Services.Orchestrator.Pull(cmd.Context())
		return pullErr
	})
	if err != nil {
		return err
	}
	reportPull(cmd.ErrOrStderr(), result)
	return nil
}

// reportPull prints the parts of a pull the orchestrator does not announce.
func reportPull(w io.Writer, result *syncer.PullResult) {
	if result == nil || !result.Found || globalFlags.Quiet {
		return
	}
	if n := len(result.Profiles); n > 0 && result.RegistryErr == nil {
		fmt.Fprintln(w, cli.Success(fmt.Sprintf("Registered %d profile(s)", n)))
	}
	if errors.Is(result.RegistryErr, app.ErrRegistryDeferred) {
		fmt.Fprintln(w, cli.Warning("Run 'edsync pull --wait-pid <editor pid>' to register the pulled profiles"))
	}
	if r := result.Extensions; r != nil {
		if len(r.Installed) > 0 {
			fmt.Fprintln(w, cli.Success(fmt.Sprintf("Installed %d extension(s)", len(r.Installed))))
		}
		for _, f := range r.Failed {
			fmt.Fprintf(w, "  %s: %s\n", f.ID, edstrings.OneLine(f.Err.Error(), edstrings.DefaultMaxLen))
		}
	}
	if result.ExtensionsErr != nil {
		fmt.Fprintln(w, cli.Warning(fmt.Sprintf("Extensions were not installed: %v", result.ExtensionsErr)))
	}
}

func newSyncCmd() *cobra.Command {
	flags := &pullFlags{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push the local configuration, then pull",
		Long: `Pushes the local configuration to every storage provider and then pulls
from the first provider that has one. The pull is skipped when the push
failed everywhere.

Accepts the same registry flags as 'edsync pull'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func runSync(cmd *cobra.Command, flags *pullFlags) error {
	a, err := newApplication(cmd, flags.apply(cmd))
	if err != nil {
		return err
	}

	var result *syncer.SyncResult
	quiet := globalFlags.Quiet || flags.interactive()
	err = cli.RunWithSpinner(cmd.ErrOrStderr(), quiet, "Syncing configuration...", func() error {
		var syncErr error
		result, syncErr = a.Services.Orchestrator.Sync(cmd.Context())
		return syncErr
	})
	if err != nil {
		return err
	}
	reportPull(cmd.ErrOrStderr(), result.Pull)
	return nil
}
