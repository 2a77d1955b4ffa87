package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edsync/internal/registry"
	"edsync/pkg/logging"
)

// newRegistryCmd creates the hidden command the detached registry helper runs.
func newRegistryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "registry",
		Short:  "Profile registry maintenance",
		Hidden: true,
	}
	cmd.AddCommand(newRegistryApplyCmd())
	return cmd
}

func newRegistryApplyCmd() *cobra.Command {
	var (
		target       string
		profilesFile string
		waitPID      int
	)
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Wait for the editor to exit, then write the profile registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitForCLI(logging.LevelInfo, cmd.ErrOrStderr())

			profiles, err := registry.ReadProfilesFile(profilesFile)
			if err != nil {
				return err
			}
			if err := registry.WaitAndApply(cmd.Context(), waitPID, target, profiles); err != nil {
				return fmt.Errorf("failed to apply profile registry: %w", err)
			}
			if err := os.Remove(profilesFile); err != nil {
				logging.Warn("Registry", "Failed to remove %s: %v", profilesFile, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Registry file (globalStorage/storage.json)")
	cmd.Flags().StringVar(&profilesFile, "profiles", "", "File holding the profile list")
	cmd.Flags().IntVar(&waitPID, "wait-pid", 0, "Process to wait for before writing")
	_ = cmd.MarkFlagRequired("target")
	_ = cmd.MarkFlagRequired("profiles")
	return cmd
}
