package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"edsync/internal/cli"
	"edsync/internal/providers"
	"edsync/internal/storage"
)

// EnvGitHubToken supplies the gist token non-interactively.
const EnvGitHubToken = "EDSYNC_GITHUB_TOKEN"

// newPrompter is replaced in tests.
var newPrompter = func(cmd *cobra.Command) cli.Prompter {
	return cli.ReadlinePrompter{Stdout: cmd.ErrOrStderr()}
}

func newProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Manage storage providers",
		Long: `Storage providers hold the synchronized configuration. Pushes write to
every provider; pulls read from the first one, in registration order, that
has a configuration.`,
	}
	cmd.AddCommand(newProviderAddCmd())
	cmd.AddCommand(newProviderListCmd())
	cmd.AddCommand(newProviderRemoveCmd())
	return cmd
}

func newProviderAddCmd() *cobra.Command {
	var name, path string
	cmd := &cobra.Command{
		Use:   "add <gist|local>",
		Short: "Register a storage provider",
		Long: `Registers a storage provider.

gist   stores the configuration in a private GitHub gist. A GitHub token with
       the "gist" scope is read from EDSYNC_GITHUB_TOKEN or prompted for
       (hidden input) when none is stored yet.
local  stores the configuration in a JSON file. --path names the file, or a
       directory that will hold config.json.

Examples:
  edsync provider add gist
  edsync provider add local --path ~/Dropbox/edsync --name Dropbox`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProviderAdd(cmd, args[0], name, path)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name (default \"Gist Storage\" or \"Local Storage\")")
	cmd.Flags().StringVar(&path, "path", "", "Backup file or directory for local providers")
	return cmd
}

func runProviderAdd(cmd *cobra.Command, providerType, name, path string) error {
	t := storage.NormalizeType(providerType)
	if t == "" {
		return fmt.Errorf("unknown provider type %q (use gist or local)", providerType)
	}
	if path != "" && t != storage.TypeLocal {
		return fmt.Errorf("--path only applies to local providers")
	}

	a, err := newApplication(cmd, nil)
	if err != nil {
		return err
	}
	store := a.Services.Store

	if t == storage.TypeGist {
		if err := ensureToken(cmd, store); err != nil {
			return err
		}
	}

	sp := providers.SavedProvider{Type: t, Name: name}
	if path != "" {
		sp.Config = map[string]string{"path": path}
	}
	added, err := store.Add(sp)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.Success(fmt.Sprintf("Added %s (%s)", added.Name, added.ID)))
	return nil
}

// ensureToken stores a GitHub token from the environment, or from a hidden
// prompt when none is stored yet.
func ensureToken(cmd *cobra.Command, store *providers.Store) error {
	if token := os.Getenv(EnvGitHubToken); token != "" {
		return store.SetToken(token)
	}
	existing, err := store.Token()
	if err != nil {
		return err
	}
	if existing != "" {
		return nil
	}

	token, err := newPrompter(cmd).ReadSecret("GitHub token (gist scope): ")
	if err != nil {
		return err
	}
	if token == "" {
		return &storage.AuthenticationError{Provider: storage.DisplayName(storage.TypeGist), Err: fmt.Errorf("no token entered")}
	}
	return store.SetToken(token)
}

func newProviderListCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List registered storage providers in pull order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			a, err := newApplication(cmd, nil)
			if err != nil {
				return err
			}
			saved, err := a.Services.Store.List()
			if err != nil {
				return err
			}
			statuses, err := providerStatuses(a, saved)
			if err != nil {
				return err
			}

			if format != cli.OutputFormatTable {
				return cli.WriteStructured(cmd.OutOrStdout(), format, statuses)
			}
			if len(statuses) == 0 {
				cli.EmptyMessage(cmd.OutOrStdout(), "No storage providers registered.")
				return nil
			}
			printProviders(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
	cli.RegisterOutputFlag(cmd, &output)
	return cmd
}

func newProviderRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Unregister a storage provider",
		Long: `Unregisters a storage provider. The remote gist or local file is left
in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApplication(cmd, nil)
			if err != nil {
				return err
			}
			if err := a.Services.Store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.Success(fmt.Sprintf("Removed provider %s", args[0])))
			return nil
		},
	}
}
