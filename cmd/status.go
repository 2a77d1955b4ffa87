package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"edsync/internal/app"
	"edsync/internal/cli"
	"edsync/internal/editorconfig"
	"edsync/internal/providers"
	"edsync/internal/storage"
)

// StatusReport is what 'edsync status' prints.
type StatusReport struct {
	Editor                string                      `json:"editor"`
	Kind                  string                      `json:"kind"`
	UserDataDir           string                      `json:"userDataDir"`
	ConfigPath            string                      `json:"configPath"`
	AutoSync              bool                        `json:"autoSync"`
	AutoInstallExtensions bool                        `json:"autoInstallExtensions"`
	Providers             []ProviderStatus            `json:"providers"`
	Profiles              []editorconfig.ProfileEntry `json:"profiles"`
}

// ProviderStatus describes one registered provider.
type ProviderStatus struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	// Target is the gist id or the local file path. Empty for a gist
	// provider that has not connected yet.
	Target string `json:"target"`
}

func newStatusCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the detected editor, storage providers and local profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cli.ParseOutputFormat(output)
			if err != nil {
				return err
			}
			a, err := newApplication(cmd, nil)
			if err != nil {
				return err
			}
			report, err := buildStatus(a)
			if err != nil {
				return err
			}
			if format != cli.OutputFormatTable {
				return cli.WriteStructured(cmd.OutOrStdout(), format, report)
			}
			printStatus(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cli.RegisterOutputFlag(cmd, &output)
	return cmd
}

func buildStatus(a *app.Application) (*StatusReport, error) {
	saved, err := a.Services.Store.List()
	if err != nil {
		return nil, err
	}
	statuses, err := providerStatuses(a, saved)
	if err != nil {
		return nil, err
	}

	profiles := a.Services.Reader.ReadProfileMetadata().GetProfiles()
	if profiles == nil {
		profiles = []editorconfig.ProfileEntry{}
	}
	return &StatusReport{
		Editor:                a.Editor.DisplayName,
		Kind:                  string(a.Editor.Kind),
		UserDataDir:           a.UserDataDir,
		ConfigPath:            a.ConfigPath,
		AutoSync:              a.Settings.AutoSync,
		AutoInstallExtensions: a.Settings.AutoInstallExtensions,
		Providers:             statuses,
		Profiles:              profiles,
	}, nil
}

func providerStatuses(a *app.Application, saved []providers.SavedProvider) ([]ProviderStatus, error) {
	statuses := make([]ProviderStatus, 0, len(saved))
	for _, sp := range saved {
		st := ProviderStatus{ID: sp.ID, Type: sp.Type, Name: sp.Name}
		switch storage.NormalizeType(sp.Type) {
		case storage.TypeGist:
			id, err := a.Services.Store.GistID(sp.ID)
			if err != nil {
				return nil, err
			}
			st.Target = id
		default:
			path := sp.Config["path"]
			if path == "" {
				path = a.Settings.LocalBackupPath
			}
			if path == "" {
				path, _ = storage.DefaultLocalPath()
			}
			st.Target = storage.ResolveLocalPath(path)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func printStatus(w io.Writer, r *StatusReport) {
	label := text.Colors{text.Bold}
	fmt.Fprintf(w, "%s %s (%s)\n", label.Sprint("Editor:"), r.Editor, r.Kind)
	fmt.Fprintf(w, "%s %s\n", label.Sprint("User data:"), r.UserDataDir)
	fmt.Fprintf(w, "%s %s\n", label.Sprint("Config:"), r.ConfigPath)
	fmt.Fprintf(w, "%s %s\n\n", label.Sprint("Auto-sync:"), onOff(r.AutoSync))

	if len(r.Providers) == 0 {
		cli.EmptyMessage(w, "No storage providers registered. Add one with 'edsync provider add gist|local'.")
	} else {
		printProviders(w, r.Providers)
	}
	fmt.Fprintln(w)

	if len(r.Profiles) == 0 {
		cli.EmptyMessage(w, "No named profiles.")
		return
	}
	t := cli.NewTable(w)
	t.AppendHeader(cli.Header("profile", "location", "icon"))
	for _, p := range r.Profiles {
		t.AppendRow(table.Row{p.Name, p.Location, p.Icon})
	}
	t.Render()
}

func printProviders(w io.Writer, statuses []ProviderStatus) {
	t := cli.NewTable(w)
	t.AppendHeader(cli.Header("id", "type", "name", "target"))
	for _, st := range statuses {
		target := st.Target
		if target == "" {
			target = text.Faint.Sprint("(not connected yet)")
		}
		t.AppendRow(table.Row{st.ID, st.Type, st.Name, target})
	}
	t.Render()
}

func onOff(b bool) string {
	if b {
		return text.FgGreen.Sprint("on")
	}
	return text.FgYellow.Sprint("off")
}
