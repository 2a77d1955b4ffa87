// Package extensions installs extensions a pulled configuration lists but the
// local editor is missing.
package extensions

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"edsync/internal/reader"
	"edsync/pkg/logging"
)

const subsystem = "Extensions"

// execCommandContext and lookPath are variables to allow mocking in tests
var (
	execCommandContext = exec.CommandContext
	lookPath           = exec.LookPath
)

// Failure records one extension that could not be installed.
type Failure struct {
	ID  string
	Err error
}

// Report summarizes an install run.
type Report struct {
	Installed []string
	Failed    []Failure
	// Present counts wanted extensions that were already installed.
	Present int
}

// Installer installs extensions through the editor's command line binary.
type Installer struct {
	cli    string
	lister reader.ExtensionLister
}

// NewInstaller creates an Installer that lists installed extensions with
// lister and installs through the named CLI binary.
func NewInstaller(cli string, lister reader.ExtensionLister) *Installer {
	return &Installer{cli: cli, lister: lister}
}

// InstallMissing installs every wanted extension that is not installed yet.
// Individual install failures are reported, not returned.
func (i *Installer) InstallMissing(ctx context.Context, wanted []string) (*Report, error) {
	installed, err := i.lister.InstalledExtensions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed extensions: %w", err)
	}

	missing := Missing(wanted, installed)
	report := &Report{Present: len(dedupe(wanted)) - len(missing)}
	if len(missing) == 0 {
		return report, nil
	}

	if _, err := lookPath(i.cli); err != nil {
		return nil, fmt.Errorf("editor command %q not found in PATH: %w", i.cli, err)
	}

	for _, id := range missing {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		logging.Info(subsystem, "Installing extension %s", id)
		out, err := execCommandContext(ctx, i.cli, "--install-extension", id).CombinedOutput()
		if err != nil {
			logging.Warn(subsystem, "Failed to install %s: %v: %s", id, err, strings.TrimSpace(string(out)))
			report.Failed = append(report.Failed, Failure{ID: id, Err: err})
			continue
		}
		report.Installed = append(report.Installed, id)
	}
	return report, nil
}

// Missing returns the wanted extension ids absent from installed, compared
// case-insensitively, in wanted order and without duplicates.
func Missing(wanted, installed []string) []string {
	have := make(map[string]bool, len(installed))
	for _, id := range installed {
		have[strings.ToLower(id)] = true
	}

	var missing []string
	for _, id := range dedupe(wanted) {
		if !have[strings.ToLower(id)] {
			missing = append(missing, id)
		}
	}
	return missing
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		key := strings.ToLower(strings.TrimSpace(id))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(id))
	}
	return out
}
