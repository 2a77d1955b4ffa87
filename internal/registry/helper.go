package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"edsync/internal/editorconfig"
	"edsync/pkg/jsondoc"
	"edsync/pkg/logging"
)

// LogFileName is the file in the temp directory the detached helper logs to.
const LogFileName = "edsync_registry.log"

// ImmediateHelper applies the registry in-process. Use it only when the
// editor is not running.
type ImmediateHelper struct {
	Target string
}

// Handoff applies profiles right away.
func (h ImmediateHelper) Handoff(_ context.Context, profiles []editorconfig.ProfileEntry) error {
	return Apply(h.Target, profiles)
}

// DetachedHelper starts a background "registry apply" process that outlives
// the caller, waits for WaitPID to exit and then rewrites Target.
type DetachedHelper struct {
	// Executable is the edsync binary. Empty means the running one.
	Executable string
	Target     string
	// WaitPID is the editor process to wait for. Zero applies immediately.
	WaitPID int
	// TempDir holds the profile list and the log. Empty means os.TempDir().
	TempDir string
}

// Handoff writes profiles to a temp file and starts the helper process.
func (h DetachedHelper) Handoff(_ context.Context, profiles []editorconfig.ProfileEntry) error {
	exe := h.Executable
	if exe == "" {
		self, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to locate edsync binary: %w", err)
		}
		exe = self
	}
	tmpDir := h.TempDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}

	profilesFile, err := WriteProfilesFile(tmpDir, profiles)
	if err != nil {
		return err
	}

	logPath := filepath.Join(tmpDir, LogFileName)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		os.Remove(profilesFile)
		return fmt.Errorf("failed to open helper log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(exe, HelperArgs(h.Target, profilesFile, h.WaitPID)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	detach(cmd)

	if err := cmd.Start(); err != nil {
		os.Remove(profilesFile)
		return fmt.Errorf("failed to start registry helper: %w", err)
	}
	logging.Info(subsystem, "Started registry helper (pid %d) waiting on pid %d, log %s", cmd.Process.Pid, h.WaitPID, logPath)
	return cmd.Process.Release()
}

// HelperArgs builds the command line of the detached helper.
func HelperArgs(target, profilesFile string, waitPID int) []string {
	return []string{
		"registry", "apply",
		"--target", target,
		"--profiles", profilesFile,
		"--wait-pid", strconv.Itoa(waitPID),
	}
}

// WriteProfilesFile stores profiles in a new temp file under dir.
func WriteProfilesFile(dir string, profiles []editorconfig.ProfileEntry) (string, error) {
	data, err := jsondoc.Marshal(profiles)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, "edsync_profiles_*.json")
	if err != nil {
		return "", fmt.Errorf("failed to create profiles file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// ReadProfilesFile loads a list written by WriteProfilesFile.
func ReadProfilesFile(path string) ([]editorconfig.ProfileEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := jsondoc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("invalid profiles file %s: %w", path, err)
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("invalid profiles file %s: expected an array", path)
	}
	var profiles []editorconfig.ProfileEntry
	if err := json.Unmarshal(doc, &profiles); err != nil {
		return nil, fmt.Errorf("invalid profiles file %s: %w", path, err)
	}
	return profiles, nil
}
