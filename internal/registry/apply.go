// Package registry rewrites the editor's live profile registry.
//
// The editor keeps the registry in memory and saves it on exit, so a write
// made while it runs is lost. Writes therefore go through a helper that waits
// for the editor process to exit first.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/sjson"

	"edsync/internal/editorconfig"
	"edsync/internal/reader"
	"edsync/pkg/jsondoc"
	"edsync/pkg/logging"
)

const subsystem = "Registry"

// DefaultPollInterval is how often WaitForExit checks the editor process.
const DefaultPollInterval = 500 * time.Millisecond

// Apply replaces the profile list in the global storage file at target,
// keeping every other key. A missing target is created.
func Apply(target string, profiles []editorconfig.ProfileEntry) error {
	doc := jsondoc.EmptyObject()
	data, err := os.ReadFile(target)
	switch {
	case err == nil:
		decoded, derr := jsondoc.Decode(data)
		switch {
		case derr == nil && decoded.IsObject():
			doc = decoded
		case errors.Is(derr, jsondoc.ErrEmpty):
		default:
			return fmt.Errorf("refusing to rewrite unreadable registry %s: %v", target, derr)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read registry %s: %w", target, err)
	}

	if profiles == nil {
		profiles = []editorconfig.ProfileEntry{}
	}
	list, err := jsondoc.Marshal(profiles)
	if err != nil {
		return err
	}
	updated, err := sjson.SetRawBytes(doc, reader.RegistryKey, list)
	if err != nil {
		return fmt.Errorf("failed to update registry: %w", err)
	}

	if err := writeAtomic(target, jsondoc.Document(updated).Pretty("    ")); err != nil {
		return err
	}
	logging.Info(subsystem, "Applied %d profiles to %s", len(profiles), target)
	return nil
}

// WaitForExit blocks until the process pid has exited or ctx is done.
// A pid of zero or less returns immediately.
func WaitForExit(ctx context.Context, pid int, interval time.Duration) error {
	if pid <= 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for processAlive(pid) {
		logging.Debug(subsystem, "Waiting for process %d to exit", pid)
		select {
		case <-ctx.Done():
			return fmt.Errorf("process %d still running: %w", pid, ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}

// WaitAndApply waits for pid to exit, then applies profiles to target.
func WaitAndApply(ctx context.Context, pid int, target string, profiles []editorconfig.ProfileEntry) error {
	if err := WaitForExit(ctx, pid, DefaultPollInterval); err != nil {
		return err
	}
	return Apply(target, profiles)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".storage-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
