package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"edsync/internal/editorconfig"
	"edsync/pkg/logging"
)

const localSubsystem = "LocalProvider"

// DefaultLocalPath returns ~/.edsync/config.json.
func DefaultLocalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".edsync", GistFilename), nil
}

// ResolveLocalPath applies the local path rule: a path that does not end in
// .json names a directory that will hold config.json.
func ResolveLocalPath(p string) string {
	if strings.HasSuffix(strings.ToLower(p), ".json") {
		return p
	}
	return filepath.Join(p, GistFilename)
}

// LocalFileProvider stores the snapshot in a single JSON file.
type LocalFileProvider struct {
	defaultPath string
	path        string
}

// NewLocalFileProvider creates a disconnected local backend. defaultPath is
// used when Connect is called without a path; empty means DefaultLocalPath.
func NewLocalFileProvider(defaultPath string) *LocalFileProvider {
	return &LocalFileProvider{defaultPath: defaultPath}
}

func (l *LocalFileProvider) Name() string { return DisplayName(TypeLocal) }

func (l *LocalFileProvider) IsConnected() bool { return l.path != "" }

// Path returns the resolved file path after Connect.
func (l *LocalFileProvider) Path() string { return l.path }

// Connect resolves the file path and makes sure its directory exists.
func (l *LocalFileProvider) Connect(_ context.Context, creds Credentials) error {
	l.path = ""

	p := creds.Path
	if p == "" {
		p = l.defaultPath
	}
	if p == "" {
		def, err := DefaultLocalPath()
		if err != nil {
			return fmt.Errorf("%s: resolve default path: %w", l.Name(), err)
		}
		p = def
	}
	p = ResolveLocalPath(p)

	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("%s: create %s: %w", l.Name(), filepath.Dir(p), err)
	}
	l.path = p
	logging.Debug(localSubsystem, "Using %s", p)
	return nil
}

// Read returns nil when the file does not exist yet.
func (l *LocalFileProvider) Read(_ context.Context) (*editorconfig.EditorConfig, error) {
	if !l.IsConnected() {
		return nil, ErrNotConnected
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", l.Name(), err)
	}
	cfg, err := editorconfig.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", l.Name(), l.path, err)
	}
	return cfg, nil
}

// Write replaces the file through a temp file and rename.
func (l *LocalFileProvider) Write(_ context.Context, cfg *editorconfig.EditorConfig) error {
	if !l.IsConnected() {
		return ErrNotConnected
	}
	data, err := editorconfig.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".config-*.json")
	if err != nil {
		return fmt.Errorf("%s: %w", l.Name(), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", l.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", l.Name(), err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("%s: %w", l.Name(), err)
	}
	return nil
}
