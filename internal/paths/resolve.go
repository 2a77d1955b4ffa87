package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ErrUnsupportedEditor is returned for an Unknown editor without a usable display name.
	ErrUnsupportedEditor = errors.New("unsupported editor")
	// ErrUnsupportedPlatform is returned for operating systems outside darwin, windows and linux.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Env is a snapshot of the environment variables the resolver consults.
type Env map[string]string

// EnvKeys are the variables the resolver consults.
var EnvKeys = []string{"APPDATA", "XDG_CONFIG_HOME", "IDX_USER_DATA_DIR", "VSCODE_EXTENSIONS"}

// EnvFrom captures the resolver's variables through getenv. Empty values are omitted.
func EnvFrom(getenv func(string) string) Env {
	env := Env{}
	for _, key := range EnvKeys {
		if v := getenv(key); v != "" {
			env[key] = v
		}
	}
	return env
}

// Request carries the inputs of ResolveUserDataDir.
type Request struct {
	Kind        EditorKind
	DisplayName string
	Platform    string // runtime.GOOS value; "win32" is accepted as an alias of "windows"
	HomeDir     string
	Env         Env
	Override    string
}

var whitespace = regexp.MustCompile(`\s+`)

// ResolveUserDataDir maps an editor identity to its "User" data directory.
// It performs no I/O: identical requests always produce identical results.
func ResolveUserDataDir(req Request) (string, error) {
	if strings.TrimSpace(req.Override) != "" {
		return req.Override, nil
	}

	root, err := appDataRoot(req.Platform, req.HomeDir, req.Env)
	if err != nil {
		return "", err
	}

	if req.Kind == IDX {
		if dir := req.Env["IDX_USER_DATA_DIR"]; dir != "" {
			return dir, nil
		}
		return idxFallback(req.Platform, req.HomeDir, root), nil
	}

	folder, ok := productFolder[req.Kind]
	if !ok {
		folder = whitespace.ReplaceAllString(req.DisplayName, "")
		if folder == "" {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedEditor, req.Kind)
		}
	}
	return filepath.Join(root, folder, "User"), nil
}

// appDataRoot returns the OS-conventional application data directory.
func appDataRoot(platform, home string, env Env) (string, error) {
	switch platform {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows", "win32":
		if appData := env["APPDATA"]; appData != "" {
			return appData, nil
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	case "linux":
		if cfg := env["XDG_CONFIG_HOME"]; cfg != "" {
			return cfg, nil
		}
		return filepath.Join(home, ".config"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
	}
}

func idxFallback(platform, home, root string) string {
	switch platform {
	case "windows", "win32":
		return filepath.Join(root, "IDX", "User")
	default:
		return filepath.Join(home, ".config", "idx", "User")
	}
}

// ResolveExtensionsDir returns the directory holding the editor's installed
// extensions, or "" when the kind has no known location.
func ResolveExtensionsDir(kind EditorKind, home string, env Env) string {
	if dir := env["VSCODE_EXTENSIONS"]; dir != "" && (kind == VSCode || kind == IDX) {
		return dir
	}
	folder, ok := extensionsFolder[kind]
	if !ok {
		return ""
	}
	return filepath.Join(home, folder, "extensions")
}

// Layout names the files edsync reads and writes below a user data directory.
type Layout struct {
	UserDataDir string
}

func (l Layout) Settings() string    { return filepath.Join(l.UserDataDir, "settings.json") }
func (l Layout) Keybindings() string { return filepath.Join(l.UserDataDir, "keybindings.json") }
func (l Layout) Extensions() string  { return filepath.Join(l.UserDataDir, "extensions.json") }
func (l Layout) Snippets() string    { return filepath.Join(l.UserDataDir, "snippets") }

// Registry is the editor-owned file holding the profile registry.
func (l Layout) Registry() string {
	return filepath.Join(l.UserDataDir, "globalStorage", "storage.json")
}

// ProfilesDir holds one directory per named profile.
func (l Layout) ProfilesDir() string { return filepath.Join(l.UserDataDir, "profiles") }

// Profile returns the layout of a named profile's own directory.
func (l Layout) Profile(location string) Layout {
	return Layout{UserDataDir: filepath.Join(l.ProfilesDir(), location)}
}
