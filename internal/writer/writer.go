package writer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"edsync/internal/editorconfig"
	"edsync/internal/paths"
	"edsync/internal/reader"
	"edsync/pkg/jsondoc"
	"edsync/pkg/logging"
)

const subsystem = "Writer"

// Indent is the indentation used for every file written into the editor's
// user data directory.
const Indent = "    "

// WriteError reports a filesystem failure while writing a config file.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ErrUnsafeName is returned for a profile location or snippet file name that
// would escape its directory.
var ErrUnsafeName = errors.New("unsafe file name")

// Writer applies an EditorConfig to an editor's user data directory.
type Writer struct {
	layout paths.Layout
}

// New creates a Writer for the given user data directory.
func New(userDataDir string) *Writer {
	return &Writer{layout: paths.Layout{UserDataDir: userDataDir}}
}

// WriteLocalConfig writes the default profile and every named profile's
// files, then returns the profile registry that should replace the editor's
// live one. The live registry file itself is never written here.
//
// Failures writing default-profile files are returned. Failures inside a
// named profile are logged and the remaining profiles are still written.
func (w *Writer) WriteLocalConfig(ctx context.Context, cfg *editorconfig.EditorConfig) ([]editorconfig.ProfileEntry, error) {
	if cfg == nil {
		return nil, errors.New("nothing to write: config is nil")
	}

	if err := w.writeDefault(cfg.Default); err != nil {
		logging.Error(subsystem, err, "Failed to write default profile")
		return nil, err
	}

	if cfg.Profiles == nil {
		return nil, nil
	}

	written := 0
	for _, profile := range cfg.Profiles.Custom {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := w.writeProfile(profile); err != nil {
			logging.Error(subsystem, err, "Failed to write profile %q", profile.Name)
			continue
		}
		written++
	}
	logging.Info(subsystem, "Wrote %d of %d named profiles", written, len(cfg.Profiles.Custom))

	incoming := cfg.Profiles.Metadata.Profiles
	if len(incoming) == 0 {
		for _, p := range cfg.Profiles.Custom {
			incoming = append(incoming, p.Entry())
		}
	}
	return MergeProfiles(safeEntries(incoming), w.existingRegistry()), nil
}

func (w *Writer) writeDefault(p editorconfig.DefaultProfile) error {
	if err := writeSettings(w.layout.Settings(), p.Settings); err != nil {
		return err
	}
	if err := writeKeybindings(w.layout.Keybindings(), p.Keybindings); err != nil {
		return err
	}
	if err := writeSnippets(w.layout.Snippets(), p.Snippets); err != nil {
		return err
	}
	return writeExtensions(w.layout.Extensions(), p.Extensions)
}

// writeProfile always rewrites settings and keybindings so stale files from
// an earlier pull do not survive. An empty extension list is skipped so the
// editor's own per-profile extension records survive a pull from a source
// that does not track them.
func (w *Writer) writeProfile(p editorconfig.ProfileConfig) error {
	if err := checkName(p.Location); err != nil {
		return fmt.Errorf("profile location %q: %w", p.Location, err)
	}

	layout := w.layout.Profile(p.Location)
	if err := os.MkdirAll(layout.UserDataDir, 0755); err != nil {
		return &WriteError{Path: layout.UserDataDir, Err: err}
	}

	if err := writeSettings(layout.Settings(), p.Settings); err != nil {
		return err
	}
	if err := writeKeybindings(layout.Keybindings(), p.Keybindings); err != nil {
		return err
	}
	if len(p.Snippets) > 0 {
		if err := writeSnippets(layout.Snippets(), p.Snippets); err != nil {
			return err
		}
	}
	if len(p.Extensions) > 0 {
		if err := writeExtensions(layout.Extensions(), p.Extensions); err != nil {
			return err
		}
	}
	return nil
}

// existingRegistry reads the on-disk registry. The editor may have a newer
// copy in memory, so this is best effort only.
func (w *Writer) existingRegistry() []editorconfig.ProfileEntry {
	return reader.New(w.layout.UserDataDir).ReadProfileMetadata().GetProfiles()
}

func writeSettings(path string, settings jsondoc.Document) error {
	if len(settings) == 0 || settings.Kind() == jsondoc.KindNull {
		settings = jsondoc.EmptyObject()
	}
	return writeFile(path, settings.Pretty(Indent))
}

func writeKeybindings(path string, keybindings []jsondoc.Document) error {
	if keybindings == nil {
		keybindings = []jsondoc.Document{}
	}
	data, err := jsondoc.MarshalIndent(keybindings, Indent)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return writeFile(path, data)
}

func writeSnippets(dir string, snippets map[string]jsondoc.Document) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}
	for name, doc := range snippets {
		if err := checkName(name); err != nil {
			logging.Warn(subsystem, "Skipping snippet file %q: %v", name, err)
			continue
		}
		if len(doc) == 0 {
			doc = jsondoc.EmptyObject()
		}
		if err := writeFile(filepath.Join(dir, name), doc.Pretty(Indent)); err != nil {
			return err
		}
	}
	return nil
}

func writeExtensions(path string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := jsondoc.MarshalIndent(ids, Indent)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	logging.Debug(subsystem, "Wrote %s", path)
	return nil
}

// checkName rejects names that are empty or reach outside their directory.
func checkName(name string) error {
	if name == "." || !filepath.IsLocal(name) || filepath.Base(name) != name ||
		strings.ContainsAny(name, `/\`) {
		return ErrUnsafeName
	}
	return nil
}

func safeEntries(entries []editorconfig.ProfileEntry) []editorconfig.ProfileEntry {
	out := make([]editorconfig.ProfileEntry, 0, len(entries))
	for _, e := range entries {
		if err := checkName(e.Location); err != nil {
			logging.Warn(subsystem, "Dropping profile %q from registry: location %q: %v", e.Name, e.Location, err)
			continue
		}
		out = append(out, e)
	}
	return out
}
