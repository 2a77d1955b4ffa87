package reader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"edsync/internal/editorconfig"
	"edsync/internal/paths"
	"edsync/pkg/jsondoc"
	"edsync/pkg/logging"
)

const subsystem = "Reader"

// ParseError reports a local configuration file that could not be parsed.
// Reads recover from it by substituting the empty value.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtensionLister enumerates the extensions installed in the host editor,
// built-ins excluded.
type ExtensionLister interface {
	InstalledExtensions(ctx context.Context) ([]string, error)
}

// Option configures a Reader.
type Option func(*Reader)

// WithExtensionLister sets the source of default-profile extensions. Without
// one, the reader falls back to <userDataDir>/extensions.json.
func WithExtensionLister(l ExtensionLister) Option {
	return func(r *Reader) { r.extensions = l }
}

// Reader loads an editor's user data directory into an EditorConfig.
type Reader struct {
	layout     paths.Layout
	extensions ExtensionLister
}

// New creates a Reader for the given user data directory.
func New(userDataDir string, opts ...Option) *Reader {
	r := &Reader{layout: paths.Layout{UserDataDir: userDataDir}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadLocalConfig reads the default profile and every named profile. Local
// parse and I/O failures are logged and replaced with empty values; the only
// error returned is context cancellation.
func (r *Reader) ReadLocalConfig(ctx context.Context) (*editorconfig.EditorConfig, error) {
	logging.Debug(subsystem, "Reading config from %s", r.layout.UserDataDir)

	cfg := &editorconfig.EditorConfig{
		Default: editorconfig.DefaultProfile{
			Settings:    ReadSettings(r.layout.Settings()),
			Keybindings: ReadKeybindings(r.layout.Keybindings()),
			Snippets:    ReadSnippets(r.layout.Snippets()),
			Extensions:  r.defaultExtensions(ctx),
		},
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta := r.ReadProfileMetadata()
	if meta == nil {
		return cfg, nil
	}

	custom := make([]editorconfig.ProfileConfig, 0, len(meta.Profiles))
	for _, entry := range meta.Profiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		custom = append(custom, r.readProfile(entry))
	}
	cfg.Profiles = &editorconfig.Profiles{Metadata: *meta, Custom: custom}

	logging.Info(subsystem, "Read default profile and %d named profiles from %s", len(custom), r.layout.UserDataDir)
	return cfg, nil
}

func (r *Reader) defaultExtensions(ctx context.Context) []string {
	if r.extensions == nil {
		return ReadExtensions(r.layout.Extensions())
	}
	ids, err := r.extensions.InstalledExtensions(ctx)
	if err != nil {
		logging.Error(subsystem, err, "Failed to list installed extensions")
		return []string{}
	}
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// readProfile reads profiles/<location>/. A missing directory yields empty
// values rather than failing the whole read.
func (r *Reader) readProfile(entry editorconfig.ProfileEntry) editorconfig.ProfileConfig {
	pc := editorconfig.ProfileConfig{
		Name:        entry.Name,
		Icon:        entry.Icon,
		Location:    entry.Location,
		Settings:    jsondoc.EmptyObject(),
		Keybindings: []jsondoc.Document{},
		Snippets:    map[string]jsondoc.Document{},
		Extensions:  []string{},
	}

	layout := r.layout.Profile(entry.Location)
	if info, err := os.Stat(layout.UserDataDir); err != nil || !info.IsDir() {
		logging.Debug(subsystem, "Profile directory %s not found, using empty values", layout.UserDataDir)
		return pc
	}

	pc.Settings = ReadSettings(layout.Settings())
	pc.Keybindings = ReadKeybindings(layout.Keybindings())
	pc.Snippets = ReadSnippets(layout.Snippets())
	pc.Extensions = ReadExtensions(layout.Extensions())
	return pc
}

// ReadSettings reads a settings file; missing or unreadable files yield {}.
func ReadSettings(path string) jsondoc.Document {
	doc, ok := readDocument(path)
	if !ok {
		return jsondoc.EmptyObject()
	}
	if !doc.IsObject() {
		logging.Warn(subsystem, "Ignoring %s: expected a JSON object, found %s", path, doc.Kind())
		return jsondoc.EmptyObject()
	}
	return doc
}

// ReadKeybindings reads a keybindings file; missing or unreadable files yield [].
func ReadKeybindings(path string) []jsondoc.Document {
	doc, ok := readDocument(path)
	if !ok {
		return []jsondoc.Document{}
	}
	if !doc.IsArray() {
		logging.Warn(subsystem, "Ignoring %s: expected a JSON array, found %s", path, doc.Kind())
		return []jsondoc.Document{}
	}
	elems := doc.Elements()
	if elems == nil {
		elems = []jsondoc.Document{}
	}
	return elems
}

// ReadSnippets reads every *.json and *.code-snippets file directly under dir.
// Files that fail to parse are skipped so a later pull cannot overwrite them
// with an empty value.
func ReadSnippets(dir string) map[string]jsondoc.Document {
	snippets := map[string]jsondoc.Document{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Error(subsystem, err, "Failed to list snippets in %s", dir)
		}
		return snippets
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !IsSnippetFile(name) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logging.Error(subsystem, err, "Failed to read snippet file %s", path)
			continue
		}
		doc, err := jsondoc.Decode(data)
		switch {
		case errors.Is(err, jsondoc.ErrEmpty):
			snippets[name] = jsondoc.EmptyObject()
		case err != nil:
			logging.Error(subsystem, &ParseError{Path: path, Err: err}, "Skipping snippet file")
		default:
			snippets[name] = doc
		}
	}
	return snippets
}

// IsSnippetFile reports whether a file name is a snippet definition file.
func IsSnippetFile(name string) bool {
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".code-snippets")
}

// ReadExtensions reads an extensions.json file in either accepted shape.
func ReadExtensions(path string) []string {
	doc, ok := readDocument(path)
	if !ok {
		return []string{}
	}
	return ParseExtensionIDs(doc)
}

// ParseExtensionIDs accepts a plain array of identifier strings or an array
// of {"identifier": {"id": "..."}} records. Unrecognized entries are dropped.
func ParseExtensionIDs(doc jsondoc.Document) []string {
	ids := []string{}
	for _, elem := range doc.Elements() {
		if id := extensionID(elem); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func extensionID(elem jsondoc.Document) string {
	switch elem.Kind() {
	case jsondoc.KindString:
		return gjson.ParseBytes(elem).String()
	case jsondoc.KindObject:
		if id := elem.Get("identifier.id"); id.Type == gjson.String {
			return id.String()
		}
	}
	return ""
}

// readDocument returns (doc, true) for a parsed file. Missing files, empty
// files and parse failures return false; failures other than a missing file
// are logged.
func readDocument(path string) (jsondoc.Document, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Error(subsystem, err, "Failed to read %s", path)
		}
		return nil, false
	}
	doc, err := jsondoc.Decode(data)
	if err != nil {
		if !errors.Is(err, jsondoc.ErrEmpty) {
			logging.Error(subsystem, &ParseError{Path: path, Err: err}, "Using empty value")
		}
		return nil, false
	}
	return doc, true
}
