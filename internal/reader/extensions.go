package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"edsync/pkg/jsondoc"
	"edsync/pkg/logging"
)

// ManifestExtensionLister lists extensions from an editor's extensions
// directory. It prefers the extensions.json manifest and falls back to
// scanning <publisher>.<name>-<version> folders.
type ManifestExtensionLister struct {
	Dir string
}

// InstalledExtensions implements ExtensionLister.
func (l ManifestExtensionLister) InstalledExtensions(ctx context.Context) ([]string, error) {
	if l.Dir == "" {
		return []string{}, nil
	}

	data, err := os.ReadFile(filepath.Join(l.Dir, "extensions.json"))
	switch {
	case err == nil:
		doc, err := jsondoc.Decode(data)
		if err != nil {
			if errors.Is(err, jsondoc.ErrEmpty) {
				return []string{}, nil
			}
			return nil, &ParseError{Path: filepath.Join(l.Dir, "extensions.json"), Err: err}
		}
		return dedupeFold(ParseExtensionIDs(withoutBuiltins(doc))), nil
	case errors.Is(err, os.ErrNotExist):
		return l.scanFolders(ctx)
	default:
		return nil, err
	}
}

func (l ManifestExtensionLister) scanFolders(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug(subsystem, "Extensions directory %s does not exist", l.Dir)
			return []string{}, nil
		}
		return nil, err
	}

	ids := []string{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if id := folderExtensionID(entry.Name()); id != "" {
			ids = append(ids, id)
		}
	}
	return dedupeFold(ids), nil
}

// folderExtensionID turns "ms-python.python-2024.1.0" into "ms-python.python".
func folderExtensionID(folder string) string {
	for i := len(folder) - 1; i > 0; i-- {
		if folder[i] == '-' && i+1 < len(folder) && unicode.IsDigit(rune(folder[i+1])) {
			folder = folder[:i]
			break
		}
	}
	if !strings.Contains(folder, ".") {
		return ""
	}
	return folder
}

func withoutBuiltins(doc jsondoc.Document) jsondoc.Document {
	var kept []jsondoc.Document
	for _, elem := range doc.Elements() {
		if elem.Get("metadata.isBuiltin").Bool() {
			continue
		}
		kept = append(kept, elem)
	}
	if kept == nil {
		return jsondoc.EmptyArray()
	}
	return jsondoc.MustFromValue(kept)
}

// dedupeFold removes case-insensitive duplicates, keeping the first spelling.
func dedupeFold(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		key := strings.ToLower(id)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, id)
	}
	return out
}
