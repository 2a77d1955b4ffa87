package reader

import (
	"github.com/tidwall/gjson"

	"edsync/internal/editorconfig"
	"edsync/pkg/jsondoc"
	"edsync/pkg/logging"
)

// RegistryKey is the key in the editor's global storage file that lists the
// named profiles.
const RegistryKey = "userDataProfiles"

// ReadProfileMetadata reads the profile registry from the editor's global
// storage file. It returns nil when the registry is absent, unreadable or
// lists no usable profiles.
func (r *Reader) ReadProfileMetadata() *editorconfig.ProfilesMetadata {
	path := r.layout.Registry()
	doc, ok := readDocument(path)
	if !ok {
		return nil
	}
	entries := ParseRegistryEntries(doc)
	if len(entries) == 0 {
		return nil
	}
	logging.Debug(subsystem, "Found %d profiles in %s", len(entries), path)
	return &editorconfig.ProfilesMetadata{Profiles: entries}
}

// ParseRegistryEntries extracts profile entries from a global storage
// document. Entries without a location are skipped, and the first entry for a
// location wins.
func ParseRegistryEntries(doc jsondoc.Document) []editorconfig.ProfileEntry {
	list := doc.Get(RegistryKey)
	if !list.IsArray() {
		return nil
	}

	var entries []editorconfig.ProfileEntry
	seen := map[string]bool{}
	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		location := item.Get("location")
		if location.Type != gjson.String || location.String() == "" || seen[location.String()] {
			return true
		}
		seen[location.String()] = true

		entry := editorconfig.ProfileEntry{
			Name:     item.Get("name").String(),
			Location: location.String(),
			Icon:     item.Get("icon").String(),
		}
		if flags := item.Get("useDefaultFlags"); flags.IsObject() {
			entry.UseDefaultFlags = jsondoc.Document(flags.Raw)
		}
		entries = append(entries, entry)
		return true
	})
	return entries
}
