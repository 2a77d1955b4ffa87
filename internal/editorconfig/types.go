// Package editorconfig defines the snapshot of one editor's configuration
// that travels between the local disk and the storage backends.
package editorconfig

import (
	"edsync/pkg/jsondoc"
)

// EditorConfig is the root snapshot. Default is always present; Profiles is
// non-nil only when the source editor has at least one named profile.
type EditorConfig struct {
	Default  DefaultProfile `json:"default"`
	Profiles *Profiles      `json:"profiles,omitempty"`
}

// DefaultProfile is the configuration active with no named profile selected.
type DefaultProfile struct {
	Settings    jsondoc.Document            `json:"settings"`
	Keybindings []jsondoc.Document          `json:"keybindings"`
	Snippets    map[string]jsondoc.Document `json:"snippets"`
	Extensions  []string                    `json:"extensions"`
}

// Profiles bundles the registry metadata with each named profile's payload.
type Profiles struct {
	Metadata ProfilesMetadata `json:"metadata"`
	Custom   []ProfileConfig  `json:"custom"`
}

// ProfilesMetadata mirrors the editor's profile registry.
type ProfilesMetadata struct {
	Profiles []ProfileEntry `json:"profiles"`
}

// ProfileEntry is one registry record. Location is the identity key; Name is
// a display name and may collide across sources.
type ProfileEntry struct {
	Name            string           `json:"name"`
	Location        string           `json:"location"`
	Icon            string           `json:"icon,omitempty"`
	UseDefaultFlags jsondoc.Document `json:"useDefaultFlags,omitempty"`
}

// ProfileConfig is one named profile's full payload. Extensions is often
// empty because most editors manage extensions per instance rather than
// per profile.
type ProfileConfig struct {
	Name        string                      `json:"name"`
	Icon        string                      `json:"icon,omitempty"`
	Location    string                      `json:"location"`
	Settings    jsondoc.Document            `json:"settings"`
	Keybindings []jsondoc.Document          `json:"keybindings"`
	Snippets    map[string]jsondoc.Document `json:"snippets"`
	Extensions  []string                    `json:"extensions"`
}

// NewDefaultProfile returns a default profile with every field set to its
// empty value, which is what a missing file reads as.
func NewDefaultProfile() DefaultProfile {
	return DefaultProfile{
		Settings:    jsondoc.EmptyObject(),
		Keybindings: []jsondoc.Document{},
		Snippets:    map[string]jsondoc.Document{},
		Extensions:  []string{},
	}
}

// Entry returns the registry record describing this profile.
func (p ProfileConfig) Entry() ProfileEntry {
	return ProfileEntry{Name: p.Name, Location: p.Location, Icon: p.Icon}
}

// ProfileCount returns the number of named profiles carried by the snapshot.
func (c *EditorConfig) ProfileCount() int {
	if c == nil || c.Profiles == nil {
		return 0
	}
	return len(c.Profiles.Metadata.Profiles)
}

// GetProfiles returns the registry entries, or nil for a nil receiver.
func (m *ProfilesMetadata) GetProfiles() []ProfileEntry {
	if m == nil {
		return nil
	}
	return m.Profiles
}
