package writer

import "edsync/internal/editorconfig"

// MergeProfiles computes the registry to apply after a pull. Incoming entries
// come first and win; an existing entry survives only if neither its location
// nor its name is already taken. Within each list the first entry for a
// location or name wins.
func MergeProfiles(incoming, existing []editorconfig.ProfileEntry) []editorconfig.ProfileEntry {
	merged := make([]editorconfig.ProfileEntry, 0, len(incoming)+len(existing))
	locations := map[string]bool{}
	names := map[string]bool{}

	for _, p := range incoming {
		if locations[p.Location] || names[p.Name] {
			continue
		}
		merged = append(merged, p)
		locations[p.Location] = true
		names[p.Name] = true
	}

	for _, p := range existing {
		if locations[p.Location] || names[p.Name] {
			continue
		}
		merged = append(merged, p)
		locations[p.Location] = true
		names[p.Name] = true
	}

	return merged
}
