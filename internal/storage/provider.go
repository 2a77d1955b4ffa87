// Package storage persists EditorConfig snapshots in storage backends.
//
// Every backend stores the whole snapshot as one JSON document. There are no
// partial or delta updates: each Write replaces what was there.
package storage

import (
	"context"
	"strings"

	"edsync/internal/editorconfig"
)

// Backend type tags as they appear in saved provider records.
const (
	TypeGist  = "gist"
	TypeLocal = "local"
)

// Credentials carries what a backend needs to connect. Fields a backend does
// not use are ignored.
type Credentials struct {
	// Token authenticates against remote backends.
	Token string
	// ResourceID selects an existing remote resource. Empty means find or
	// create the one edsync owns.
	ResourceID string
	// Path is the local file or directory for the local backend.
	Path string
}

// Provider is one storage backend.
type Provider interface {
	Name() string
	Connect(ctx context.Context, creds Credentials) error
	// Read returns nil with no error when the backend holds no snapshot yet.
	Read(ctx context.Context) (*editorconfig.EditorConfig, error)
	Write(ctx context.Context, cfg *editorconfig.EditorConfig) error
	IsConnected() bool
}

// ResourceIdentifier is implemented by backends that allocate a remote
// resource the caller should remember for the next connection.
type ResourceIdentifier interface {
	ResourceID() string
}

// NormalizeType maps a backend type tag and its aliases to the canonical tag.
// It returns "" for unknown types.
func NormalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "gist", "github", "blob":
		return TypeGist
	case "local", "file", "localfile":
		return TypeLocal
	default:
		return ""
	}
}

// DisplayName is the human name for a backend type.
func DisplayName(t string) string {
	switch NormalizeType(t) {
	case TypeGist:
		return "Gist Storage"
	case TypeLocal:
		return "Local Storage"
	default:
		return t
	}
}
