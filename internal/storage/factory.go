package storage

import (
	"fmt"
	"net/http"
	"net/url"
)

// FactoryOptions carries settings shared by every provider a Factory builds.
type FactoryOptions struct {
	// LocalPath is the fallback local backup path.
	LocalPath string
	// GistBaseURL overrides the GitHub API endpoint.
	GistBaseURL *url.URL
	HTTPClient  *http.Client
}

// Factory creates fresh, disconnected providers by type tag.
type Factory struct {
	opts FactoryOptions
}

// NewFactory creates a Factory.
func NewFactory(opts FactoryOptions) *Factory {
	return &Factory{opts: opts}
}

// New creates a provider for the given type tag.
func (f *Factory) New(providerType string) (Provider, error) {
	switch NormalizeType(providerType) {
	case TypeGist:
		var opts []GistOption
		if f.opts.GistBaseURL != nil {
			opts = append(opts, WithGistBaseURL(f.opts.GistBaseURL))
		}
		if f.opts.HTTPClient != nil {
			opts = append(opts, WithHTTPClient(f.opts.HTTPClient))
		}
		return NewGistProvider(opts...), nil
	case TypeLocal:
		return NewLocalFileProvider(f.opts.LocalPath), nil
	default:
		return nil, fmt.Errorf("unknown storage provider type %q", providerType)
	}
}
