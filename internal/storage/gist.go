package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"edsync/internal/editorconfig"
	"edsync/pkg/logging"
)

const (
	// GistDescription marks the gist edsync owns so repeated setups reuse it.
	GistDescription = "EDSYNC Configuration Sync"
	// GistFilename is the single file inside the gist holding the snapshot.
	GistFilename = "config.json"

	gistSubsystem = "GistProvider"
)

// maxRawSize caps the raw content fetched for a truncated gist file.
var maxRawSize int64 = 10 << 20

// GistOption configures a GistProvider.
type GistOption func(*GistProvider)

// WithGistBaseURL points the provider at a different API endpoint. The URL
// must end with a slash.
func WithGistBaseURL(u *url.URL) GistOption {
	return func(g *GistProvider) { g.baseURL = u }
}

// WithHTTPClient sets the transport wrapped by the token source.
func WithHTTPClient(c *http.Client) GistOption {
	return func(g *GistProvider) { g.httpClient = c }
}

// GistProvider stores the snapshot in a private GitHub gist.
type GistProvider struct {
	baseURL    *url.URL
	httpClient *http.Client

	client *github.Client
	http   *http.Client
	gistID string
}

// NewGistProvider creates a disconnected gist backend.
func NewGistProvider(opts ...GistOption) *GistProvider {
	g := &GistProvider{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GistProvider) Name() string { return DisplayName(TypeGist) }

func (g *GistProvider) IsConnected() bool { return g.client != nil && g.gistID != "" }

// ResourceID returns the gist in use after Connect.
func (g *GistProvider) ResourceID() string { return g.gistID }

// Connect authenticates with creds.Token. With creds.ResourceID it opens that
// gist; otherwise it reuses the gist described GistDescription or creates a
// new private one.
func (g *GistProvider) Connect(ctx context.Context, creds Credentials) error {
	g.client, g.gistID = nil, ""

	if strings.TrimSpace(creds.Token) == "" {
		return &AuthenticationError{Provider: g.Name(), Err: errors.New("no token configured")}
	}

	base := g.httpClient
	if base == nil {
		base = http.DefaultClient
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := oauth2.NewClient(tokenCtx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token}))

	client := github.NewClient(httpClient)
	if g.baseURL != nil {
		client.BaseURL = g.baseURL
	}

	id := creds.ResourceID
	if id != "" {
		gist, _, err := client.Gists.Get(ctx, id)
		if err != nil {
			if status(err) == http.StatusNotFound {
				return &NotFoundError{Provider: g.Name(), ResourceID: id}
			}
			return g.classify("open gist", err)
		}
		id = gist.GetID()
	} else {
		found, err := findOwnedGist(ctx, client)
		if err != nil {
			return g.classify("list gists", err)
		}
		if found != "" {
			logging.Info(gistSubsystem, "Reusing existing gist %s", found)
			id = found
		} else {
			created, err := createGist(ctx, client)
			if err != nil {
				return g.classify("create gist", err)
			}
			logging.Info(gistSubsystem, "Created gist %s", created)
			id = created
		}
	}

	g.client, g.http, g.gistID = client, httpClient, id
	return nil
}

// Read fetches config.json from the gist. A gist without the file, or with
// an empty placeholder, holds no snapshot.
func (g *GistProvider) Read(ctx context.Context) (*editorconfig.EditorConfig, error) {
	if !g.IsConnected() {
		return nil, ErrNotConnected
	}

	gist, _, err := g.client.Gists.Get(ctx, g.gistID)
	if err != nil {
		return nil, g.classify("read gist", err)
	}

	file, ok := gist.Files[GistFilename]
	if !ok {
		return nil, nil
	}

	content := file.GetContent()
	// The API omits content of large files; fetch those through raw_url.
	if content == "" && file.GetRawURL() != "" && file.GetSize() > 0 {
		content, err = g.fetchRaw(ctx, file.GetRawURL())
		if err != nil {
			return nil, err
		}
	}

	cfg, err := editorconfig.Unmarshal([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("%s: gist %s: %w", g.Name(), g.gistID, err)
	}
	return cfg, nil
}

// Write replaces config.json with the full snapshot.
func (g *GistProvider) Write(ctx context.Context, cfg *editorconfig.EditorConfig) error {
	if !g.IsConnected() {
		return ErrNotConnected
	}

	data, err := editorconfig.Marshal(cfg)
	if err != nil {
		return err
	}

	_, _, err = g.client.Gists.Edit(ctx, g.gistID, &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			GistFilename: {Content: github.Ptr(string(data))},
		},
	})
	if err != nil {
		return g.classify("update gist", err)
	}
	logging.Debug(gistSubsystem, "Wrote %d bytes to gist %s", len(data), g.gistID)
	return nil
}

func (g *GistProvider) fetchRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: fetch raw content: %w", g.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: fetch raw content: unexpected status %s", g.Name(), resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRawSize+1))
	if err != nil {
		return "", fmt.Errorf("%s: fetch raw content: %w", g.Name(), err)
	}
	if int64(len(body)) > maxRawSize {
		return "", fmt.Errorf("%s: fetch raw content: %w (limit %d bytes)", g.Name(), ErrPayloadTooLarge, maxRawSize)
	}
	return string(body), nil
}

func (g *GistProvider) classify(op string, err error) error {
	if status(err) == http.StatusUnauthorized {
		return &AuthenticationError{Provider: g.Name(), Err: err}
	}
	return fmt.Errorf("%s: %s: %w", g.Name(), op, err)
}

func findOwnedGist(ctx context.Context, client *github.Client) (string, error) {
	opts := &github.GistListOptions{ListOptions: github.ListOptions{PerPage: 100}}
	for {
		gists, resp, err := client.Gists.List(ctx, "", opts)
		if err != nil {
			return "", err
		}
		for _, gist := range gists {
			if gist.GetDescription() == GistDescription {
				return gist.GetID(), nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return "", nil
		}
		opts.Page = resp.NextPage
	}
}

func createGist(ctx context.Context, client *github.Client) (string, error) {
	gist, _, err := client.Gists.Create(ctx, &github.Gist{
		Description: github.Ptr(GistDescription),
		Public:      github.Ptr(false),
		Files: map[github.GistFilename]github.GistFile{
			GistFilename: {Content: github.Ptr("{}")},
		},
	})
	if err != nil {
		return "", err
	}
	return gist.GetID(), nil
}

func status(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}
