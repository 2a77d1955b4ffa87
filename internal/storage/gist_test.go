package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edsync/internal/editorconfig"
	"edsync/pkg/jsondoc"
)

type fakeFile struct {
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content,omitempty"`
	RawURL   string `json:"raw_url,omitempty"`
	Size     int    `json:"size,omitempty"`
}

type fakeGist struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]fakeFile `json:"files"`
}

// fakeGistAPI is an in-memory stand-in for the gist endpoints.
type fakeGistAPI struct {
	mu        sync.Mutex
	token     string
	gists     map[string]*fakeGist
	order     []string
	created   int
	omitBody  bool
	rawServed int
	server    *httptest.Server
}

func newFakeGistAPI(t *testing.T, token string) *fakeGistAPI {
	api := &fakeGistAPI{token: token, gists: map[string]*fakeGist{}}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)
	return api
}

func (a *fakeGistAPI) add(g *fakeGist) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gists[g.ID] = g
	a.order = append(a.order, g.ID)
}

func (a *fakeGistAPI) provider() *GistProvider {
	u, _ := url.Parse(a.server.URL + "/")
	return NewGistProvider(WithGistBaseURL(u), WithHTTPClient(a.server.Client()))
}

func (a *fakeGistAPI) handle(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+a.token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Bad credentials"}`))
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch {
	case strings.HasPrefix(path, "raw/"):
		g := a.gists[strings.TrimPrefix(path, "raw/")]
		a.rawServed++
		_, _ = w.Write([]byte(g.Files[GistFilename].Content))

	case path == "gists" && r.Method == http.MethodGet:
		var list []fakeGist
		for _, id := range a.order {
			list = append(list, *a.gists[id])
		}
		_ = json.NewEncoder(w).Encode(list)

	case path == "gists" && r.Method == http.MethodPost:
		var g fakeGist
		_ = json.NewDecoder(r.Body).Decode(&g)
		a.created++
		g.ID = fmt.Sprintf("new-%d", a.created)
		a.gists[g.ID] = &g
		a.order = append(a.order, g.ID)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(g)

	case strings.HasPrefix(path, "gists/"):
		id := strings.TrimPrefix(path, "gists/")
		g, ok := a.gists[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message": "Not Found"}`))
			return
		}
		if r.Method == http.MethodPatch {
			var patch fakeGist
			_ = json.NewDecoder(r.Body).Decode(&patch)
			for name, f := range patch.Files {
				g.Files[name] = fakeFile{Filename: name, Content: f.Content, Size: len(f.Content)}
			}
		}
		out := *g
		out.Files = map[string]fakeFile{}
		for name, f := range g.Files {
			if a.omitBody {
				f.RawURL = a.server.URL + "/raw/" + id
				f.Size = len(f.Content)
				f.Content = ""
			}
			out.Files[name] = f
		}
		_ = json.NewEncoder(w).Encode(out)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func sampleConfig() *editorconfig.EditorConfig {
	def := editorconfig.NewDefaultProfile()
	def.Settings = jsondoc.Document(`{"editor.fontSize":14}`)
	def.Extensions = []string{"golang.go"}
	return &editorconfig.EditorConfig{Default: def}
}

func TestGistProvider_NotConnected(t *testing.T) {
	g := NewGistProvider()
	assert.False(t, g.IsConnected())

	_, err := g.Read(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.ErrorIs(t, g.Write(context.Background(), sampleConfig()), ErrNotConnected)
}

func TestGistProvider_CreatesAndReusesOwnedGist(t *testing.T) {
	api := newFakeGistAPI(t, "secret")
	api.add(&fakeGist{ID: "other", Description: "unrelated", Files: map[string]fakeFile{}})
	ctx := context.Background()

	first := api.provider()
	require.NoError(t, first.Connect(ctx, Credentials{Token: "secret"}))
	assert.Equal(t, "new-1", first.ResourceID())
	assert.True(t, first.IsConnected())

	// The placeholder content holds no snapshot.
	cfg, err := first.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	second := api.provider()
	require.NoError(t, second.Connect(ctx, Credentials{Token: "secret"}))
	assert.Equal(t, "new-1", second.ResourceID())
	assert.Equal(t, 1, api.created)
	assert.False(t, api.gists["new-1"].Public)
	assert.Equal(t, GistDescription, api.gists["new-1"].Description)
}

func TestGistProvider_WriteThenRead(t *testing.T) {
	api := newFakeGistAPI(t, "secret")
	ctx := context.Background()

	g := api.provider()
	require.NoError(t, g.Connect(ctx, Credentials{Token: "secret"}))
	require.NoError(t, g.Write(ctx, sampleConfig()))

	got, err := g.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(14), got.Default.Settings.Get(`editor\.fontSize`).Int())
	assert.Equal(t, []string{"golang.go"}, got.Default.Extensions)
}

func TestGistProvider_ReadsTruncatedContentFromRawURL(t *testing.T) {
	api := newFakeGistAPI(t, "secret")
	ctx := context.Background()

	g := api.provider()
	require.NoError(t, g.Connect(ctx, Credentials{Token: "secret"}))
	require.NoError(t, g.Write(ctx, sampleConfig()))

	api.omitBody = true
	got, err := g.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, api.rawServed)
	assert.Equal(t, []string{"golang.go"}, got.Default.Extensions)
}

func TestGistProvider_RawContentOverLimit(t *testing.T) {
	api := newFakeGistAPI(t, "secret")
	ctx := context.Background()

	g := api.provider()
	require.NoError(t, g.Connect(ctx, Credentials{Token: "secret"}))
	require.NoError(t, g.Write(ctx, sampleConfig()))

	old := maxRawSize
	maxRawSize = 16
	t.Cleanup(func() { maxRawSize = old })

	api.omitBody = true
	got, err := g.Read(ctx)
	require.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Nil(t, got)
	assert.Equal(t, 1, api.rawServed)
}

func TestGistProvider_ConnectErrors(t *testing.T) {
	api := newFakeGistAPI(t, "secret")
	ctx := context.Background()

	t.Run("bad token", func(t *testing.T) {
		err := api.provider().Connect(ctx, Credentials{Token: "wrong"})
		assert.True(t, IsAuthenticationError(err), "got %v", err)
	})

	t.Run("missing token", func(t *testing.T) {
		err := api.provider().Connect(ctx, Credentials{})
		assert.True(t, IsAuthenticationError(err), "got %v", err)
	})

	t.Run("unknown explicit id", func(t *testing.T) {
		g := api.provider()
		err := g.Connect(ctx, Credentials{Token: "secret", ResourceID: "missing"})
		assert.True(t, IsNotFound(err), "got %v", err)
		assert.False(t, g.IsConnected())
	})

	t.Run("known explicit id", func(t *testing.T) {
		api.add(&fakeGist{ID: "mine", Description: GistDescription, Files: map[string]fakeFile{}})
		g := api.provider()
		require.NoError(t, g.Connect(ctx, Credentials{Token: "secret", ResourceID: "mine"}))
		assert.Equal(t, "mine", g.ResourceID())

		cfg, err := g.Read(ctx)
		require.NoError(t, err)
		assert.Nil(t, cfg, "gist without config.json holds no snapshot")
	})
}
