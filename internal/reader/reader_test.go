package reader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edsync/pkg/jsondoc"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReadLocalConfig_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	cfg, err := New(dir).ReadLocalConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "{}", cfg.Default.Settings.String())
	assert.Empty(t, cfg.Default.Keybindings)
	assert.NotNil(t, cfg.Default.Keybindings)
	assert.Empty(t, cfg.Default.Snippets)
	assert.Empty(t, cfg.Default.Extensions)
	assert.Nil(t, cfg.Profiles)
}

func TestReadLocalConfig_DefaultProfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "settings.json"), `{
		// font
		"editor.fontSize": 14,
	}`)
	writeFile(t, filepath.Join(dir, "keybindings.json"), `[
		{"key": "ctrl+k", "command": "a"},
		{"key": "ctrl+j", "command": "b"},
	]`)
	writeFile(t, filepath.Join(dir, "snippets", "go.json"), `{"p": {"prefix": "p", "body": "x"}}`)
	writeFile(t, filepath.Join(dir, "snippets", "global.code-snippets"), `{}`)
	writeFile(t, filepath.Join(dir, "snippets", "notes.txt"), `ignored`)
	writeFile(t, filepath.Join(dir, "extensions.json"), `["ms-python.python", {"identifier": {"id": "golang.go"}}, 42]`)

	cfg, err := New(dir).ReadLocalConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(14), cfg.Default.Settings.Get(`editor\.fontSize`).Int())
	require.Len(t, cfg.Default.Keybindings, 2)
	assert.Equal(t, "a", cfg.Default.Keybindings[0].Get("command").String())
	assert.Equal(t, "b", cfg.Default.Keybindings[1].Get("command").String())
	assert.Len(t, cfg.Default.Snippets, 2)
	assert.Contains(t, cfg.Default.Snippets, "go.json")
	assert.Contains(t, cfg.Default.Snippets, "global.code-snippets")
	assert.Equal(t, []string{"ms-python.python", "golang.go"}, cfg.Default.Extensions)
}

func TestReadLocalConfig_ParseFailuresYieldEmptyValues(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "settings.json"), `{"a": `)
	writeFile(t, filepath.Join(dir, "keybindings.json"), `{"not": "an array"}`)
	writeFile(t, filepath.Join(dir, "snippets", "broken.json"), `{{`)
	writeFile(t, filepath.Join(dir, "snippets", "empty.json"), ``)

	cfg, err := New(dir).ReadLocalConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "{}", cfg.Default.Settings.String())
	assert.Empty(t, cfg.Default.Keybindings)
	assert.NotContains(t, cfg.Default.Snippets, "broken.json")
	assert.Equal(t, "{}", cfg.Default.Snippets["empty.json"].String())
}

func TestReadLocalConfig_Profiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "User", "globalStorage", "storage.json"), `{
		"theme": "dark",
		"userDataProfiles": [
			{"location": "abc", "name": "Work", "icon": "briefcase", "useDefaultFlags": {"keybindings": true}},
			{"location": "abc", "name": "Duplicate"},
			{"name": "No location"},
			{"location": "def", "name": "Play"}
		]
	}`)
	writeFile(t, filepath.Join(dir, "User", "profiles", "abc", "settings.json"), `{"x": 1}`)
	writeFile(t, filepath.Join(dir, "User", "profiles", "abc", "extensions.json"), `["a.b"]`)

	cfg, err := New(filepath.Join(dir, "User")).ReadLocalConfig(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cfg.Profiles)

	entries := cfg.Profiles.Metadata.Profiles
	require.Len(t, entries, 2)
	assert.Equal(t, "Work", entries[0].Name)
	assert.Equal(t, "briefcase", entries[0].Icon)
	assert.True(t, entries[0].UseDefaultFlags.Get("keybindings").Bool())
	assert.Equal(t, "Play", entries[1].Name)

	require.Len(t, cfg.Profiles.Custom, 2)
	work := cfg.Profiles.Custom[0]
	assert.Equal(t, "abc", work.Location)
	assert.Equal(t, int64(1), work.Settings.Get("x").Int())
	assert.Equal(t, []string{"a.b"}, work.Extensions)

	play := cfg.Profiles.Custom[1]
	assert.Equal(t, "def", play.Location)
	assert.Equal(t, "{}", play.Settings.String())
	assert.Empty(t, play.Keybindings)
	assert.Empty(t, play.Snippets)
	assert.Empty(t, play.Extensions)
}

func TestReadProfileMetadata_NoProfiles(t *testing.T) {
	tests := []struct {
		name    string
		storage string
	}{
		{name: "missing file"},
		{name: "no registry key", storage: `{"theme": "dark"}`},
		{name: "empty registry", storage: `{"userDataProfiles": []}`},
		{name: "registry not an array", storage: `{"userDataProfiles": {}}`},
		{name: "invalid json", storage: `{"userDataProfiles": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.storage != "" {
				writeFile(t, filepath.Join(dir, "globalStorage", "storage.json"), tt.storage)
			}
			assert.Nil(t, New(dir).ReadProfileMetadata())
		})
	}
}

type stubLister struct {
	ids []string
	err error
}

func (s stubLister) InstalledExtensions(context.Context) ([]string, error) { return s.ids, s.err }

func TestReadLocalConfig_ExtensionLister(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "extensions.json"), `["ignored.when-lister-set"]`)

	cfg, err := New(dir, WithExtensionLister(stubLister{ids: []string{"x.y"}})).ReadLocalConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x.y"}, cfg.Default.Extensions)

	cfg, err = New(dir, WithExtensionLister(stubLister{err: os.ErrPermission})).ReadLocalConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{}, cfg.Default.Extensions)
}

func TestReadLocalConfig_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(t.TempDir()).ReadLocalConfig(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseExtensionIDs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "strings", input: `["a.b", "c.d"]`, want: []string{"a.b", "c.d"}},
		{name: "records", input: `[{"identifier": {"id": "a.b"}, "version": "1.0.0"}]`, want: []string{"a.b"}},
		{name: "mixed and junk", input: `["a.b", null, {"identifier": {}}, {"identifier": {"id": 3}}, {"id": "x"}]`, want: []string{"a.b"}},
		{name: "not an array", input: `{"a": 1}`, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := jsondoc.Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ParseExtensionIDs(doc))
		})
	}
}

func TestManifestExtensionLister(t *testing.T) {
	t.Run("manifest skips builtins and duplicates", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "extensions.json"), `[
			{"identifier": {"id": "ms-python.python"}},
			{"identifier": {"id": "vscode.git"}, "metadata": {"isBuiltin": true}},
			{"identifier": {"id": "MS-Python.Python"}}
		]`)

		ids, err := ManifestExtensionLister{Dir: dir}.InstalledExtensions(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"ms-python.python"}, ids)
	})

	t.Run("folder scan", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"golang.go-0.41.2", "esbenp.prettier-vscode-10.1.0", ".obsolete-dir", "nodots"} {
			require.NoError(t, os.MkdirAll(filepath.Join(dir, name), 0755))
		}

		ids, err := ManifestExtensionLister{Dir: dir}.InstalledExtensions(context.Background())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"golang.go", "esbenp.prettier-vscode"}, ids)
	})

	t.Run("missing directory", func(t *testing.T) {
		ids, err := ManifestExtensionLister{Dir: filepath.Join(t.TempDir(), "nope")}.InstalledExtensions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
