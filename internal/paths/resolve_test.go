package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const home = "/Users/testuser"

func TestDetermineEditorKind(t *testing.T) {
	tests := []struct {
		name   string
		signal string
		want   EditorKind
	}{
		{"Cursor", "", Cursor},
		{"Windsurf", "", Windsurf},
		{"VSCodium", "", VSCodium},
		{"Antigravity", "", Antigravity},
		{"Visual Studio Code", "", VSCode},
		{"Visual Studio Code - Insiders", "", VSCode},
		{"Project IDX", "", IDX},
		{"Code - OSS", "https://idx.google.com/ws-123", IDX},
		{"Visual Studio Code", "https://idx.google.com/ws-123", IDX},
		{"RandomApp", "", Unknown},
		{"", "", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.signal, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineEditorKind(tt.name, tt.signal))
		})
	}
}

func TestParseEditorKind(t *testing.T) {
	assert.Equal(t, VSCode, ParseEditorKind("vscode"))
	assert.Equal(t, VSCode, ParseEditorKind("code"))
	assert.Equal(t, Cursor, ParseEditorKind("CURSOR"))
	assert.Equal(t, VSCodium, ParseEditorKind("codium"))
	assert.Equal(t, VSCode, ParseEditorKind("Visual Studio Code"))
	assert.Equal(t, Unknown, ParseEditorKind("Zed"))
}

func TestResolveUserDataDir_Darwin(t *testing.T) {
	tests := []struct {
		kind        EditorKind
		displayName string
		want        string
	}{
		{VSCode, "Visual Studio Code", filepath.Join(home, "Library/Application Support/Code/User")},
		{Antigravity, "Antigravity", filepath.Join(home, "Library/Application Support/Antigravity/User")},
		{Windsurf, "Windsurf", filepath.Join(home, "Library/Application Support/Windsurf/User")},
		{Unknown, "My Cool Editor", filepath.Join(home, "Library/Application Support/MyCoolEditor/User")},
		{IDX, "IDX", filepath.Join(home, ".config/idx/User")},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := ResolveUserDataDir(Request{Kind: tt.kind, DisplayName: tt.displayName, Platform: "darwin", HomeDir: home})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUserDataDir_Windows(t *testing.T) {
	got, err := ResolveUserDataDir(Request{Kind: Cursor, Platform: "windows", HomeDir: home, Env: Env{"APPDATA": "/appdata"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/appdata", "Cursor", "User"), got)

	got, err = ResolveUserDataDir(Request{Kind: VSCodium, Platform: "win32", HomeDir: home})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "AppData", "Roaming", "VSCodium", "User"), got)
}

func TestResolveUserDataDir_Linux(t *testing.T) {
	got, err := ResolveUserDataDir(Request{Kind: VSCode, Platform: "linux", HomeDir: home})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "Code", "User"), got)

	got, err = ResolveUserDataDir(Request{Kind: VSCode, Platform: "linux", HomeDir: home, Env: Env{"XDG_CONFIG_HOME": "/xdg"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "Code", "User"), got)

	got, err = ResolveUserDataDir(Request{Kind: IDX, Platform: "linux", HomeDir: home, Env: Env{"IDX_USER_DATA_DIR": "/idx/User"}})
	require.NoError(t, err)
	assert.Equal(t, "/idx/User", got)
}

func TestResolveUserDataDir_Errors(t *testing.T) {
	_, err := ResolveUserDataDir(Request{Kind: Unknown, DisplayName: "  ", Platform: "linux", HomeDir: home})
	assert.True(t, errors.Is(err, ErrUnsupportedEditor))

	_, err = ResolveUserDataDir(Request{Kind: VSCode, Platform: "plan9", HomeDir: home})
	assert.True(t, errors.Is(err, ErrUnsupportedPlatform))
}

func TestResolveUserDataDir_OverrideWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		override := rapid.StringMatching(`/[a-z]{1,8}(/[a-z]{1,8}){0,3}`).Draw(t, "override")
		kind := rapid.SampledFrom(append(KnownKinds, Unknown)).Draw(t, "kind")
		platform := rapid.SampledFrom([]string{"darwin", "linux", "windows", "plan9"}).Draw(t, "platform")

		got, err := ResolveUserDataDir(Request{Kind: kind, Platform: platform, HomeDir: home, Override: override})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != override {
			t.Fatalf("got %q, want override %q", got, override)
		}
	})
}

func TestResolveUserDataDir_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := Request{
			Kind:        rapid.SampledFrom(KnownKinds).Draw(t, "kind"),
			DisplayName: rapid.StringMatching(`[A-Za-z ]{0,12}`).Draw(t, "name"),
			Platform:    rapid.SampledFrom([]string{"darwin", "linux", "windows"}).Draw(t, "platform"),
			HomeDir:     home,
			Env:         Env{"XDG_CONFIG_HOME": rapid.SampledFrom([]string{"", "/xdg"}).Draw(t, "xdg")},
		}
		first, err1 := ResolveUserDataDir(req)
		second, err2 := ResolveUserDataDir(req)
		if first != second || (err1 == nil) != (err2 == nil) {
			t.Fatalf("non-deterministic result: %q/%v vs %q/%v", first, err1, second, err2)
		}
	})
}

func TestResolveExtensionsDir(t *testing.T) {
	assert.Equal(t, filepath.Join(home, ".vscode", "extensions"), ResolveExtensionsDir(VSCode, home, nil))
	assert.Equal(t, filepath.Join(home, ".vscode-oss", "extensions"), ResolveExtensionsDir(VSCodium, home, nil))
	assert.Equal(t, "/ext", ResolveExtensionsDir(VSCode, home, Env{"VSCODE_EXTENSIONS": "/ext"}))
	assert.Equal(t, "", ResolveExtensionsDir(Unknown, home, nil))
}

func TestLayout(t *testing.T) {
	l := Layout{UserDataDir: "/u"}
	assert.Equal(t, filepath.Join("/u", "globalStorage", "storage.json"), l.Registry())
	assert.Equal(t, filepath.Join("/u", "profiles", "abc", "settings.json"), l.Profile("abc").Settings())
}

func TestEnvFrom(t *testing.T) {
	vars := map[string]string{"APPDATA": `C:\Users\me\AppData\Roaming`, "HOME": "/home/me", "XDG_CONFIG_HOME": ""}
	env := EnvFrom(func(k string) string { return vars[k] })
	assert.Equal(t, Env{"APPDATA": `C:\Users\me\AppData\Roaming`}, env)
}
