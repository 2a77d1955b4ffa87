package paths

import (
	"strings"
)

// EditorKind identifies a VS Code family editor.
type EditorKind string

const (
	VSCode      EditorKind = "VSCode"
	Cursor      EditorKind = "Cursor"
	IDX         EditorKind = "IDX"
	VSCodium    EditorKind = "VSCodium"
	Windsurf    EditorKind = "Windsurf"
	Antigravity EditorKind = "Antigravity"
	Unknown     EditorKind = "Unknown"
)

// KnownKinds lists every supported editor kind, Unknown excluded.
var KnownKinds = []EditorKind{VSCode, Cursor, IDX, VSCodium, Windsurf, Antigravity}

// nameMatchers is checked in order, before the VS Code match: forks and IDX
// builds often carry "Visual Studio Code" somewhere in their product name.
var nameMatchers = []struct {
	substr string
	kind   EditorKind
}{
	{"Cursor", Cursor},
	{"Windsurf", Windsurf},
	{"VSCodium", VSCodium},
	{"Antigravity", Antigravity},
	{"IDX", IDX},
}

// DetermineEditorKind maps an application display name to an EditorKind.
// auxiliarySignal is an environment indicator that only IDX workspaces set
// (the workspace URL); when non-empty and no earlier name matched, the
// editor is IDX.
func DetermineEditorKind(displayName, auxiliarySignal string) EditorKind {
	for _, m := range nameMatchers {
		if strings.Contains(displayName, m.substr) {
			return m.kind
		}
	}
	if auxiliarySignal != "" {
		return IDX
	}
	if strings.Contains(displayName, "Visual Studio Code") {
		return VSCode
	}
	return Unknown
}

// ParseEditorKind accepts either a kind name ("cursor", "vscode") or an
// application display name ("Visual Studio Code").
func ParseEditorKind(s string) EditorKind {
	trimmed := strings.TrimSpace(s)
	for _, k := range KnownKinds {
		if strings.EqualFold(trimmed, string(k)) {
			return k
		}
	}
	switch strings.ToLower(trimmed) {
	case "code", "vs code":
		return VSCode
	case "codium":
		return VSCodium
	}
	return DetermineEditorKind(trimmed, "")
}

// productFolder is the per-kind directory name under the OS application
// data root.
var productFolder = map[EditorKind]string{
	VSCode:      "Code",
	Cursor:      "Cursor",
	Antigravity: "Antigravity",
	Windsurf:    "Windsurf",
	VSCodium:    "VSCodium",
}

// extensionsFolder is the per-kind dot directory under $HOME that holds
// installed extensions.
var extensionsFolder = map[EditorKind]string{
	VSCode:      ".vscode",
	Cursor:      ".cursor",
	Antigravity: ".antigravity",
	Windsurf:    ".windsurf",
	VSCodium:    ".vscode-oss",
	IDX:         ".idx",
}

// cliCommand is the per-kind command line launcher.
var cliCommand = map[EditorKind]string{
	VSCode:      "code",
	Cursor:      "cursor",
	Antigravity: "antigravity",
	Windsurf:    "windsurf",
	VSCodium:    "codium",
	IDX:         "code",
}

// CLICommand returns the editor's command line launcher, or "" when unknown.
func CLICommand(kind EditorKind) string {
	return cliCommand[kind]
}
