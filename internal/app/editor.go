package app

import (
	"strings"

	"edsync/internal/paths"
)

// Environment variables consulted during editor detection.
const (
	EnvTermProgram     = "TERM_PROGRAM"
	EnvIDXWorkspaceURL = "IDX_WORKSPACE_URL"
)

// Editor is the detected host editor.
type Editor struct {
	Kind paths.EditorKind
	// DisplayName is the name the editor was identified by. Unknown kinds
	// derive their data folder from it.
	DisplayName string
}

// DetectEditor picks the editor from the first non-empty candidate name,
// then the terminal environment, defaulting to Visual Studio Code.
func DetectEditor(getenv func(string) string, candidates ...string) Editor {
	for _, name := range candidates {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		kind := paths.ParseEditorKind(name)
		if kind == paths.Unknown && getenv(EnvIDXWorkspaceURL) != "" {
			kind = paths.IDX
		}
		return Editor{Kind: kind, DisplayName: name}
	}

	// VS Code and its forks all report TERM_PROGRAM=vscode in their
	// integrated terminals, so only the IDX signal can refine it.
	term := getenv(EnvTermProgram)
	if kind := paths.DetermineEditorKind(term, getenv(EnvIDXWorkspaceURL)); kind != paths.Unknown {
		return Editor{Kind: kind, DisplayName: term}
	}
	return Editor{Kind: paths.VSCode, DisplayName: "Visual Studio Code"}
}
