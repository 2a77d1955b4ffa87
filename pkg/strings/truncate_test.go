package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOneLine(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{name: "short unchanged", input: "installed", maxLen: 10, want: "installed"},
		{name: "exact length", input: "hello", maxLen: 5, want: "hello"},
		{name: "cut", input: "Failed Installing Extensions: ms-python.python", maxLen: 20, want: "Failed Installing..."},
		{name: "cli output collapsed", input: "Installing...\n\n  error:\tnot found\n", maxLen: 72, want: "Installing... error: not found"},
		{name: "runes not bytes", input: "Überprüfung fehlgeschlagen", maxLen: 8, want: "Überp..."},
		{name: "tiny max clamped", input: "abcdef", maxLen: 1, want: "a..."},
		{name: "empty", input: "", maxLen: 10, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OneLine(tt.input, tt.maxLen))
		})
	}
}
