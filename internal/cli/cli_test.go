package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{in: "", want: OutputFormatTable},
		{in: "table", want: OutputFormatTable},
		{in: "JSON", want: OutputFormatJSON},
		{in: " yaml ", want: OutputFormatYAML},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type sample struct {
	Name     string   `json:"name"`
	Profiles []string `json:"profiles"`
}

func TestWriteStructured(t *testing.T) {
	v := sample{Name: "Cursor", Profiles: []string{"Work"}}

	var buf bytes.Buffer
	require.NoError(t, WriteStructured(&buf, OutputFormatJSON, v))
	assert.Equal(t, "{\n  \"name\": \"Cursor\",\n  \"profiles\": [\"Work\"]\n}\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteStructured(&buf, OutputFormatYAML, v))
	assert.Equal(t, "name: Cursor\nprofiles:\n- Work\n", buf.String())
}

func TestNotifier(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	var buf bytes.Buffer
	n := Notifier{Out: &buf}
	n.Info("pushed")
	n.Warn("one failed")
	assert.Equal(t, "✓ pushed\n⚠ one failed\n", buf.String())

	buf.Reset()
	quiet := Notifier{Out: &buf, Quiet: true}
	quiet.Info("pushed")
	quiet.Warn("one failed")
	assert.Equal(t, "⚠ one failed\n", buf.String())
}

func TestRunWithSpinner(t *testing.T) {
	var buf bytes.Buffer
	called := false
	err := RunWithSpinner(&buf, true, "Pushing", func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, buf.String(), "quiet mode prints nothing")

	boom := errors.New("boom")
	assert.ErrorIs(t, RunWithSpinner(&buf, true, "Pushing", func() error { return boom }), boom)
}

func TestParseYesNo(t *testing.T) {
	assert.True(t, ParseYesNo("y", false))
	assert.True(t, ParseYesNo("YES", false))
	assert.False(t, ParseYesNo("n", true))
	assert.True(t, ParseYesNo("", true))
	assert.False(t, ParseYesNo("maybe", false))
}

func TestTable(t *testing.T) {
	text.DisableColors()
	defer text.EnableColors()

	var buf bytes.Buffer
	tbl := NewTable(&buf)
	tbl.AppendHeader(Header("id", "type"))
	tbl.AppendRow([]interface{}{"abc", "gist"})
	tbl.Render()

	out := buf.String()
	assert.True(t, strings.Contains(out, "ID"))
	assert.True(t, strings.Contains(out, "gist"))
}
