package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"sigs.k8s.io/yaml"

	"edsync/pkg/jsondoc"
)

// OutputFormat selects how commands print data.
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates an --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputFormatTable:
		return OutputFormatTable, nil
	case OutputFormatJSON, OutputFormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// WriteStructured prints v as JSON or YAML. YAML follows the JSON field names.
func WriteStructured(w io.Writer, format OutputFormat, v interface{}) error {
	data, err := jsondoc.MarshalIndent(v, "  ")
	if err != nil {
		return err
	}
	if format == OutputFormatYAML {
		data, err = yaml.JSONToYAML(data)
		if err != nil {
			return fmt.Errorf("failed to convert output to YAML: %w", err)
		}
	}
	_, err = w.Write(data)
	return err
}

// NewTable creates a table with the standard edsync style writing to w.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// Header builds a header row with the standard header color.
func Header(names ...string) table.Row {
	row := make(table.Row, len(names))
	for i, n := range names {
		row[i] = text.FgHiCyan.Sprint(strings.ToUpper(n))
	}
	return row
}

// EmptyMessage prints a highlighted "nothing here" line.
func EmptyMessage(w io.Writer, msg string) {
	fmt.Fprintln(w, text.FgYellow.Sprint(msg))
}

// Stderr is where progress and notices go so stdout stays scriptable.
var Stderr io.Writer = os.Stderr
