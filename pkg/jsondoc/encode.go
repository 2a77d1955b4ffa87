package jsondoc

import (
	"bytes"
	"encoding/json"

	"github.com/tidwall/pretty"
)

// Marshal encodes v without HTML escaping, so settings values containing
// <, > or & are written back exactly as the editor stored them.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent encodes v and pretty prints it with a stable layout: keys keep
// their order, short arrays stay on one line, output ends with a newline.
func MarshalIndent(v interface{}, indent string) ([]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: indent}), nil
}
