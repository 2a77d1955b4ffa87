package editorconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"edsync/pkg/jsondoc"
)

// PayloadIndent is the indentation of the serialized sync payload.
const PayloadIndent = "  "

// Marshal serializes a snapshot as the pretty-printed JSON document stored
// by every backend.
func Marshal(cfg *EditorConfig) ([]byte, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cannot marshal nil config")
	}
	return jsondoc.MarshalIndent(cfg, PayloadIndent)
}

// Unmarshal parses a stored payload. It returns (nil, nil) when the payload
// holds no snapshot: an empty body, or a JSON object without a "default"
// profile (a freshly created backend resource).
func Unmarshal(data []byte) (*EditorConfig, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("stored config is not valid JSON")
	}
	if !gjson.GetBytes(data, "default").IsObject() {
		return nil, nil
	}

	var cfg EditorConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode stored config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// normalize fills absent profile fields so consumers never see nil.
func (c *EditorConfig) normalize() {
	if c.Profiles != nil {
		for i := range c.Profiles.Custom {
			p := &c.Profiles.Custom[i]
			if len(p.Settings) == 0 || p.Settings.Kind() == jsondoc.KindNull {
				p.Settings = jsondoc.EmptyObject()
			}
			if p.Keybindings == nil {
				p.Keybindings = []jsondoc.Document{}
			}
			if p.Snippets == nil {
				p.Snippets = map[string]jsondoc.Document{}
			}
			if p.Extensions == nil {
				p.Extensions = []string{}
			}
		}
	}
	if len(c.Default.Settings) == 0 || c.Default.Settings.Kind() == jsondoc.KindNull {
		c.Default.Settings = jsondoc.EmptyObject()
	}
	if c.Default.Keybindings == nil {
		c.Default.Keybindings = []jsondoc.Document{}
	}
	if c.Default.Snippets == nil {
		c.Default.Snippets = map[string]jsondoc.Document{}
	}
	if c.Default.Extensions == nil {
		c.Default.Extensions = []string{}
	}
}
