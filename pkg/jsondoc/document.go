package jsondoc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
)

// ErrEmpty is returned by Decode when the input holds no JSON value at all
// (an empty file, or one that only contains comments).
var ErrEmpty = errors.New("empty document")

// SyntaxError reports input that is not valid JSON even after comments and
// trailing commas have been removed.
type SyntaxError struct {
	Snippet string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid JSON near %q", e.Snippet)
}

// Kind is the JSON type of a Document.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Document is an opaque JSON value. It is kept as compact encoded bytes so the
// key order of objects and the element order of arrays survive every round
// trip through edsync untouched.
//
// A nil Document marshals as null and is dropped by omitempty.
type Document []byte

// EmptyObject returns the document {}.
func EmptyObject() Document { return Document("{}") }

// EmptyArray returns the document [].
func EmptyArray() Document { return Document("[]") }

// Decode parses JSON-with-comments: line and block comments and trailing
// commas are accepted, as editors allow them in settings files.
func Decode(data []byte) (Document, error) {
	plain := jsonc.ToJSON(data)
	plain = bytes.TrimSpace(plain)
	if len(plain) == 0 {
		return nil, ErrEmpty
	}
	if !gjson.ValidBytes(plain) {
		return nil, &SyntaxError{Snippet: snippet(plain)}
	}
	return Document(pretty.Ugly(plain)), nil
}

// FromValue encodes v into a Document.
func FromValue(v interface{}) (Document, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return Document(pretty.Ugly(data)), nil
}

// MustFromValue is FromValue for values known to encode.
func MustFromValue(v interface{}) Document {
	d, err := FromValue(v)
	if err != nil {
		panic(err)
	}
	return d
}

// Kind reports the JSON type of the document.
func (d Document) Kind() Kind {
	if len(d) == 0 {
		return KindInvalid
	}
	r := gjson.ParseBytes(d)
	switch {
	case r.IsObject():
		return KindObject
	case r.IsArray():
		return KindArray
	}
	switch r.Type {
	case gjson.Null:
		return KindNull
	case gjson.True, gjson.False:
		return KindBool
	case gjson.Number:
		return KindNumber
	case gjson.String:
		return KindString
	default:
		return KindInvalid
	}
}

// IsObject reports whether the document is a JSON object.
func (d Document) IsObject() bool { return d.Kind() == KindObject }

// IsArray reports whether the document is a JSON array.
func (d Document) IsArray() bool { return d.Kind() == KindArray }

// Get evaluates a gjson path against the document.
func (d Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d, path)
}

// Elements splits an array document into its elements, in order.
// Non-array documents yield nil.
func (d Document) Elements() []Document {
	if !d.IsArray() {
		return nil
	}
	var out []Document
	gjson.ParseBytes(d).ForEach(func(_, value gjson.Result) bool {
		out = append(out, Document(value.Raw))
		return true
	})
	return out
}

// Equal compares two documents ignoring insignificant whitespace.
func (d Document) Equal(other Document) bool {
	return bytes.Equal(pretty.Ugly(d), pretty.Ugly(other))
}

// Pretty renders the document with the given indent.
func (d Document) Pretty(indent string) []byte {
	if len(d) == 0 {
		return []byte("null\n")
	}
	return pretty.PrettyOptions(d, &pretty.Options{Width: 80, Indent: indent})
}

// String returns the compact encoding.
func (d Document) String() string {
	if len(d) == 0 {
		return "null"
	}
	return string(d)
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	if d == nil {
		return errors.New("jsondoc: UnmarshalJSON on nil pointer")
	}
	*d = append(Document(nil), data...)
	return nil
}

func snippet(b []byte) string {
	const max = 40
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
