package core

import (
	"encoding/json"
	"errors"
)

// Document is a parsed npm document: either a plain package manifest or a
// full registry document. Top-level values stay undecoded until a field is
// read, so documents with unexpected shapes in fields we never touch still
// load, and the byte order of nested objects is preserved for ordered
// derivations.
type Document map[string]json.RawMessage

// ParseDocument parses raw JSON into a Document. The only validation beyond
// syntax is that the top level must be an object; neither document shape is
// an array or a scalar. No field-level schema is enforced here.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Err: err}
	}
	if doc == nil {
		return nil, &FormatError{Err: errors.New("top-level value is not an object")}
	}
	return doc, nil
}

// The accessors below decode a single key on demand and degrade to the zero
// value when the key is absent, null, or of a different shape. Malformed
// optional fields read as missing rather than failing the whole document.

func (d Document) str(key string) string {
	var s string
	if raw, ok := d[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func (d Document) boolean(key string) bool {
	var b bool
	if raw, ok := d[key]; ok {
		_ = json.Unmarshal(raw, &b)
	}
	return b
}

func (d Document) object(key string) Document {
	var obj Document
	if raw, ok := d[key]; ok {
		_ = json.Unmarshal(raw, &obj)
	}
	return obj
}

func (d Document) stringMap(key string) map[string]string {
	var m map[string]string
	if raw, ok := d[key]; ok {
		_ = json.Unmarshal(raw, &m)
	}
	return m
}

func (d Document) anyMap(key string) map[string]any {
	var m map[string]any
	if raw, ok := d[key]; ok {
		_ = json.Unmarshal(raw, &m)
	}
	return m
}

func (d Document) value(key string) any {
	var v any
	if raw, ok := d[key]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}
