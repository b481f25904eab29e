// Package jsondoc reads and writes JSON-with-comments documents while
// preserving the order of object keys.
//
// Comments and trailing commas are tolerated on input (stripped via
// tidwall/jsonc) but are not preserved across an encode; callers that must
// not lose comments should avoid rewriting unchanged documents.
package jsondoc

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/iancoleman/orderedmap"
	"github.com/tidwall/jsonc"
)

// Document is a key-ordered JSON object.
type Document struct {
	m *orderedmap.OrderedMap
}

// New returns an empty document.
func New() *Document {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return &Document{m: m}
}

// Parse decodes a JSONC object into a Document. Empty or whitespace-only
// input yields an empty document; any other input must be a JSON object.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}

	d := New()
	if err := json.Unmarshal(jsonc.ToJSON(data), d.m); err != nil {
		return nil, errors.Wrap(err, "parsing JSONC document")
	}
	return d, nil
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	return d.m.Get(key)
}

// Set stores value under key. Existing keys keep their position; new keys
// are appended after all current keys.
func (d *Document) Set(key string, value any) {
	d.m.Set(key, value)
}

// Delete removes key and reports whether it was present.
func (d *Document) Delete(key string) bool {
	_, ok := d.m.Get(key)
	if ok {
		d.m.Delete(key)
	}
	return ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.m.Get(key)
	return ok
}

// Keys returns the document's keys in order.
func (d *Document) Keys() []string {
	return d.m.Keys()
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	return len(d.m.Keys())
}

// StringList returns the value under key as a string slice. It reports
// false when the key is missing, the value is not a list, or any element
// is not a string.
func (d *Document) StringList(key string) ([]string, bool) {
	raw, ok := d.m.Get(key)
	if !ok {
		return nil, false
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Encode renders the document as two-space indented JSON with a trailing
// newline. Key order follows insertion order. HTML escaping is disabled, so
// characters like & and < in command strings come back out verbatim.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.m); err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return buf.Bytes(), nil
}
