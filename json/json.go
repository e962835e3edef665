// Package json provides a span-aware JSON format.
//
// Values requested as spanned.Spanned[T] receive the byte offsets of the
// value in the input: start is the first byte of the value, end is one past
// its last byte.
package json

import (
	"context"
	"encoding/json"

	"github.com/zoobzio/spanned"
)

// jsonFormat implements spanned.Format for JSON.
type jsonFormat struct{}

// New returns a JSON format.
func New() spanned.Format {
	return &jsonFormat{}
}

// ContentType returns the MIME type for JSON.
func (f *jsonFormat) ContentType() string {
	return "application/json"
}

// Deserializer parses data and returns a Deserializer for its top-level value.
func (f *jsonFormat) Deserializer(data []byte) (spanned.Deserializer, error) {
	root, err := parse(data)
	if err != nil {
		return nil, err
	}
	return &deserializer{n: root}, nil
}

// Marshal encodes v as JSON.
func (f *jsonFormat) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes JSON data into v.
func Unmarshal(data []byte, v any) error {
	return spanned.Unmarshal(context.Background(), New(), data, v)
}
