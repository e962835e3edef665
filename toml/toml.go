// Package toml provides a TOML format on github.com/BurntSushi/toml.
//
// Documents are decoded into a generic tree and walked in the order their
// keys appear in the source. The decoder reports no value offsets, so
// Spanned values decoded from TOML always carry Unknown spans.
package toml

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zoobzio/spanned"
)

// tomlFormat implements spanned.Format for TOML.
type tomlFormat struct{}

// New returns a TOML format.
func New() spanned.Format {
	return &tomlFormat{}
}

// ContentType returns the MIME type for TOML.
func (f *tomlFormat) ContentType() string {
	return "application/toml"
}

// Deserializer decodes data into a generic tree and walks it.
func (f *tomlFormat) Deserializer(data []byte) (spanned.Deserializer, error) {
	var tree map[string]any
	md, err := toml.Decode(string(data), &tree)
	if err != nil {
		var pe toml.ParseError
		if errors.As(err, &pe) {
			return nil, spanned.NewSyntaxError(spanned.Position(pe.Position.Start), "%s", pe.Message)
		}
		return nil, err
	}
	return spanned.ValueDeserializer(ordered(tree, nil, keyOrder(md))), nil
}

// Marshal encodes v as TOML.
func (f *tomlFormat) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes TOML data into v.
func Unmarshal(data []byte, v any) error {
	return spanned.Unmarshal(context.Background(), New(), data, v)
}

// keyOrder indexes every dotted key path by its first appearance.
func keyOrder(md toml.MetaData) map[string]int {
	keys := md.Keys()
	order := make(map[string]int, len(keys))
	for i, k := range keys {
		path := strings.Join(k, "\x00")
		if _, ok := order[path]; !ok {
			order[path] = i
		}
	}
	return order
}

// ordered rewrites tables as []spanned.Entry in source order. Keys the
// metadata does not list sort after the others by name.
func ordered(v any, path []string, order map[string]int) any {
	switch x := v.(type) {
	case map[string]any:
		entries := make([]spanned.Entry, 0, len(x))
		rank := make(map[string]int, len(x))
		for k, val := range x {
			child := append(path[:len(path):len(path)], k)
			idx, ok := order[strings.Join(child, "\x00")]
			if !ok {
				idx = len(order)
			}
			rank[k] = idx
			entries = append(entries, spanned.Entry{Key: k, Value: ordered(val, child, order)})
		}
		sort.Slice(entries, func(i, j int) bool {
			ri, rj := rank[entries[i].Key], rank[entries[j].Key]
			if ri != rj {
				return ri < rj
			}
			return entries[i].Key < entries[j].Key
		})
		return entries
	case []map[string]any:
		out := make([]any, len(x))
		for i, t := range x {
			out[i] = ordered(t, path, order)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = ordered(val, path, order)
		}
		return out
	}
	return v
}
