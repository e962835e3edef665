package spanned

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Spanned values encode as the wrapped value alone. Spans describe where a
// value was read from and are never written back.

// MarshalJSON implements json.Marshaler.
func (s Spanned[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

// MarshalYAML implements yaml.Marshaler.
func (s Spanned[T]) MarshalYAML() (any, error) {
	return s.value, nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (s Spanned[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(s.value)
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (s Spanned[T]) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(s.value)
}

var errTOMLInline = errors.New("spanned: TOML value has no inline form")

// MarshalTOML implements toml.Marshaler. The encoder writes the result as an
// inline value, so tables and arrays of tables cannot be encoded.
func (s Spanned[T]) MarshalTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any{"v": s.value}); err != nil {
		return nil, err
	}
	out, ok := bytes.CutPrefix(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("v = "))
	if !ok || bytes.IndexByte(out, '\n') >= 0 {
		return nil, errTOMLInline
	}
	return out, nil
}
