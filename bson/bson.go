// Package bson provides a BSON format on go.mongodb.org/mongo-driver/bson.
//
// Documents are decoded into ordered bson.D trees and walked in field order.
// BSON carries no source text, so Spanned values decoded from it always
// carry Unknown spans.
package bson

import (
	"context"

	"github.com/zoobzio/spanned"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bsonFormat implements spanned.Format for BSON.
type bsonFormat struct{}

// New returns a BSON format.
func New() spanned.Format {
	return &bsonFormat{}
}

// ContentType returns the MIME type for BSON.
func (f *bsonFormat) ContentType() string {
	return "application/bson"
}

// Deserializer decodes data as a document and walks it.
func (f *bsonFormat) Deserializer(data []byte) (spanned.Deserializer, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return spanned.ValueDeserializer(convert(doc)), nil
}

// Marshal encodes v as BSON.
func (f *bsonFormat) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v.
func Unmarshal(data []byte, v any) error {
	return spanned.Unmarshal(context.Background(), New(), data, v)
}

// convert maps BSON primitives onto the shapes ValueDeserializer understands.
func convert(v any) any {
	switch x := v.(type) {
	case primitive.D:
		entries := make([]spanned.Entry, len(x))
		for i, e := range x {
			entries[i] = spanned.Entry{Key: e.Key, Value: convert(e.Value)}
		}
		return entries
	case primitive.M:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = convert(val)
		}
		return out
	case primitive.A:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = convert(val)
		}
		return out
	case primitive.Binary:
		return x.Data
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Decimal128:
		return x.String()
	case primitive.Timestamp:
		return uint64(x.T)<<32 | uint64(x.I)
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}
