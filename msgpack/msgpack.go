// Package msgpack provides a MessagePack format on github.com/vmihailenco/msgpack/v5.
//
// MessagePack input is decoded into a generic value tree before it reaches
// the target, so no source positions are available: Spanned values decoded
// from MessagePack always carry Unknown spans.
package msgpack

import (
	"context"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/spanned"
)

// msgpackFormat implements spanned.Format for MessagePack.
type msgpackFormat struct{}

// New returns a MessagePack format.
func New() spanned.Format {
	return &msgpackFormat{}
}

// ContentType returns the MIME type for MessagePack.
func (f *msgpackFormat) ContentType() string {
	return "application/msgpack"
}

// Deserializer decodes data into a generic tree and walks it.
func (f *msgpackFormat) Deserializer(data []byte) (spanned.Deserializer, error) {
	var v any
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return spanned.ValueDeserializer(v), nil
}

// Marshal encodes v as MessagePack.
func (f *msgpackFormat) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes MessagePack data into v.
func Unmarshal(data []byte, v any) error {
	return spanned.Unmarshal(context.Background(), New(), data, v)
}
