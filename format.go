package spanned

import (
	"context"
	"fmt"
	"time"
)

// Format parses one encoding into Deserializers and encodes values back.
type Format interface {
	// ContentType returns the MIME type for this format (e.g., "application/json").
	ContentType() string

	// Deserializer parses data and returns a Deserializer for its top-level value.
	Deserializer(data []byte) (Deserializer, error)

	// Marshal encodes v. Spanned values encode as their wrapped value.
	Marshal(v any) ([]byte, error)
}

// Unmarshal parses data with f and decodes it into v, which must be a non-nil pointer.
func Unmarshal(ctx context.Context, f Format, data []byte, v any) error {
	return unmarshal(ctx, f, data, v, fmt.Sprintf("%T", v))
}

// UnmarshalAs parses data with f and decodes a T.
func UnmarshalAs[T any](ctx context.Context, f Format, data []byte) (T, error) {
	scanType[T]()
	var out T
	if err := unmarshal(ctx, f, data, &out, typeName[T]()); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func unmarshal(ctx context.Context, f Format, data []byte, v any, name string) (retErr error) {
	start := time.Now()
	emitDecodeStart(ctx, f.ContentType(), name, len(data))
	defer func() {
		emitDecodeComplete(ctx, f.ContentType(), name, time.Since(start), retErr)
	}()

	d, err := f.Deserializer(data)
	if err != nil {
		return newCodecError(ErrParse, err)
	}
	if err := DecodeValue(d, v); err != nil {
		return newCodecError(ErrUnmarshal, err)
	}
	return nil
}

// Marshal encodes v with f.
func Marshal(ctx context.Context, f Format, v any) ([]byte, error) {
	start := time.Now()
	data, err := f.Marshal(v)
	if err != nil {
		err = newCodecError(ErrMarshal, err)
		emitMarshal(ctx, f.ContentType(), fmt.Sprintf("%T", v), 0, time.Since(start), err)
		return nil, err
	}
	emitMarshal(ctx, f.ContentType(), fmt.Sprintf("%T", v), len(data), time.Since(start), nil)
	return data, nil
}
