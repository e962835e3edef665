package spanned

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMalformedResponse indicates a decoder answered a span request with a
	// response that echoes the sentinel fields but is incomplete or
	// inconsistent. It points at a decoder bug, not at bad input.
	ErrMalformedResponse = errors.New("malformed span response")

	// ErrInvalidType indicates the data shape does not match the target type.
	ErrInvalidType = errors.New("invalid type")

	// ErrInvalidTarget indicates DecodeValue was given a nil or non-pointer target.
	ErrInvalidTarget = errors.New("invalid decode target")

	// ErrSyntax indicates the source is not well-formed for its format.
	ErrSyntax = errors.New("syntax error")

	// ErrParse indicates a format failed to parse its input.
	ErrParse = errors.New("parse failed")

	// ErrUnmarshal indicates decoding the parsed input into the target failed.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates a format failed to encode a value.
	ErrMarshal = errors.New("marshal failed")
)

// ResponseError reports a malformed span response.
type ResponseError struct {
	Field string // Sentinel field at fault
	Cause error  // Decode failure of that field, if any
}

func (e *ResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: field %s: %v", ErrMalformedResponse.Error(), e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: field %s", ErrMalformedResponse.Error(), e.Field)
}

func (e *ResponseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrMalformedResponse}
	}
	return []error{ErrMalformedResponse, e.Cause}
}

// TypeError reports a shape mismatch between data and target.
type TypeError struct {
	Got      string // Shape found in the data
	Expected string // What the target needed
}

func (e *TypeError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: unexpected %s", ErrInvalidType.Error(), e.Got)
	}
	return fmt.Sprintf("%s: got %s, expected %s", ErrInvalidType.Error(), e.Got, e.Expected)
}

func (e *TypeError) Unwrap() error {
	return ErrInvalidType
}

// SyntaxError reports malformed source at a byte offset.
type SyntaxError struct {
	Offset Position // Byte offset of the problem
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrSyntax.Error(), e.Offset, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// CodecError represents a failure at the format boundary.
// Both the sentinel and the cause are reachable with errors.Is and errors.As.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrParse, ErrUnmarshal, ErrMarshal)
	Cause error // Original error
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// newResponseError creates a ResponseError for the given sentinel field.
func newResponseError(field string, cause error) error {
	return &ResponseError{
		Field: field,
		Cause: cause,
	}
}

// newTypeError creates a TypeError.
func newTypeError(got, expected string) error {
	return &TypeError{
		Got:      got,
		Expected: expected,
	}
}

// newCodecError creates a CodecError for format boundary failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

// NewTypeError creates a TypeError. Formats use it when a value cannot be
// represented by any visitor method.
func NewTypeError(got, expected string) error {
	return newTypeError(got, expected)
}

// NewSyntaxError creates a SyntaxError. Formats use it to report parse failures.
func NewSyntaxError(offset Position, format string, args ...any) error {
	return &SyntaxError{
		Offset: offset,
		Msg:    fmt.Sprintf(format, args...),
	}
}
