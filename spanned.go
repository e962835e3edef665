package spanned

import (
	"errors"
	"fmt"
	"reflect"
)

// Position is a decoder-defined location in the source, normally a byte offset.
type Position int

// Unknown is the position reported when the decoder supplied no span.
const Unknown Position = -1

// Spanned wraps a decoded value with the source span it was decoded from.
// The zero value has no span information of its own; decoded values always
// carry either a real span or Unknown on both ends.
type Spanned[T any] struct {
	start Position
	end   Position
	value T
}

// New returns a Spanned holding value over [start, end).
func New[T any](value T, start, end Position) Spanned[T] {
	return Spanned[T]{start: start, end: end, value: value}
}

// Unspanned returns a Spanned holding value with an Unknown span.
func Unspanned[T any](value T) Spanned[T] {
	return Spanned[T]{start: Unknown, end: Unknown, value: value}
}

// Start returns the position of the first byte of the value.
func (s Spanned[T]) Start() Position { return s.start }

// End returns the position immediately after the value.
func (s Spanned[T]) End() Position { return s.end }

// Span returns start and end.
func (s Spanned[T]) Span() (Position, Position) { return s.start, s.end }

// Known reports whether the decoder supplied a span.
func (s Spanned[T]) Known() bool {
	return s.start != Unknown && s.end != Unknown
}

// Len returns the length of the span, or 0 when it is unknown.
func (s Spanned[T]) Len() int {
	if !s.Known() || s.end < s.start {
		return 0
	}
	return int(s.end - s.start)
}

// IsEmpty reports whether the span covers no bytes.
func (s Spanned[T]) IsEmpty() bool { return s.Len() == 0 }

// Value returns the wrapped value.
func (s Spanned[T]) Value() T { return s.value }

func (s Spanned[T]) String() string {
	if !s.Known() {
		return fmt.Sprintf("%v@?", s.value)
	}
	return fmt.Sprintf("%v@%d..%d", s.value, s.start, s.end)
}

// DecodeFrom asks d for the value together with its span.
//
// A single span request is issued. A decoder that recognizes it answers with
// start, end and value entries. Any other answer is the plain value and is
// decoded as T with an Unknown span.
func (s *Spanned[T]) DecodeFrom(d Deserializer) error {
	request, expect := Fields, Fields
	v := &spannedVisitor[T]{fields: expect[:]}
	if err := d.DecodeStruct(Name, request[:], v); err != nil {
		return err
	}
	*s = v.out
	return nil
}

var errDuplicateField = errors.New("duplicate entry")

var errForeignField = errors.New("entry outside the span vocabulary")

// spannedVisitor accepts either a span response or the plain value.
type spannedVisitor[T any] struct {
	fields []string
	out    Spanned[T]
}

func (sv *spannedVisitor[T]) plain(d Deserializer) error {
	var value T
	if err := DecodeValue(d, &value); err != nil {
		return err
	}
	sv.out = Unspanned(value)
	return nil
}

func (sv *spannedVisitor[T]) VisitNil() error { return sv.plain(replayNil()) }
func (sv *spannedVisitor[T]) VisitBool(b bool) error { return sv.plain(replayBool(b)) }
func (sv *spannedVisitor[T]) VisitInt(n int64) error { return sv.plain(replayInt(n)) }
func (sv *spannedVisitor[T]) VisitUint(n uint64) error { return sv.plain(replayUint(n)) }
func (sv *spannedVisitor[T]) VisitFloat(f float64) error { return sv.plain(replayFloat(f)) }
func (sv *spannedVisitor[T]) VisitString(s string) error { return sv.plain(replayString(s)) }
func (sv *spannedVisitor[T]) VisitBytes(b []byte) error { return sv.plain(replayBytes(b)) }
func (sv *spannedVisitor[T]) VisitSeq(seq SeqAccess) error {
	return sv.plain(replaySeq(seq))
}

// VisitMap inspects the first key. A requested field name means the decoder
// intercepted the request; anything else is plain map data for T.
func (sv *spannedVisitor[T]) VisitMap(m MapAccess) error {
	key, ok, err := m.NextKey()
	if err != nil {
		return err
	}
	if !ok {
		return sv.plain(replayMap(emptyMap{}))
	}
	if fieldIndex(sv.fields, key) < 0 {
		return sv.plain(replayMap(&prefixedMap{key: key, pending: true, rest: m}))
	}
	return sv.response(key, m)
}

func (sv *spannedVisitor[T]) response(key string, m MapAccess) error {
	var start, end Position
	var value T
	var seen [3]bool

	for {
		slot := fieldIndex(sv.fields, key)
		if slot < 0 {
			return newResponseError(key, errForeignField)
		}
		if seen[slot] {
			return newResponseError(key, errDuplicateField)
		}
		seen[slot] = true

		switch slot {
		case 0:
			if err := m.NextValue(func(d Deserializer) error { return DecodeValue(d, &start) }); err != nil {
				return newResponseError(key, err)
			}
		case 1:
			if err := m.NextValue(func(d Deserializer) error { return DecodeValue(d, &end) }); err != nil {
				return newResponseError(key, err)
			}
		default:
			if err := m.NextValue(func(d Deserializer) error { return DecodeValue(d, &value) }); err != nil {
				return err
			}
		}

		var ok bool
		var err error
		key, ok, err = m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}

	for slot, ok := range seen {
		if !ok {
			return newResponseError(sv.fields[slot], nil)
		}
	}
	sv.out = Spanned[T]{start: start, end: end, value: value}
	return nil
}

// Decode decodes a T from d.
func Decode[T any](d Deserializer) (T, error) {
	var out T
	err := DecodeValue(d, &out)
	return out, err
}

// typeName is used in signals and struct requests.
func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
