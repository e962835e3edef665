package spanned

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"
)

// Entry is one pair of an ordered map passed to ValueDeserializer.
type Entry struct {
	Key   string
	Value any
}

// ValueDeserializer returns a Deserializer over an in-memory value tree:
// scalars, []byte, time.Time, slices, arrays, maps and []Entry.
//
// It has no source positions, so it never intercepts span requests; Spanned
// values decoded from it carry Unknown spans. Maps other than []Entry are
// walked in sorted key order. Values of other types decode as their fmt.Sprint
// form.
func ValueDeserializer(v any) Deserializer {
	return valueDeserializer{v: v}
}

var errValueNoEntry = errors.New("spanned: NextValue called past the last entry")

type valueDeserializer struct {
	v any
}

func (d valueDeserializer) DecodeAny(v Visitor) error {
	switch x := d.v.(type) {
	case nil:
		return v.VisitNil()
	case []byte:
		return v.VisitBytes(x)
	case time.Time:
		return v.VisitString(x.Format(time.RFC3339Nano))
	case []Entry:
		return v.VisitMap(&entryAccess{entries: x})
	}

	rv := reflect.ValueOf(d.v)
	switch rv.Kind() {
	case reflect.Bool:
		return v.VisitBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.VisitInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.VisitUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return v.VisitFloat(rv.Float())
	case reflect.String:
		return v.VisitString(rv.String())
	case reflect.Slice, reflect.Array:
		return v.VisitSeq(&valueSeq{rv: rv})
	case reflect.Map:
		return v.VisitMap(mapEntries(rv))
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return v.VisitNil()
		}
		return valueDeserializer{v: rv.Elem().Interface()}.DecodeAny(v)
	}
	return v.VisitString(fmt.Sprint(d.v))
}

// DecodeStruct ignores the aggregate name: this deserializer does not
// take part in span negotiation.
func (d valueDeserializer) DecodeStruct(_ string, _ []string, v Visitor) error {
	return d.DecodeAny(v)
}

func (d valueDeserializer) DecodeOption(v OptionVisitor) error {
	if d.v == nil {
		return v.VisitNone()
	}
	if rv := reflect.ValueOf(d.v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return v.VisitNone()
	}
	return v.VisitSome(d)
}

type valueSeq struct {
	rv reflect.Value
	i  int
}

func (s *valueSeq) NextElement(fn func(Deserializer) error) (bool, error) {
	if s.i >= s.rv.Len() {
		return false, nil
	}
	elem := s.rv.Index(s.i).Interface()
	s.i++
	return true, fn(valueDeserializer{v: elem})
}

func mapEntries(rv reflect.Value) *entryAccess {
	entries := make([]Entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, Entry{Key: fmt.Sprint(iter.Key().Interface()), Value: iter.Value().Interface()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return &entryAccess{entries: entries}
}

type entryAccess struct {
	entries []Entry
	i       int
}

func (m *entryAccess) NextKey() (string, bool, error) {
	if m.i >= len(m.entries) {
		return "", false, nil
	}
	return m.entries[m.i].Key, true, nil
}

func (m *entryAccess) NextValue(fn func(Deserializer) error) error {
	if m.i >= len(m.entries) {
		return errValueNoEntry
	}
	e := m.entries[m.i]
	m.i++
	return fn(valueDeserializer{v: e.Value})
}
