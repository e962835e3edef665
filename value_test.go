package spanned

import (
	"errors"
	"reflect"
	"testing"
)

func TestValueDeserializer_NeverIntercepts(t *testing.T) {
	v := &collectVisitor{BaseVisitor: BaseVisitor{Expected: "map"}}
	err := ValueDeserializer(5).DecodeStruct(Name, Fields[:], v)
	if !errors.Is(err, ErrInvalidType) {
		t.Errorf("DecodeStruct() error = %v, want the plain integer rejected", err)
	}
}

func TestValueDeserializer_OrderedEntries(t *testing.T) {
	source := []Entry{{Key: "z", Value: 1}, {Key: "a", Value: 2}}

	v := &collectVisitor{}
	if err := ValueDeserializer(source).DecodeAny(v); err != nil {
		t.Fatalf("DecodeAny() error: %v", err)
	}
	if !reflect.DeepEqual(v.keys, []string{"z", "a"}) {
		t.Errorf("keys = %v, want [z a]", v.keys)
	}
}

func TestValueDeserializer_SortedMapKeys(t *testing.T) {
	v := &collectVisitor{}
	if err := ValueDeserializer(map[string]int{"b": 1, "a": 2, "c": 3}).DecodeAny(v); err != nil {
		t.Fatalf("DecodeAny() error: %v", err)
	}
	if !reflect.DeepEqual(v.keys, []string{"a", "b", "c"}) {
		t.Errorf("keys = %v, want [a b c]", v.keys)
	}
}

func TestValueDeserializer_Pointers(t *testing.T) {
	n := 3
	var out int
	if err := DecodeValue(ValueDeserializer(&n), &out); err != nil {
		t.Fatalf("DecodeValue() error: %v", err)
	}
	if out != 3 {
		t.Errorf("DecodeValue() = %d, want 3", out)
	}

	var nilPtr *int
	p := &out
	if err := DecodeValue(ValueDeserializer(nilPtr), &p); err != nil {
		t.Fatalf("DecodeValue(nil pointer) error: %v", err)
	}
	if p != nil {
		t.Errorf("DecodeValue(nil pointer) = %v, want nil", p)
	}
}

func TestValueDeserializer_FallbackToString(t *testing.T) {
	var s string
	if err := DecodeValue(ValueDeserializer(complex(1, 2)), &s); err != nil {
		t.Fatalf("DecodeValue() error: %v", err)
	}
	if s != "(1+2i)" {
		t.Errorf("DecodeValue() = %q, want %q", s, "(1+2i)")
	}
}

func TestEntryAccess_ValuePastEnd(t *testing.T) {
	m := &entryAccess{}
	if err := m.NextValue(Skip); !errors.Is(err, errValueNoEntry) {
		t.Errorf("NextValue() error = %v, want errValueNoEntry", err)
	}
}
