package spanned

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

var (
	decodableType       = reflect.TypeFor[Decodable]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// DecodeValue decodes the value d is positioned at into the value v points to.
//
// Types implementing Decodable decode themselves. Otherwise the target's kind
// selects the request: structs issue DecodeStruct with their type name and
// field keys, pointers issue DecodeOption, everything else DecodeAny.
func DecodeValue(d Deserializer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: %T", ErrInvalidTarget, v)
	}
	return decodeInto(d, rv.Elem())
}

// decodeInto requires rv to be addressable.
func decodeInto(d Deserializer, rv reflect.Value) error {
	pt := reflect.PointerTo(rv.Type())
	if pt.Implements(decodableType) {
		return rv.Addr().Interface().(Decodable).DecodeFrom(d)
	}
	if pt.Implements(textUnmarshalerType) {
		return d.DecodeAny(&textVisitor{
			BaseVisitor: BaseVisitor{Expected: rv.Type().String()},
			target:      rv.Addr().Interface().(encoding.TextUnmarshaler),
		})
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return d.DecodeOption(&pointerVisitor{rv: rv})
	case reflect.Struct:
		plan := planFor(rv.Type())
		return d.DecodeStruct(plan.name, plan.keys, &structVisitor{
			BaseVisitor: BaseVisitor{Expected: "map for " + rv.Type().String()},
			rv:          rv,
			plan:        plan,
		})
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return fmt.Errorf("%w: interface %s", ErrInvalidTarget, rv.Type())
		}
		var av anyVisitor
		if err := d.DecodeAny(&av); err != nil {
			return err
		}
		if av.out == nil {
			rv.SetZero()
			return nil
		}
		rv.Set(reflect.ValueOf(av.out))
		return nil
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return fmt.Errorf("%w: %s", ErrInvalidTarget, rv.Type())
	}
	return d.DecodeAny(&valueVisitor{
		BaseVisitor: BaseVisitor{Expected: rv.Type().String()},
		rv:          rv,
	})
}

// valueVisitor decodes scalars, slices, arrays and maps into rv.
type valueVisitor struct {
	BaseVisitor
	rv reflect.Value
}

func (vv *valueVisitor) VisitNil() error {
	switch vv.rv.Kind() {
	case reflect.Slice, reflect.Map:
		vv.rv.SetZero()
		return nil
	}
	return vv.BaseVisitor.VisitNil()
}

func (vv *valueVisitor) VisitBool(b bool) error {
	if vv.rv.Kind() != reflect.Bool {
		return vv.BaseVisitor.VisitBool(b)
	}
	vv.rv.SetBool(b)
	return nil
}

func (vv *valueVisitor) VisitInt(n int64) error {
	switch vv.rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if vv.rv.OverflowInt(n) {
			return newTypeError(fmt.Sprintf("integer %d", n), vv.Expected)
		}
		vv.rv.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if n < 0 || vv.rv.OverflowUint(uint64(n)) {
			return newTypeError(fmt.Sprintf("integer %d", n), vv.Expected)
		}
		vv.rv.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		vv.rv.SetFloat(float64(n))
		return nil
	}
	return vv.BaseVisitor.VisitInt(n)
}

func (vv *valueVisitor) VisitUint(n uint64) error {
	switch vv.rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n > math.MaxInt64 || vv.rv.OverflowInt(int64(n)) {
			return newTypeError(fmt.Sprintf("integer %d", n), vv.Expected)
		}
		vv.rv.SetInt(int64(n))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if vv.rv.OverflowUint(n) {
			return newTypeError(fmt.Sprintf("integer %d", n), vv.Expected)
		}
		vv.rv.SetUint(n)
		return nil
	case reflect.Float32, reflect.Float64:
		vv.rv.SetFloat(float64(n))
		return nil
	}
	return vv.BaseVisitor.VisitUint(n)
}

func (vv *valueVisitor) VisitFloat(f float64) error {
	switch vv.rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if vv.rv.OverflowFloat(f) {
			return newTypeError(fmt.Sprintf("float %g", f), vv.Expected)
		}
		vv.rv.SetFloat(f)
		return nil
	}
	return vv.BaseVisitor.VisitFloat(f)
}

func (vv *valueVisitor) VisitString(s string) error {
	switch {
	case vv.rv.Kind() == reflect.String:
		vv.rv.SetString(s)
		return nil
	case isByteSlice(vv.rv.Type()):
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return newTypeError("non-base64 string", vv.Expected)
		}
		vv.rv.SetBytes(b)
		return nil
	}
	return vv.BaseVisitor.VisitString(s)
}

func (vv *valueVisitor) VisitBytes(b []byte) error {
	switch {
	case isByteSlice(vv.rv.Type()):
		vv.rv.SetBytes(append([]byte(nil), b...))
		return nil
	case vv.rv.Kind() == reflect.String:
		vv.rv.SetString(string(b))
		return nil
	}
	return vv.BaseVisitor.VisitBytes(b)
}

func (vv *valueVisitor) VisitSeq(seq SeqAccess) error {
	switch vv.rv.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(vv.rv.Type(), 0, 0)
		for {
			elem := reflect.New(vv.rv.Type().Elem()).Elem()
			ok, err := seq.NextElement(func(d Deserializer) error { return decodeInto(d, elem) })
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			out = reflect.Append(out, elem)
		}
		vv.rv.Set(out)
		return nil
	case reflect.Array:
		n := vv.rv.Len()
		for i := 0; ; i++ {
			if i == n {
				ok, err := seq.NextElement(Skip)
				if err != nil {
					return err
				}
				if ok {
					return newTypeError("longer sequence", vv.Expected)
				}
				return nil
			}
			elem := vv.rv.Index(i)
			ok, err := seq.NextElement(func(d Deserializer) error { return decodeInto(d, elem) })
			if err != nil {
				return err
			}
			if !ok {
				for ; i < n; i++ {
					vv.rv.Index(i).SetZero()
				}
				return nil
			}
		}
	}
	return vv.BaseVisitor.VisitSeq(seq)
}

func (vv *valueVisitor) VisitMap(m MapAccess) error {
	if vv.rv.Kind() != reflect.Map {
		return vv.BaseVisitor.VisitMap(m)
	}
	mt := vv.rv.Type()
	if vv.rv.IsNil() {
		vv.rv.Set(reflect.MakeMap(mt))
	}
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		kv, err := mapKey(mt.Key(), key)
		if err != nil {
			return err
		}
		elem := reflect.New(mt.Elem()).Elem()
		if err := m.NextValue(func(d Deserializer) error { return decodeInto(d, elem) }); err != nil {
			return err
		}
		vv.rv.SetMapIndex(kv, elem)
	}
}

// mapKey converts a map key to kt, parsing integers where needed.
func mapKey(kt reflect.Type, key string) (reflect.Value, error) {
	kv := reflect.New(kt).Elem()
	switch kt.Kind() {
	case reflect.String:
		kv.SetString(key)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(key, 10, kt.Bits())
		if err != nil {
			return kv, newTypeError(fmt.Sprintf("key %q", key), kt.String())
		}
		kv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(key, 10, kt.Bits())
		if err != nil {
			return kv, newTypeError(fmt.Sprintf("key %q", key), kt.String())
		}
		kv.SetUint(n)
	default:
		return kv, fmt.Errorf("%w: map key %s", ErrInvalidTarget, kt)
	}
	return kv, nil
}

func isByteSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

// pointerVisitor allocates on a non-nil value and decodes through it.
type pointerVisitor struct {
	rv reflect.Value
}

func (pv *pointerVisitor) VisitNone() error {
	pv.rv.SetZero()
	return nil
}

func (pv *pointerVisitor) VisitSome(d Deserializer) error {
	if pv.rv.IsNil() {
		pv.rv.Set(reflect.New(pv.rv.Type().Elem()))
	}
	return decodeInto(d, pv.rv.Elem())
}

// structVisitor fills struct fields from map entries. Unknown keys are skipped.
type structVisitor struct {
	BaseVisitor
	rv   reflect.Value
	plan *structPlan
}

func (sv *structVisitor) VisitMap(m MapAccess) error {
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		index, known := sv.plan.byKey[key]
		if !known {
			if err := m.NextValue(Skip); err != nil {
				return err
			}
			continue
		}
		field := sv.rv.FieldByIndex(index)
		if err := m.NextValue(func(d Deserializer) error { return decodeInto(d, field) }); err != nil {
			return err
		}
	}
}

// textVisitor hands strings to an encoding.TextUnmarshaler.
type textVisitor struct {
	BaseVisitor
	target encoding.TextUnmarshaler
}

func (tv *textVisitor) VisitString(s string) error {
	return tv.target.UnmarshalText([]byte(s))
}

func (tv *textVisitor) VisitBytes(b []byte) error {
	return tv.target.UnmarshalText(b)
}

// anyVisitor builds generic values: nil, bool, int64, uint64, float64,
// string, []byte, []any and map[string]any.
type anyVisitor struct {
	out any
}

func (av *anyVisitor) VisitNil() error {
	av.out = nil
	return nil
}

func (av *anyVisitor) VisitBool(b bool) error {
	av.out = b
	return nil
}

func (av *anyVisitor) VisitInt(n int64) error {
	av.out = n
	return nil
}

func (av *anyVisitor) VisitUint(n uint64) error {
	av.out = n
	return nil
}

func (av *anyVisitor) VisitFloat(f float64) error {
	av.out = f
	return nil
}

func (av *anyVisitor) VisitString(s string) error {
	av.out = s
	return nil
}

func (av *anyVisitor) VisitBytes(b []byte) error {
	av.out = append([]byte(nil), b...)
	return nil
}

func (av *anyVisitor) VisitSeq(seq SeqAccess) error {
	out := []any{}
	for {
		var elem any
		ok, err := seq.NextElement(func(d Deserializer) error { return DecodeValue(d, &elem) })
		if err != nil {
			return err
		}
		if !ok {
			av.out = out
			return nil
		}
		out = append(out, elem)
	}
}

func (av *anyVisitor) VisitMap(m MapAccess) error {
	out := map[string]any{}
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			av.out = out
			return nil
		}
		var elem any
		if err := m.NextValue(func(d Deserializer) error { return DecodeValue(d, &elem) }); err != nil {
			return err
		}
		out[key] = elem
	}
}

// Skip consumes the value d is positioned at and discards it.
func Skip(d Deserializer) error {
	return d.DecodeAny(skipVisitor{})
}

type skipVisitor struct{}

func (skipVisitor) VisitNil() error { return nil }
func (skipVisitor) VisitBool(bool) error { return nil }
func (skipVisitor) VisitInt(int64) error { return nil }
func (skipVisitor) VisitUint(uint64) error { return nil }
func (skipVisitor) VisitFloat(float64) error { return nil }
func (skipVisitor) VisitString(string) error { return nil }
func (skipVisitor) VisitBytes([]byte) error { return nil }

func (skipVisitor) VisitSeq(seq SeqAccess) error {
	for {
		ok, err := seq.NextElement(Skip)
		if err != nil || !ok {
			return err
		}
	}
}

func (skipVisitor) VisitMap(m MapAccess) error {
	for {
		_, ok, err := m.NextKey()
		if err != nil || !ok {
			return err
		}
		if err := m.NextValue(Skip); err != nil {
			return err
		}
	}
}
