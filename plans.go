package spanned

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

// TagKey is the struct tag naming a field's key: `span:"name"`.
// `span:"-"` excludes a field. Untagged fields use their Go name.
const TagKey = "span"

func init() {
	sentinel.Tag(TagKey)
}

// structPlan describes how a struct type is requested and filled.
type structPlan struct {
	name  string           // aggregate name sent with DecodeStruct
	keys  []string         // field keys in declaration order
	byKey map[string][]int // key to reflect.Value.FieldByIndex path
}

var (
	plans   = make(map[reflect.Type]*structPlan)
	plansMu sync.RWMutex
)

// planFor returns the cached plan for rt or builds one.
func planFor(rt reflect.Type) *structPlan {
	// Fast path: read-lock cache check
	plansMu.RLock()
	if cached, ok := plans[rt]; ok {
		plansMu.RUnlock()
		return cached
	}
	plansMu.RUnlock()

	// Slow path: build and cache with write-lock
	plansMu.Lock()
	defer plansMu.Unlock()

	if cached, ok := plans[rt]; ok {
		return cached
	}

	plan := buildPlan(rt)
	plans[rt] = plan
	return plan
}

// ResetPlans clears the struct plan cache.
// This is primarily useful for test isolation.
func ResetPlans() {
	plansMu.Lock()
	defer plansMu.Unlock()
	plans = make(map[reflect.Type]*structPlan)
}

func buildPlan(rt reflect.Type) *structPlan {
	spec := structMetadata(rt)
	plan := &structPlan{
		name:  spec.TypeName,
		keys:  make([]string, 0, len(spec.Fields)),
		byKey: make(map[string][]int, len(spec.Fields)),
	}
	if plan.name == "" {
		plan.name = rt.String()
	}

	for _, field := range spec.Fields {
		sf := rt.FieldByIndex(field.Index)
		if !sf.IsExported() {
			continue
		}
		key := field.Name
		tag, ok := field.Tags[TagKey]
		if !ok {
			tag, ok = sf.Tag.Lookup(TagKey)
		}
		if ok {
			name, _, _ := strings.Cut(tag, ",")
			if name == "-" {
				continue
			}
			if name != "" {
				key = name
			}
		}
		if _, dup := plan.byKey[key]; dup {
			continue
		}
		plan.keys = append(plan.keys, key)
		plan.byKey[key] = append([]int{}, field.Index...)
	}
	return plan
}

// structMetadata returns sentinel metadata for rt, scanning it directly
// when sentinel has not seen the type.
func structMetadata(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok && matches(spec, rt) {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        map[string]string{},
		}
		if val, ok := sf.Tag.Lookup(TagKey); ok {
			fm.Tags[TagKey] = val
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// matches guards against cached metadata for a different type with the
// same printed name.
func matches(spec sentinel.Metadata, rt reflect.Type) bool {
	if spec.TypeName != rt.Name() || spec.PackageName != rt.PkgPath() {
		return false
	}
	for _, field := range spec.Fields {
		if len(field.Index) != 1 || field.Index[0] >= rt.NumField() {
			return false
		}
		if rt.Field(field.Index[0]).Name != field.Name {
			return false
		}
	}
	return true
}

// scanType primes sentinel's cache for T when T is a struct.
func scanType[T any]() {
	if reflect.TypeFor[T]().Kind() == reflect.Struct {
		sentinel.Scan[T]()
	}
}
