package codec

import (
	"reflect"
	"strings"
	"sync"
)

// fieldBinding ties one exported struct field to the TOON object key it
// marshals under.
type fieldBinding struct {
	key       string
	omitEmpty bool
	index     []int
}

// typeBindings is the per-type marshalling plan: the bindings in struct
// declaration order (the order Marshal emits), plus a key lookup so
// Unmarshal can walk a decoded Object in document order and find the
// matching field.
type typeBindings struct {
	ordered []fieldBinding
	byKey   map[string]int
}

// field returns the binding for a TOON key, if the struct declares one.
// Unknown keys are the caller's business to skip.
func (b typeBindings) field(key string) (fieldBinding, bool) {
	idx, ok := b.byKey[key]
	if !ok {
		return fieldBinding{}, false
	}
	return b.ordered[idx], true
}

var bindingCache sync.Map // map[reflect.Type]typeBindings

// bindingsFor returns the cached marshalling plan for a struct type,
// building it on first use.
func bindingsFor(t reflect.Type) typeBindings {
	if cached, ok := bindingCache.Load(t); ok {
		return cached.(typeBindings)
	}
	bindings := buildBindings(t)
	bindingCache.Store(t, bindings)
	return bindings
}

func buildBindings(t reflect.Type) typeBindings {
	bindings := typeBindings{byKey: make(map[string]int)}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("toon")
		if tag == "-" {
			continue
		}
		key, omitEmpty := splitTag(tag)
		if key == "" {
			key = sf.Name
		}
		if _, taken := bindings.byKey[key]; taken {
			// First declaration wins when tags collide.
			continue
		}
		bindings.byKey[key] = len(bindings.ordered)
		bindings.ordered = append(bindings.ordered, fieldBinding{
			key:       key,
			omitEmpty: omitEmpty,
			index:     sf.Index,
		})
	}
	return bindings
}

// splitTag reads a `toon` tag. The key is everything before the first comma;
// omitempty is the only option honoured.
func splitTag(tag string) (string, bool) {
	key, rest, _ := strings.Cut(tag, ",")
	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		if opt == "omitempty" {
			return key, true
		}
	}
	return key, false
}

// resolve walks a binding's field index from v, materializing zero values
// behind nil embedded pointers rather than panicking on them.
func (b fieldBinding) resolve(v reflect.Value) reflect.Value {
	for _, i := range b.index {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return reflect.Zero(v.Type().Elem())
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}

// omitAsEmpty reports whether a field value is dropped under omitempty:
// zero scalars, nil pointers and interfaces, and zero-length collections.
func omitAsEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}
