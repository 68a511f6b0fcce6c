package codec

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Unmarshal decodes the TOON document in data into v, which must be a non-nil
// pointer. Struct fields bind through `toon` tags; decoded object fields are
// applied in document order, and keys the struct does not declare are
// skipped.
func Unmarshal(data []byte, v any, opts ...DecoderOption) error {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return errors.New("toon: Unmarshal(nil)")
	}
	if rv.Kind() != reflect.Pointer {
		return fmt.Errorf("toon: Unmarshal(non-pointer %T)", v)
	}
	if rv.IsNil() {
		return fmt.Errorf("toon: Unmarshal(nil %T)", v)
	}
	decoded, err := Decode(data, opts...)
	if err != nil {
		return err
	}
	return assign(rv.Elem(), decoded)
}

// UnmarshalString decodes the TOON document in s into v.
func UnmarshalString(s string, v any, opts ...DecoderOption) error {
	return Unmarshal([]byte(s), v, opts...)
}

// assign stores a decoded value into dst. The source is always drawn from
// the decoded value set (nil, bool, int64, float64, string, []any, Object).
func assign(dst reflect.Value, src any) error {
	if !dst.CanSet() {
		return errors.New("toon: cannot set destination value")
	}

	switch dst.Kind() {
	case reflect.Pointer:
		if src == nil {
			dst.SetZero()
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return assign(dst.Elem(), src)
	case reflect.Interface:
		if src == nil {
			dst.SetZero()
			return nil
		}
		dst.Set(reflect.ValueOf(src))
		return nil
	case reflect.Struct:
		return assignStruct(dst, src)
	case reflect.Map:
		return assignMap(dst, src)
	case reflect.Slice, reflect.Array:
		return assignSequence(dst, src)
	default:
		return assignScalar(dst, src)
	}
}

// assignStruct walks the decoded object's fields in document order, binding
// each key through the struct's marshalling plan.
func assignStruct(dst reflect.Value, src any) error {
	obj, ok := src.(Object)
	if !ok {
		return mismatch(src, dst)
	}
	bindings := bindingsFor(dst.Type())
	for _, field := range obj.Fields {
		binding, declared := bindings.field(field.Key)
		if !declared {
			continue
		}
		if err := assign(dst.FieldByIndex(binding.index), field.Value); err != nil {
			return fmt.Errorf("%s: %w", field.Key, err)
		}
	}
	return nil
}

func assignMap(dst reflect.Value, src any) error {
	if dst.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("toon: cannot unmarshal into map with %s keys", dst.Type().Key())
	}
	obj, ok := src.(Object)
	if !ok {
		return mismatch(src, dst)
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}
	elemType := dst.Type().Elem()
	for _, field := range obj.Fields {
		elem := reflect.New(elemType).Elem()
		if err := assign(elem, field.Value); err != nil {
			return fmt.Errorf("%s: %w", field.Key, err)
		}
		dst.SetMapIndex(reflect.ValueOf(field.Key), elem)
	}
	return nil
}

func assignSequence(dst reflect.Value, src any) error {
	// Byte slices absorb decoded strings directly.
	if dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8 {
		switch v := src.(type) {
		case nil:
			dst.SetZero()
			return nil
		case string:
			dst.SetBytes([]byte(v))
			return nil
		}
	}
	arr, ok := src.([]any)
	if !ok {
		return mismatch(src, dst)
	}
	switch dst.Kind() {
	case reflect.Slice:
		dst.Set(reflect.MakeSlice(dst.Type(), len(arr), len(arr)))
	case reflect.Array:
		if len(arr) != dst.Len() {
			return fmt.Errorf("toon: cannot unmarshal %d elements into %s", len(arr), dst.Type())
		}
	}
	for i, item := range arr {
		if err := assign(dst.Index(i), item); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

func assignScalar(dst reflect.Value, src any) error {
	switch dst.Kind() {
	case reflect.String:
		if s, ok := src.(string); ok {
			dst.SetString(s)
			return nil
		}
	case reflect.Bool:
		if b, ok := src.(bool); ok {
			dst.SetBool(b)
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if f, ok := toFloat64(src); ok {
			dst.SetFloat(f)
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := toInt64(src)
		if !ok {
			break
		}
		if dst.OverflowInt(i) {
			return fmt.Errorf("toon: value %d overflows %s", i, dst.Type())
		}
		dst.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := toInt64(src)
		if !ok {
			break
		}
		if i < 0 || dst.OverflowUint(uint64(i)) {
			return fmt.Errorf("toon: value %d overflows %s", i, dst.Type())
		}
		dst.SetUint(uint64(i))
		return nil
	default:
		return fmt.Errorf("toon: cannot unmarshal into %s", dst.Type())
	}
	return mismatch(src, dst)
}

func mismatch(src any, dst reflect.Value) error {
	if src == nil {
		return fmt.Errorf("toon: cannot unmarshal null into %s", dst.Type())
	}
	return fmt.Errorf("toon: cannot unmarshal %T into %s", src, dst.Type())
}

// toFloat64 widens either decoded numeric representation to a float.
func toFloat64(v any) (float64, bool) {
	switch num := v.(type) {
	case float64:
		return num, true
	case int64:
		return float64(num), true
	default:
		return 0, false
	}
}

// toInt64 narrows a decoded number to an integer; fractional floats refuse.
func toInt64(v any) (int64, bool) {
	switch num := v.(type) {
	case int64:
		return num, true
	case float64:
		if math.Trunc(num) != num {
			return 0, false
		}
		return int64(num), true
	default:
		return 0, false
	}
}
