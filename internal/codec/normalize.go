package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"time"
)

// normalize maps a Go value onto the canonical data model described in
// model.go. The returned value is one of nil, bool, int64, float64, string,
// Object, or []any. Non-finite floats degrade to nil, negative zero to
// int64(0). normalize is idempotent: feeding its output back in returns an
// equal value.
func normalize(v any, cfg encoderOptions) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return val, nil
	case int64:
		return val, nil
	case int, int8, int16, int32:
		return reflect.ValueOf(val).Int(), nil
	case uint, uint8, uint16, uint32, uint64:
		u := reflect.ValueOf(val).Uint()
		if u > math.MaxInt64 {
			return strconv.FormatUint(u, 10), nil
		}
		return int64(u), nil
	case float32:
		return normalizeFloat(float64(val)), nil
	case float64:
		return normalizeFloat(val), nil
	case json.Number:
		return normalizeNumberString(val.String()), nil
	case *big.Int:
		if val == nil {
			return nil, nil
		}
		if val.IsInt64() {
			return val.Int64(), nil
		}
		return val.String(), nil
	case big.Int:
		return normalize(&val, cfg)
	case *big.Float:
		if val == nil {
			return nil, nil
		}
		f, _ := val.Float64()
		return normalizeFloat(f), nil
	case time.Time:
		return cfg.timeFormatter(val), nil
	case Object:
		return normalizeObjectFields(val.Fields, cfg)
	case Field:
		return normalizeObjectFields([]Field{val}, cfg)
	case fmt.Stringer:
		return val.String(), nil
	case error:
		return val.Error(), nil
	}

	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return nil, nil
		}
		return normalize(val.Elem().Interface(), cfg)
	case reflect.Slice, reflect.Array:
		length := val.Len()
		result := make([]any, 0, length)
		for i := 0; i < length; i++ {
			item, err := normalize(val.Index(i).Interface(), cfg)
			if err != nil {
				return nil, err
			}
			result = append(result, item)
		}
		return result, nil
	case reflect.Map:
		return normalizeMap(val, cfg)
	case reflect.Struct:
		return normalizeStructValue(val, cfg)
	}

	// Callables and other unrepresentable values degrade to null; the
	// encoder itself never fails.
	return nil, nil
}

// normalizeMap stringifies non-string keys and sorts fields by key so the
// output is deterministic regardless of map iteration order.
func normalizeMap(val reflect.Value, cfg encoderOptions) (Object, error) {
	iter := val.MapRange()
	fields := make([]Field, 0, val.Len())
	for iter.Next() {
		fieldValue, err := normalize(iter.Value().Interface(), cfg)
		if err != nil {
			return Object{}, err
		}
		key := iter.Key()
		var name string
		if key.Kind() == reflect.String {
			name = key.String()
		} else {
			name = fmt.Sprint(key.Interface())
		}
		fields = append(fields, Field{Key: name, Value: fieldValue})
	}
	slices.SortFunc(fields, func(a, b Field) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		default:
			return 0
		}
	})
	return Object{Fields: fields}, nil
}

func normalizeStructValue(val reflect.Value, cfg encoderOptions) (Object, error) {
	bindings := bindingsFor(val.Type())
	fields := make([]Field, 0, len(bindings.ordered))
	for _, binding := range bindings.ordered {
		childValue := binding.resolve(val)
		if binding.omitEmpty && omitAsEmpty(childValue) {
			continue
		}
		child, err := normalize(childValue.Interface(), cfg)
		if err != nil {
			return Object{}, fmt.Errorf("toon: %s: %w", binding.key, err)
		}
		fields = append(fields, Field{Key: binding.key, Value: child})
	}
	return Object{Fields: fields}, nil
}

func normalizeObjectFields(fields []Field, cfg encoderOptions) (Object, error) {
	normalized := make([]Field, 0, len(fields))
	for _, field := range fields {
		child, err := normalize(field.Value, cfg)
		if err != nil {
			return Object{}, fmt.Errorf("toon: %s: %w", field.Key, err)
		}
		normalized = append(normalized, Field{Key: field.Key, Value: child})
	}
	return Object{Fields: normalized}, nil
}

func normalizeFloat(f float64) any {
	switch {
	case math.IsNaN(f), math.IsInf(f, 0):
		return nil
	case f == 0 && math.Signbit(f):
		return int64(0)
	default:
		return f
	}
}

// normalizeNumberString keeps json.Number inputs inside the model: integral
// literals become int64, the rest follow the float rules. Unparseable text
// stays a string and picks up quoting in the encoder.
func normalizeNumberString(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return normalizeFloat(f)
}
