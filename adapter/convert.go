package adapter

import (
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	toon "github.com/thedataquarry/toon-go"
)

// coerce aligns a decoded value with the declared type: numeric narrowing,
// boolean literals from text, element-wise list mapping, and field-wise
// object mapping. Values that cannot be aligned pass through unchanged so
// the caller still sees what the model produced.
func (a *Adapter) coerce(value any, t Type) any {
	if value == nil {
		return nil
	}

	switch t.Kind {
	case KindString, KindEnum:
		if s, ok := value.(string); ok {
			return s
		}
		return value
	case KindInt:
		switch v := value.(type) {
		case int64:
			return v
		case float64:
			return int64(v)
		case string:
			if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return i
			}
		}
		return value
	case KindFloat:
		switch v := value.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f
			}
		}
		return value
	case KindBool:
		switch v := value.(type) {
		case bool:
			return v
		case string:
			if strings.EqualFold(v, "true") {
				return true
			}
			if strings.EqualFold(v, "false") {
				return false
			}
		}
		return value
	case KindObject:
		return a.coerceObject(value, t)
	case KindList:
		return a.coerceList(value, t)
	default:
		return value
	}
}

func (a *Adapter) coerceObject(value any, t Type) any {
	fields := asMap(value)
	if fields == nil {
		return value
	}
	result := make(map[string]any, len(fields))
	for key, sub := range fields {
		if field, ok := findField(t.Fields, key); ok {
			result[key] = a.coerce(sub, field.Type)
		} else {
			result[key] = sub
		}
	}
	return result
}

func (a *Adapter) coerceList(value any, t Type) any {
	switch v := value.(type) {
	case []any:
		result := make([]any, len(v))
		for i, item := range v {
			result[i] = a.coerce(item, *t.Elem)
		}
		return result
	case string:
		// A bare comma-joined line stands in for an inline array.
		items := splitAndTrim(v, ",")
		result := make([]any, len(items))
		for i, item := range items {
			result[i] = a.coerce(item, *t.Elem)
		}
		return result
	default:
		return value
	}
}

// asMap views object-shaped values as a plain map.
func asMap(value any) map[string]any {
	switch v := value.(type) {
	case map[string]any:
		return v
	case toon.Object:
		fields := make(map[string]any, v.Len())
		for _, field := range v.Fields {
			fields[field.Key] = field.Value
		}
		return fields
	default:
		return nil
	}
}

// Bind maps parsed field values onto target, which must be a pointer to a
// struct. Field names resolve through `toon` struct tags. This is the typed
// construction step after Parse.
func Bind(values map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "toon",
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(toPlain(values))
}

// toPlain rewrites ordered objects as plain maps so mapstructure can walk
// them.
func toPlain(value any) any {
	switch v := value.(type) {
	case toon.Object:
		fields := make(map[string]any, v.Len())
		for _, field := range v.Fields {
			fields[field.Key] = toPlain(field.Value)
		}
		return fields
	case map[string]any:
		fields := make(map[string]any, len(v))
		for key, sub := range v {
			fields[key] = toPlain(sub)
		}
		return fields
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = toPlain(item)
		}
		return items
	default:
		return value
	}
}
