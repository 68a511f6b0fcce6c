package codec

import (
	"bytes"
	"encoding/json"
)

// Field represents a single key/value pair in an ordered object.
type Field struct {
	Key   string
	Value any
}

// Object preserves the encounter order of its fields. The encoder emits
// fields in this order, and the decoder materializes objects as Object so
// that key order survives a round trip.
type Object struct {
	Fields []Field
}

// NewObject constructs an ordered Object from the provided key/value pairs.
func NewObject(fields ...Field) Object {
	return Object{Fields: append([]Field(nil), fields...)}
}

// Len reports the number of fields.
func (o Object) Len() int {
	return len(o.Fields)
}

// IsEmpty reports whether the object has no fields.
func (o Object) IsEmpty() bool {
	return len(o.Fields) == 0
}

// Get returns the value stored under key and whether the key is present.
func (o Object) Get(key string) (any, bool) {
	for _, field := range o.Fields {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key, or appends a new field when absent.
func (o *Object) Set(key string, value any) {
	for i, field := range o.Fields {
		if field.Key == key {
			o.Fields[i].Value = value
			return
		}
	}
	o.Fields = append(o.Fields, Field{Key: key, Value: value})
}

// Keys returns the field keys in order.
func (o Object) Keys() []string {
	keys := make([]string, len(o.Fields))
	for i, field := range o.Fields {
		keys[i] = field.Key
	}
	return keys
}

// MarshalJSON renders the object as a JSON object with fields in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range o.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
