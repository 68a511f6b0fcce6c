package codec

import (
	"fmt"
	"strconv"
	"strings"

	formatpkg "github.com/thedataquarry/toon-go/internal/format"
)

// Encoder serializes Go values as TOON documents.
type Encoder struct {
	cfg encoderOptions
}

// NewEncoder constructs an Encoder using the supplied options.
func NewEncoder(opts ...EncoderOption) *Encoder {
	cfg := defaultEncoderOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Encoder{cfg: cfg}
}

// Marshal renders v into a TOON document. Values are first normalized to the
// canonical data model, then written out line by line. Representation per
// array is chosen purely from structure, so equal normalized values always
// produce identical bytes under equal options.
func (e *Encoder) Marshal(v any) ([]byte, error) {
	normalized, err := normalize(v, e.cfg)
	if err != nil {
		return nil, err
	}
	state := &encodeState{
		cfg: e.cfg,
		w:   newLineWriter(e.cfg.indentSize),
	}
	if err := state.encodeRoot(normalized); err != nil {
		return nil, err
	}
	return []byte(state.w.String()), nil
}

// MarshalString is equivalent to Marshal but returns a string.
func (e *Encoder) MarshalString(v any) (string, error) {
	data, err := e.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Marshal encodes v using a temporary encoder.
func Marshal(v any, opts ...EncoderOption) ([]byte, error) {
	return NewEncoder(opts...).Marshal(v)
}

// MarshalString encodes v as a TOON document string.
func MarshalString(v any, opts ...EncoderOption) (string, error) {
	return NewEncoder(opts...).MarshalString(v)
}

type encodeState struct {
	cfg encoderOptions
	w   *lineWriter
}

func (s *encodeState) delimiter() rune {
	return s.cfg.delimiter.rune()
}

func (s *encodeState) encodeRoot(value any) error {
	switch val := value.(type) {
	case nil, bool, int64, float64, string:
		token, err := formatPrimitive(val, s.delimiter())
		if err != nil {
			return err
		}
		s.w.push(0, token)
	case Object:
		if err := s.encodeObject(val, 0); err != nil {
			return err
		}
	case []any:
		if err := s.encodeArray("", val, 0); err != nil {
			return err
		}
	default:
		return fmt.Errorf("toon: unsupported root value %T", value)
	}
	return nil
}

func (s *encodeState) encodeObject(obj Object, depth int) error {
	for _, field := range obj.Fields {
		switch val := field.Value.(type) {
		case nil, bool, int64, float64, string:
			keyLiteral, err := formatpkg.EncodeKey(field.Key)
			if err != nil {
				return err
			}
			token, err := formatPrimitive(val, s.delimiter())
			if err != nil {
				return err
			}
			s.w.push(depth, keyLiteral+": "+token)
		case Object:
			keyLiteral, err := formatpkg.EncodeKey(field.Key)
			if err != nil {
				return err
			}
			s.w.push(depth, keyLiteral+":")
			if err := s.encodeObject(val, depth+1); err != nil {
				return err
			}
		case []any:
			if err := s.encodeArray(field.Key, val, depth); err != nil {
				return err
			}
		default:
			return fmt.Errorf("toon: unsupported object field %s of type %T", field.Key, val)
		}
	}
	return nil
}

// encodeArray picks the representation for one array node: inline for
// all-primitive elements, tabular for uniformly shaped objects, mixed list
// otherwise. An empty array is a bare header.
func (s *encodeState) encodeArray(key string, values []any, depth int) error {
	keyLiteral := ""
	if key != "" {
		var err error
		keyLiteral, err = formatpkg.EncodeKey(key)
		if err != nil {
			return err
		}
	}

	if isPrimitiveArray(values) {
		line, err := s.inlineArrayLine(keyLiteral, values)
		if err != nil {
			return err
		}
		s.w.push(depth, line)
		return nil
	}

	if fields, ok := detectTabular(values); ok {
		s.w.push(depth, s.renderHeader(keyLiteral, len(values), fields))
		return s.encodeTabularRows(values, fields, depth+1)
	}

	s.w.push(depth, s.renderHeader(keyLiteral, len(values), nil))
	for _, item := range values {
		if err := s.encodeListItem(item, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *encodeState) inlineArrayLine(keyLiteral string, values []any) (string, error) {
	line := s.renderHeader(keyLiteral, len(values), nil)
	if len(values) == 0 {
		return line, nil
	}
	tokens := make([]string, 0, len(values))
	for _, v := range values {
		token, err := formatPrimitive(v, s.delimiter())
		if err != nil {
			return "", err
		}
		tokens = append(tokens, token)
	}
	return line + " " + strings.Join(tokens, string(s.delimiter())), nil
}

func (s *encodeState) encodeTabularRows(values []any, fields []string, depth int) error {
	for _, row := range values {
		obj := row.(Object)
		tokens := make([]string, 0, len(fields))
		for _, field := range fields {
			value, _ := obj.Get(field)
			token, err := formatPrimitive(value, s.delimiter())
			if err != nil {
				return err
			}
			tokens = append(tokens, token)
		}
		s.w.push(depth, strings.Join(tokens, string(s.delimiter())))
	}
	return nil
}

// encodeListItem writes one "- " item of a mixed list.
func (s *encodeState) encodeListItem(item any, depth int) error {
	switch v := item.(type) {
	case nil, bool, int64, float64, string:
		token, err := formatPrimitive(v, s.delimiter())
		if err != nil {
			return err
		}
		s.w.push(depth, "- "+token)
	case Object:
		return s.encodeObjectListItem(v, depth)
	case []any:
		return s.encodeNestedArrayItem("", v, depth)
	default:
		return fmt.Errorf("toon: unsupported list item %T", v)
	}
	return nil
}

// encodeObjectListItem packs the object's first field onto the dash line when
// it is a primitive or an array; remaining fields continue one level deeper.
func (s *encodeState) encodeObjectListItem(obj Object, depth int) error {
	if obj.IsEmpty() {
		s.w.push(depth, "- {}")
		return nil
	}
	first := obj.Fields[0]
	rest := Object{Fields: obj.Fields[1:]}

	if isPrimitive(first.Value) {
		keyLiteral, err := formatpkg.EncodeKey(first.Key)
		if err != nil {
			return err
		}
		token, err := formatPrimitive(first.Value, s.delimiter())
		if err != nil {
			return err
		}
		s.w.push(depth, "- "+keyLiteral+": "+token)
		return s.encodeObject(rest, depth+1)
	}

	if arr, ok := first.Value.([]any); ok {
		keyLiteral, err := formatpkg.EncodeKey(first.Key)
		if err != nil {
			return err
		}
		if err := s.encodeNestedArrayItem(keyLiteral, arr, depth); err != nil {
			return err
		}
		return s.encodeObject(rest, depth+1)
	}

	s.w.push(depth, "-")
	return s.encodeObject(obj, depth+1)
}

// encodeNestedArrayItem emits an array that lives on a dash line, either
// anonymous ("- [N]: …") or keyed ("- key[N]: …").
func (s *encodeState) encodeNestedArrayItem(keyLiteral string, values []any, depth int) error {
	if isPrimitiveArray(values) {
		line, err := s.inlineArrayLine(keyLiteral, values)
		if err != nil {
			return err
		}
		s.w.push(depth, "- "+line)
		return nil
	}

	if fields, ok := detectTabular(values); ok {
		s.w.push(depth, "- "+s.renderHeader(keyLiteral, len(values), fields))
		return s.encodeTabularRows(values, fields, depth+1)
	}

	s.w.push(depth, "- "+s.renderHeader(keyLiteral, len(values), nil))
	for _, item := range values {
		if err := s.encodeListItem(item, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// detectTabular reports whether values is a uniform array of objects with
// identical key sets and primitive-only values, returning the field order of
// the first element. A single divergent element demotes the whole array.
func detectTabular(values []any) ([]string, bool) {
	if len(values) == 0 {
		return nil, false
	}
	first, ok := values[0].(Object)
	if !ok || first.IsEmpty() {
		return nil, false
	}
	fields := make([]string, len(first.Fields))
	fieldSet := make(map[string]struct{}, len(first.Fields))
	for i, field := range first.Fields {
		if !isPrimitive(field.Value) {
			return nil, false
		}
		fields[i] = field.Key
		fieldSet[field.Key] = struct{}{}
	}
	for _, value := range values[1:] {
		obj, ok := value.(Object)
		if !ok || len(obj.Fields) != len(fields) {
			return nil, false
		}
		seen := make(map[string]struct{}, len(fields))
		for _, field := range obj.Fields {
			if _, ok := fieldSet[field.Key]; !ok || !isPrimitive(field.Value) {
				return nil, false
			}
			seen[field.Key] = struct{}{}
		}
		if len(seen) != len(fields) {
			return nil, false
		}
	}
	return fields, true
}

// renderHeader builds "key[N]:" with the optional # marker, non-default
// delimiter symbol, and {f1,f2} field clause.
func (s *encodeState) renderHeader(keyLiteral string, length int, fields []string) string {
	var b strings.Builder
	b.WriteString(keyLiteral)
	b.WriteByte('[')
	if s.cfg.includeLengthMarks {
		b.WriteByte('#')
	}
	b.WriteString(strconv.Itoa(length))
	if s.cfg.delimiter != DelimiterComma {
		b.WriteRune(s.delimiter())
	}
	b.WriteByte(']')
	if len(fields) > 0 {
		b.WriteByte('{')
		for i, field := range fields {
			if i > 0 {
				b.WriteRune(s.delimiter())
			}
			fieldLiteral, _ := formatpkg.EncodeKey(field)
			b.WriteString(fieldLiteral)
		}
		b.WriteByte('}')
	}
	b.WriteByte(':')
	return b.String()
}

func formatPrimitive(value any, delimiter rune) (string, error) {
	switch v := value.(type) {
	case nil:
		return "null", nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return formatFloat(v), nil
	case string:
		return formatpkg.Render(v, delimiter)
	default:
		return "", fmt.Errorf("toon: unsupported primitive %T", value)
	}
}

// formatFloat renders the shortest fixed-notation decimal that round-trips.
// Integral floats keep a trailing .0 so they decode back as floats.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
