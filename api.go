// Package toon implements the Token-Oriented Object Notation (TOON) encoder
// and decoder. TOON is a compact, human-readable, indent-structured
// serialization format for data that would otherwise be JSON, built to reduce
// token counts when structured data moves into and out of language models.
// The package exposes a small public API while keeping implementation details
// inside internal packages; the adapter subpackage layers typed schemas and
// response parsing for LLM workflows on top of the codec.
package toon

import (
	"time"

	"github.com/thedataquarry/toon-go/internal/codec"
)

// Delimiter identifies the character used to split values inside array scopes.
type Delimiter = codec.Delimiter

const (
	// DelimiterComma is the default delimiter. It is omitted from brackets.
	DelimiterComma = codec.DelimiterComma
	// DelimiterTab uses HTAB for delimiting values.
	DelimiterTab = codec.DelimiterTab
	// DelimiterPipe uses the '|' character for delimiting values.
	DelimiterPipe = codec.DelimiterPipe
)

// EncoderOption mutates encoding behaviour.
type EncoderOption = codec.EncoderOption

// DecoderOption mutates decoder behaviour.
type DecoderOption = codec.DecoderOption

// Field represents a single key/value pair in an ordered object.
type Field = codec.Field

// Object preserves the encounter order of its fields. The encoder emits
// fields in this order; the decoder returns objects as Object so key order
// survives a round trip.
type Object = codec.Object

// NewObject constructs an ordered Object from the provided key/value pairs.
func NewObject(fields ...Field) Object {
	return codec.NewObject(fields...)
}

// Encoder serializes Go values as TOON documents.
type Encoder = codec.Encoder

// NewEncoder constructs an Encoder using the supplied options.
func NewEncoder(opts ...EncoderOption) *Encoder {
	return codec.NewEncoder(opts...)
}

// Marshal renders v into a TOON document using a temporary encoder.
func Marshal(v any, opts ...EncoderOption) ([]byte, error) {
	return codec.Marshal(v, opts...)
}

// MarshalString renders v as a TOON document string.
func MarshalString(v any, opts ...EncoderOption) (string, error) {
	return codec.MarshalString(v, opts...)
}

// WithIndent configures the number of spaces used per indentation level.
// Zero degrades to one space per depth so structure remains recoverable.
func WithIndent(spaces int) EncoderOption {
	return codec.WithIndent(spaces)
}

// WithDelimiter configures the delimiter declared in array headers and used
// to join inline and tabular values.
func WithDelimiter(delimiter Delimiter) EncoderOption {
	return codec.WithDelimiter(delimiter)
}

// WithLengthMarkers enables emitting optional # markers in array headers.
func WithLengthMarkers(enabled bool) EncoderOption {
	return codec.WithLengthMarkers(enabled)
}

// WithTimeFormatter specifies the formatter used for time.Time normalization.
// The default renders UTC RFC 3339 with nanoseconds.
func WithTimeFormatter(formatter func(time.Time) string) EncoderOption {
	return codec.WithTimeFormatter(formatter)
}

// Decoder parses TOON documents into Go values. Objects decode to Object,
// arrays to []any, numbers to int64 or float64, strings per the unescaping
// rules.
type Decoder = codec.Decoder

// NewDecoder constructs a Decoder with the given options.
func NewDecoder(opts ...DecoderOption) *Decoder {
	return codec.NewDecoder(opts...)
}

// Decode parses the provided TOON document using a temporary decoder.
func Decode(data []byte, opts ...DecoderOption) (any, error) {
	return codec.Decode(data, opts...)
}

// DecodeString parses a TOON document string using a temporary decoder.
func DecodeString(s string, opts ...DecoderOption) (any, error) {
	return codec.DecodeString(s, opts...)
}

// WithStrictMode toggles the strict-mode diagnostics: exact length agreement,
// no blank lines inside array bodies, unique keys, and indent validation.
func WithStrictMode(strict bool) DecoderOption {
	return codec.WithStrictMode(strict)
}

// WithDecoderIndent configures the expected indentation step. Zero makes the
// decoder treat the raw leading-space count as the depth.
func WithDecoderIndent(spaces int) DecoderOption {
	return codec.WithDecoderIndent(spaces)
}

// Unmarshal decodes the TOON document in data into v, which must be a non-nil
// pointer. Struct fields use `toon` struct tags for naming and omitempty
// semantics, mirroring Marshal behaviour.
func Unmarshal(data []byte, v any, opts ...DecoderOption) error {
	return codec.Unmarshal(data, v, opts...)
}

// UnmarshalString decodes the TOON document in s into v.
func UnmarshalString(s string, v any, opts ...DecoderOption) error {
	return codec.UnmarshalString(s, v, opts...)
}

// ErrorKind classifies a decode failure.
type ErrorKind = codec.ErrorKind

// Decode failure kinds. Each DecodeError carries one of these plus the
// offending line number and content.
const (
	KindMissingColon       = codec.KindMissingColon
	KindUnterminatedString = codec.KindUnterminatedString
	KindInvalidEscape      = codec.KindInvalidEscape
	KindUnterminatedFields = codec.KindUnterminatedFields
	KindLengthMismatch     = codec.KindLengthMismatch
	KindRowWidthMismatch   = codec.KindRowWidthMismatch
	KindUnexpectedBlank    = codec.KindUnexpectedBlank
	KindBadIndent          = codec.KindBadIndent
	KindDuplicateKey       = codec.KindDuplicateKey
	KindSyntax             = codec.KindSyntax
)

// DecodeError reports a decode failure with the offending line.
type DecodeError = codec.DecodeError

// AsDecodeError unwraps err into a *DecodeError when possible.
func AsDecodeError(err error) (*DecodeError, bool) {
	return codec.AsDecodeError(err)
}
