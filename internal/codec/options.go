package codec

import (
	"fmt"
	"time"
)

// Delimiter identifies the character used to split values inside array scopes.
type Delimiter rune

const (
	// DelimiterComma is the default delimiter. It is omitted from brackets.
	DelimiterComma Delimiter = ','
	// DelimiterTab uses HTAB for delimiting values.
	DelimiterTab Delimiter = '\t'
	// DelimiterPipe uses the '|' character for delimiting values.
	DelimiterPipe Delimiter = '|'
)

func (d Delimiter) String() string {
	switch d {
	case DelimiterComma:
		return "comma"
	case DelimiterTab:
		return "tab"
	case DelimiterPipe:
		return "pipe"
	default:
		return fmt.Sprintf("delimiter(%q)", rune(d))
	}
}

func (d Delimiter) rune() rune {
	switch d {
	case DelimiterComma, DelimiterTab, DelimiterPipe:
		return rune(d)
	default:
		return ','
	}
}

func validDelimiter(d Delimiter) bool {
	return d == DelimiterComma || d == DelimiterTab || d == DelimiterPipe
}

// EncoderOption mutates encoding behaviour.
type EncoderOption func(*encoderOptions)

type encoderOptions struct {
	indentSize         int
	delimiter          Delimiter
	includeLengthMarks bool
	timeFormatter      func(time.Time) string
}

func defaultEncoderOptions() encoderOptions {
	return encoderOptions{
		indentSize: 2,
		delimiter:  DelimiterComma,
		timeFormatter: func(t time.Time) string {
			return t.UTC().Format(time.RFC3339Nano)
		},
	}
}

// WithIndent configures the number of spaces used per indentation level.
// Zero degrades to one space per depth so structure remains recoverable.
func WithIndent(spaces int) EncoderOption {
	return func(o *encoderOptions) {
		if spaces >= 0 {
			o.indentSize = spaces
		}
	}
}

// WithDelimiter configures the delimiter declared in array headers and used
// to join inline and tabular values.
func WithDelimiter(delimiter Delimiter) EncoderOption {
	return func(o *encoderOptions) {
		if validDelimiter(delimiter) {
			o.delimiter = delimiter
		}
	}
}

// WithLengthMarkers enables emitting optional # markers in array headers.
func WithLengthMarkers(enabled bool) EncoderOption {
	return func(o *encoderOptions) {
		o.includeLengthMarks = enabled
	}
}

// WithTimeFormatter specifies the formatter used for time.Time normalization.
func WithTimeFormatter(formatter func(time.Time) string) EncoderOption {
	return func(o *encoderOptions) {
		if formatter != nil {
			o.timeFormatter = formatter
		}
	}
}

// DecoderOption mutates decoder behaviour.
type DecoderOption func(*decoderOptions)

type decoderOptions struct {
	indentSize int
	strict     bool
}

func defaultDecoderOptions() decoderOptions {
	return decoderOptions{
		indentSize: 2,
		strict:     true,
	}
}

// WithStrictMode toggles the strict-mode diagnostics.
func WithStrictMode(strict bool) DecoderOption {
	return func(o *decoderOptions) {
		o.strict = strict
	}
}

// WithDecoderIndent configures the expected indentation step. Zero makes the
// decoder treat the raw leading-space count as the depth.
func WithDecoderIndent(spaces int) DecoderOption {
	return func(o *decoderOptions) {
		if spaces >= 0 {
			o.indentSize = spaces
		}
	}
}
