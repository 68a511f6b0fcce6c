package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a decode failure.
type ErrorKind string

const (
	// KindMissingColon marks a content line with no unquoted colon.
	KindMissingColon ErrorKind = "missing_colon"
	// KindUnterminatedString marks an unclosed double-quoted span.
	KindUnterminatedString ErrorKind = "unterminated_string"
	// KindInvalidEscape marks a backslash sequence outside the escape alphabet.
	KindInvalidEscape ErrorKind = "invalid_escape"
	// KindUnterminatedFields marks a malformed {…} clause in an array header.
	KindUnterminatedFields ErrorKind = "unterminated_fields"
	// KindLengthMismatch marks an element count that disagrees with the header.
	KindLengthMismatch ErrorKind = "length_mismatch"
	// KindRowWidthMismatch marks a tabular row whose token count disagrees
	// with the header's field clause.
	KindRowWidthMismatch ErrorKind = "row_width_mismatch"
	// KindUnexpectedBlank marks a blank line inside an array body.
	KindUnexpectedBlank ErrorKind = "unexpected_blank"
	// KindBadIndent marks indentation that is not a multiple of the indent
	// size, or a tab used as indentation.
	KindBadIndent ErrorKind = "bad_indent"
	// KindDuplicateKey marks a key repeated within one object.
	KindDuplicateKey ErrorKind = "duplicate_key"
	// KindSyntax covers malformed headers, keys, and tokens not classified
	// above.
	KindSyntax ErrorKind = "syntax"
)

// DecodeError reports a decode failure with the offending line.
type DecodeError struct {
	Kind    ErrorKind
	Line    int
	Content string
	msg     string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("toon: line %d: %s", e.Line, e.msg)
}

// AsDecodeError unwraps err into a *DecodeError when possible.
func AsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

func errorAt(kind ErrorKind, line parsedLine, msg string) error {
	return &DecodeError{Kind: kind, Line: line.number, Content: line.content, msg: msg}
}

func errorAtf(kind ErrorKind, line parsedLine, format string, args ...any) error {
	return errorAt(kind, line, fmt.Sprintf(format, args...))
}

// errorWrap attaches line context to err, classifying the lexical failures
// raised by the parse package by message shape. Already-classified errors
// pass through untouched.
func errorWrap(line parsedLine, err error) error {
	if err == nil {
		return nil
	}
	if de, ok := AsDecodeError(err); ok {
		if de.Line == 0 {
			de.Line = line.number
			de.Content = line.content
		}
		return de
	}
	return errorAt(classify(err), line, err.Error())
}

func classify(err error) ErrorKind {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unterminated string"), strings.Contains(msg, "unterminated escape"):
		return KindUnterminatedString
	case strings.Contains(msg, "invalid escape"):
		return KindInvalidEscape
	case strings.Contains(msg, "missing colon"):
		return KindMissingColon
	default:
		return KindSyntax
	}
}
