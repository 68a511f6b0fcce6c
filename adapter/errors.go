package adapter

import (
	"fmt"
	"strings"
)

// ParseError reports a completion that could not be mapped onto the declared
// output fields after every fallback stage. It carries the raw response so
// callers can log it or re-prompt.
type ParseError struct {
	Adapter   string
	Signature Signature
	Response  string
	Partial   map[string]any
}

func (e *ParseError) Error() string {
	missing := make([]string, 0, len(e.Signature.Outputs))
	for _, field := range e.Signature.Outputs {
		if _, ok := e.Partial[field.Name]; !ok {
			missing = append(missing, field.Name)
		}
	}
	return fmt.Sprintf("adapter %s: failed to parse fields [%s] from response (%d bytes)",
		e.Adapter, strings.Join(missing, ", "), len(e.Response))
}
