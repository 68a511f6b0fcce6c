package codec

import "strings"

// lineWriter accumulates output lines, caching the indent prefix for each
// depth it has seen. The cache lives for a single encode invocation.
type lineWriter struct {
	lines    []string
	step     string
	prefixes []string
}

// newLineWriter builds a writer for the given indent size. Size zero uses a
// single space per depth so nesting stays visible to the decoder.
func newLineWriter(indentSize int) *lineWriter {
	step := " "
	if indentSize > 0 {
		step = strings.Repeat(" ", indentSize)
	}
	return &lineWriter{
		step:     step,
		prefixes: []string{""},
	}
}

// prefix returns the cached indent string for depth, extending the cache as
// deeper levels appear.
func (w *lineWriter) prefix(depth int) string {
	if depth < 0 {
		depth = 0
	}
	for len(w.prefixes) <= depth {
		w.prefixes = append(w.prefixes, w.prefixes[len(w.prefixes)-1]+w.step)
	}
	return w.prefixes[depth]
}

// push appends a line at the given depth.
func (w *lineWriter) push(depth int, line string) {
	w.lines = append(w.lines, w.prefix(depth)+line)
}

// String joins the accumulated lines.
func (w *lineWriter) String() string {
	return strings.Join(w.lines, "\n")
}
