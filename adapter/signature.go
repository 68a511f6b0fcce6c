// Package adapter turns typed field descriptions into TOON-formatted prompts
// and parses LLM completions back into typed values. It produces a schema
// block that shows the model the exact TOON shape to emit, shapes the
// surrounding messages (few-shot demos, conversation history, the main
// request), and recovers structured output from noisy completions through a
// staged fallback chain ending in JSON.
package adapter

import "context"

// Kind discriminates the type descriptors a signature field can carry.
type Kind int

const (
	// KindString is a free-form string field.
	KindString Kind = iota
	// KindInt is an integer field.
	KindInt
	// KindFloat is a floating-point field.
	KindFloat
	// KindBool is a boolean field.
	KindBool
	// KindAny accepts any decoded value unchanged.
	KindAny
	// KindEnum restricts a string field to a fixed value set.
	KindEnum
	// KindObject is a nested object with its own field list.
	KindObject
	// KindList is an array of a single element type.
	KindList
	// KindHistory marks the input field that carries prior conversation
	// turns. At most one input may use it.
	KindHistory
)

// Type describes the shape of a signature field. Descriptors nest through
// Elem (lists) and Fields (objects).
type Type struct {
	Kind     Kind
	Nullable bool
	Enum     []string
	Elem     *Type
	Fields   []Field
}

// Field pairs a name with its type and optional documentation.
type Field struct {
	Name string
	Desc string
	Type Type
}

// Signature declares the typed interface of one LLM task: what goes in, what
// must come out, and the task instructions shown to the model.
type Signature struct {
	Name         string
	Instructions string
	Inputs       []Field
	Outputs      []Field
}

// Constructors keep signature declarations compact at call sites.

// String returns a string type descriptor.
func String() Type { return Type{Kind: KindString} }

// Int returns an integer type descriptor.
func Int() Type { return Type{Kind: KindInt} }

// Float returns a float type descriptor.
func Float() Type { return Type{Kind: KindFloat} }

// Bool returns a boolean type descriptor.
func Bool() Type { return Type{Kind: KindBool} }

// Any returns a descriptor that passes decoded values through unchanged.
func Any() Type { return Type{Kind: KindAny} }

// Enum returns a string descriptor restricted to the given values.
func Enum(values ...string) Type { return Type{Kind: KindEnum, Enum: values} }

// ListOf returns an array descriptor with the given element type.
func ListOf(elem Type) Type { return Type{Kind: KindList, Elem: &elem} }

// ObjectOf returns a nested-object descriptor with the given fields.
func ObjectOf(fields ...Field) Type { return Type{Kind: KindObject, Fields: fields} }

// History returns the conversation-history marker type.
func History() Type { return Type{Kind: KindHistory} }

// Nullable marks t as accepting null.
func Nullable(t Type) Type {
	t.Nullable = true
	return t
}

// F builds a field without documentation.
func F(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// FD builds a documented field.
func FD(name, desc string, t Type) Field {
	return Field{Name: name, Desc: desc, Type: t}
}

// Message is one chat turn handed to the LM collaborator.
type Message struct {
	Role    string
	Content string
}

// Turn is one prior exchange in a typed conversation history: the input and
// output field values of an earlier call.
type Turn struct {
	Inputs  map[string]any
	Outputs map[string]any
}

// LM is the language-model collaborator. Implementations perform the actual
// inference call; the adapter never does I/O itself.
type LM interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// fieldNames returns the names of fields in order.
func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// findField locates a field by name.
func findField(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// historyField returns the name of the input marked as history, if any.
func (s Signature) historyField() (string, bool) {
	for _, f := range s.Inputs {
		if f.Type.Kind == KindHistory {
			return f.Name, true
		}
	}
	return "", false
}

// isListType reports whether t is a list or a nullable list.
func isListType(t Type) bool {
	return t.Kind == KindList
}
