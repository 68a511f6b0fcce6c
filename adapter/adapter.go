package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	toon "github.com/thedataquarry/toon-go"
)

// formatRules is the anti-JSON instruction block embedded in every prompt.
const formatRules = `TOON Format (NOT JSON):
- Simple values: key: value (booleans: true/false)
- Primitive arrays: field[COUNT]: item1,item2,item3  (single line, comma-separated; replace COUNT)
- Tabular arrays for objects:
  [COUNT]{field1,field2}:
    value1,value2
    value3,value4
  (COUNT is the actual number of rows)
- Empty/none values: use ` + "`field: null`" + ` (no [COUNT]) when there are no items or the value is absent
- No JSON braces/brackets, code fences, or dashes for primitive arrays
- Do not wrap output in JSON or YAML; emit plain TOON only`

// incompleteDemoPrefix introduces few-shot examples with missing fields.
const incompleteDemoPrefix = "This is an example of the task, though some input or output fields are not supplied."

// missingFieldMessage stands in for absent outputs in incomplete demos.
const missingFieldMessage = "Not supplied for this particular example."

// Adapter formats prompts in TOON and parses TOON completions. The zero
// value is usable; New applies options.
type Adapter struct {
	logger zerolog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger installs the logger that receives debug records for swallowed
// sub-parser failures. The default discards them.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// New constructs an Adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Format renders the full message sequence for one call: a system message
// carrying field descriptions, the TOON structure block, and the task
// instructions; then demos, flattened history, and the main request.
func (a *Adapter) Format(sig Signature, demos []map[string]any, inputs map[string]any) ([]Message, error) {
	var messages []Message
	messages = append(messages, Message{Role: "system", Content: a.systemContent(sig)})

	messages = append(messages, a.formatDemos(sig, demos)...)

	inputs = cloneInputs(inputs)
	if historyName, ok := sig.historyField(); ok {
		history := a.formatHistory(sig, historyName, inputs)
		messages = append(messages, history...)
	}

	main := a.userMessageContent(sig, inputs, "", true)
	messages = append(messages, Message{Role: "user", Content: main})
	return messages, nil
}

func (a *Adapter) systemContent(sig Signature) string {
	sections := []string{
		a.fieldDescriptions(sig),
		a.fieldStructure(sig),
		a.taskDescription(sig),
	}
	return strings.Join(sections, "\n\n")
}

// fieldDescriptions lists every declared input and output with its type
// rendering and documentation.
func (a *Adapter) fieldDescriptions(sig Signature) string {
	var sections []string

	if len(sig.Inputs) > 0 {
		sections = append(sections, "Input fields:")
		for _, field := range sig.Inputs {
			desc := ""
			if field.Desc != "" {
				desc = " - " + field.Desc
			}
			sections = append(sections, fmt.Sprintf("  %s: %s%s", field.Name, renderType(field.Type, 0, ""), desc))
		}
	}

	if len(sig.Outputs) > 0 {
		sections = append(sections, "\nOutput fields:")
		for _, field := range sig.Outputs {
			desc := ""
			if field.Desc != "" {
				desc = " - " + field.Desc
			}
			sections = append(sections, fmt.Sprintf("  %s: %s%s", field.Name, renderType(field.Type, 0, ""), desc))
		}
	}

	return strings.Join(sections, "\n")
}

// fieldStructure renders the format rules and the per-output structure block.
func (a *Adapter) fieldStructure(sig Signature) string {
	sections := []string{formatRules, "", "Output structure:"}
	for _, field := range sig.Outputs {
		sections = append(sections, outputSchema(field))
	}
	return strings.Join(sections, "\n")
}

func (a *Adapter) taskDescription(sig Signature) string {
	if sig.Instructions != "" {
		return sig.Instructions
	}
	return "Complete the task based on the inputs."
}

// formatDemos partitions few-shot examples into complete demos (all fields
// present and non-nil) and incomplete ones (at least one input and one
// output). Incomplete demos come first, behind a disclaimer.
func (a *Adapter) formatDemos(sig Signature, demos []map[string]any) []Message {
	var complete, incomplete []map[string]any

	for _, demo := range demos {
		if demoComplete(sig, demo) {
			complete = append(complete, demo)
			continue
		}
		if demoUsable(sig, demo) {
			incomplete = append(incomplete, demo)
		}
	}

	var messages []Message
	for _, demo := range incomplete {
		messages = append(messages,
			Message{Role: "user", Content: a.userMessageContent(sig, demo, incompleteDemoPrefix, false)},
			Message{Role: "assistant", Content: a.assistantMessageContent(sig, demo, missingFieldMessage)},
		)
	}
	for _, demo := range complete {
		messages = append(messages,
			Message{Role: "user", Content: a.userMessageContent(sig, demo, "", false)},
			Message{Role: "assistant", Content: a.assistantMessageContent(sig, demo, "")},
		)
	}
	return messages
}

func demoComplete(sig Signature, demo map[string]any) bool {
	for _, field := range append(append([]Field(nil), sig.Inputs...), sig.Outputs...) {
		if field.Type.Kind == KindHistory {
			continue
		}
		value, ok := demo[field.Name]
		if !ok || value == nil {
			return false
		}
	}
	return true
}

func demoUsable(sig Signature, demo map[string]any) bool {
	hasInput := false
	for _, field := range sig.Inputs {
		if _, ok := demo[field.Name]; ok {
			hasInput = true
			break
		}
	}
	hasOutput := false
	for _, field := range sig.Outputs {
		if _, ok := demo[field.Name]; ok {
			hasOutput = true
			break
		}
	}
	return hasInput && hasOutput
}

// formatHistory flattens the history input into alternating user/assistant
// messages and removes it from inputs. Typed turns render through the
// signature; legacy {"user": …, "assistant": …} maps pass through as text.
func (a *Adapter) formatHistory(sig Signature, historyName string, inputs map[string]any) []Message {
	value, ok := inputs[historyName]
	delete(inputs, historyName)
	if !ok || value == nil {
		return nil
	}

	var messages []Message
	appendTurn := func(turn Turn) {
		messages = append(messages,
			Message{Role: "user", Content: a.userMessageContent(sig, turn.Inputs, "", false)},
			Message{Role: "assistant", Content: a.assistantMessageContent(sig, turn.Outputs, "")},
		)
	}

	switch history := value.(type) {
	case []Turn:
		for _, turn := range history {
			appendTurn(turn)
		}
	case []map[string]any:
		for _, legacy := range history {
			messages = append(messages, legacyTurnMessages(legacy)...)
		}
	case []any:
		for _, item := range history {
			switch turn := item.(type) {
			case Turn:
				appendTurn(turn)
			case map[string]any:
				messages = append(messages, legacyTurnMessages(turn)...)
			default:
				a.logger.Debug().Str("field", historyName).Msgf("skipping history item of type %T", item)
			}
		}
	default:
		a.logger.Debug().Str("field", historyName).Msgf("unexpected history format %T", value)
	}
	return messages
}

func legacyTurnMessages(turn map[string]any) []Message {
	var messages []Message
	if user, ok := turn["user"]; ok {
		messages = append(messages, Message{Role: "user", Content: fmt.Sprint(user)})
	}
	if assistant, ok := turn["assistant"]; ok {
		messages = append(messages, Message{Role: "assistant", Content: fmt.Sprint(assistant)})
	}
	return messages
}

// userMessageContent renders the declared inputs present in values.
// Multi-line encodings hang under "name:"; mainRequest appends the closing
// instruction line.
func (a *Adapter) userMessageContent(sig Signature, values map[string]any, prefix string, mainRequest bool) string {
	var parts []string
	if prefix != "" {
		parts = append(parts, prefix)
	}

	for _, field := range sig.Inputs {
		if field.Type.Kind == KindHistory {
			continue
		}
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		encoded, multiline := a.encodeValue(value)
		if multiline {
			parts = append(parts, field.Name+":\n"+encoded)
		} else {
			parts = append(parts, field.Name+": "+encoded)
		}
	}

	if mainRequest {
		parts = append(parts, "Provide output in TOON format as shown above.")
	}
	return strings.Join(parts, "\n\n")
}

// assistantMessageContent renders the declared outputs present in values,
// substituting missing for absent or nil fields when non-empty.
func (a *Adapter) assistantMessageContent(sig Signature, values map[string]any, missing string) string {
	var parts []string
	for _, field := range sig.Outputs {
		value, ok := values[field.Name]
		if !ok || value == nil {
			if missing == "" {
				continue
			}
			value = missing
		}
		encoded, multiline := a.encodeValue(value)
		if multiline {
			parts = append(parts, field.Name+":\n"+encoded)
		} else {
			parts = append(parts, field.Name+": "+encoded)
		}
	}
	return strings.Join(parts, "\n")
}

// encodeValue renders one field value for embedding in a message. Structured
// values go through the TOON encoder; scalars print bare.
func (a *Adapter) encodeValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "null", false
	case string:
		return v, strings.Contains(v, "\n")
	case bool, int, int64, float64:
		return fmt.Sprint(v), false
	}
	encoded, err := toon.MarshalString(value)
	if err != nil {
		a.logger.Debug().Err(err).Msg("value encoding failed, falling back to print")
		return fmt.Sprint(value), false
	}
	return encoded, strings.Contains(encoded, "\n") || structured(value)
}

func structured(value any) bool {
	switch value.(type) {
	case toon.Object, map[string]any, []any, []string, []int, []float64:
		return true
	default:
		return false
	}
}

// Predict composes Format, the LM call, and Parse.
func (a *Adapter) Predict(ctx context.Context, lm LM, sig Signature, demos []map[string]any, inputs map[string]any) (map[string]any, error) {
	messages, err := a.Format(sig, demos, inputs)
	if err != nil {
		return nil, err
	}
	completion, err := lm.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}
	return a.Parse(sig, completion)
}

func cloneInputs(inputs map[string]any) map[string]any {
	clone := make(map[string]any, len(inputs))
	for k, v := range inputs {
		clone[k] = v
	}
	return clone
}
