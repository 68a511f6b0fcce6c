package adapter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extractionSig() Signature {
	return Signature{
		Name:         "ExtractPerson",
		Instructions: "Extract the person mentioned in the text.",
		Inputs: []Field{
			FD("text", "Source passage", String()),
		},
		Outputs: []Field{
			F("person", ObjectOf(
				FD("name", "Full name", String()),
				F("age", Int()),
			)),
		},
	}
}

func TestFormatSystemMessage(t *testing.T) {
	a := New()
	messages, err := a.Format(extractionSig(), nil, map[string]any{"text": "Alice is 30."})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	system := messages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "Input fields:")
	assert.Contains(t, system.Content, "  text: string - Source passage")
	assert.Contains(t, system.Content, "Output fields:")
	assert.Contains(t, system.Content, "TOON Format (NOT JSON):")
	assert.Contains(t, system.Content, "Output structure:")
	assert.Contains(t, system.Content, "person:")
	assert.Contains(t, system.Content, "# Full name")
	assert.Contains(t, system.Content, "Extract the person mentioned in the text.")

	user := messages[1]
	assert.Equal(t, "user", user.Role)
	assert.Contains(t, user.Content, "text: Alice is 30.")
	assert.True(t, strings.HasSuffix(user.Content, "Provide output in TOON format as shown above."))
}

func TestFormatDefaultInstructions(t *testing.T) {
	sig := extractionSig()
	sig.Instructions = ""
	a := New()
	messages, err := a.Format(sig, nil, map[string]any{"text": "x"})
	require.NoError(t, err)
	assert.Contains(t, messages[0].Content, "Complete the task based on the inputs.")
}

func TestFormatDemosPartition(t *testing.T) {
	sig := extractionSig()
	a := New()

	complete := map[string]any{
		"text":   "Alice is 30.",
		"person": map[string]any{"name": "Alice", "age": 30},
	}
	incomplete := map[string]any{
		"text":   "Bob was there.",
		"person": nil,
	}
	unusable := map[string]any{"text": "no output at all"}

	messages, err := a.Format(sig, []map[string]any{complete, incomplete, unusable}, map[string]any{"text": "q"})
	require.NoError(t, err)
	// system + 2 demo pairs + main request; the unusable demo is dropped.
	require.Len(t, messages, 6)

	assert.Contains(t, messages[1].Content, incompleteDemoPrefix)
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Contains(t, messages[2].Content, missingFieldMessage)

	assert.Contains(t, messages[3].Content, "text: Alice is 30.")
	assert.Equal(t, "assistant", messages[4].Role)
	assert.Contains(t, messages[4].Content, "person:")
	assert.Contains(t, messages[4].Content, "name: Alice")
}

func TestFormatHistoryTypedTurns(t *testing.T) {
	sig := Signature{
		Name: "Chat",
		Inputs: []Field{
			F("question", String()),
			F("history", History()),
		},
		Outputs: []Field{F("answer", String())},
	}
	a := New()

	history := []Turn{
		{
			Inputs:  map[string]any{"question": "first?"},
			Outputs: map[string]any{"answer": "one"},
		},
	}
	messages, err := a.Format(sig, nil, map[string]any{
		"question": "second?",
		"history":  history,
	})
	require.NoError(t, err)
	// system + history pair + main request.
	require.Len(t, messages, 4)
	assert.Equal(t, "user", messages[1].Role)
	assert.Contains(t, messages[1].Content, "question: first?")
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Contains(t, messages[2].Content, "answer: one")
	assert.Contains(t, messages[3].Content, "question: second?")
	assert.NotContains(t, messages[3].Content, "first?")
}

func TestFormatHistoryLegacyTurns(t *testing.T) {
	sig := Signature{
		Name: "Chat",
		Inputs: []Field{
			F("question", String()),
			F("history", History()),
		},
		Outputs: []Field{F("answer", String())},
	}
	a := New()

	messages, err := a.Format(sig, nil, map[string]any{
		"question": "next",
		"history": []map[string]any{
			{"user": "hi", "assistant": "hello"},
		},
	})
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, Message{Role: "user", Content: "hi"}, messages[1])
	assert.Equal(t, Message{Role: "assistant", Content: "hello"}, messages[2])
}

func TestFormatStructuredInputRendersMultiline(t *testing.T) {
	sig := Signature{
		Name:    "Summarize",
		Inputs:  []Field{F("records", ListOf(ObjectOf(F("id", Int()))))},
		Outputs: []Field{F("summary", String())},
	}
	a := New()
	messages, err := a.Format(sig, nil, map[string]any{
		"records": []map[string]any{{"id": 1}, {"id": 2}},
	})
	require.NoError(t, err)
	user := messages[len(messages)-1].Content
	assert.Contains(t, user, "records:\n")
	assert.Contains(t, user, "[2]{id}:")
}

type scriptedLM struct {
	response string
	calls    int
	seen     []Message
}

func (lm *scriptedLM) Complete(_ context.Context, messages []Message) (string, error) {
	lm.calls++
	lm.seen = messages
	return lm.response, nil
}

func TestPredict(t *testing.T) {
	sig := Signature{
		Name:    "Classify",
		Inputs:  []Field{F("text", String())},
		Outputs: []Field{F("label", Enum("spam", "ham"))},
	}
	lm := &scriptedLM{response: "label: spam"}
	a := New()

	result, err := a.Predict(context.Background(), lm, sig, nil, map[string]any{"text": "win money now"})
	require.NoError(t, err)
	assert.Equal(t, 1, lm.calls)
	assert.Equal(t, "spam", result["label"])
	require.NotEmpty(t, lm.seen)
	assert.Equal(t, "system", lm.seen[0].Role)
}
