package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func expectLines(t *testing.T, doc string, want ...string) {
	t.Helper()
	require.Equal(t, strings.Join(want, "\n"), doc)
}

func marshalString(t *testing.T, v any, opts ...EncoderOption) string {
	t.Helper()
	doc, err := MarshalString(v, opts...)
	require.NoError(t, err)
	return doc
}

func TestMarshalSimpleObject(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "name", Value: "Alice"},
		Field{Key: "age", Value: 30},
	))
	expectLines(t, doc,
		"name: Alice",
		"age: 30",
	)
}

func TestMarshalTabularArray(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "users", Value: []any{
			NewObject(Field{Key: "id", Value: 1}, Field{Key: "name", Value: "A"}),
			NewObject(Field{Key: "id", Value: 2}, Field{Key: "name", Value: "B"}),
		}},
	))
	expectLines(t, doc,
		"users[2]{id,name}:",
		"  1,A",
		"  2,B",
	)
}

func TestMarshalInlinePrimitiveArray(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "tags", Value: []string{"red", "green", "blue"}},
	))
	expectLines(t, doc, "tags[3]: red,green,blue")
}

func TestMarshalMixedList(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "items", Value: []any{
			NewObject(
				Field{Key: "k", Value: 1},
				Field{Key: "v", Value: []bool{true, false}},
			),
			"x",
		}},
	))
	expectLines(t, doc,
		"items[2]:",
		"  - k: 1",
		"    v[2]: true,false",
		"  - x",
	)
}

func TestMarshalQuotesDelimiterCollision(t *testing.T) {
	doc := marshalString(t, NewObject(Field{Key: "note", Value: "hello, world"}))
	expectLines(t, doc, `note: "hello, world"`)
}

func TestMarshalEmptyArray(t *testing.T) {
	doc := marshalString(t, NewObject(Field{Key: "items", Value: []any{}}))
	expectLines(t, doc, "items[0]:")
}

func TestMarshalRootArray(t *testing.T) {
	doc := marshalString(t, []any{
		NewObject(Field{Key: "a", Value: 1}),
		"plain",
	})
	expectLines(t, doc,
		"[2]:",
		"  - a: 1",
		"  - plain",
	)
}

func TestMarshalNestedObject(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "outer", Value: NewObject(
			Field{Key: "inner", Value: "v"},
			Field{Key: "deep", Value: NewObject(Field{Key: "leaf", Value: nil})},
		)},
	))
	expectLines(t, doc,
		"outer:",
		"  inner: v",
		"  deep:",
		"    leaf: null",
	)
}

func TestMarshalDelimiterAndLengthMarkers(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "users", Value: []any{
			NewObject(Field{Key: "id", Value: 1}, Field{Key: "name", Value: "Ada"}),
		}},
	), WithDelimiter(DelimiterPipe), WithLengthMarkers(true))
	expectLines(t, doc,
		"users[#1|]{id|name}:",
		"  1|Ada",
	)
}

func TestMarshalTabDelimiter(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "tags", Value: []string{"a", "b"}},
	), WithDelimiter(DelimiterTab))
	expectLines(t, doc, "tags[2\t]: a\tb")
}

func TestMarshalIndentZeroUsesSingleSpace(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "outer", Value: NewObject(Field{Key: "inner", Value: 1})},
	), WithIndent(0))
	expectLines(t, doc,
		"outer:",
		" inner: 1",
	)
}

func TestMarshalPrimitiveFormatting(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"null", nil, "null"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", int64(42), "42"},
		{"negative int", -7, "-7"},
		{"float", 3.14, "3.14"},
		{"integral float keeps point", 2.0, "2.0"},
		{"small float avoids exponent", 0.0000001, "0.0000001"},
		{"string", "plain", "plain"},
		{"numeric-shaped string", "123", `"123"`},
		{"octal-shaped string", "0123", `"0123"`},
		{"literal-shaped string", "True", `"True"`},
		{"escapes", "a\"b\\c\nd", `"a\"b\\c\nd"`},
		{"leading dash", "-x", `"-x"`},
		{"padded", " x ", `" x "`},
		{"empty string", "", `""`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := marshalString(t, NewObject(Field{Key: "v", Value: tc.value}))
			expectLines(t, doc, "v: "+tc.want)
		})
	}
}

func TestMarshalDeterministicBytes(t *testing.T) {
	value := map[string]any{"b": 2, "a": 1, "c": []string{"x", "y"}}
	first := marshalString(t, value)
	second := marshalString(t, value)
	require.Equal(t, first, second)
	expectLines(t, first,
		"a: 1",
		"b: 2",
		"c[2]: x,y",
	)
}

func TestMarshalObjectListItemArrayFirstField(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "buckets", Value: []any{
			NewObject(
				Field{Key: "values", Value: []int{1, 2}},
				Field{Key: "label", Value: "alpha"},
			),
			NewObject(
				Field{Key: "values", Value: []int{3, 4}},
				Field{Key: "label", Value: "beta"},
			),
		}},
	))
	expectLines(t, doc,
		"buckets[2]:",
		"  - values[2]: 1,2",
		"    label: alpha",
		"  - values[2]: 3,4",
		"    label: beta",
	)
}

func TestMarshalNestedAnonymousArray(t *testing.T) {
	doc := marshalString(t, NewObject(
		Field{Key: "events", Value: []any{
			"ready",
			[]string{"nested", "list"},
		}},
	))
	expectLines(t, doc,
		"events[2]:",
		"  - ready",
		"  - [2]: nested,list",
	)
}

func TestMarshalQuotedKeys(t *testing.T) {
	doc := marshalString(t, NewObject(Field{Key: "odd key", Value: 1}))
	expectLines(t, doc, `"odd key": 1`)
}
