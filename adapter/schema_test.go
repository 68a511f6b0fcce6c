package adapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderScalarTypes(t *testing.T) {
	assert.Equal(t, "string", renderType(String(), 0, ""))
	assert.Equal(t, "int", renderType(Int(), 0, ""))
	assert.Equal(t, "float", renderType(Float(), 0, ""))
	assert.Equal(t, "boolean", renderType(Bool(), 0, ""))
	assert.Equal(t, `"a" or "b" or "c"`, renderType(Enum("a", "b", "c"), 0, ""))
	assert.Equal(t, "string or null", renderType(Nullable(String()), 0, ""))
	assert.Equal(t, `"x" or "y" or null`, renderType(Nullable(Enum("x", "y")), 0, ""))
}

func TestRenderPrimitiveList(t *testing.T) {
	rendered := renderType(ListOf(String()), 0, "tags")
	assert.Equal(t, "tags[COUNT]: string,... (COUNT = num items)", rendered)
}

func TestRenderObjectList(t *testing.T) {
	rendered := renderType(ListOf(ObjectOf(F("id", Int()), F("name", String()))), 0, "users")
	lines := strings.Split(rendered, "\n")
	assert.Equal(t, "users[COUNT]{id,name}:", lines[0])
	assert.Equal(t, "  value1,value2,...", lines[1])
}

func TestRenderNullableListWrapsWholeRendering(t *testing.T) {
	rendered := renderType(Nullable(ListOf(String())), 0, "tags")
	assert.True(t, strings.HasSuffix(rendered, " or null"))
	assert.Equal(t, 1, strings.Count(rendered, "or null"))
}

func TestBuildObjectSchemaWithDescriptions(t *testing.T) {
	schema := buildObjectSchema([]Field{
		FD("name", "Full name", String()),
		F("age", Int()),
	}, 0)
	assert.Equal(t, strings.Join([]string{
		"# Full name",
		"name: string",
		"age: int",
	}, "\n"), schema)
}

func TestBuildObjectSchemaNestedList(t *testing.T) {
	schema := buildObjectSchema([]Field{
		F("label", String()),
		F("tags", ListOf(String())),
	}, 0)
	assert.Equal(t, strings.Join([]string{
		"label: string",
		"tags[COUNT]: string,... (COUNT = num items)",
	}, "\n"), schema)
}

func TestOutputSchemaTabular(t *testing.T) {
	schema := outputSchema(F("entities", ListOf(ObjectOf(
		F("name", String()),
		F("type", Enum("ORG", "PER")),
	))))
	assert.Equal(t, strings.Join([]string{
		"entities[2]{name,type}:",
		"  name1,ORG",
		"  name2,PER",
		"(Replace 2 with actual count, add one row per item)",
	}, "\n"), schema)
}

func TestOutputSchemaObject(t *testing.T) {
	schema := outputSchema(F("person", ObjectOf(
		FD("name", "Full name", String()),
		F("age", Int()),
	)))
	assert.Equal(t, strings.Join([]string{
		"person:",
		"  # Full name",
		"  name: string",
		"  age: int",
	}, "\n"), schema)
}

func TestOutputSchemaPrimitiveList(t *testing.T) {
	assert.Equal(t, "tags[COUNT]: value1,value2,value3", outputSchema(F("tags", ListOf(String()))))
}

func TestOutputSchemaScalar(t *testing.T) {
	assert.Equal(t, "verdict: boolean", outputSchema(F("verdict", Bool())))
	assert.Equal(t, "score: float or null", outputSchema(F("score", Nullable(Float()))))
}
