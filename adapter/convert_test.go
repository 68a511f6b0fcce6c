package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	toon "github.com/thedataquarry/toon-go"
)

func TestCoerceScalars(t *testing.T) {
	a := New()
	assert.Equal(t, int64(3), a.coerce(3.0, Int()))
	assert.Equal(t, int64(3), a.coerce("3", Int()))
	assert.Equal(t, 3.0, a.coerce(int64(3), Float()))
	assert.Equal(t, 2.5, a.coerce("2.5", Float()))
	assert.Equal(t, true, a.coerce("True", Bool()))
	assert.Equal(t, false, a.coerce("false", Bool()))
	assert.Nil(t, a.coerce(nil, String()))
	assert.Equal(t, "keep", a.coerce("keep", Enum("keep", "drop")))
}

func TestCoerceListFromString(t *testing.T) {
	a := New()
	assert.Equal(t, []any{"a", "b", "c"}, a.coerce("a, b, c", ListOf(String())))
	assert.Equal(t, []any{int64(1), int64(2)}, a.coerce("1,2", ListOf(Int())))
}

func TestCoerceObjectFromOrdered(t *testing.T) {
	a := New()
	obj := toon.NewObject(
		toon.Field{Key: "age", Value: "30"},
		toon.Field{Key: "extra", Value: "kept"},
	)
	coerced := a.coerce(obj, ObjectOf(F("age", Int()))).(map[string]any)
	assert.Equal(t, int64(30), coerced["age"])
	assert.Equal(t, "kept", coerced["extra"])
}

func TestBindToStruct(t *testing.T) {
	type person struct {
		Name string `toon:"name"`
		Age  int    `toon:"age"`
	}
	var p person
	require.NoError(t, Bind(map[string]any{"name": "Alice", "age": int64(30)}, &p))
	assert.Equal(t, person{Name: "Alice", Age: 30}, p)
}

func TestBindNestedOrderedObjects(t *testing.T) {
	type address struct {
		City string `toon:"city"`
	}
	type person struct {
		Name    string  `toon:"name"`
		Address address `toon:"address"`
	}
	values := map[string]any{
		"name": "Ada",
		"address": toon.NewObject(
			toon.Field{Key: "city", Value: "London"},
		),
	}
	var p person
	require.NoError(t, Bind(values, &p))
	assert.Equal(t, "London", p.Address.City)
}

func TestBindWeakTyping(t *testing.T) {
	type doc struct {
		Count int  `toon:"count"`
		Flag  bool `toon:"flag"`
	}
	var d doc
	require.NoError(t, Bind(map[string]any{"count": "5", "flag": "true"}, &d))
	assert.Equal(t, doc{Count: 5, Flag: true}, d)
}
