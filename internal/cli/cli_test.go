package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	toon "github.com/thedataquarry/toon-go"
	"github.com/thedataquarry/toon-go/internal/ui"
)

func TestDecodeOrderedJSONPreservesKeyOrder(t *testing.T) {
	value, err := decodeOrderedJSON(strings.NewReader(`{"zebra": 1, "alpha": {"b": 2, "a": 3}, "list": [1, "x"]}`))
	require.NoError(t, err)
	obj, ok := value.(toon.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"zebra", "alpha", "list"}, obj.Keys())

	nested, _ := obj.Get("alpha")
	assert.Equal(t, []string{"b", "a"}, nested.(toon.Object).Keys())
}

func TestDecodeOrderedJSONRejectsTrailingContent(t *testing.T) {
	_, err := decodeOrderedJSON(strings.NewReader(`{"a": 1} trailing`))
	require.Error(t, err)
}

func TestEncodeDecodeCommandsRoundTrip(t *testing.T) {
	out = ui.NewOutput()
	viper.SetDefault("indent", 2)
	viper.SetDefault("delimiter", "comma")
	viper.SetDefault("strict", true)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "in.json")
	toonPath := filepath.Join(dir, "out.toon")
	backPath := filepath.Join(dir, "back.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"name": "Alice", "tags": ["a", "b"], "age": 30}`), 0o644))

	encodeOutput = toonPath
	defer func() { encodeOutput = "" }()
	require.NoError(t, runEncode(encodeCmd, []string{jsonPath}))

	doc, err := os.ReadFile(toonPath)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"name: Alice",
		"tags[2]: a,b",
		"age: 30",
	}, "\n")+"\n", string(doc))

	decodeOutput = backPath
	defer func() { decodeOutput = "" }()
	decodeCompact = true
	defer func() { decodeCompact = false }()
	require.NoError(t, runDecode(decodeCmd, []string{toonPath}))

	back, err := os.ReadFile(backPath)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Alice","tags":["a","b"],"age":30}`+"\n", string(back))
}

func TestResolveDelimiterNames(t *testing.T) {
	encodeCmd.Flags().Set("delimiter", "pipe")
	defer encodeCmd.Flags().Set("delimiter", "")
	assert.Equal(t, toon.DelimiterPipe, resolveDelimiter(encodeCmd, "pipe"))
}

func TestClassifyArray(t *testing.T) {
	inline := []any{int64(1), "x", nil}
	assert.Equal(t, "inline", classifyArray(inline))

	tabular := []any{
		toon.NewObject(toon.Field{Key: "a", Value: int64(1)}),
		toon.NewObject(toon.Field{Key: "a", Value: int64(2)}),
	}
	assert.Equal(t, "tabular", classifyArray(tabular))

	mixed := []any{toon.NewObject(toon.Field{Key: "a", Value: int64(1)}), "x"}
	assert.Equal(t, "mixed", classifyArray(mixed))
}

func TestSavings(t *testing.T) {
	assert.InDelta(t, 50.0, savings(50, 100), 0.01)
	assert.Equal(t, 0.0, savings(10, 0))
}

func TestWalkValueStats(t *testing.T) {
	doc := strings.Join([]string{
		"users[2]{id,name}:",
		"  1,A",
		"  2,B",
		"tags[2]: x,y",
		"meta:",
		"  nested: true",
	}, "\n")
	value, err := toon.DecodeString(doc)
	require.NoError(t, err)

	var stats docStats
	walkValue(value, 0, &stats)
	assert.Equal(t, 1, stats.tabularArrays)
	assert.Equal(t, 1, stats.inlineArrays)
	assert.Equal(t, 0, stats.mixedArrays)
	// Root, the two rows, and meta.
	assert.Equal(t, 4, stats.objects)
}
