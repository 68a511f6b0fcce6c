package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSafeUnquoted(t *testing.T) {
	cases := []struct {
		s    string
		want bool
	}{
		{"plain", true},
		{"two words", true},
		{"Ünïcödé", true},
		{"", false},
		{" padded", false},
		{"padded ", false},
		{"true", false},
		{"False", false},
		{"NULL", false},
		{"123", false},
		{"-1.5", false},
		{"1e9", false},
		{"0123", false},
		{"has:colon", false},
		{`has"quote`, false},
		{`back\slash`, false},
		{"bracket[", false},
		{"brace}", false},
		{"new\nline", false},
		{"tab\there", false},
		{"-dash", false},
		{"comma,inside", false},
	}
	for _, tc := range cases {
		t.Run(tc.s, func(t *testing.T) {
			assert.Equal(t, tc.want, IsSafeUnquoted(tc.s, ','), "%q", tc.s)
		})
	}
}

func TestIsSafeUnquotedDelimiterSensitivity(t *testing.T) {
	assert.False(t, IsSafeUnquoted("a|b", '|'))
	assert.True(t, IsSafeUnquoted("a|b", ','))
	assert.True(t, IsSafeUnquoted("a,b", '|'))
}

func TestLooksNumeric(t *testing.T) {
	numeric := []string{"0", "7", "-7", "+7", "3.14", "-0.5", "1e9", "1E-9", "2.5e+10"}
	for _, s := range numeric {
		assert.True(t, LooksNumeric(s), "%q", s)
	}
	textual := []string{"", "-", ".", "1.", ".5", "e9", "1e", "1e+", "12a", "--1", "1.2.3"}
	for _, s := range textual {
		assert.False(t, LooksNumeric(s), "%q", s)
	}
}

func TestHasLeadingZeroDigits(t *testing.T) {
	assert.True(t, HasLeadingZeroDigits("012"))
	assert.True(t, HasLeadingZeroDigits("-012"))
	assert.False(t, HasLeadingZeroDigits("0"))
	assert.False(t, HasLeadingZeroDigits("0.5"))
	assert.False(t, HasLeadingZeroDigits("10"))
}

func TestQuote(t *testing.T) {
	quoted, err := Quote("a\"b\\c\nd\re\tf")
	require.NoError(t, err)
	assert.Equal(t, `"a\"b\\c\nd\re\tf"`, quoted)

	_, err = Quote("bell\x07")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	rendered, err := Render("plain", ',')
	require.NoError(t, err)
	assert.Equal(t, "plain", rendered)

	rendered, err = Render("a,b", ',')
	require.NoError(t, err)
	assert.Equal(t, `"a,b"`, rendered)
}

func TestKeyRules(t *testing.T) {
	valid := []string{"a", "_x", "camelCase", "with.dots", "mixed_1.b"}
	for _, key := range valid {
		assert.True(t, IsValidUnquotedKey(key), "%q", key)
	}
	invalid := []string{"", "1leading", "with space", "da-sh", "k:v"}
	for _, key := range invalid {
		assert.False(t, IsValidUnquotedKey(key), "%q", key)
	}

	encoded, err := EncodeKey("plain.key")
	require.NoError(t, err)
	assert.Equal(t, "plain.key", encoded)

	encoded, err = EncodeKey("odd key")
	require.NoError(t, err)
	assert.Equal(t, `"odd key"`, encoded)
}
