package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineWriterIndents(t *testing.T) {
	w := newLineWriter(2)
	w.push(0, "a:")
	w.push(1, "b: 1")
	w.push(2, "c: 2")
	w.push(1, "d: 3")
	require.Equal(t, "a:\n  b: 1\n    c: 2\n  d: 3", w.String())
}

func TestLineWriterZeroIndentUsesSingleSpace(t *testing.T) {
	w := newLineWriter(0)
	w.push(0, "a:")
	w.push(3, "b")
	require.Equal(t, "a:\n   b", w.String())
}

func TestLineWriterPrefixCacheGrows(t *testing.T) {
	w := newLineWriter(4)
	require.Equal(t, "", w.prefix(0))
	require.Equal(t, "            ", w.prefix(3))
	require.Equal(t, "    ", w.prefix(1))
}
