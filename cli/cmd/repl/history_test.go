package repl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_WriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	require.NoError(t, h.Load(), "missing file is not an error")

	for _, line := range []string{"A.B", "  ", "C.D", "C.D", "A.B"} {
		require.NoError(t, h.Write(line))
	}

	require.Equal(t, 2, h.Len())

	first, err := h.Line(0)
	require.NoError(t, err)
	assert.Equal(t, "C.D", first)

	_, err = h.Line(2)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "C.D\nA.B\n", string(data))

	reloaded := NewHistory(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.Len())
}

func TestHistory_MemoryOnly(t *testing.T) {
	h := NewHistory("")

	require.NoError(t, h.Load())
	require.NoError(t, h.Write("X"))
	assert.Equal(t, 1, h.Len())
}
