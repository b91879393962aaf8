package novaterm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUTF8JoinsWrappedLinesWhenUnwrapped(t *testing.T) {
	pl, err := Init(Config{Cols: 2, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	require.NoError(t, n.page.SetCell(0, 0, Cell{Codepoint: 'a'}))
	require.NoError(t, n.page.SetCell(0, 1, Cell{Codepoint: 'b'}))
	n.page.SetWrap(0, true)
	require.NoError(t, n.page.SetCell(1, 0, Cell{Codepoint: 'c'}))
	n.page.SetWrapContinuation(1, true)

	var wrapped strings.Builder
	require.NoError(t, pl.WriteUTF8(&wrapped, PinAt(n, 0, 0), PinAt(n, 1, 0), false))
	assert.Equal(t, "ab\nc \n", wrapped.String())

	var unwrapped strings.Builder
	require.NoError(t, pl.WriteUTF8(&unwrapped, PinAt(n, 0, 0), PinAt(n, 1, 0), true))
	assert.Equal(t, "abc \n", unwrapped.String())
}

func TestDirtyTrackingRoundTrip(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first

	require.NoError(t, n.page.SetCell(1, 0, Cell{Codepoint: 'x'}))
	assert.True(t, pl.IsDirty(PinAt(n, 1, 0)))
	assert.False(t, pl.IsDirty(PinAt(n, 0, 0)))

	pl.ClearDirty()
	assert.False(t, pl.IsDirty(PinAt(n, 1, 0)))
}

func TestStringDiagramShowsContentAndWrap(t *testing.T) {
	pl, err := Init(Config{Cols: 3, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	require.NoError(t, n.page.SetCell(0, 0, Cell{Codepoint: 'h'}))
	n.page.SetWrap(0, true)

	out := pl.String()
	assert.Contains(t, out, "h..>")
	assert.Contains(t, out, "cols=3 rows=2")
}
