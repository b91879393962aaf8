package novaterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novaterm/internal/cellpage"
)

func writeLine(t *testing.T, n *Node, y int, s string) {
	t.Helper()
	for x, r := range s {
		require.NoError(t, n.page.SetCell(y, x, Cell{Codepoint: r}))
	}
	n.page.SetWrap(y, false)
}

func TestReflowMoreColsUnwrapsLine(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	writeLine(t, n, 0, "abcd")
	n.page.SetWrap(0, true)
	writeLine(t, n, 1, "ef")
	n.page.SetWrapContinuation(1, true)

	require.NoError(t, pl.Reflow(8, nil))
	assert.Equal(t, 8, pl.Cols())
	assert.GreaterOrEqual(t, pl.TotalRows(), pl.Rows())

	first := pl.nodes.first
	assert.False(t, first.page.Wrap(0))
	for i, want := range "abcdef" {
		c, err := first.page.Cell(0, i)
		require.NoError(t, err)
		assert.Equal(t, want, c.Codepoint)
	}
}

func TestReflowFewerColsWrapsLine(t *testing.T) {
	pl, err := Init(Config{Cols: 8, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	writeLine(t, n, 0, "abcd")

	require.NoError(t, pl.Reflow(2, nil))
	assert.Equal(t, 2, pl.Cols())

	first := pl.nodes.first
	assert.True(t, first.page.Wrap(0))
	assert.True(t, first.page.WrapContinuation(1))
}

func TestReflowRetargetsTrackedPin(t *testing.T) {
	pl, err := Init(Config{Cols: 8, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	writeLine(t, n, 0, "abcd")

	p := pl.TrackPin(PinAt(n, 0, 3))
	require.NoError(t, pl.Reflow(2, nil))

	y, x, ok := pl.PointFromPin(TagScreen, p)
	require.True(t, ok)
	assert.Equal(t, 1, y)
	assert.Equal(t, 1, x)
}

func TestReflowNoopWhenColsUnchanged(t *testing.T) {
	pl, err := Init(Config{Cols: 8, Rows: 2})
	require.NoError(t, err)
	before := pl.nodes.first
	require.NoError(t, pl.Reflow(8, nil))
	assert.Equal(t, before, pl.nodes.first)
}

func TestReflowFewerColsRewrapsEachLogicalLine(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	writeLine(t, n, 0, "0123")
	writeLine(t, n, 1, "0123")

	require.NoError(t, pl.Reflow(2, nil))
	require.Equal(t, 4, pl.TotalRows())

	first := pl.nodes.first
	wantWrap := []bool{true, false, true, false}
	wantCont := []bool{false, true, false, true}
	for y := 0; y < 4; y++ {
		assert.Equal(t, wantWrap[y], first.page.Wrap(y), "wrap on row %d", y)
		assert.Equal(t, wantCont[y], first.page.WrapContinuation(y), "continuation on row %d", y)
	}
	c, err := first.page.Cell(2, 0)
	require.NoError(t, err)
	assert.Equal(t, '0', c.Codepoint)
	c, err = first.page.Cell(3, 1)
	require.NoError(t, err)
	assert.Equal(t, '3', c.Codepoint)
}

func TestReflowWideCharGetsSpacerHeadAtLineEnd(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	require.NoError(t, n.page.SetCell(0, 0, Cell{Codepoint: 'a'}))
	require.NoError(t, n.page.SetCell(0, 1, Cell{Codepoint: '中', Wide: cellpage.WideWide}))
	require.NoError(t, n.page.SetCell(0, 2, Cell{Wide: cellpage.WideSpacerTail}))

	require.NoError(t, pl.Reflow(2, nil))

	first := pl.nodes.first
	head, err := first.page.Cell(0, 1)
	require.NoError(t, err)
	assert.Equal(t, cellpage.WideSpacerHead, head.Wide)
	assert.True(t, first.page.Wrap(0))

	wide, err := first.page.Cell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, '中', wide.Codepoint)
	assert.Equal(t, cellpage.WideWide, wide.Wide)
	tail, err := first.page.Cell(1, 1)
	require.NoError(t, err)
	assert.Equal(t, cellpage.WideSpacerTail, tail.Wide)
	assert.True(t, first.page.WrapContinuation(1))
}

func TestReflowWideCharCollapsesAtWidthOne(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	require.NoError(t, n.page.SetCell(0, 0, Cell{Codepoint: '中', Wide: cellpage.WideWide}))
	require.NoError(t, n.page.SetCell(0, 1, Cell{Wide: cellpage.WideSpacerTail}))

	require.NoError(t, pl.Reflow(1, nil))

	first := pl.nodes.first
	c, err := first.page.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, cellpage.WideNarrow, c.Wide)
	assert.False(t, c.HasText())
}

func TestReflowDropsTrailingBlankRows(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 4})
	require.NoError(t, err)
	n := pl.nodes.first
	writeLine(t, n, 0, "ab")

	require.NoError(t, pl.Reflow(8, nil))

	// Content collapses to one row; the rest of the active area is
	// regrown blank, never exceeding the configured rows.
	assert.Equal(t, 4, pl.TotalRows())
	c, err := pl.nodes.first.page.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 'a', c.Codepoint)
}

func TestReflowCarriesStyleAcrossPages(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first

	styleID, err := n.page.AddStyle(cellpage.Style{Bold: true})
	require.NoError(t, err)
	require.NoError(t, n.page.SetCell(0, 0, Cell{Codepoint: 'a', StyleID: styleID}))
	n.page.SetStyled(0, true)

	require.NoError(t, pl.Reflow(2, nil))

	first := pl.nodes.first
	c, err := first.page.Cell(0, 0)
	require.NoError(t, err)
	require.NotZero(t, c.StyleID)
	got, ok := first.page.GetStyle(c.StyleID)
	require.True(t, ok)
	assert.True(t, got.Bold)
	assert.True(t, first.page.Styled(0))
}

func TestReflowPreservesSemanticPrompt(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	writeLine(t, n, 0, "abcd")
	n.page.SetSemanticPrompt(0, SemanticPromptInput)

	require.NoError(t, pl.Reflow(2, nil))

	first := pl.nodes.first
	assert.Equal(t, SemanticPromptInput, first.page.SemanticPromptOf(0))
	assert.Equal(t, SemanticPromptInput, first.page.SemanticPromptOf(1),
		"continuation rows inherit the logical line's prompt marker")
}

func TestReflowKeepsCursorOnSameActiveRow(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	writeLine(t, n, 0, "abcd")

	cursor := pl.TrackPin(PinAt(n, 0, 3))
	require.NoError(t, pl.Reflow(2, cursor))

	// The line wraps in two; the cursor followed its cell onto the
	// continuation row, and blank rows were appended so it is still one
	// row above the bottom, i.e. on the same active row as before.
	c, err := cursor.Node().Page().Cell(cursor.Y(), cursor.X())
	require.NoError(t, err)
	assert.Equal(t, 'd', c.Codepoint)

	y, _, ok := pl.PointFromPin(TagActive, cursor)
	require.True(t, ok)
	assert.Equal(t, 0, y)
}
