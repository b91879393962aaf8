package cellpage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCapacity() Capacity {
	return Capacity{
		Cols:           10,
		Rows:           4,
		Styles:         8,
		GraphemeBytes:  256,
		HyperlinkBytes: 256,
		StringBytes:    0,
	}
}

func TestNewPageStartsEmpty(t *testing.T) {
	p := NewPage(testCapacity())
	assert.Equal(t, 0, p.Size().Rows)
	assert.Equal(t, 10, p.Size().Cols)
	assert.Equal(t, 4, p.Capacity().Rows)
}

func TestSetRowsGrowsAndShrinks(t *testing.T) {
	p := NewPage(testCapacity())
	require.NoError(t, p.SetRows(3))
	assert.Equal(t, 3, p.Size().Rows)

	require.NoError(t, p.SetRows(1))
	assert.Equal(t, 1, p.Size().Rows)

	err := p.SetRows(5)
	require.Error(t, err)
}

func TestSetCellAndClear(t *testing.T) {
	p := NewPage(testCapacity())
	require.NoError(t, p.SetRows(2))

	err := p.SetCell(0, 0, Cell{ContentTag: ContentCodepoint, Codepoint: 'x'})
	require.NoError(t, err)
	assert.True(t, p.IsRowDirty(0))

	c, err := p.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, rune('x'), c.Codepoint)
	assert.True(t, c.HasText())

	require.NoError(t, p.ClearCells(0, 0, 1))
	c, err = p.Cell(0, 0)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	p.ClearDirty()
	assert.False(t, p.IsRowDirty(0))
}

func TestCellOutOfBoundsErrors(t *testing.T) {
	p := NewPage(testCapacity())
	require.NoError(t, p.SetRows(1))

	_, err := p.Cell(5, 0)
	require.Error(t, err)

	_, err = p.Cell(0, 50)
	require.Error(t, err)
}

func TestWideCellRequiresSpacerTailForIntegrity(t *testing.T) {
	p := NewPage(testCapacity())
	require.NoError(t, p.SetRows(1))

	require.NoError(t, p.SetCell(0, 0, Cell{ContentTag: ContentCodepoint, Codepoint: '中', Wide: WideWide}))
	err := p.AssertIntegrity()
	require.Error(t, err)

	require.NoError(t, p.SetCell(0, 1, Cell{Wide: WideSpacerTail}))
	require.NoError(t, p.AssertIntegrity())
}

func TestStyleDedupAndRelease(t *testing.T) {
	p := NewPage(testCapacity())
	s := Style{Bold: true, HasFG: true, FG: RGB{R: 1}}

	id1, err := p.AddStyle(s)
	require.NoError(t, err)
	id2, err := p.AddStyle(s)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "identical styles should dedup to the same id")
	assert.Equal(t, 1, p.StyleCount())

	p.ReleaseStyle(id1)
	p.ReleaseStyle(id2)
	assert.Equal(t, 0, p.StyleCount())

	_, ok := p.GetStyle(id1)
	assert.False(t, ok)
}

func TestStyleTableFullReturnsError(t *testing.T) {
	cap := testCapacity()
	cap.Styles = 1
	p := NewPage(cap)

	_, err := p.AddStyle(Style{Bold: true})
	require.NoError(t, err)

	_, err = p.AddStyle(Style{Italic: true})
	require.ErrorIs(t, err, ErrStyleTableFull)
}

func TestHyperlinkDedupByContent(t *testing.T) {
	p := NewPage(testCapacity())
	l := Hyperlink{URI: "https://example.com"}

	id1, err := p.AddHyperlink(l)
	require.NoError(t, err)
	id2, err := p.AddHyperlink(l)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	got, ok := p.GetHyperlink(id1)
	require.True(t, ok)
	assert.Equal(t, l.URI, got.URI)
}

func TestGraphemeAppendAndLookup(t *testing.T) {
	p := NewPage(testCapacity())
	id, err := p.SetGraphemes([]rune{0x0301})
	require.NoError(t, err)

	require.NoError(t, p.AppendGrapheme(id, 0x0302))
	cps := p.LookupGrapheme(id)
	assert.Equal(t, []rune{0x0301, 0x0302}, cps)

	p.FreeGrapheme(id)
	assert.Nil(t, p.LookupGrapheme(id))
}

func TestIsClusterExtension(t *testing.T) {
	base := []rune("e")
	assert.True(t, IsClusterExtension(base, 0x0301)) // combining acute accent
	assert.False(t, IsClusterExtension([]rune("a"), 'b'))
}

func TestCloneIntoCopiesContentAndSideTables(t *testing.T) {
	src := NewPage(testCapacity())
	require.NoError(t, src.SetRows(2))
	styleID, err := src.AddStyle(Style{Bold: true})
	require.NoError(t, err)
	require.NoError(t, src.SetCell(0, 0, Cell{ContentTag: ContentCodepoint, Codepoint: 'a', StyleID: styleID}))

	dst := NewPage(Capacity{Cols: 20, Rows: 8, Styles: 8, GraphemeBytes: 256, HyperlinkBytes: 256})
	require.NoError(t, CloneInto(dst, src))

	assert.Equal(t, src.Size().Rows, dst.Size().Rows)
	c, err := dst.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, rune('a'), c.Codepoint)

	got, ok := dst.GetStyle(c.StyleID)
	require.True(t, ok)
	assert.True(t, got.Bold)
}

func TestCloneIntoRejectsUndersizedDestination(t *testing.T) {
	src := NewPage(testCapacity())
	require.NoError(t, src.SetRows(4))

	dst := NewPage(Capacity{Cols: 2, Rows: 1, Styles: 1})
	err := CloneInto(dst, src)
	require.Error(t, err)
}
