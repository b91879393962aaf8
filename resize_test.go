package novaterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeRowsOnlyGrows(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	require.NoError(t, pl.ResizeRowsOnly(5))
	assert.Equal(t, 5, pl.Rows())
	assert.GreaterOrEqual(t, pl.TotalRows(), 5)
}

func TestResizeRowsOnlyShrinksTrailingBlankRows(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 4})
	require.NoError(t, err)
	require.NoError(t, pl.ResizeRowsOnly(2))
	assert.Equal(t, 2, pl.Rows())
}

func TestResizeRowsOnlyRefusesToTrimPinnedRow(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 4})
	require.NoError(t, err)
	last := pl.nodes.last
	p := pl.TrackPin(PinAt(last, last.page.Size().Rows-1, 0))

	require.NoError(t, pl.ResizeRowsOnly(1))
	assert.Equal(t, last, p.Node())
}

func TestResizeColsShrinkClampsPins(t *testing.T) {
	pl, err := Init(Config{Cols: 8, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	p := pl.TrackPin(PinAt(n, 0, 7))

	require.NoError(t, pl.ResizeColsNoReflow(4))
	assert.Equal(t, 3, p.X())
	assert.Equal(t, 4, pl.Cols())
}

func TestResizeColsGrowReallocatesWiderPages(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	p := pl.TrackPin(PinAt(n, 1, 2))

	require.NoError(t, pl.ResizeColsNoReflow(8))
	assert.Equal(t, 8, pl.Cols())
	assert.Equal(t, 8, pl.nodes.first.page.Capacity().Cols)
	assert.Equal(t, 1, p.Y())
	assert.Equal(t, 2, p.X())
}

func TestResizeDispatchesColsAndRows(t *testing.T) {
	pl, err := Init(Config{Cols: 8, Rows: 4})
	require.NoError(t, err)
	n := pl.nodes.first
	for x, r := range "abcd" {
		require.NoError(t, n.page.SetCell(0, x, Cell{Codepoint: r}))
	}

	require.NoError(t, pl.Resize(ResizeOptions{Cols: 2, Rows: 3, Reflow: true}))
	assert.Equal(t, 2, pl.Cols())
	assert.Equal(t, 3, pl.Rows())
	assert.GreaterOrEqual(t, pl.TotalRows(), 3)

	first := pl.nodes.first
	assert.True(t, first.page.Wrap(0), "the four-cell line rewraps at two columns")
}

func TestResizeRowsShrinkBeyondBlanksLowersRowsAnyway(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 4})
	require.NoError(t, err)
	n := pl.nodes.first
	fillRow(t, n, 0, 'a')
	fillRow(t, n, 1, 'b')
	fillRow(t, n, 2, 'c')
	fillRow(t, n, 3, 'd')

	require.NoError(t, pl.ResizeRowsOnly(2))
	assert.Equal(t, 2, pl.Rows())
	// Nothing was blank, so all four physical rows survive: the top two
	// are now scrollback.
	assert.Equal(t, 4, pl.TotalRows())
}

func TestResizeColsShrinkClearsCellsBeyondWidth(t *testing.T) {
	pl, err := Init(Config{Cols: 8, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first
	for x, r := range "abcdefgh" {
		require.NoError(t, n.page.SetCell(0, x, Cell{Codepoint: r}))
	}

	require.NoError(t, pl.ResizeColsNoReflow(4))
	assert.Equal(t, 4, n.page.Size().Cols)
	c, err := n.page.Cell(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 'd', c.Codepoint)
	_, err = n.page.Cell(0, 4)
	assert.Error(t, err, "cells beyond the new width are out of bounds")
}
