package novaterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneCopiesRangeIntoOwnedList(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 3})
	require.NoError(t, err)
	n := pl.nodes.first
	fillRow(t, n, 0, 'a')
	fillRow(t, n, 1, 'b')
	fillRow(t, n, 2, 'c')

	out, _, err := pl.Clone(PinAt(n, 1, 0), nil, CloneMemory{Owned: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, out.TotalRows())
	c, err := out.nodes.first.page.Cell(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 'b', c.Codepoint)

	// Mutating the clone must not touch the source.
	require.NoError(t, out.nodes.first.page.SetCell(0, 0, Cell{Codepoint: 'z'}))
	c, err = n.page.Cell(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 'b', c.Codepoint)
}

func TestCloneRemapsTrackedPins(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 3})
	require.NoError(t, err)
	n := pl.nodes.first
	fillRow(t, n, 2, 'c')
	p := pl.TrackPin(PinAt(n, 2, 1))

	out, remapped, err := pl.Clone(PinAt(n, 1, 0), nil, CloneMemory{Owned: true}, []*Pin{p})
	require.NoError(t, err)
	require.Len(t, remapped, 1)
	require.NotNil(t, remapped[0])

	assert.Equal(t, out.nodes.first, remapped[0].Node())
	assert.Equal(t, 1, remapped[0].Y())
	assert.Equal(t, 1, remapped[0].X())
}

func TestClonePinOutsideRangeDropsToNil(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 3})
	require.NoError(t, err)
	n := pl.nodes.first
	p := pl.TrackPin(PinAt(n, 0, 0))

	_, remapped, err := pl.Clone(PinAt(n, 1, 0), nil, CloneMemory{Owned: true}, []*Pin{p})
	require.NoError(t, err)
	require.Len(t, remapped, 1)
	assert.Nil(t, remapped[0])
}

func TestCloneSharedPoolDeinitRetainsParentPools(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 3})
	require.NoError(t, err)
	n := pl.nodes.first

	out, _, err := pl.Clone(PinAt(n, 0, 0), nil, CloneMemory{Owned: false, Shared: pl}, nil)
	require.NoError(t, err)
	require.False(t, out.owned)

	out.Deinit()

	// The parent keeps working against the shared pools after the
	// clone's deinit.
	_, err = pl.Grow()
	require.NoError(t, err)
}
