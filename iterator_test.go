package novaterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageIteratorSingleChunkInclusive(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 3})
	require.NoError(t, err)
	n := pl.nodes.first

	it := NewPageIterator(PinAt(n, 0, 0), PinAt(n, 2, 0), RightDown)
	chunk, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, n, chunk.Node)
	assert.Equal(t, 0, chunk.Start)
	assert.Equal(t, 3, chunk.End)

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestPageIteratorSpansNodes(t *testing.T) {
	cap := stdCapacity(4)
	pl, err := Init(Config{Cols: 4, Rows: cap.Rows})
	require.NoError(t, err)
	_, err = pl.Grow()
	require.NoError(t, err)
	require.Equal(t, 2, pl.nodes.count)

	first, last := pl.nodes.first, pl.nodes.last
	it := NewPageIterator(PinAt(first, cap.Rows-2, 0), PinAt(last, 0, 0), RightDown)

	c1, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, first, c1.Node)
	assert.Equal(t, cap.Rows-2, c1.Start)
	assert.Equal(t, cap.Rows, c1.End)

	c2, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, last, c2.Node)
	assert.Equal(t, 0, c2.Start)
	assert.Equal(t, 1, c2.End)

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestRowIteratorLeftUpWalksBackwards(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 3})
	require.NoError(t, err)
	n := pl.nodes.first

	it := NewRowIterator(PinAt(n, 2, 0), PinAt(n, 0, 0), LeftUp)
	var ys []int
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		ys = append(ys, p.Y())
	}
	assert.Equal(t, []int{2, 1, 0}, ys)
}

func TestCellIteratorLeftUpReversesReadingOrder(t *testing.T) {
	pl, err := Init(Config{Cols: 3, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first

	forward := NewCellIterator(PinAt(n, 0, 0), PinAt(n, 1, 0), RightDown, pl.Cols())
	var fwd []Pin
	for {
		p, ok := forward.Next()
		if !ok {
			break
		}
		fwd = append(fwd, p)
	}
	require.Len(t, fwd, 6)

	backward := NewCellIterator(PinAt(n, 1, 0), PinAt(n, 0, 0), LeftUp, pl.Cols())
	var bwd []Pin
	for {
		p, ok := backward.Next()
		if !ok {
			break
		}
		bwd = append(bwd, p)
	}
	require.Len(t, bwd, 6)

	last := bwd[len(bwd)-1]
	assert.Equal(t, fwd[0].Y(), last.Y())
	assert.Equal(t, fwd[0].X(), last.X())
	assert.Equal(t, 2, bwd[0].X(), "LeftUp starts at the rightmost cell")
}
