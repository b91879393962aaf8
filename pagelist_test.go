package novaterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{Cols: 10, Rows: 4}
}

func TestInitAllocatesActiveArea(t *testing.T) {
	pl, err := Init(testConfig())
	require.NoError(t, err)
	assert.Equal(t, 4, pl.TotalRows())
	assert.Equal(t, 10, pl.Cols())
	assert.Equal(t, 4, pl.Rows())
}

func TestInitRejectsInvalidConfig(t *testing.T) {
	_, err := Init(Config{Cols: 0, Rows: 4})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestResetCollapsesPinsToFirstNode(t *testing.T) {
	pl, err := Init(testConfig())
	require.NoError(t, err)

	p := pl.TrackPin(PinAt(pl.nodes.last, 2, 3))
	require.NoError(t, pl.Reset())

	assert.Equal(t, pl.nodes.first, p.Node())
	assert.Equal(t, 0, p.Y())
	assert.Equal(t, 0, p.X())
	assert.Equal(t, 4, pl.TotalRows())
}

func TestTrackAndUntrackPin(t *testing.T) {
	pl, err := Init(testConfig())
	require.NoError(t, err)

	p := pl.TrackPin(PinAt(pl.nodes.first, 0, 0))
	assert.Len(t, pl.pins.pins, 2) // viewport pin + tracked pin

	pl.UntrackPin(p)
	assert.Len(t, pl.pins.pins, 1)
}

func TestUntrackPinRefusesViewportPin(t *testing.T) {
	pl, err := Init(testConfig())
	require.NoError(t, err)

	before := len(pl.pins.pins)
	pl.UntrackPin(pl.viewportPin)
	assert.Len(t, pl.pins.pins, before)
}

func TestPointFromPinResolvesAgainstFrames(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := pl.Grow()
		require.NoError(t, err)
	}
	n := pl.nodes.first

	p := pl.TrackPin(PinAt(n, 4, 1))

	y, x, ok := pl.PointFromPin(TagScreen, p)
	require.True(t, ok)
	assert.Equal(t, 4, y)
	assert.Equal(t, 1, x)

	// Five total rows, active is the bottom two: row 4 is active row 1.
	y, _, ok = pl.PointFromPin(TagActive, p)
	require.True(t, ok)
	assert.Equal(t, 1, y)

	scrollback := pl.TrackPin(PinAt(n, 0, 0))
	_, _, ok = pl.PointFromPin(TagActive, scrollback)
	assert.False(t, ok, "scrollback rows are above the active frame")
}

func TestPinIsValidDetectsStalePins(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	n := pl.nodes.first

	p := PinAt(n, 1, 3)
	assert.True(t, pl.PinIsValid(&p))

	stale := PinAt(n, 9, 0)
	assert.False(t, pl.PinIsValid(&stale))
}

func TestResetIsIdempotent(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 3})
	require.NoError(t, err)
	fillRow(t, pl.nodes.first, 0, 'a')

	require.NoError(t, pl.Reset())
	once := pl.String()
	require.NoError(t, pl.Reset())
	assert.Equal(t, once, pl.String())
}

func TestPageSizeMatchesSumOfLayouts(t *testing.T) {
	pl, err := Init(Config{Cols: 10, Rows: 4})
	require.NoError(t, err)
	for i := 0; i < 600; i++ {
		_, err := pl.Grow()
		require.NoError(t, err)
	}

	sum := 0
	for n := pl.nodes.first; n != nil; n = n.next {
		sum += n.page.Layout().TotalSize
	}
	assert.Equal(t, sum, pl.PageSize())
}

func TestPinFromPointRoundTripsWithPointFromPin(t *testing.T) {
	pl, err := Init(Config{Cols: 4, Rows: 2})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := pl.Grow()
		require.NoError(t, err)
	}

	p, ok := pl.PinFromPoint(TagActive, 1, 2)
	require.True(t, ok)
	tracked := pl.TrackPin(p)

	y, x, ok := pl.PointFromPin(TagActive, tracked)
	require.True(t, ok)
	assert.Equal(t, 1, y)
	assert.Equal(t, 2, x)

	_, ok = pl.PinFromPoint(TagScreen, 99, 0)
	assert.False(t, ok, "a point past the end of the list does not resolve")
}
