package novaterm

// Direction selects which way an iterator walks the list.
type Direction uint8

const (
	RightDown Direction = iota
	LeftUp
)

// Chunk is a contiguous run of rows within one page: [Start,End).
type Chunk struct {
	Node  *Node
	Start int
	End   int
}

// PageIterator walks whole-page chunks between two inclusive pin
// endpoints in the given direction.
type PageIterator struct {
	dir       Direction
	cur       *Node
	from, to  chainPos
	done      bool
	firstStep bool
}

// NewPageIterator returns an iterator over chunks from from to to
// inclusive, both endpoints included (spec §4.10). In RightDown, from
// must be the earlier (screen-order) point; in LeftUp, from must be the
// later point and the walk proceeds toward to via Prev links.
func NewPageIterator(from, to Pin, dir Direction) *PageIterator {
	a := chainPos{node: from.node, y: from.y}
	b := chainPos{node: to.node, y: to.y}
	return &PageIterator{dir: dir, cur: a.node, from: a, to: b, firstStep: true}
}

// Next returns the next chunk, or ok=false once the range is exhausted.
func (it *PageIterator) Next() (Chunk, bool) {
	if it.done || it.cur == nil {
		return Chunk{}, false
	}

	node := it.cur
	rows := node.page.Size().Rows
	start, end := 0, rows
	if it.firstStep {
		if it.dir == RightDown {
			start = it.from.y
		} else {
			end = it.from.y + 1
		}
		it.firstStep = false
	}
	if node == it.to.node {
		if it.dir == RightDown {
			end = it.to.y + 1
		} else {
			start = it.to.y
		}
		it.done = true
	} else if it.dir == RightDown {
		it.cur = node.next
	} else {
		it.cur = node.prev
	}

	return Chunk{Node: node, Start: start, End: end}, true
}

// RowIterator yields one pin per row between two endpoints, in direction
// order.
type RowIterator struct {
	pages *PageIterator
	cur   Chunk
	y     int
	has   bool
}

// NewRowIterator returns a row-at-a-time iterator between from and to.
func NewRowIterator(from, to Pin, dir Direction) *RowIterator {
	return &RowIterator{pages: NewPageIterator(from, to, dir)}
}

// Next returns the next row's top-left pin.
func (it *RowIterator) Next() (Pin, bool) {
	for {
		if it.has && it.pages.dir == LeftUp && it.y >= it.cur.Start {
			y := it.y
			it.y--
			return Pin{node: it.cur.Node, y: y, x: 0}, true
		}
		if it.has && it.pages.dir == RightDown && it.y < it.cur.End {
			y := it.y
			it.y++
			return Pin{node: it.cur.Node, y: y, x: 0}, true
		}
		c, ok := it.pages.Next()
		if !ok {
			return Pin{}, false
		}
		it.cur = c
		it.y = c.Start
		if it.pages.dir == LeftUp {
			it.y = c.End - 1
		}
		it.has = true
	}
}

// CellIterator yields one pin per cell in reading order: left-to-right
// within each row for RightDown, right-to-left for LeftUp, so the walk is
// a strict reversal of its opposite direction.
type CellIterator struct {
	rows *RowIterator
	dir  Direction
	cols int
	curY Pin
	x    int
	has  bool
}

// NewCellIterator returns a cell-at-a-time iterator between from and to.
func NewCellIterator(from, to Pin, dir Direction, cols int) *CellIterator {
	return &CellIterator{rows: NewRowIterator(from, to, dir), dir: dir, cols: cols}
}

// Next returns the next cell's pin.
func (it *CellIterator) Next() (Pin, bool) {
	for {
		if it.has {
			if it.dir == RightDown && it.x < it.cols {
				x := it.x
				it.x++
				return Pin{node: it.curY.node, y: it.curY.y, x: x}, true
			}
			if it.dir == LeftUp && it.x >= 0 {
				x := it.x
				it.x--
				return Pin{node: it.curY.node, y: it.curY.y, x: x}, true
			}
		}
		row, ok := it.rows.Next()
		if !ok {
			return Pin{}, false
		}
		it.curY = row
		if it.dir == RightDown {
			it.x = 0
		} else {
			it.x = it.cols - 1
		}
		it.has = true
	}
}
