package novaterm

import "github.com/tuannm99/novaterm/internal/pagepool"

// Pin identifies a row and column relative to a Node (spec §3 "Pin").
// Ephemeral pins are plain values a caller keeps on the stack; tracked
// pins are registered with the page list via TrackPin and kept valid
// across every structural mutation.
type Pin struct {
	node *Node
	y, x int

	// poolSlot is this pin's slot in the pin pool, valid only once the
	// pin has been registered via track.
	poolSlot int
}

// Node, Y, X expose a pin's current target. Callers must not mutate the
// returned Node through any API outside this package.
func (p Pin) Node() *Node { return p.node }
func (p Pin) Y() int      { return p.y }
func (p Pin) X() int      { return p.x }

// pinSet is the tracked-pin registry: an ordered slice plus an index map
// for O(1) untrack, modeled on the teacher's refcounted-pin idea
// (bufferpool.Frame.Pin / lock.RefCount) generalized from a count to a
// rewritable set, since a page list must relocate pins, not just count
// references to them.
type pinSet struct {
	pins  []*Pin
	index map[*Pin]int
}

func newPinSet() *pinSet {
	return &pinSet{index: make(map[*Pin]int)}
}

// track draws a pin from pool, copies val's node/y/x into it, and
// registers it. The returned pointer is what the page list rewrites in
// lockstep with every future structural mutation.
func (s *pinSet) track(pool *pagepool.ObjectPool[Pin], val Pin) *Pin {
	tp, slot := pool.Get()
	tp.node, tp.y, tp.x = val.node, val.y, val.x
	tp.poolSlot = slot
	s.index[tp] = len(s.pins)
	s.pins = append(s.pins, tp)
	return tp
}

// untrack removes p from the set and returns its slot to pool. Swap-
// with-last keeps removal O(1) since tracked-pin order carries no
// meaning.
func (s *pinSet) untrack(pool *pagepool.ObjectPool[Pin], p *Pin) {
	idx, ok := s.index[p]
	if !ok {
		return
	}
	last := len(s.pins) - 1
	s.pins[idx] = s.pins[last]
	s.index[s.pins[idx]] = idx
	s.pins = s.pins[:last]
	delete(s.index, p)
	pool.Put(p.poolSlot)
}

// forEach visits every tracked pin; mutation helpers use this to rewrite
// node/y/x in lockstep with a structural change.
func (s *pinSet) forEach(fn func(p *Pin)) {
	for _, p := range s.pins {
		fn(p)
	}
}

// PinAt builds an ephemeral pin for (node, y, x) without registering it.
func PinAt(node *Node, y, x int) Pin {
	return Pin{node: node, y: y, x: x}
}

// TrackPin registers an ephemeral pin so it will be kept valid across
// future mutations, returning the tracked pointer.
func (pl *PageList) TrackPin(p Pin) *Pin {
	return pl.pins.track(pl.pinPool, p)
}

// UntrackPin removes p from tracking and frees it. The dedicated viewport
// pin must never be passed here (spec invariant 5).
func (pl *PageList) UntrackPin(p *Pin) {
	if p == pl.viewportPin {
		return
	}
	pl.pins.untrack(pl.pinPool, p)
}

// Tag names a coordinate frame pins can be resolved against: the whole
// list (screen), the active area, or the current viewport.
type Tag uint8

const (
	TagScreen Tag = iota
	TagActive
	TagViewport
)

// tagTopLeft resolves the top-left pin of a tag's frame.
func (pl *PageList) tagTopLeft(tag Tag) Pin {
	switch tag {
	case TagActive:
		return pl.activeTopLeft()
	case TagViewport:
		return pl.ViewportTopLeft()
	default: // TagScreen
		return pl.getTopLeft()
	}
}

// GetTopLeft returns the pin at the top-left of tag's frame (spec §6).
func (pl *PageList) GetTopLeft(tag Tag) Pin {
	return pl.tagTopLeft(tag)
}

// GetBottomRight returns the pin at the bottom-right of tag's frame. The
// screen and active frames end at the list's last row; the viewport frame
// ends rows-1 rows below the viewport's top-left (clamped to the list).
func (pl *PageList) GetBottomRight(tag Tag) Pin {
	if tag == TagViewport {
		tl := pl.ViewportTopLeft()
		pos := walkRows(chainPos{node: tl.node, y: tl.y}, pl.rows-1)
		return Pin{node: pos.node, y: pos.y, x: pl.cols - 1}
	}
	return pl.getBottomRight()
}

// absoluteRow returns the row's index in screen order, counting from the
// first row of the first node.
func (pl *PageList) absoluteRow(n *Node, y int) int {
	abs := 0
	for cur := pl.nodes.first; cur != nil; cur = cur.next {
		if cur == n {
			return abs + y
		}
		abs += cur.page.Size().Rows
	}
	return -1
}

// PointFromPin resolves a tracked pin to coordinates within tag's frame
// (spec §6's pointFromPin). ok is false when the pin lies above the
// frame's top (e.g. scrollback relative to TagActive) or no longer
// resolves to a live row.
func (pl *PageList) PointFromPin(tag Tag, p *Pin) (y, x int, ok bool) {
	if p == nil || p.node == nil {
		return 0, 0, false
	}
	abs := pl.absoluteRow(p.node, p.y)
	if abs < 0 {
		return 0, 0, false
	}
	tl := pl.tagTopLeft(tag)
	base := pl.absoluteRow(tl.node, tl.y)
	if base < 0 || abs < base {
		return 0, 0, false
	}
	return abs - base, p.x, true
}

// PinFromPoint resolves (y, x) within tag's frame to an ephemeral pin,
// the inverse of PointFromPin. ok is false when the point lies past the
// end of the list or outside the row's width.
func (pl *PageList) PinFromPoint(tag Tag, y, x int) (Pin, bool) {
	if y < 0 || x < 0 || x >= pl.cols {
		return Pin{}, false
	}
	tl := pl.tagTopLeft(tag)
	pos := walkRows(chainPos{node: tl.node, y: tl.y}, y)
	base := pl.absoluteRow(tl.node, tl.y)
	if pl.absoluteRow(pos.node, pos.y) != base+y {
		return Pin{}, false
	}
	return Pin{node: pos.node, y: pos.y, x: x}, true
}

// PinIsValid reports whether p still resolves to a live cell: its node is
// in the chain and its coordinates are inside the node's size. Meant for
// slow-runtime-safety assertions, not hot paths.
func (pl *PageList) PinIsValid(p *Pin) bool {
	if p == nil || p.node == nil {
		return false
	}
	for n := pl.nodes.first; n != nil; n = n.next {
		if n == p.node {
			sz := n.page.Size()
			return p.y >= 0 && p.y < sz.Rows && p.x >= 0 && p.x < sz.Cols
		}
	}
	return false
}

// PinIsActive reports whether p currently refers to a row within the
// active area.
func (pl *PageList) PinIsActive(p *Pin) bool {
	if p == nil || p.node == nil {
		return false
	}
	n, y := p.node, p.y
	rowsAbove := 0
	for cur := pl.nodes.last; cur != nil; cur = cur.prev {
		sz := cur.page.Size().Rows
		if cur == n {
			return rowsAbove+(sz-1-y) < pl.activeRows()
		}
		rowsAbove += sz
		if rowsAbove >= pl.activeRows() {
			break
		}
	}
	return false
}

// collapsePinsOnNode moves every tracked pin whose node is n to the
// list's permanent fallback {first_node, 0, 0} — spec §4.3's "destroy a
// row moves pins on that row to a defined fallback". Used when a node (or
// a set of its rows) is destroyed outright.
func (pl *PageList) collapsePinsOnNode(n *Node) {
	first := pl.nodes.first
	pl.pins.forEach(func(p *Pin) {
		if p.node == n {
			p.node = first
			p.y = 0
			p.x = 0
		}
	})
}

// savedPin is one entry of a pin snapshot taken before a fallible bulk
// rewrite (reflow, column realloc), so a failed operation can put every
// tracked pin back exactly where it was.
type savedPin struct {
	p    *Pin
	node *Node
	y, x int
}

func (pl *PageList) savePins() []savedPin {
	out := make([]savedPin, 0, len(pl.pins.pins))
	pl.pins.forEach(func(p *Pin) {
		out = append(out, savedPin{p: p, node: p.node, y: p.y, x: p.x})
	})
	return out
}

func (pl *PageList) restorePins(saved []savedPin) {
	for _, s := range saved {
		s.p.node, s.p.y, s.p.x = s.node, s.y, s.x
	}
}

// getTopLeft returns the pin at the very first cell in screen order.
func (pl *PageList) getTopLeft() Pin {
	return Pin{node: pl.nodes.first, y: 0, x: 0}
}

// getBottomRight returns the pin at the very last cell in screen order.
func (pl *PageList) getBottomRight() Pin {
	n := pl.nodes.last
	sz := n.page.Size()
	y := sz.Rows - 1
	if y < 0 {
		y = 0
	}
	x := sz.Cols - 1
	if x < 0 {
		x = 0
	}
	return Pin{node: n, y: y, x: x}
}
