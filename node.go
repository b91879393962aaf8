package novaterm

import "github.com/tuannm99/novaterm/internal/cellpage"

// StdPageBytes is the accounting budget a standard page is allowed to
// consume; std_capacity (below) is sized so that a page at these
// dimensions fits under it. Chosen at build time the way the spec
// describes, not computed from a live allocator page size, since Go gives
// no portable access to the OS's page-aligned allocator contract the
// original assumes (see DESIGN.md).
const StdPageBytes = 64 * 1024

// stdCapacity is the {cols, rows, ...} capacity StdPageBytes yields at
// the given column count: the side-table budgets are fixed and the row
// count is whatever fits in the remaining bytes, so a standard page
// always lands under the pooled slab size regardless of terminal width.
func stdCapacity(cols int) cellpage.Capacity {
	cap := cellpage.Capacity{
		Cols:           cols,
		Styles:         256,
		GraphemeBytes:  4096,
		HyperlinkBytes: 4096,
		StringBytes:    0,
	}
	fixed := cellpage.ComputeLayout(cap).TotalSize
	rows := (StdPageBytes - fixed) / cellpage.RowFootprint(cols)
	if rows < 1 {
		rows = 1
	}
	cap.Rows = rows
	return cap
}

// Node is one element of the page list's doubly linked chain, owning
// exactly one *cellpage.Page. Nodes are never freed individually while
// the owning PageList is alive; they are recycled through the node pool
// (spec §3 "nodes ... are never individually freed ... only returned to
// the pool"), ported from the teacher's OverflowManager page-ID chain to
// in-process pointer chaining — index-based chaining would buy nothing
// here since Go already gives pointer-stable, GC-tracked node identity.
type Node struct {
	prev, next *Node
	page       *cellpage.Page

	// poolSlot is the index this node's Page occupies in the page pool's
	// slot table, or -1 if the page was allocated oversize and bypasses
	// the pool entirely.
	poolSlot int
	pooled   bool

	// nodeSlot is this Node's own slot in the node pool.
	nodeSlot int
}

// Page returns the node's owned page.
func (n *Node) Page() *cellpage.Page { return n.page }

// Next and Prev walk the chain; both return nil at the ends.
func (n *Node) Next() *Node { return n.next }
func (n *Node) Prev() *Node { return n.prev }

// nodeList is the doubly linked chain itself: first = oldest scrollback,
// last = bottom of active (spec §2 "Node list").
type nodeList struct {
	first, last *Node
	count       int
}

func (l *nodeList) pushBack(n *Node) {
	n.prev = l.last
	n.next = nil
	if l.last != nil {
		l.last.next = n
	} else {
		l.first = n
	}
	l.last = n
	l.count++
}

func (l *nodeList) pushFront(n *Node) {
	n.next = l.first
	n.prev = nil
	if l.first != nil {
		l.first.prev = n
	} else {
		l.last = n
	}
	l.first = n
	l.count++
}

// remove detaches n from the chain. n's own prev/next are left dangling;
// the caller (destroyNode, erase's page reclamation) is responsible for
// clearing them once n is returned to the pool.
func (l *nodeList) remove(n *Node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.first = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.last = n.prev
	}
	l.count--
}
