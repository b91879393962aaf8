// Package novaterm implements a terminal emulator's page list: the
// linked-list-of-fixed-capacity-pages storage backbone holding scrollback
// plus the active screen area, with pointer-stable pins, column reflow,
// budget-based pruning, and row/cell iteration.
package novaterm

import (
	"log/slog"

	"github.com/tuannm99/novaterm/internal/cellpage"
	"github.com/tuannm99/novaterm/internal/pagepool"
)

var logPrefix = "novaterm: "

// PageList is the top-level storage object a terminal session owns: the
// node chain, the pin registry, the viewport selector, and the pools
// backing all three (spec §3 "Page list").
type PageList struct {
	cfg  Config
	cols int
	rows int

	nodes nodeList
	pins  *pinSet

	viewport    viewportTag
	viewportPin *Pin

	pagePool *pagepool.PagePool
	nodePool *pagepool.ObjectPool[Node]
	pinPool  *pagepool.ObjectPool[Pin]

	// owned reports whether this list owns its pools outright (Deinit
	// destroys them) or merely borrows them from a parent list via
	// Clone (Deinit then only resets them retaining capacity).
	owned bool

	pageSize int
}

// Init constructs a page list with the given dimensions and an optional
// explicit byte ceiling (0 means "no explicit ceiling", falling back to
// min_max_size). It allocates exactly the pages needed to hold the active
// area, per spec §3 Lifecycle.
func Init(cfg Config) (*PageList, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pl := &PageList{
		cfg:      cfg,
		cols:     cfg.Cols,
		rows:     cfg.Rows,
		pins:     newPinSet(),
		viewport: ViewportActive,
		owned:    true,
	}
	pl.pagePool = pagepool.NewPagePool(stdCapacity(cfg.Cols))
	pl.nodePool = pagepool.NewObjectPool(
		func() *Node { return &Node{} },
		func(n *Node) { n.prev, n.next, n.page = nil, nil, nil },
	)
	pl.pinPool = pagepool.NewObjectPool(
		func() *Pin { return &Pin{} },
		func(p *Pin) { p.node, p.y, p.x = nil, 0, 0 },
	)

	// Preheat: allocate Preheat standard page buffers into the pool's slot
	// table up front, then release them so they sit ready as free slots
	// for the first bursts of scrollback growth (spec §4.1 init's
	// "preheat" parameter).
	var preheated []*cellpage.Page
	var preheatSlots []int
	for i := 0; i < cfg.Preheat; i++ {
		pg, slot, _ := pl.pagePool.Fetch(stdCapacity(cfg.Cols))
		preheated = append(preheated, pg)
		preheatSlots = append(preheatSlots, slot)
	}
	for i, pg := range preheated {
		pl.pagePool.Release(pg, preheatSlots[i])
	}

	rowsNeeded := cfg.Rows
	stdRows := stdCapacity(cfg.Cols).Rows
	for rowsNeeded > 0 {
		n, err := pl.createPage(stdCapacity(cfg.Cols))
		if err != nil {
			return nil, err
		}
		take := rowsNeeded
		if take > stdRows {
			take = stdRows
		}
		if err := n.page.SetRows(take); err != nil {
			return nil, err
		}
		pl.nodes.pushBack(n)
		rowsNeeded -= take
	}

	pl.viewportPin = pl.pins.track(pl.pinPool, pl.getTopLeft())

	slog.Debug(logPrefix+"Init", "cols", cfg.Cols, "rows", cfg.Rows)
	return pl, nil
}

// Cols and Rows return the list's current dimensions.
func (pl *PageList) Cols() int { return pl.cols }
func (pl *PageList) Rows() int { return pl.rows }

// PageSize returns the current sum of allocated page buffer bytes
// (invariant 6).
func (pl *PageList) PageSize() int { return pl.pageSize }

// activeRows is the number of rows the active area should contain; used
// throughout erase/grow/scroll as "rows" from config.
func (pl *PageList) activeRows() int { return pl.rows }

// stdRowsPerPage returns the standard page's row capacity for the
// current column count, used by maxSize()/min_max_size computations.
func (pl *PageList) stdRowsPerPage() int {
	return pl.pagePool.StandardCapacity().Rows
}

func (pl *PageList) maxSize() int {
	return pl.cfg.maxSize(pl.stdRowsPerPage())
}

// createPage allocates a node and a page buffer at cap, charging its
// layout against page_size (spec §4.2).
func (pl *PageList) createPage(cap cellpage.Capacity) (*Node, error) {
	pg, slot, pooled := pl.pagePool.Fetch(cap)
	n, nodeSlot := pl.nodePool.Get()
	n.page = pg
	n.poolSlot = slot
	n.pooled = pooled
	n.nodeSlot = nodeSlot
	pl.pageSize += pg.Layout().TotalSize
	return n, nil
}

// destroyNode reverses createPage: decrements page_size and returns the
// node (and, if standard-capacity, its page buffer) to their pools.
// Oversize page buffers are simply dropped for the GC to reclaim, the
// in-process analog of "freed directly on the page-aligned allocator".
func (pl *PageList) destroyNode(n *Node) {
	pl.pageSize -= n.page.Layout().TotalSize
	if n.pooled {
		n.page.Reinit()
		pl.pagePool.Release(n.page, n.poolSlot)
	}
	pl.nodePool.Put(n.nodeSlot)
	n.prev, n.next, n.page = nil, nil, nil
}

// TailNode returns the list's current last node, the one new content is
// always appended to.
func (pl *PageList) TailNode() *Node { return pl.nodes.last }

// TotalRows returns the sum of size.rows across every page currently in
// the list (spec invariant 2 checks this against Rows()).
func (pl *PageList) TotalRows() int {
	total := 0
	for n := pl.nodes.first; n != nil; n = n.next {
		total += n.page.Size().Rows
	}
	return total
}

// Reset drops all content but preserves pool capacity, collapsing every
// tracked pin (including the viewport pin) to {first_node, 0, 0}, per
// spec §3 Lifecycle. Idempotent (spec §8 invariant 8).
func (pl *PageList) Reset() error {
	for n := pl.nodes.first; n != nil; {
		next := n.next
		pl.nodes.remove(n)
		pl.destroyNode(n)
		n = next
	}
	pl.pageSize = 0

	rowsNeeded := pl.rows
	stdRows := pl.stdRowsPerPage()
	for rowsNeeded > 0 {
		n, err := pl.createPage(stdCapacity(pl.cols))
		if err != nil {
			return err
		}
		take := rowsNeeded
		if take > stdRows {
			take = stdRows
		}
		if err := n.page.SetRows(take); err != nil {
			return err
		}
		pl.nodes.pushBack(n)
		rowsNeeded -= take
	}

	first := pl.nodes.first
	pl.pins.forEach(func(p *Pin) {
		p.node, p.y, p.x = first, 0, 0
	})
	pl.viewport = ViewportActive
	return nil
}

// Deinit releases the page list's resources. If it owns its pools
// outright they are destroyed (dropped for GC); if the pools were shared
// in from a parent via Clone, they are instead reset retaining capacity
// so the parent can keep using them (spec §5 "Shared resources").
func (pl *PageList) Deinit() {
	if pl.owned {
		pl.pagePool.Reset(pagepool.FreeAll, 0)
		return
	}
	pl.pagePool.Reset(pagepool.RetainCapacity, 0)
}
