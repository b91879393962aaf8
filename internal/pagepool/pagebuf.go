package pagepool

import (
	"github.com/tuannm99/novaterm/internal/cellpage"
)

// PagePool manufactures *cellpage.Page values at one standard capacity —
// the shape every node uses unless a write needs more room than the
// standard page offers (a long line, a style/hyperlink/grapheme table
// overflow). Standard-capacity pages are recycled through an ObjectPool;
// oversize pages are allocated directly and never returned to the table,
// mirroring how the teacher's bufferpool.Pool only recycles frames sized
// for its fixed page size and leaves anything else to the allocator.
type PagePool struct {
	standard Capacity
	pool     *ObjectPool[cellpage.Page]
}

// Capacity is a thin alias kept local to this package so callers don't
// need to import cellpage just to describe a page shape to NewPagePool.
type Capacity = cellpage.Capacity

// NewPagePool creates a pool that hands out pages at standard capacity.
func NewPagePool(standard Capacity) *PagePool {
	pp := &PagePool{standard: standard}
	pp.pool = NewObjectPool(
		func() *cellpage.Page { return cellpage.NewPage(pp.standard) },
		func(pg *cellpage.Page) { pg.Reinit() },
	)
	return pp
}

// StandardCapacity returns the capacity pooled pages are allocated at.
func (pp *PagePool) StandardCapacity() Capacity { return pp.standard }

// SetStandard changes the pooled shape, discarding every recycled slot of
// the old shape (they can no longer be handed out: a Page's capacity is
// fixed for its lifetime). Called when a column resize changes what a
// standard page looks like. Release calls against old slot indices become
// harmless no-ops once the table is dropped.
func (pp *PagePool) SetStandard(standard Capacity) {
	if standard == pp.standard {
		return
	}
	pp.pool.mu.Lock()
	pp.standard = standard
	pp.pool.slots = nil
	pp.pool.freeList = nil
	pp.pool.mu.Unlock()
}

// Fetch returns a page at cap. If cap matches the pool's standard shape
// the page comes from (or returns to) the recycled slot table; otherwise
// a fresh oversize page is allocated directly and pooled==false is
// returned so the caller knows not to call Release on it.
func (pp *PagePool) Fetch(cap Capacity) (page *cellpage.Page, slot int, pooled bool) {
	if cap != pp.standard {
		return cellpage.NewPage(cap), -1, false
	}
	pg, idx := pp.pool.Get()
	return pg, idx, true
}

// Release returns a standard-capacity page's slot to the freelist. Callers
// holding an oversize page (Fetch returned pooled==false) must simply drop
// their reference instead of calling Release. A page fetched before a
// SetStandard no longer matches the pooled shape and is dropped rather
// than returned, so a stale slot index can never free a slot the table
// has since reassigned.
func (pp *PagePool) Release(pg *cellpage.Page, slot int) {
	if pg != nil && pg.Capacity() != pp.standard {
		return
	}
	if slot < 0 || slot >= pp.pool.Len() {
		return
	}
	pp.pool.mu.Lock()
	stale := slot >= len(pp.pool.slots) || pp.pool.slots[slot] != pg
	pp.pool.mu.Unlock()
	if pg != nil && stale {
		return
	}
	pp.pool.Put(slot)
}

// Len and LiveCount expose the underlying slot table's bookkeeping for
// diagnostics and the reset(retain_with_limit) accounting in reset.go.
func (pp *PagePool) Len() int       { return pp.pool.Len() }
func (pp *PagePool) LiveCount() int { return pp.pool.LiveCount() }

// ShrinkTo trims freed standard-capacity slots down to keep, releasing
// their backing Page allocations for GC.
func (pp *PagePool) ShrinkTo(keep int) {
	pp.pool.ShrinkTo(keep)
}
