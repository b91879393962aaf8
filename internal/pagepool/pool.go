// Package pagepool implements the memory-reuse layer a page list draws on
// for nodes, page buffers, and pins: fixed-size slot tables with a
// reference-bit-free slot model (freed slots are listed in a freelist of
// indices; the object stays in its slot) the way the teacher's
// buffer pool tracks frames, generalized with generics so the same slot
// table serves three different payload types.
package pagepool

import (
	"log/slog"
	"sync"
)

var logPrefix = "pagepool: "

// ObjectPool is a fixed-growth slot table of *T values. Unlike the
// teacher's CLOCK-based bufferpool.Pool, nothing here is ever evicted:
// page list objects are cheap to keep around (that is the entire point of
// pooling them), so Get only ever grows the table or reuses a freed slot,
// and Put returns a slot to the freelist without touching its neighbors.
type ObjectPool[T any] struct {
	mu       sync.Mutex
	slots    []*T
	freeList []int
	newFn    func() *T
	resetFn  func(*T)
}

// NewObjectPool creates a pool that manufactures values with newFn and
// scrubs them with resetFn before they are handed out again.
func NewObjectPool[T any](newFn func() *T, resetFn func(*T)) *ObjectPool[T] {
	return &ObjectPool[T]{
		newFn:   newFn,
		resetFn: resetFn,
	}
}

// Get returns a zeroed object and the slot index it occupies, reusing a
// freed slot if one exists, otherwise growing the table by one.
func (p *ObjectPool[T]) Get() (*T, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		obj := p.slots[idx]
		if obj == nil {
			obj = p.newFn()
		} else {
			p.resetFn(obj)
		}
		p.slots[idx] = obj
		return obj, idx
	}

	obj := p.newFn()
	p.slots = append(p.slots, obj)
	idx := len(p.slots) - 1
	slog.Debug(logPrefix+"grew object pool", "newSize", len(p.slots))
	return obj, idx
}

// Put returns idx's slot to the freelist. The object itself is left in
// place (not nil'd out) so a subsequent Get can reuse its backing
// allocation via resetFn rather than reallocating from scratch — the same
// trade the teacher's bufferpool.Pool makes by recycling Frame structs
// instead of discarding them on eviction.
func (p *ObjectPool[T]) Put(idx int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if idx < 0 || idx >= len(p.slots) {
		return
	}
	p.freeList = append(p.freeList, idx)
}

// Len returns the number of slots ever allocated, live or freed.
func (p *ObjectPool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

// LiveCount returns the number of slots currently checked out.
func (p *ObjectPool[T]) LiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots) - len(p.freeList)
}

// ShrinkTo discards freed slots beyond keep, releasing their backing
// objects for GC. Live (checked-out) slots below keep are never touched;
// ShrinkTo only ever trims from the tail down to the highest live index it
// is safe to cut at.
func (p *ObjectPool[T]) ShrinkTo(keep int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	live := make(map[int]bool, len(p.slots)-len(p.freeList))
	freeSet := make(map[int]bool, len(p.freeList))
	for _, idx := range p.freeList {
		freeSet[idx] = true
	}
	for idx := range p.slots {
		if !freeSet[idx] {
			live[idx] = true
		}
	}

	highestLive := -1
	for idx := range live {
		if idx > highestLive {
			highestLive = idx
		}
	}
	cut := keep
	if highestLive+1 > cut {
		cut = highestLive + 1
	}
	if cut >= len(p.slots) {
		return
	}

	p.slots = p.slots[:cut]
	newFree := p.freeList[:0]
	for _, idx := range p.freeList {
		if idx < cut {
			newFree = append(newFree, idx)
		}
	}
	p.freeList = newFree
}
