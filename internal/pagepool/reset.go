package pagepool

import (
	"log/slog"

	"github.com/tuannm99/novaterm/internal/cellpage"
)

// ResetMode selects how aggressively Reset reclaims pooled memory.
type ResetMode int

const (
	// FreeAll discards every pooled slot, live or freed; nothing is kept
	// for reuse by a later Fetch.
	FreeAll ResetMode = iota
	// RetainCapacity keeps every slot ever allocated, freed or not, for
	// a future Fetch to reuse — no reclamation at all.
	RetainCapacity
	// RetainWithLimit keeps freed slots only up to a byte budget, trimming
	// the rest the way a long-lived terminal session caps idle memory
	// after a burst of scrollback churn.
	RetainWithLimit
)

// Reset reclaims memory from pp per mode. limitBytes is only consulted
// under RetainWithLimit, where each pooled slot is charged the layout size
// of the pool's standard capacity (cellpage.ComputeLayout). This mirrors GlobalPool.DropFileSet's two-pass
// shape: first decide what must be kept, then free the rest in one sweep,
// rather than freeing incrementally and re-deciding on each slot.
func (pp *PagePool) Reset(mode ResetMode, limitBytes int) {
	switch mode {
	case FreeAll:
		pp.pool.mu.Lock()
		n := len(pp.pool.slots)
		pp.pool.slots = nil
		pp.pool.freeList = nil
		pp.pool.mu.Unlock()
		slog.Debug(logPrefix+"reset(free_all)", "discarded", n)

	case RetainCapacity:
		slog.Debug(logPrefix + "reset(retain_capacity): no-op")

	case RetainWithLimit:
		perPage := cellpage.ComputeLayout(pp.standard).TotalSize
		if perPage < 1 {
			perPage = 1
		}
		keepSlots := limitBytes / perPage
		if keepSlots < 0 {
			keepSlots = 0
		}
		before := pp.Len()
		pp.ShrinkTo(keepSlots)
		slog.Debug(logPrefix+"reset(retain_with_limit)",
			"limitBytes", limitBytes, "before", before, "after", pp.Len())
	}
}
