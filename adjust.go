package novaterm

import "github.com/tuannm99/novaterm/internal/cellpage"

// CapacityRequest names the side-table minimums a node's page must grow
// to accommodate; a zero field means "no change requested" for that
// dimension (spec §4.9 adjustCapacity).
type CapacityRequest struct {
	Styles         int
	GraphemeBytes  int
	HyperlinkBytes int
	StringBytes    int
}

// adjustedCapacity rounds each requested dimension up to the next
// power of two and never shrinks below the node's current capacity,
// per spec §4.9's "monotonically non-decreasing" rule.
func adjustedCapacity(cur cellpage.Capacity, req CapacityRequest) cellpage.Capacity {
	out := cur
	if req.Styles > out.Styles {
		out.Styles = nextPow2(req.Styles)
	}
	if req.GraphemeBytes > out.GraphemeBytes {
		out.GraphemeBytes = nextPow2(req.GraphemeBytes)
	}
	if req.HyperlinkBytes > out.HyperlinkBytes {
		out.HyperlinkBytes = nextPow2(req.HyperlinkBytes)
	}
	if req.StringBytes > out.StringBytes {
		out.StringBytes = nextPow2(req.StringBytes)
	}
	return out
}

// AdjustCapacity is the recovery path a caller takes after a side-table
// overflow error (ErrStyleTableFull, ErrGraphemeTableFull,
// ErrHyperlinkTableFull) on a node it did not expect to widen mid-write
// (§4.9): it allocates a new page at a larger capacity, clones every row
// of n into it, splices the new node in n's place in the chain, and
// retargets every pin pointing at n. The old node is returned to the
// pools. Returns the new node.
func (pl *PageList) AdjustCapacity(n *Node, req CapacityRequest) (*Node, error) {
	newCap := adjustedCapacity(n.page.Capacity(), req)
	if newCap == n.page.Capacity() {
		return n, nil
	}

	replacement, err := pl.createPage(newCap)
	if err != nil {
		return nil, err
	}
	if err := cellpage.CloneInto(replacement.page, n.page); err != nil {
		return nil, err
	}

	replacement.prev = n.prev
	replacement.next = n.next
	if n.prev != nil {
		n.prev.next = replacement
	} else {
		pl.nodes.first = replacement
	}
	if n.next != nil {
		n.next.prev = replacement
	} else {
		pl.nodes.last = replacement
	}

	pl.pins.forEach(func(p *Pin) {
		if p.node == n {
			p.node = replacement
		}
	})
	if pl.viewportPin.node == n {
		pl.viewportPin.node = replacement
	}

	n.prev, n.next = nil, nil
	pl.destroyNode(n)

	return replacement, nil
}
