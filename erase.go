package novaterm

import "github.com/tuannm99/novaterm/internal/cellpage"

// chainPos is one (node, row) slot in the linear sequence erase walks:
// the erased row's page, then every row of every subsequent page through
// the end of the list.
type chainPos struct {
	node *Node
	y    int
}

// buildChain enumerates the rows from (from.node, from.y) through the
// last row of the last node, optionally truncated to at most maxLen
// entries (eraseRowBounded's limit). maxLen < 0 means unbounded.
func (pl *PageList) buildChain(from Pin, maxLen int) []chainPos {
	var chain []chainPos
	n := from.node
	y := from.y
	for n != nil {
		rows := n.page.Size().Rows
		for ; y < rows; y++ {
			chain = append(chain, chainPos{node: n, y: y})
			if maxLen >= 0 && len(chain) >= maxLen {
				return chain
			}
		}
		n = n.next
		y = 0
	}
	return chain
}

// shiftChainUp copies each chain[i+1] row's content into chain[i], clears
// the final slot, marks every touched row dirty, and rewrites tracked
// pins: a pin sitting at chain[k] for k>=1 moves to chain[k-1] ("strictly
// below the erased row move up by one"); a pin at chain[0] (the erased
// row itself) is left alone, since it names a screen position whose
// content changes, not a row that disappears.
func (pl *PageList) shiftChainUp(chain []chainPos) error {
	if len(chain) == 0 {
		return nil
	}

	for i := 0; i < len(chain)-1; i++ {
		src, dst := chain[i+1], chain[i]
		if err := cellpage.CloneRowInto(dst.node.page, dst.y, src.node.page, src.y); err != nil {
			return err
		}
		dst.node.page.MarkRowDirty(dst.y)
	}

	last := chain[len(chain)-1]
	if err := last.node.page.ClearRow(last.y); err != nil {
		return err
	}

	rank := make(map[*Node]map[int]int, 4)
	for i, c := range chain {
		m, ok := rank[c.node]
		if !ok {
			m = make(map[int]int)
			rank[c.node] = m
		}
		m[c.y] = i
	}

	pl.pins.forEach(func(p *Pin) {
		m, ok := rank[p.node]
		if !ok {
			return
		}
		k, ok := m[p.y]
		if !ok || k == 0 {
			return
		}
		prev := chain[k-1]
		p.node, p.y = prev.node, prev.y
	})
	return nil
}

// EraseRow removes a single row by shifting every subsequent row (within
// this page, then borrowing across the rest of the chain) up by one slot
// and blanking the final trailing slot. Page sizes are unchanged (spec
// §4.5 eraseRow). Tracked pins strictly below pt move up by one row.
func (pl *PageList) EraseRow(pt Pin) error {
	chain := pl.buildChain(pt, -1)
	if err := pl.shiftChainUp(chain); err != nil {
		return err
	}
	return nil
}

// EraseRowBounded is EraseRow but the upward shift stops short of the
// slot at pt+limit, which is left untouched; the last shifted slot
// (pt+limit-1) is cleared instead. This is the fast path for "delete one
// line inside a scroll region".
func (pl *PageList) EraseRowBounded(pt Pin, limit int) error {
	if limit <= 0 {
		return nil
	}
	chain := pl.buildChain(pt, limit)
	return pl.shiftChainUp(chain)
}
