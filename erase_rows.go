package novaterm

import "github.com/tuannm99/novaterm/internal/cellpage"

// activeSet returns the set of (node,y) positions currently in the active
// area, computed before a mutation so EraseRows can tell whether the
// range it is about to remove overlaps the active area.
func (pl *PageList) activeSet() map[chainPos]bool {
	set := make(map[chainPos]bool)
	remaining := pl.activeRows()
	for n := pl.nodes.last; n != nil && remaining > 0; n = n.prev {
		rows := n.page.Size().Rows
		start := 0
		if rows > remaining {
			start = rows - remaining
		}
		for y := start; y < rows; y++ {
			set[chainPos{node: n, y: y}] = true
		}
		remaining -= rows - start
	}
	return set
}

// buildChainBetween enumerates rows from tl through end inclusive,
// following the node chain forward.
func (pl *PageList) buildChainBetween(tl, end chainPos) []chainPos {
	var chain []chainPos
	n := tl.node
	y := tl.y
	for n != nil {
		rows := n.page.Size().Rows
		for ; y < rows; y++ {
			chain = append(chain, chainPos{node: n, y: y})
			if n == end.node && y == end.y {
				return chain
			}
		}
		n = n.next
		y = 0
	}
	return chain
}

// EraseRows erases a rectangular range of whole rows from tl through bl
// inclusive (bl nil means "to the end of the list"), per spec §4.5. Full
// pages in the range are reclaimed (or, for the sole remaining node,
// reinitialized to zero rows); partial pages have their remaining rows
// slid up in place. If the erased range intersects the active area, grow
// is called enough times afterward to restore it.
func (pl *PageList) EraseRows(tl Pin, bl *Pin) error {
	end := chainPos{node: pl.nodes.last, y: pl.nodes.last.page.Size().Rows - 1}
	if bl != nil {
		end = chainPos{node: bl.node, y: bl.y}
	}

	active := pl.activeSet()
	intersects := false
	for _, c := range pl.buildChainBetween(chainPos{node: tl.node, y: tl.y}, end) {
		if active[c] {
			intersects = true
			break
		}
	}

	n := tl.node
	startY := tl.y
	erasedTotal := 0
	viewportErased := false
	destroyed := make(map[*Node]bool)

	for n != nil {
		rows := n.page.Size().Rows
		chunkStart := 0
		if n == tl.node {
			chunkStart = startY
		}
		chunkEnd := rows
		isEndNode := n == end.node
		if isEndNode {
			chunkEnd = end.y + 1
		}
		nextNode := n.next

		if pl.viewportPin.node == n && pl.viewportPin.y >= chunkStart && pl.viewportPin.y < chunkEnd {
			viewportErased = true
		}

		if chunkStart == 0 && chunkEnd == rows {
			erasedTotal += rows
			if pl.eraseFullPage(n, tl) {
				destroyed[n] = true
			}
		} else {
			erasedTotal += chunkEnd - chunkStart
			if err := pl.erasePartialChunk(n, chunkStart, chunkEnd, tl); err != nil {
				return err
			}
		}

		if isEndNode {
			break
		}
		n = nextNode
	}

	// A pin may have been parked on tl while tl's own node was part of a
	// full-page chunk; once the dust settles, anything still aimed at a
	// destroyed node collapses to the surviving top-left.
	if len(destroyed) > 0 {
		first := pl.nodes.first
		pl.pins.forEach(func(p *Pin) {
			if destroyed[p.node] {
				p.node, p.y, p.x = first, 0, 0
			}
		})
	}

	if viewportErased {
		pl.viewport = ViewportActive
		tl := pl.activeTopLeft()
		pl.viewportPin.node, pl.viewportPin.y, pl.viewportPin.x = tl.node, tl.y, tl.x
	}

	if intersects {
		for i := 0; i < erasedTotal && pl.TotalRows() < pl.activeRows(); i++ {
			if _, err := pl.Grow(); err != nil {
				return err
			}
		}
	}
	return nil
}

// eraseFullPage removes node n outright, unless it is the sole remaining
// node in the list, in which case it is reinitialized to zero rows
// instead of being detached (spec §4.5 special case). Reports whether the
// node was actually destroyed.
func (pl *PageList) eraseFullPage(n *Node, tl Pin) bool {
	if pl.nodes.count == 1 {
		pl.collapsePinsOnNode(n)
		n.page.Reinit()
		return false
	}
	pl.nodes.remove(n)
	pl.pins.forEach(func(p *Pin) {
		if p.node == n {
			p.node, p.y, p.x = tl.node, tl.y, tl.x
		}
	})
	pl.destroyNode(n)
	return true
}

// erasePartialChunk removes rows [chunkStart,chunkEnd) from n's page by
// sliding the rows below chunkEnd up to fill the gap, then shrinking
// size.rows. Pins inside the removed range collapse to tl; pins below it
// shift up by the chunk's length.
func (pl *PageList) erasePartialChunk(n *Node, chunkStart, chunkEnd int, tl Pin) error {
	removed := chunkEnd - chunkStart
	rows := n.page.Size().Rows

	for i := 0; chunkEnd+i < rows; i++ {
		if err := cellpage.CloneRowInto(n.page, chunkStart+i, n.page, chunkEnd+i); err != nil {
			return err
		}
		n.page.MarkRowDirty(chunkStart + i)
	}
	if err := n.page.SetRows(rows - removed); err != nil {
		return err
	}

	pl.pins.forEach(func(p *Pin) {
		if p.node != n {
			return
		}
		switch {
		case p.y >= chunkStart && p.y < chunkEnd:
			p.node, p.y, p.x = tl.node, tl.y, tl.x
		case p.y >= chunkEnd:
			p.y -= removed
		}
	})
	return nil
}
