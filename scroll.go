package novaterm

// walkRows moves delta rows forward (positive) or backward (negative)
// from from, clamped to the list's bounds.
func walkRows(from chainPos, delta int) chainPos {
	n, y := from.node, from.y
	for delta > 0 {
		rows := n.page.Size().Rows
		if y+1 < rows {
			y++
			delta--
			continue
		}
		if n.next == nil {
			break
		}
		n = n.next
		y = 0
		delta--
	}
	for delta < 0 {
		if y-1 >= 0 {
			y--
			delta++
			continue
		}
		if n.prev == nil {
			break
		}
		n = n.prev
		y = n.page.Size().Rows - 1
		delta++
	}
	return chainPos{node: n, y: y}
}

// ScrollActive switches the viewport to follow the active area.
func (pl *PageList) ScrollActive() {
	pl.viewport = ViewportActive
}

// ScrollTop switches the viewport to the oldest row in the list.
func (pl *PageList) ScrollTop() {
	pl.viewport = ViewportTop
}

// ScrollDeltaRow moves the viewport by n rows (negative = toward
// scrollback, positive = toward the active area) from its current
// top-left, per spec §4.6. If the target lands in the active area the
// viewport reverts to ViewportActive so future scrollback is followed
// naturally; otherwise it becomes ViewportPin at the target.
func (pl *PageList) ScrollDeltaRow(n int) {
	cur := pl.ViewportTopLeft()
	target := walkRows(chainPos{node: cur.node, y: cur.y}, n)
	pl.settleViewportAt(target)
}

// ScrollPin moves the viewport directly to p, exactly as ScrollDeltaRow
// with an explicit target.
func (pl *PageList) ScrollPin(p Pin) {
	pl.settleViewportAt(chainPos{node: p.node, y: p.y})
}

func (pl *PageList) settleViewportAt(target chainPos) {
	p := Pin{node: target.node, y: target.y, x: 0}
	if pl.PinIsActive(&p) {
		pl.viewport = ViewportActive
		return
	}
	pl.viewport = ViewportPin
	pl.viewportPin.node, pl.viewportPin.y, pl.viewportPin.x = target.node, target.y, 0
}

// ScrollDeltaPrompt scans rows in the direction of n, counting rows whose
// semantic_prompt transitions into one of {prompt, prompt_continuation,
// input}, stopping once the count reaches |n|, then moves the viewport
// there exactly as ScrollDeltaRow.
func (pl *PageList) ScrollDeltaPrompt(n int) {
	cur := pl.ViewportTopLeft()
	pos := chainPos{node: cur.node, y: cur.y}
	dir := 1
	if n < 0 {
		dir = -1
	}
	remaining := n
	if remaining < 0 {
		remaining = -remaining
	}

	prevKind := semanticPromptOf(pos.node, pos.y)

	for remaining > 0 {
		next := walkRows(pos, dir)
		if next == pos {
			break
		}
		k := semanticPromptOf(next.node, next.y)
		if isPromptMarker(k) && !isPromptMarker(prevKind) {
			remaining--
		}
		prevKind = k
		pos = next
	}
	pl.settleViewportAt(pos)
}

func semanticPromptOf(n *Node, y int) SemanticPrompt {
	return n.page.SemanticPromptOf(y)
}

// ScrollClear promotes the active area's rows from its top through its
// bottommost non-blank row into scrollback: it counts trailing blank rows
// in the active area and calls Grow() once per active row above them,
// blank rows among the content included, per spec §4.6.
func (pl *PageList) ScrollClear() error {
	activeRows := pl.activeRowsChain()
	if len(activeRows) == 0 {
		return nil
	}

	trailingBlank := 0
	for i := len(activeRows) - 1; i >= 0; i-- {
		if isRowBlank(activeRows[i]) {
			trailingBlank++
		} else {
			break
		}
	}

	growCount := len(activeRows) - trailingBlank
	for i := 0; i < growCount; i++ {
		if _, err := pl.Grow(); err != nil {
			return err
		}
	}
	return nil
}

// activeRowsChain returns the current active area as an ordered chain of
// positions, oldest (top) first.
func (pl *PageList) activeRowsChain() []chainPos {
	tl := pl.activeTopLeft()
	return pl.buildChainBetween(chainPos{node: tl.node, y: tl.y}, pl.lastChainPos())
}

func (pl *PageList) lastChainPos() chainPos {
	last := pl.nodes.last
	return chainPos{node: last, y: last.page.Size().Rows - 1}
}

func isRowBlank(c chainPos) bool {
	sz := c.node.page.Size()
	for x := 0; x < sz.Cols; x++ {
		cell, err := c.node.page.Cell(c.y, x)
		if err != nil {
			return true
		}
		if !cell.IsEmpty() {
			return false
		}
	}
	return true
}
