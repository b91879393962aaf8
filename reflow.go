package novaterm

import "github.com/tuannm99/novaterm/internal/cellpage"

// reflowCursor is the single-pass destination writer described in spec
// §4.7: it owns exactly one "current" destination page at a time and
// widens capacity only through moveLastRowToNewPage. No direct teacher
// analog; built from the "write until full, open a new page, keep
// writing" idiom used throughout internal/storage's overflow handling.
type reflowCursor struct {
	pl      *PageList
	newCols int

	list *nodeList

	curNode *Node
	y, x    int

	// lineOpen is set while the cursor is mid-logical-line: the current
	// destination row exists and subsequent source cells keep appending
	// to it rather than opening a new row.
	lineOpen bool

	// curPrompt is the semantic prompt of the logical line being written,
	// carried onto continuation rows the cursor opens mid-line.
	curPrompt cellpage.PromptKind

	// pendingBlank counts deferred blank destination rows: a run of empty
	// source rows bumps it, and the rows only materialize when the next
	// non-empty source row arrives. Trailing blanks are never emitted.
	pendingBlank int
}

func newReflowCursor(pl *PageList, newCols int) *reflowCursor {
	return &reflowCursor{pl: pl, newCols: newCols, list: &nodeList{}}
}

// openNode appends a brand-new destination node at the given capacity,
// materializes its first row, and makes it current.
func (rc *reflowCursor) openNode(cap cellpage.Capacity) error {
	n, err := rc.pl.createPage(cap)
	if err != nil {
		return err
	}
	if err := n.page.SetRows(1); err != nil {
		return err
	}
	rc.list.pushBack(n)
	rc.curNode = n
	rc.y, rc.x = 0, 0
	return nil
}

// startFreshRow moves the cursor onto a brand-new blank destination row,
// opening a new page when the current one is at row capacity.
func (rc *reflowCursor) startFreshRow() error {
	if rc.curNode == nil {
		return rc.openNode(stdCapacity(rc.newCols))
	}
	rows := rc.curNode.page.Size().Rows
	if rows >= rc.curNode.page.Capacity().Rows {
		return rc.openNode(stdCapacity(rc.newCols))
	}
	if err := rc.curNode.page.SetRows(rows + 1); err != nil {
		return err
	}
	rc.y = rows
	rc.x = 0
	return nil
}

// beginContentRow flushes any deferred blank rows, then opens the row the
// next logical line starts on, carrying the source row's metadata.
func (rc *reflowCursor) beginContentRow(src *cellpage.Page, srcY int) error {
	for rc.pendingBlank > 0 {
		if err := rc.startFreshRow(); err != nil {
			return err
		}
		rc.pendingBlank--
	}
	if err := rc.startFreshRow(); err != nil {
		return err
	}
	rc.curPrompt = src.SemanticPromptOf(srcY)
	rc.curNode.page.SetSemanticPrompt(rc.y, rc.curPrompt)
	if src.KittyVirtualPlaceholder(srcY) {
		rc.curNode.page.SetKittyVirtualPlaceholder(rc.y, true)
	}
	rc.lineOpen = true
	return nil
}

// wrapToNextRow closes the current destination row as soft-wrapped and
// opens its continuation: the "pending_wrap" step of spec §4.7.
func (rc *reflowCursor) wrapToNextRow() error {
	rc.curNode.page.SetWrap(rc.y, true)
	if err := rc.startFreshRow(); err != nil {
		return err
	}
	rc.curNode.page.SetWrapContinuation(rc.y, true)
	rc.curNode.page.SetSemanticPrompt(rc.y, rc.curPrompt)
	return nil
}

// moveLastRowToNewPage is the only capacity-widening primitive (spec
// §4.7): it allocates a new destination page at cap, clones the row
// currently being written into it (re-deduping side-table references into
// the roomier tables), removes that row from the old destination page
// (freeing the page outright if it becomes empty), and makes the new page
// current so writing continues there. The cursor's x is preserved.
func (rc *reflowCursor) moveLastRowToNewPage(cap cellpage.Capacity) error {
	old := rc.curNode
	oldY := rc.y

	n, err := rc.pl.createPage(cap)
	if err != nil {
		return err
	}
	if err := n.page.SetRows(1); err != nil {
		return err
	}
	if err := cellpage.CloneRowInto(n.page, 0, old.page, oldY); err != nil {
		return err
	}

	if err := old.page.SetRows(oldY); err != nil {
		return err
	}
	if old.page.Size().Rows == 0 {
		rc.list.remove(old)
		rc.pl.destroyNode(old)
	}

	rc.list.pushBack(n)
	rc.curNode = n
	rc.y = 0
	return nil
}

func widenedCapacity(cap cellpage.Capacity) cellpage.Capacity {
	next := cap
	next.Styles = nextPow2(cap.Styles * 2)
	next.GraphemeBytes = nextPow2(cap.GraphemeBytes * 2)
	next.HyperlinkBytes = nextPow2(cap.HyperlinkBytes * 2)
	return next
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// srcCellKey identifies one (node, y, x) source cell for pin retargeting
// during reflow.
type srcCellKey struct {
	node *Node
	y, x int
}

// Reflow rebuilds the list's content at newCols, re-wrapping logical
// lines per spec §4.7, and replaces pl's node chain with the result.
// cursorPin, if non-nil, is the caller's current cursor position; the
// preserved-cursor heuristic (spec §4.7) keeps it at the same distance
// from the bottom of the list afterward, modulo the change in how often
// its logical line wraps.
func (pl *PageList) Reflow(newCols int, cursorPin *Pin) error {
	if newCols == pl.cols {
		return nil
	}

	pinIndex := make(map[srcCellKey][]*Pin)
	pl.pins.forEach(func(p *Pin) {
		k := srcCellKey{node: p.node, y: p.y, x: p.x}
		pinIndex[k] = append(pinIndex[k], p)
	})

	var oldRowsBelow int
	var haveCursor bool
	if cursorPin != nil {
		haveCursor = true
		oldRowsBelow = pl.rowsBelow(cursorPin.node, cursorPin.y)
	}

	pl.pagePool.SetStandard(stdCapacity(newCols))
	rc := newReflowCursor(pl, newCols)

	// Until the new chain is spliced in, the pre-reflow list stays fully
	// valid; on failure the partially built destination is torn down,
	// every pin is restored, and the caller sees the list unchanged.
	saved := pl.savePins()
	walkBack := func() {
		for n := rc.list.first; n != nil; {
			next := n.next
			pl.destroyNode(n)
			n = next
		}
		pl.restorePins(saved)
	}

	for srcNode := pl.nodes.first; srcNode != nil; srcNode = srcNode.next {
		sz := srcNode.page.Size()
		for y := 0; y < sz.Rows; y++ {
			if err := rc.reflowRow(srcNode, y, pinIndex); err != nil {
				walkBack()
				return err
			}
		}
	}
	// Trailing deferred blanks are discarded here: rc.pendingBlank simply
	// never materializes past the last content row.

	if rc.curNode == nil {
		if err := rc.openNode(stdCapacity(newCols)); err != nil {
			walkBack()
			return err
		}
	}

	oldSet := make(map[*Node]bool, pl.nodes.count)
	for n := pl.nodes.first; n != nil; n = n.next {
		oldSet[n] = true
	}

	oldNodes := pl.nodes
	pl.nodes = *rc.list
	pl.cols = newCols
	pl.cfg.Cols = newCols

	// Any pin still aimed at an old node sat on a row reflow never
	// emitted (a dropped blank row); its cell is gone, so it collapses to
	// the canonical fallback.
	first := pl.nodes.first
	pl.pins.forEach(func(p *Pin) {
		if oldSet[p.node] {
			p.node, p.y, p.x = first, 0, 0
		}
	})

	for n := oldNodes.first; n != nil; {
		next := n.next
		pl.destroyNode(n)
		n = next
	}

	for pl.TotalRows() < pl.rows {
		if _, err := pl.Grow(); err != nil {
			return err
		}
	}

	if haveCursor {
		pl.restoreCursorDistance(cursorPin, oldRowsBelow)
	}
	return nil
}

// rowsBelow counts the rows strictly below (n, y) in screen order.
func (pl *PageList) rowsBelow(n *Node, y int) int {
	below := n.page.Size().Rows - 1 - y
	for cur := n.next; cur != nil; cur = cur.next {
		below += cur.page.Size().Rows
	}
	return below
}

// reflowRow processes one source row's cells through the cursor,
// following the per-cell rules in spec §4.7.
func (rc *reflowCursor) reflowRow(srcNode *Node, srcY int, pinIndex map[srcCellKey][]*Pin) error {
	page := srcNode.page
	sz := page.Size()
	wrap := page.Wrap(srcY)
	cont := page.WrapContinuation(srcY)

	// A soft-wrapped row's cells all belong to the logical line, trailing
	// blanks included; an unwrapped row is trimmed to its last non-empty
	// cell so reflow never drags dead columns into the new layout.
	limit := sz.Cols
	if !wrap {
		limit = 0
		for x := sz.Cols - 1; x >= 0; x-- {
			c, err := page.Cell(srcY, x)
			if err != nil {
				return err
			}
			if !c.IsEmpty() {
				limit = x + 1
				break
			}
		}
	}

	if limit == 0 {
		// Fully blank. If it terminates an open logical line (a blank
		// continuation row with wrap == false), the line just ends; a
		// free-standing blank row is deferred via pendingBlank.
		if rc.lineOpen && cont && !wrap {
			rc.lineOpen = false
			return nil
		}
		if !rc.lineOpen {
			rc.pendingBlank++
		}
		return nil
	}

	if !rc.lineOpen {
		if err := rc.beginContentRow(page, srcY); err != nil {
			return err
		}
	}
	if page.Styled(srcY) {
		rc.curNode.page.SetStyled(rc.y, true)
	}
	if page.KittyVirtualPlaceholder(srcY) {
		rc.curNode.page.SetKittyVirtualPlaceholder(rc.y, true)
	}

	for x := 0; x < limit; x++ {
		if err := rc.reflowCell(srcNode, srcY, x, pinIndex); err != nil {
			return err
		}
	}

	// Pins on the trimmed tail of the source row follow the cursor,
	// clamped to the new width.
	for x := limit; x < sz.Cols; x++ {
		rc.retargetPins(srcCellKey{node: srcNode, y: srcY, x: x}, pinIndex)
	}

	if !wrap {
		rc.lineOpen = false
	}
	return nil
}

func (rc *reflowCursor) retargetPins(key srcCellKey, pinIndex map[srcCellKey][]*Pin) {
	for _, p := range pinIndex[key] {
		x := rc.x
		if x >= rc.newCols {
			x = rc.newCols - 1
		}
		p.node, p.y, p.x = rc.curNode, rc.y, x
	}
}

// reflowCell copies one source cell to the destination cursor per the
// rules enumerated in spec §4.7.
func (rc *reflowCursor) reflowCell(srcNode *Node, srcY, srcX int, pinIndex map[srcCellKey][]*Pin) error {
	page := srcNode.page
	c, err := page.Cell(srcY, srcX)
	if err != nil {
		return err
	}

	rc.retargetPins(srcCellKey{node: srcNode, y: srcY, x: srcX}, pinIndex)

	switch c.Wide {
	case cellpage.WideSpacerHead:
		// Regenerated on demand when a wide cell lands at a line end.
		return nil
	case cellpage.WideSpacerTail:
		// The wide cell itself emits its tail.
		return nil
	case cellpage.WideWide:
		if rc.newCols == 1 {
			// A wide glyph cannot exist at width 1; collapse to a blank
			// narrow cell.
			return rc.writeCell(cellpage.Cell{})
		}
		if rc.x == rc.newCols-1 {
			if err := rc.curNode.page.SetCell(rc.y, rc.x, cellpage.Cell{Wide: cellpage.WideSpacerHead}); err != nil {
				return err
			}
			if err := rc.wrapToNextRow(); err != nil {
				return err
			}
			return rc.reflowCell(srcNode, srcY, srcX, pinIndex)
		}
		if err := rc.writeCell(c); err != nil {
			return err
		}
		if tail, err := page.Cell(srcY, srcX+1); err == nil && tail.Wide == cellpage.WideSpacerTail {
			return rc.writeCell(tail)
		}
		return rc.writeCell(cellpage.Cell{Wide: cellpage.WideSpacerTail})
	}

	if c.ContentTag == cellpage.ContentCodepointGrapheme && c.GraphemeID != 0 {
		extra := page.LookupGrapheme(c.GraphemeID)
		newID, err := rc.curNode.page.SetGraphemes(extra)
		if err == cellpage.ErrGraphemeTableFull {
			if err := rc.widen(); err != nil {
				return err
			}
			return rc.reflowCell(srcNode, srcY, srcX, pinIndex)
		} else if err != nil {
			return err
		}
		c.GraphemeID = newID
	}

	if c.HyperlinkID != 0 {
		link, _ := page.GetHyperlink(c.HyperlinkID)
		newID, err := rc.curNode.page.AddHyperlink(link)
		if err == cellpage.ErrHyperlinkTableFull {
			if err := rc.widen(); err != nil {
				return err
			}
			return rc.reflowCell(srcNode, srcY, srcX, pinIndex)
		} else if err != nil {
			return err
		}
		c.HyperlinkID = newID
	}

	if c.StyleID != 0 {
		style, _ := page.GetStyle(c.StyleID)
		newID, err := rc.curNode.page.AddStyle(style)
		if err == cellpage.ErrStyleTableFull {
			if err := rc.widen(); err != nil {
				return err
			}
			return rc.reflowCell(srcNode, srcY, srcX, pinIndex)
		} else if err != nil {
			return err
		}
		c.StyleID = newID
		rc.curNode.page.SetStyled(rc.y, true)
	}

	return rc.writeCell(c)
}

// widen moves the row currently being written to a fresh, larger-capacity
// page when a side table overflows mid-write.
func (rc *reflowCursor) widen() error {
	return rc.moveLastRowToNewPage(widenedCapacity(rc.curNode.page.Capacity()))
}

// writeCell places c at the cursor's current position and advances x,
// soft-wrapping onto a continuation row first if the row is already full.
func (rc *reflowCursor) writeCell(c Cell) error {
	if rc.x >= rc.newCols {
		if err := rc.wrapToNextRow(); err != nil {
			return err
		}
	}
	if err := rc.curNode.page.SetCell(rc.y, rc.x, c); err != nil {
		return err
	}
	rc.x++
	return nil
}

// Cell re-exports cellpage.Cell under the novaterm API's own name.
type Cell = cellpage.Cell

// restoreCursorDistance appends blank rows to the active tail until the
// cursor sits at least as far from the bottom as it did before the
// reflow (spec §4.7's preserved-cursor heuristic). Re-wrapping can only
// pull the cursor closer to the bottom of its own logical line, so
// restoring the distance puts it back on the same active-area row; rows
// it gained from lines below wrapping harder already count toward the
// distance and never trigger a grow.
func (pl *PageList) restoreCursorDistance(cursorPin *Pin, oldRowsBelow int) {
	for pl.rowsBelow(cursorPin.node, cursorPin.y) < oldRowsBelow {
		if _, err := pl.Grow(); err != nil {
			return
		}
	}
}
