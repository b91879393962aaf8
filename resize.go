package novaterm

import "github.com/tuannm99/novaterm/internal/cellpage"

// ResizeRowsOnly grows or shrinks the active area's row count without
// touching cols, per spec §4.8. Shrinking trims trailing blank rows of
// the active area first (a row holding a tracked pin is never trimmed);
// whatever could not be trimmed stays behind as scrollback and the shell
// is expected to redraw its prompt. Growing simply calls Grow()
// repeatedly.
func (pl *PageList) ResizeRowsOnly(newRows int) error {
	if newRows < 1 {
		return ErrInvalidConfig
	}
	if newRows == pl.rows {
		return nil
	}
	if newRows > pl.rows {
		for i := 0; i < newRows-pl.rows; i++ {
			if _, err := pl.Grow(); err != nil {
				return err
			}
		}
		pl.rows = newRows
		pl.cfg.Rows = newRows
		return nil
	}

	want := pl.rows - newRows
	trimmed := 0
	for trimmed < want {
		chain := pl.activeRowsChain()
		if len(chain) == 0 {
			break
		}
		last := chain[len(chain)-1]
		if !isRowBlank(last) || pl.rowHasTrackedPin(last) {
			break
		}
		if err := pl.trimLastRow(last); err != nil {
			return err
		}
		trimmed++
	}
	pl.rows = newRows
	pl.cfg.Rows = newRows
	return nil
}

// rowHasTrackedPin reports whether any tracked pin currently sits at c.
func (pl *PageList) rowHasTrackedPin(c chainPos) bool {
	found := false
	pl.pins.forEach(func(p *Pin) {
		if p.node == c.node && p.y == c.y {
			found = true
		}
	})
	return found
}

// trimLastRow removes the trailing blank row of the chain's last page,
// reclaiming the page outright if it becomes empty (and isn't the sole
// remaining node).
func (pl *PageList) trimLastRow(c chainPos) error {
	n := c.node
	sz := n.page.Size()
	if err := n.page.SetRows(sz.Rows - 1); err != nil {
		return err
	}
	if n.page.Size().Rows == 0 && pl.nodes.count > 1 {
		pl.nodes.remove(n)
		pl.collapsePinsOnNode(n)
		pl.destroyNode(n)
	}
	return nil
}

// ResizeColsNoReflow changes cols in place without re-wrapping any
// content (spec §4.8 "column resize without reflow"): used when the
// caller already knows reflow is unnecessary (e.g. growing within a
// page's existing column capacity). Shrinking clamps size.cols on every
// page, clears cells beyond the new width, and clamps pins and
// grapheme anchors that fall outside it. Growing bumps size.cols
// in-place when every page's capacity.cols already covers newCols;
// otherwise rows are copied into freshly allocated wider-capacity
// pages, packing the tail of the previous destination page before
// opening a new one to limit fragmentation.
func (pl *PageList) ResizeColsNoReflow(newCols int) error {
	if newCols == pl.cols {
		return nil
	}
	if newCols < pl.cols {
		return pl.shrinkColsInPlace(newCols)
	}
	return pl.growColsNoReflow(newCols)
}

func (pl *PageList) shrinkColsInPlace(newCols int) error {
	for n := pl.nodes.first; n != nil; n = n.next {
		sz := n.page.Size()
		for y := 0; y < sz.Rows; y++ {
			for x := newCols; x < sz.Cols; x++ {
				c, err := n.page.Cell(y, x)
				if err == nil && c.ContentTag == cellpage.ContentCodepointGrapheme {
					n.page.FreeGrapheme(c.GraphemeID)
				}
			}
			if err := n.page.ClearCells(y, newCols, sz.Cols); err != nil {
				return err
			}
		}
		n.page.SetCols(newCols)
	}
	pl.pins.forEach(func(p *Pin) {
		if p.x >= newCols {
			p.x = newCols - 1
		}
	})
	pl.cols = newCols
	pl.cfg.Cols = newCols
	pl.pagePool.SetStandard(stdCapacity(newCols))
	return nil
}

func (pl *PageList) growColsNoReflow(newCols int) error {
	fits := true
	for n := pl.nodes.first; n != nil; n = n.next {
		if n.page.Capacity().Cols < newCols {
			fits = false
			break
		}
	}
	if fits {
		for n := pl.nodes.first; n != nil; n = n.next {
			n.page.SetCols(newCols)
		}
		pl.cols = newCols
		pl.cfg.Cols = newCols
		pl.pagePool.SetStandard(stdCapacity(newCols))
		return nil
	}
	pl.pagePool.SetStandard(stdCapacity(newCols))

	newList := &nodeList{}
	var dst *Node
	var dstY int

	// The source chain stays intact until the copy completes; a failure
	// tears the partial destination down, restores every pin, and leaves
	// the list unchanged.
	saved := pl.savePins()
	walkBack := func() {
		for n := newList.first; n != nil; {
			next := n.next
			pl.destroyNode(n)
			n = next
		}
		pl.restorePins(saved)
	}

	for n := pl.nodes.first; n != nil; n = n.next {
		sz := n.page.Size()
		for y := 0; y < sz.Rows; y++ {
			if dst == nil || dst.page.Size().Rows >= dst.page.Capacity().Rows {
				// Fragmentation mitigation: only open a fresh page once
				// the tail of the previous destination is truly full.
				nn, err := pl.createPage(stdCapacity(newCols))
				if err != nil {
					walkBack()
					return err
				}
				newList.pushBack(nn)
				dst = nn
				dstY = 0
			}
			if err := dst.page.SetRows(dstY + 1); err != nil {
				walkBack()
				return err
			}
			if err := cellpage.CloneRowInto(dst.page, dstY, n.page, y); err != nil {
				walkBack()
				return err
			}
			pl.pins.forEach(func(p *Pin) {
				if p.node == n && p.y == y {
					p.node, p.y = dst, dstY
				}
			})
			dstY++
		}
	}

	old := pl.nodes
	pl.nodes = *newList
	pl.cols = newCols
	pl.cfg.Cols = newCols
	for n := old.first; n != nil; {
		next := n.next
		pl.destroyNode(n)
		n = next
	}
	return nil
}

// ResizeOptions is the argument to Resize, spec §6's
// resize({cols?, rows?, reflow, cursor?}): zero means "leave unchanged"
// for either dimension.
type ResizeOptions struct {
	Cols int
	Rows int

	// Reflow re-wraps soft-wrapped logical lines when Cols changes;
	// without it column changes clamp or pad rows in place.
	Reflow bool

	// Cursor, when non-nil, is a tracked pin on the caller's cursor cell;
	// the reflow path keeps it at the same distance from the bottom.
	Cursor *Pin
}

// Resize applies a column and/or row change in one call. Columns change
// first (so row accounting sees the final width), then rows.
func (pl *PageList) Resize(opts ResizeOptions) error {
	if opts.Cols != 0 && opts.Cols != pl.cols {
		if opts.Reflow {
			if err := pl.Reflow(opts.Cols, opts.Cursor); err != nil {
				return err
			}
		} else if err := pl.ResizeColsNoReflow(opts.Cols); err != nil {
			return err
		}
	}
	if opts.Rows != 0 && opts.Rows != pl.rows {
		if err := pl.ResizeRowsOnly(opts.Rows); err != nil {
			return err
		}
	}
	return nil
}
