package cellpage

// CloneInto copies src's entire content (size, rows, and side tables) into
// dst, which must already have a capacity at least as large as src's size
// in every dimension. This is the low-level primitive the page list's
// adjustCapacity path uses to splice a node's content into a
// freshly allocated, larger-capacity page (spec.md §4.9: a Page can only
// widen by allocating a new one and copying across, never by resizing its
// own buffer in place).
func CloneInto(dst, src *Page) error {
	if dst.cap.Cols < src.sz.Cols || dst.cap.Rows < src.sz.Rows {
		return errNotEnoughCapacity
	}

	dst.styles = src.styles.clone(dst.cap.Styles)
	dst.graphemes = src.graphemes.clone(dst.cap.GraphemeBytes)
	dst.hyperlinks = src.hyperlinks.clone(dst.cap.HyperlinkBytes)

	dst.sz = Size{Cols: src.sz.Cols, Rows: src.sz.Rows}
	dst.rows = make([]rowData, src.sz.Rows)
	for y := range dst.rows {
		dst.rows[y] = src.rows[y].cloneRow()
	}
	dst.dirty = newDirtySet(dst.cap.Rows)
	dst.dirty.markRange(0, src.sz.Rows)
	return nil
}

// CloneRowInto copies a single row from src to dst at the given y, used by
// erase's cross-page row shifts and by reflow/resize when rows move one at
// a time between pages. The copied row is renormalized to dst's width, and
// when src and dst are different pages every style/hyperlink/grapheme
// reference is re-deduped into dst's side tables (the ids are page-local).
// A side-table overflow surfaces as the table's Full error; the page list
// recovers via adjustCapacity or reflow's move-row-to-new-page path.
func CloneRowInto(dst *Page, dstY int, src *Page, srcY int) error {
	if err := src.checkRow(srcY); err != nil {
		return err
	}
	if dstY < 0 || dstY >= len(dst.rows) {
		return errNotEnoughCapacity
	}

	row := src.rows[srcY].cloneRow()
	if len(row.cells) != dst.sz.Cols {
		cells := make([]Cell, dst.sz.Cols)
		copy(cells, row.cells)
		row.cells = cells
	}

	if dst != src {
		for x := range row.cells {
			c := &row.cells[x]
			if c.StyleID != 0 {
				if s, ok := src.styles.Get(c.StyleID); ok {
					id, err := dst.styles.Add(s)
					if err != nil {
						return err
					}
					c.StyleID = id
				} else {
					c.StyleID = 0
				}
			}
			if c.HyperlinkID != 0 {
				if l, ok := src.hyperlinks.Get(c.HyperlinkID); ok {
					id, err := dst.hyperlinks.Add(l)
					if err != nil {
						return err
					}
					c.HyperlinkID = id
				} else {
					c.HyperlinkID = 0
				}
			}
			if c.ContentTag == ContentCodepointGrapheme && c.GraphemeID != 0 {
				cps := src.graphemes.Lookup(c.GraphemeID)
				if cps == nil {
					c.GraphemeID = 0
					continue
				}
				id, err := dst.graphemes.SetGraphemes(cps)
				if err != nil {
					return err
				}
				c.GraphemeID = id
			}
		}
	}

	dst.rows[dstY] = row
	dst.dirty.mark(dstY)
	return nil
}

func (r *rowData) cloneRow() rowData {
	out := rowData{
		cells:                   append([]Cell(nil), r.cells...),
		wrap:                    r.wrap,
		wrapContinuation:        r.wrapContinuation,
		styled:                  r.styled,
		semanticPrompt:          r.semanticPrompt,
		kittyVirtualPlaceholder: r.kittyVirtualPlaceholder,
	}
	return out
}
