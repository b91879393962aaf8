package cellpage

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Capacity is the fixed shape a Page buffer was allocated for. It never
// shrinks for the lifetime of a Page; adjustCapacity and reflow's overflow
// path always splice in a brand-new Page rather than mutate one in place.
type Capacity struct {
	Cols           int
	Rows           int
	Styles         int
	GraphemeBytes  int
	HyperlinkBytes int
	StringBytes    int
}

// Layout is the byte accounting for a Capacity, used by the page pool to
// decide whether a page fits the standard pooled slab (§4.2) and by the
// page list to maintain page_size (invariant 6).
type Layout struct {
	Capacity  Capacity
	TotalSize int
}

const (
	bytesPerCell   = 12 // fixed per-cell accounting charge, not the in-memory size of Cell
	bytesPerRowHdr = 8
)

// ComputeLayout returns the accounting layout for cap: how many bytes a
// page of this shape charges against page_size, independent of how the
// Go runtime actually lays the struct out in memory. This is what lets
// invariant 6 (page_size == Σ page.memory.len) hold exactly, and what the
// pool uses to decide standard vs. oversize.
func ComputeLayout(cap Capacity) Layout {
	cellBytes := cap.Cols * cap.Rows * bytesPerCell
	rowBytes := cap.Rows * bytesPerRowHdr
	styleBytes := cap.Styles * 24 // rough per-entry footprint, see Style
	total := cellBytes + rowBytes + styleBytes + cap.GraphemeBytes + cap.HyperlinkBytes + cap.StringBytes
	return Layout{Capacity: cap, TotalSize: total}
}

// RowFootprint returns the bytes one row at the given width charges
// against a page's layout: its cells plus the row header. Callers use it
// to solve for how many rows fit in a fixed page byte budget.
func RowFootprint(cols int) int {
	return cols*bytesPerCell + bytesPerRowHdr
}

// Size is how much of a Page's Capacity is actually in use.
type Size struct {
	Cols int
	Rows int
}

// Page is the opaque per-node cell grid: capacity/size, the row array, and
// the style/grapheme/hyperlink side tables. Nothing outside this package
// reaches into a Page's internals; everything is done through the methods
// below, matching spec.md §6's Downward interface.
type Page struct {
	cap Capacity
	sz  Size

	rows  []rowData
	dirty dirtySet

	styles     *styleTable
	graphemes  *graphemeTable
	hyperlinks *hyperlinkTable

	integrityChecksPaused bool
}

// NewPage allocates a Page at the given capacity, zero-initialized, with
// size.rows == 0 (the caller grows it via SetRows as content is added).
// This is the "initBuf" + "reinit" pair from spec.md §6 collapsed into one
// constructor: cellpage has no raw byte buffer to hand back into separately
// (see DESIGN.md for why Page's internals are plain Go slices rather than
// a hand-packed byte layout — only the accounting layout in ComputeLayout
// needs to be byte-exact, and it is computed independently of this
// representation).
func NewPage(cap Capacity) *Page {
	p := &Page{cap: cap}
	p.reinit()
	return p
}

// reinit resets a Page to empty at its current capacity, allocating a
// fresh row slice, dirty set and empty side tables — used when a node is
// recycled by the pool (§4.2 destroyNode / §4.4 grow's head-page
// recycling).
func (p *Page) reinit() {
	p.sz = Size{Cols: p.cap.Cols, Rows: 0}
	p.rows = make([]rowData, 0, p.cap.Rows)
	p.dirty = newDirtySet(p.cap.Rows)
	p.styles = newStyleTable(p.cap.Styles)
	p.graphemes = newGraphemeTable(p.cap.GraphemeBytes)
	p.hyperlinks = newHyperlinkTable(p.cap.HyperlinkBytes)
}

// Reinit resets the page to empty, discarding all content, without
// reallocating its capacity. The page pool calls this when handing a
// recycled Page back out, the same moment bufferpool.Pool reuses a Frame
// for a different page.
func (p *Page) Reinit() { p.reinit() }

// Capacity returns the page's fixed capacity.
func (p *Page) Capacity() Capacity { return p.cap }

// Size returns the page's current in-use size.
func (p *Page) Size() Size { return p.sz }

// Layout returns the accounting layout for this page's capacity.
func (p *Page) Layout() Layout { return ComputeLayout(p.cap) }

// SetRows grows or shrinks the number of in-use rows within capacity.
// Growing appends blank rows at the new width; shrinking truncates
// (callers are expected to have already cleared/flushed what's discarded).
func (p *Page) SetRows(n int) error {
	if n < 0 || n > p.cap.Rows {
		return fmt.Errorf("cellpage: SetRows(%d) out of capacity [0,%d]", n, p.cap.Rows)
	}
	for len(p.rows) < n {
		p.rows = append(p.rows, newRowData(p.sz.Cols))
	}
	if n < len(p.rows) {
		p.rows = p.rows[:n]
	}
	p.sz.Rows = n
	return nil
}

// SetCols changes size.cols in place, used by the no-reflow column resize
// (§4.8). Shrinking just narrows the visible width (the caller clears the
// cells beyond it); growing within capacity widens each row's cell slice
// with blanks.
func (p *Page) SetCols(n int) {
	for y := range p.rows {
		if len(p.rows[y].cells) < n {
			cells := make([]Cell, n)
			copy(cells, p.rows[y].cells)
			p.rows[y].cells = cells
		}
	}
	p.sz.Cols = n
}

func (p *Page) checkRow(y int) error {
	if y < 0 || y >= p.sz.Rows {
		return fmt.Errorf("cellpage: row %d out of size [0,%d)", y, p.sz.Rows)
	}
	return nil
}

func (p *Page) checkCell(y, x int) error {
	if err := p.checkRow(y); err != nil {
		return err
	}
	if x < 0 || x >= p.sz.Cols {
		return fmt.Errorf("cellpage: col %d out of size [0,%d)", x, p.sz.Cols)
	}
	return nil
}

// Cell returns the cell at (y,x).
func (p *Page) Cell(y, x int) (Cell, error) {
	if err := p.checkCell(y, x); err != nil {
		return Cell{}, err
	}
	return p.rows[y].cells[x], nil
}

// SetCell overwrites the cell at (y,x).
func (p *Page) SetCell(y, x int, c Cell) error {
	if err := p.checkCell(y, x); err != nil {
		return err
	}
	p.rows[y].cells[x] = c
	p.dirty.mark(y)
	return nil
}

// ClearCells blanks cells [x0,x1) of row y.
func (p *Page) ClearCells(y, x0, x1 int) error {
	if err := p.checkRow(y); err != nil {
		return err
	}
	p.rows[y].clear(x0, x1)
	p.dirty.mark(y)
	return nil
}

// ClearRow blanks an entire row, including its flags.
func (p *Page) ClearRow(y int) error {
	if err := p.checkRow(y); err != nil {
		return err
	}
	p.rows[y].clearAll()
	p.dirty.mark(y)
	return nil
}

// Wrap, WrapContinuation, Styled, SemanticPrompt, KittyVirtualPlaceholder
// report a row's flags (spec.md §6 row flags).
func (p *Page) Wrap(y int) bool                    { return p.rows[y].wrap }
func (p *Page) WrapContinuation(y int) bool        { return p.rows[y].wrapContinuation }
func (p *Page) Styled(y int) bool                  { return p.rows[y].styled }
func (p *Page) SemanticPromptOf(y int) PromptKind  { return p.rows[y].semanticPrompt }
func (p *Page) KittyVirtualPlaceholder(y int) bool { return p.rows[y].kittyVirtualPlaceholder }

// SetWrap, SetWrapContinuation, SetStyled, SetSemanticPrompt,
// SetKittyVirtualPlaceholder mutate a row's flags and mark it dirty.
func (p *Page) SetWrap(y int, v bool) {
	p.rows[y].wrap = v
	p.dirty.mark(y)
}

func (p *Page) SetWrapContinuation(y int, v bool) {
	p.rows[y].wrapContinuation = v
	p.dirty.mark(y)
}

func (p *Page) SetStyled(y int, v bool) {
	p.rows[y].styled = v
	p.dirty.mark(y)
}

func (p *Page) SetSemanticPrompt(y int, v PromptKind) {
	p.rows[y].semanticPrompt = v
	p.dirty.mark(y)
}

func (p *Page) SetKittyVirtualPlaceholder(y int, v bool) {
	p.rows[y].kittyVirtualPlaceholder = v
	p.dirty.mark(y)
}

// IsRowDirty and DirtyBitSet expose the dirty tracking used by the
// diagnostics layer. The returned bitset is live: a renderer may read it
// directly between mutations, one bit per row capacity slot.
func (p *Page) IsRowDirty(y int) bool        { return p.dirty.isSet(y) }
func (p *Page) ClearDirty()                  { p.dirty.clear() }
func (p *Page) MarkRowDirty(y int)           { p.dirty.mark(y) }
func (p *Page) DirtyBitSet() *bitset.BitSet  { return p.dirty.bitSet() }

// Styles, Graphemes, Hyperlinks expose the side tables to package novaterm
// (which needs Add/Release when writing/erasing styled or linked cells)
// without leaking the concrete table types' internals.
func (p *Page) StyleCount() int              { return p.styles.Count() }
func (p *Page) StyleCapacity() int           { return p.styles.Capacity() }
func (p *Page) GetStyle(id uint16) (Style, bool) { return p.styles.Get(id) }
func (p *Page) AddStyle(s Style) (uint16, error) { return p.styles.Add(s) }
func (p *Page) AddStyleWithId(s Style) (uint16, error) { return p.styles.AddWithId(s) }
func (p *Page) UseStyle(id uint16)           { p.styles.Use(id) }
func (p *Page) ReleaseStyle(id uint16)       { p.styles.Release(id) }

func (p *Page) GraphemeCount() int                   { return p.graphemes.GraphemeCount() }
func (p *Page) GraphemeCapacity() int                { return p.graphemes.GraphemeCapacity() }
func (p *Page) LookupGrapheme(id uint32) []rune       { return p.graphemes.Lookup(id) }
func (p *Page) SetGraphemes(cps []rune) (uint32, error) { return p.graphemes.SetGraphemes(cps) }
func (p *Page) AppendGrapheme(id uint32, cp rune) error { return p.graphemes.AppendGrapheme(id, cp) }
func (p *Page) FreeGrapheme(id uint32)                 { p.graphemes.Free(id) }

func (p *Page) HyperlinkCount() int                       { return p.hyperlinks.Count() }
func (p *Page) HyperlinkCapacity() int                    { return p.hyperlinks.Capacity() }
func (p *Page) GetHyperlink(id uint16) (Hyperlink, bool)  { return p.hyperlinks.Get(id) }
func (p *Page) AddHyperlink(l Hyperlink) (uint16, error)  { return p.hyperlinks.Add(l) }
func (p *Page) AddHyperlinkWithId(l Hyperlink) (uint16, error) { return p.hyperlinks.AddWithId(l) }
func (p *Page) ReleaseHyperlink(id uint16)                { p.hyperlinks.Release(id) }

// DebugString renders a compact per-page diagram: one line per row, '.'
// for blank cells, the literal rune otherwise, with a trailing '>' marking
// wrap continuations into the next row.
func (p *Page) DebugString() string {
	out := make([]byte, 0, p.sz.Rows*(p.sz.Cols+2))
	for y := 0; y < p.sz.Rows; y++ {
		row := p.rows[y]
		for x := 0; x < p.sz.Cols; x++ {
			c := row.cells[x]
			switch {
			case c.Wide == WideSpacerTail || c.Wide == WideSpacerHead:
				continue
			case c.HasText():
				out = append(out, []byte(string(c.Codepoint))...)
			default:
				out = append(out, '.')
			}
		}
		if row.wrap {
			out = append(out, '>')
		}
		out = append(out, '\n')
	}
	return string(out)
}
