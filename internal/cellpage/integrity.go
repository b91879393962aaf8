package cellpage

import "fmt"

// AssertIntegrity walks a page's rows and side tables checking invariants
// that are cheap to verify but expensive to get wrong silently: every
// StyleID/HyperlinkID/GraphemeID a cell references must resolve, and every
// wide cell must be followed by a matching spacer tail. Call sites gate
// this behind a build tag or test-only helper; it is not run on the hot
// write path in production use.
func (p *Page) AssertIntegrity() error {
	if p.integrityChecksPaused {
		return nil
	}
	for y := 0; y < p.sz.Rows; y++ {
		row := p.rows[y]
		for x := 0; x < p.sz.Cols; x++ {
			c := row.cells[x]
			if c.StyleID != 0 {
				if _, ok := p.styles.Get(c.StyleID); !ok {
					return fmt.Errorf("cellpage: row %d col %d references freed style %d", y, x, c.StyleID)
				}
			}
			if c.HyperlinkID != 0 {
				if _, ok := p.hyperlinks.Get(c.HyperlinkID); !ok {
					return fmt.Errorf("cellpage: row %d col %d references freed hyperlink %d", y, x, c.HyperlinkID)
				}
			}
			if c.ContentTag == ContentCodepointGrapheme && c.GraphemeID != 0 {
				if p.graphemes.Lookup(c.GraphemeID) == nil {
					return fmt.Errorf("cellpage: row %d col %d references freed grapheme %d", y, x, c.GraphemeID)
				}
			}
			if c.Wide == WideWide {
				if x+1 >= p.sz.Cols {
					return fmt.Errorf("cellpage: row %d col %d wide cell has no room for spacer tail", y, x)
				}
				if row.cells[x+1].Wide != WideSpacerTail {
					return fmt.Errorf("cellpage: row %d col %d wide cell not followed by spacer tail", y, x)
				}
			}
		}
	}
	return nil
}

// PauseIntegrityChecks disables AssertIntegrity until ResumeIntegrityChecks
// is called, for a bulk mutation that temporarily leaves the page in a
// partially-rewritten state between individual row/cell writes. Nothing in
// this module pauses checks on its own.
func (p *Page) PauseIntegrityChecks()  { p.integrityChecksPaused = true }
func (p *Page) ResumeIntegrityChecks() { p.integrityChecksPaused = false }
