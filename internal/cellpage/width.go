package cellpage

import "github.com/mattn/go-runewidth"

// runewidthCond is shared across all pages; its East-Asian-width table is
// read-only after construction, so one instance is safe to reuse.
var runewidthCond = runewidth.NewCondition()

func init() {
	// Terminals generally treat ambiguous-width runes as narrow unless the
	// application has explicitly opted into CJK mode; that policy lives
	// above this package (the screen layer), so we keep the default here.
	runewidthCond.EastAsianWidth = false
}

// CellColumns reports how many grid columns r occupies: 1 for narrow, 2 for
// wide. Zero-width combining runes (handled via the grapheme table, not
// here) report 0 so callers don't double-count them as a second cell.
func CellColumns(r rune) int {
	if r == 0 {
		return 1
	}
	return runewidthCond.RuneWidth(r)
}

// IsWide reports whether r occupies two grid columns.
func IsWide(r rune) bool {
	return CellColumns(r) >= 2
}
