package cellpage

import "github.com/bits-and-blooms/bitset"

// dirtySet tracks which rows of a page have been touched since the last
// render, one bit per row capacity slot.
type dirtySet struct {
	bits *bitset.BitSet
}

func newDirtySet(rows int) dirtySet {
	return dirtySet{bits: bitset.New(uint(max(rows, 1)))}
}

func (d *dirtySet) mark(y int) {
	if y < 0 {
		return
	}
	d.bits.Set(uint(y))
}

func (d *dirtySet) markRange(y0, y1 int) {
	for y := y0; y < y1; y++ {
		d.mark(y)
	}
}

func (d *dirtySet) isSet(y int) bool {
	if y < 0 {
		return false
	}
	return d.bits.Test(uint(y))
}

func (d *dirtySet) clear() {
	d.bits.ClearAll()
}

func (d *dirtySet) bitSet() *bitset.BitSet {
	return d.bits
}

func (d *dirtySet) clone() dirtySet {
	return dirtySet{bits: d.bits.Clone()}
}
