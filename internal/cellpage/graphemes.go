package cellpage

import (
	"errors"

	"github.com/rivo/uniseg"
)

// ErrGraphemeTableFull is returned when a page's grapheme side table has no
// room for another cluster; the caller (adjustCapacity, or reflow's
// moveLastRowToNewPage) must widen capacity and retry.
var ErrGraphemeTableFull = errors.New("cellpage: grapheme table at capacity")

// bytesPerRune is the fixed accounting unit charged against a page's
// grapheme_bytes capacity for each codepoint stored in a cluster. Real
// UTF-8 encoding would vary 1-4 bytes; terminals budget the worst case so a
// page never silently exceeds its reserved memory.
const bytesPerRune = 4

// graphemeEntry is one extended cluster: the codepoints beyond the single
// rune already stored inline in a Cell.
type graphemeEntry struct {
	codepoints []rune
	live       bool
}

// graphemeTable holds the "extra" codepoints of multi-rune grapheme
// clusters (emoji ZWJ sequences, combining marks, flags) for a single Page.
// IDs are 1-based so the zero value of Cell.GraphemeID means "no cluster".
type graphemeTable struct {
	entries  []graphemeEntry
	freeList []uint32
	byteCap  int
	byteUsed int
}

func newGraphemeTable(byteCap int) *graphemeTable {
	return &graphemeTable{
		entries: make([]graphemeEntry, 1), // index 0 is the "none" sentinel
		byteCap: byteCap,
	}
}

// IsClusterExtension reports whether appending next to base keeps the
// sequence a single grapheme cluster (e.g. combining accents, ZWJ emoji
// continuations) rather than starting a new cell.
func IsClusterExtension(base []rune, next rune) bool {
	if len(base) == 0 {
		return false
	}
	combined := string(base) + string(next)
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(combined, -1)
	return cluster == combined
}

// Lookup returns the extra codepoints for id, or nil if id is 0 or freed.
func (t *graphemeTable) Lookup(id uint32) []rune {
	if id == 0 || int(id) >= len(t.entries) || !t.entries[id].live {
		return nil
	}
	return t.entries[id].codepoints
}

// SetGraphemes reserves a brand-new cluster and returns its id.
func (t *graphemeTable) SetGraphemes(cps []rune) (uint32, error) {
	need := len(cps) * bytesPerRune
	if t.byteUsed+need > t.byteCap {
		return 0, ErrGraphemeTableFull
	}

	cloned := append([]rune(nil), cps...)

	var id uint32
	if n := len(t.freeList); n > 0 {
		id = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[id] = graphemeEntry{codepoints: cloned, live: true}
	} else {
		id = uint32(len(t.entries))
		t.entries = append(t.entries, graphemeEntry{codepoints: cloned, live: true})
	}

	t.byteUsed += need
	return id, nil
}

// AppendGrapheme extends an existing cluster by one codepoint.
func (t *graphemeTable) AppendGrapheme(id uint32, cp rune) error {
	if id == 0 || int(id) >= len(t.entries) || !t.entries[id].live {
		return errors.New("cellpage: append to unknown grapheme id")
	}
	if t.byteUsed+bytesPerRune > t.byteCap {
		return ErrGraphemeTableFull
	}
	t.entries[id].codepoints = append(t.entries[id].codepoints, cp)
	t.byteUsed += bytesPerRune
	return nil
}

// Free releases id's storage back to the table.
func (t *graphemeTable) Free(id uint32) {
	if id == 0 || int(id) >= len(t.entries) || !t.entries[id].live {
		return
	}
	t.byteUsed -= len(t.entries[id].codepoints) * bytesPerRune
	t.entries[id] = graphemeEntry{}
	t.freeList = append(t.freeList, id)
}

// GraphemeCount returns the number of live clusters.
func (t *graphemeTable) GraphemeCount() int {
	return len(t.entries) - 1 - len(t.freeList)
}

// GraphemeCapacity returns the byte budget for cluster storage.
func (t *graphemeTable) GraphemeCapacity() int {
	return t.byteCap
}

// clone returns a deep copy sized to a (possibly larger) capacity, used by
// adjustCapacity and the reflow overflow path.
func (t *graphemeTable) clone(newCap int) *graphemeTable {
	out := newGraphemeTable(newCap)
	out.entries = make([]graphemeEntry, len(t.entries))
	copy(out.entries, t.entries)
	for i := range out.entries {
		if out.entries[i].live {
			out.entries[i].codepoints = append([]rune(nil), out.entries[i].codepoints...)
		}
	}
	out.freeList = append([]uint32(nil), t.freeList...)
	out.byteUsed = t.byteUsed
	return out
}
