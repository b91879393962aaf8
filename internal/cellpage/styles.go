package cellpage

import (
	"errors"

	"github.com/cespare/xxhash/v2"
)

// ErrStyleTableFull mirrors the other side-table overflow errors.
var ErrStyleTableFull = errors.New("cellpage: style table at capacity")

// Style is the SGR attribute set shared by a run of cells. Kept small and
// comparable so it can be used as part of a dedup key.
type Style struct {
	FG, BG    RGB
	FGPalette uint8
	BGPalette uint8
	HasFG     bool
	HasBG     bool
	Bold      bool
	Italic    bool
	Underline bool
	Faint     bool
	Strike    bool
	Invert    bool
	Invisible bool
}

type styleEntry struct {
	style Style
	refs  int
	live  bool
}

// styleTable dedups Style values the same way hyperlinkTable dedups
// Hyperlink values: a content digest narrows candidates, then a direct
// struct comparison confirms the match.
type styleTable struct {
	entries  []styleEntry
	freeList []uint16
	byIndex  map[uint64][]uint16
	cap      int
}

func newStyleTable(capacity int) *styleTable {
	return &styleTable{
		entries: make([]styleEntry, 1),
		byIndex: make(map[uint64][]uint16),
		cap:     capacity,
	}
}

func styleDigest(s Style) uint64 {
	var buf [16]byte
	buf[0] = s.FG.R
	buf[1] = s.FG.G
	buf[2] = s.FG.B
	buf[3] = s.BG.R
	buf[4] = s.BG.G
	buf[5] = s.BG.B
	buf[6] = s.FGPalette
	buf[7] = s.BGPalette
	buf[8] = boolByte(s.HasFG)<<0 | boolByte(s.HasBG)<<1 | boolByte(s.Bold)<<2 |
		boolByte(s.Italic)<<3 | boolByte(s.Underline)<<4 | boolByte(s.Faint)<<5 |
		boolByte(s.Strike)<<6 | boolByte(s.Invert)<<7
	buf[9] = boolByte(s.Invisible)
	return xxhash.Sum64(buf[:])
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Get resolves id to its Style.
func (t *styleTable) Get(id uint16) (Style, bool) {
	if id == 0 || int(id) >= len(t.entries) || !t.entries[id].live {
		return Style{}, false
	}
	return t.entries[id].style, true
}

// Add dedups s, returning an existing id on a hit or allocating a new one.
func (t *styleTable) Add(s Style) (uint16, error) {
	digest := styleDigest(s)
	for _, id := range t.byIndex[digest] {
		if t.entries[id].live && t.entries[id].style == s {
			t.entries[id].refs++
			return id, nil
		}
	}
	return t.AddWithId(s)
}

// AddWithId allocates a new entry without deduping against existing ones.
func (t *styleTable) AddWithId(s Style) (uint16, error) {
	if t.Count() >= t.cap {
		return 0, ErrStyleTableFull
	}

	var id uint16
	if n := len(t.freeList); n > 0 {
		id = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[id] = styleEntry{style: s, refs: 1, live: true}
	} else {
		if len(t.entries) > 0xFFFF {
			return 0, ErrStyleTableFull
		}
		id = uint16(len(t.entries))
		t.entries = append(t.entries, styleEntry{style: s, refs: 1, live: true})
	}

	digest := styleDigest(s)
	t.byIndex[digest] = append(t.byIndex[digest], id)
	return id, nil
}

// Use bumps a reference without performing a dedup lookup — for when a
// caller already holds a valid id (e.g. applying the same style to the
// next cell written in a run).
func (t *styleTable) Use(id uint16) {
	if id == 0 || int(id) >= len(t.entries) || !t.entries[id].live {
		return
	}
	t.entries[id].refs++
}

// Release drops a reference, freeing the entry at zero.
func (t *styleTable) Release(id uint16) {
	if id == 0 || int(id) >= len(t.entries) || !t.entries[id].live {
		return
	}
	t.entries[id].refs--
	if t.entries[id].refs > 0 {
		return
	}
	digest := styleDigest(t.entries[id].style)
	t.entries[id] = styleEntry{}
	t.freeList = append(t.freeList, id)

	ids := t.byIndex[digest]
	for i, cand := range ids {
		if cand == id {
			t.byIndex[digest] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

// Count returns the number of live style entries.
func (t *styleTable) Count() int {
	n := 0
	for i := 1; i < len(t.entries); i++ {
		if t.entries[i].live {
			n++
		}
	}
	return n
}

// Capacity returns the maximum number of distinct styles this page can hold.
func (t *styleTable) Capacity() int {
	return t.cap
}

func (t *styleTable) clone(newCap int) *styleTable {
	out := newStyleTable(newCap)
	out.entries = make([]styleEntry, len(t.entries))
	copy(out.entries, t.entries)
	out.freeList = append([]uint16(nil), t.freeList...)
	for digest, ids := range t.byIndex {
		out.byIndex[digest] = append([]uint16(nil), ids...)
	}
	return out
}
