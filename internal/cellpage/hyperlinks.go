package cellpage

import (
	"errors"

	"github.com/cespare/xxhash/v2"
)

// ErrHyperlinkTableFull mirrors ErrGraphemeTableFull for the hyperlink side
// table: the caller must widen capacity (adjustCapacity / moveLastRowToNewPage)
// and retry.
var ErrHyperlinkTableFull = errors.New("cellpage: hyperlink table at capacity")

// Hyperlink is the OSC 8 payload attached to a run of cells.
type Hyperlink struct {
	URI string
	ID  string // the OSC 8 "id=" parameter, empty if the host never sent one
}

type hyperlinkEntry struct {
	link Hyperlink
	refs int
	live bool
}

// hyperlinkTable dedups Hyperlink values per page: repeated cells pointing
// at the same URL share one entry, keyed by a content hash so lookup
// doesn't do a full string compare per candidate (bufferpool.Pool's
// pageTable map[key]int slot-index idea, generalized to a content digest).
type hyperlinkTable struct {
	entries  []hyperlinkEntry
	freeList []uint16
	byIndex  map[uint64][]uint16 // hash(link) -> candidate ids
	byteCap  int
	byteUsed int
}

func newHyperlinkTable(byteCap int) *hyperlinkTable {
	return &hyperlinkTable{
		entries: make([]hyperlinkEntry, 1),
		byIndex: make(map[uint64][]uint16),
		byteCap: byteCap,
	}
}

func hyperlinkDigest(l Hyperlink) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(l.URI)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(l.ID)
	return h.Sum64()
}

func hyperlinkFootprint(l Hyperlink) int {
	return len(l.URI) + len(l.ID)
}

// Get resolves an id to its Hyperlink, or the zero value if id is 0/freed.
func (t *hyperlinkTable) Get(id uint16) (Hyperlink, bool) {
	if id == 0 || int(id) >= len(t.entries) || !t.entries[id].live {
		return Hyperlink{}, false
	}
	return t.entries[id].link, true
}

// Add dedups l against existing entries, bumping a refcount on a hit, or
// allocates a new entry on a miss.
func (t *hyperlinkTable) Add(l Hyperlink) (uint16, error) {
	digest := hyperlinkDigest(l)
	for _, id := range t.byIndex[digest] {
		if t.entries[id].live && t.entries[id].link == l {
			t.entries[id].refs++
			return id, nil
		}
	}
	return t.addWithId(l, digest)
}

// AddWithId is Add without the dedup lookup: it always allocates a new
// entry, even when an equal link is already stored.
func (t *hyperlinkTable) AddWithId(l Hyperlink) (uint16, error) {
	return t.addWithId(l, hyperlinkDigest(l))
}

func (t *hyperlinkTable) addWithId(l Hyperlink, digest uint64) (uint16, error) {
	need := hyperlinkFootprint(l)
	if t.byteUsed+need > t.byteCap {
		return 0, ErrHyperlinkTableFull
	}

	var id uint16
	if n := len(t.freeList); n > 0 {
		id = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[id] = hyperlinkEntry{link: l, refs: 1, live: true}
	} else {
		if len(t.entries) > 0xFFFF {
			return 0, ErrHyperlinkTableFull
		}
		id = uint16(len(t.entries))
		t.entries = append(t.entries, hyperlinkEntry{link: l, refs: 1, live: true})
	}

	t.byIndex[digest] = append(t.byIndex[digest], id)
	t.byteUsed += need
	return id, nil
}

// Release drops one reference; the entry is freed once refs reaches zero.
func (t *hyperlinkTable) Release(id uint16) {
	if id == 0 || int(id) >= len(t.entries) || !t.entries[id].live {
		return
	}
	t.entries[id].refs--
	if t.entries[id].refs > 0 {
		return
	}
	digest := hyperlinkDigest(t.entries[id].link)
	t.byteUsed -= hyperlinkFootprint(t.entries[id].link)
	t.entries[id] = hyperlinkEntry{}
	t.freeList = append(t.freeList, id)

	ids := t.byIndex[digest]
	for i, cand := range ids {
		if cand == id {
			t.byIndex[digest] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

// Count returns the number of live hyperlink entries.
func (t *hyperlinkTable) Count() int {
	n := 0
	for i := 1; i < len(t.entries); i++ {
		if t.entries[i].live {
			n++
		}
	}
	return n
}

// Capacity returns the byte budget for hyperlink storage.
func (t *hyperlinkTable) Capacity() int {
	return t.byteCap
}

func (t *hyperlinkTable) clone(newCap int) *hyperlinkTable {
	out := newHyperlinkTable(newCap)
	out.entries = make([]hyperlinkEntry, len(t.entries))
	copy(out.entries, t.entries)
	out.freeList = append([]uint16(nil), t.freeList...)
	out.byteUsed = t.byteUsed
	for digest, ids := range t.byIndex {
		out.byIndex[digest] = append([]uint16(nil), ids...)
	}
	return out
}
