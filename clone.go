package novaterm

import (
	"github.com/tuannm99/novaterm/internal/cellpage"
	"github.com/tuannm99/novaterm/internal/pagepool"
)

// CloneMemory selects whether a Clone allocates its own fresh pools (the
// clone owns and eventually destroys them) or borrows the parent's pools
// (the clone's Deinit only resets them retaining capacity) — spec §5
// "Shared resources", grounded on the teacher's GlobalPool (shared) vs
// per-relation Pool (owned) distinction.
type CloneMemory struct {
	Owned  bool
	Shared *PageList // non-nil when Owned is false: the pool source
}

// Clone creates a new, independent PageList containing the rows from top
// through bot inclusive (bot nil means "through the end of the source").
// trackedPins, if non-nil, are remapped from source-list pointers to
// pins tracked on the new list.
func (pl *PageList) Clone(top Pin, bot *Pin, mem CloneMemory, trackedPins []*Pin) (*PageList, []*Pin, error) {
	end := chainPos{node: pl.nodes.last, y: pl.nodes.last.page.Size().Rows - 1}
	if bot != nil {
		end = chainPos{node: bot.node, y: bot.y}
	}
	chain := pl.buildChainBetween(chainPos{node: top.node, y: top.y}, end)
	if len(chain) == 0 {
		return nil, nil, ErrCloneOutOfRange
	}
	if !mem.Owned && mem.Shared == nil {
		return nil, nil, ErrInvalidConfig
	}

	out := &PageList{
		cols:  pl.cols,
		rows:  pl.rows,
		cfg:   pl.cfg,
		pins:  newPinSet(),
		owned: mem.Owned,
	}
	if mem.Owned {
		out.pagePool = pagepool.NewPagePool(pl.pagePool.StandardCapacity())
		out.nodePool = pagepool.NewObjectPool(
			func() *Node { return &Node{} },
			func(n *Node) { n.prev, n.next, n.page = nil, nil, nil },
		)
		out.pinPool = pagepool.NewObjectPool(
			func() *Pin { return &Pin{} },
			func(p *Pin) { p.node, p.y, p.x = nil, 0, 0 },
		)
	} else {
		out.pagePool = mem.Shared.pagePool
		out.nodePool = mem.Shared.nodePool
		out.pinPool = mem.Shared.pinPool
	}

	origByPos := make(map[chainPos]Pin, len(chain))

	var curNode *Node
	var dstY int

	appendRow := func(pos chainPos) error {
		if curNode == nil || curNode.page.Size().Rows >= curNode.page.Capacity().Rows {
			n, err := out.createPage(pos.node.page.Capacity())
			if err != nil {
				return err
			}
			out.nodes.pushBack(n)
			curNode = n
			dstY = 0
		}
		if err := curNode.page.SetRows(dstY + 1); err != nil {
			return err
		}
		if err := cellpage.CloneRowInto(curNode.page, dstY, pos.node.page, pos.y); err != nil {
			return err
		}
		origByPos[pos] = Pin{node: curNode, y: dstY, x: 0}
		dstY++
		return nil
	}

	for _, pos := range chain {
		if err := appendRow(pos); err != nil {
			return nil, nil, err
		}
	}

	remapped := make([]*Pin, 0, len(trackedPins))
	for _, p := range trackedPins {
		if p == nil {
			remapped = append(remapped, nil)
			continue
		}
		mapped, ok := origByPos[chainPos{node: p.node, y: p.y}]
		if !ok {
			remapped = append(remapped, nil)
			continue
		}
		mapped.x = p.x
		remapped = append(remapped, out.pins.track(out.pinPool, mapped))
	}

	out.viewportPin = out.pins.track(out.pinPool, out.getTopLeft())
	out.viewport = ViewportActive
	return out, remapped, nil
}
