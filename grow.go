package novaterm

// Grow extends the active area by one row (spec §4.4). It returns the
// newly created node, or nil if an existing page's spare capacity was
// used instead. Mirrors GlobalPool.GetPage's "free slot, else evict
// victim" two-branch shape, retargeted from disk-backed eviction to
// in-memory head-page recycling.
func (pl *PageList) Grow() (*Node, error) {
	tail := pl.nodes.last
	sz := tail.page.Size()
	cap := tail.page.Capacity()

	if sz.Rows < cap.Rows {
		if err := tail.page.SetRows(sz.Rows + 1); err != nil {
			return nil, err
		}
		return nil, nil
	}

	wouldExceed := pl.pageSize+StdPageBytes > pl.maxSize()
	if wouldExceed && pl.canPruneHead() {
		pl.pruneHeadIntoTail()
		return nil, nil
	}

	n, err := pl.createPage(stdCapacity(pl.cols))
	if err != nil {
		return nil, err
	}
	if err := n.page.SetRows(1); err != nil {
		return nil, err
	}
	pl.nodes.pushBack(n)
	return n, nil
}

// canPruneHead reports whether the head page can be detached without
// violating "total rows >= active rows" (spec invariant 2).
func (pl *PageList) canPruneHead() bool {
	if pl.nodes.count <= 1 {
		return false
	}
	headRows := pl.nodes.first.page.Size().Rows
	return pl.TotalRows()-headRows >= pl.activeRows()
}

// pruneHeadIntoTail detaches the head node, reinitializes its buffer at
// standard layout, and re-appends it as the new tail with one blank row —
// the byte-neutral way to grow without exceeding the budget (page_size is
// unchanged because the same buffer is reused). Any tracked pin pointing
// into the detached head is moved to the new first node's top-left.
func (pl *PageList) pruneHeadIntoTail() {
	head := pl.nodes.first
	pl.nodes.remove(head)

	pl.collapsePinsOnNode(head)

	head.page.Reinit()
	if err := head.page.SetRows(1); err != nil {
		panic("novaterm: reinitialized standard page rejected 1 row: " + err.Error())
	}
	pl.nodes.pushBack(head)
}
