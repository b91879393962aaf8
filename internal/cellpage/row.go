package cellpage

// rowData is one row's worth of cells plus the flags a page list reads and
// writes during erase/scroll/reflow.
type rowData struct {
	cells []Cell

	wrap                    bool
	wrapContinuation        bool
	styled                  bool
	semanticPrompt          PromptKind
	kittyVirtualPlaceholder bool
}

func newRowData(cols int) rowData {
	return rowData{cells: make([]Cell, cols)}
}

func (r *rowData) clear(x0, x1 int) {
	for i := x0; i < x1 && i < len(r.cells); i++ {
		r.cells[i] = Cell{}
	}
}

func (r *rowData) clearAll() {
	r.clear(0, len(r.cells))
	r.wrap = false
	r.wrapContinuation = false
	r.styled = false
	r.semanticPrompt = PromptUnknown
	r.kittyVirtualPlaceholder = false
}
