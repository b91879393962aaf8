package novaterm

// viewportTag is the three-state viewport selector (spec §4.11): active,
// top, or pin. Modeled on the teacher's own tagged-enum convention
// (storage.PageType, storage.StorageMode) since nothing in the SQL
// teacher models a scrolling viewport.
type viewportTag uint8

const (
	ViewportActive viewportTag = iota
	ViewportTop
	ViewportPin
)

func (t viewportTag) String() string {
	switch t {
	case ViewportActive:
		return "active"
	case ViewportTop:
		return "top"
	case ViewportPin:
		return "pin"
	default:
		return "unknown"
	}
}

// Viewport returns the current viewport selector.
func (pl *PageList) Viewport() viewportTag { return pl.viewport }

// ViewportTopLeft resolves the current viewport's top-left pin
// coordinates, regardless of which of the three states it is in.
func (pl *PageList) ViewportTopLeft() Pin {
	switch pl.viewport {
	case ViewportTop:
		return pl.getTopLeft()
	case ViewportPin:
		return *pl.viewportPin
	default: // ViewportActive
		return pl.activeTopLeft()
	}
}

// activeTopLeft returns the pin at the top-left of the active area: the
// row that is `rows` rows up from the bottom of the list.
func (pl *PageList) activeTopLeft() Pin {
	remaining := pl.activeRows() - 1
	for n := pl.nodes.last; n != nil; n = n.prev {
		sz := n.page.Size().Rows
		if remaining < sz {
			return Pin{node: n, y: sz - 1 - remaining, x: 0}
		}
		remaining -= sz
	}
	return pl.getTopLeft()
}
