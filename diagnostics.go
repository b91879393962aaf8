package novaterm

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/tuannm99/novaterm/internal/cellpage"
)

// sessionID tags LogSummary's log lines with one id per process, so lines
// from different processes can be told apart in a shared log stream. All
// page lists in one process share it.
var sessionID = uuid.NewString()

// IsDirty reports whether the row at p has been touched since the last
// ClearDirty.
func (pl *PageList) IsDirty(p Pin) bool {
	return p.node.page.IsRowDirty(p.y)
}

// ClearDirty clears every page's dirty bitset.
func (pl *PageList) ClearDirty() {
	for n := pl.nodes.first; n != nil; n = n.next {
		n.page.ClearDirty()
	}
}

// String renders a human-readable diagram of the whole list: a header line
// with the dimensions, page_size and node count, then for each page a
// boundary line with its size and capacity followed by every row's text
// with a trailing '>' for wrapped rows.
func (pl *PageList) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "novaterm pagelist cols=%d rows=%d page_size=%s nodes=%d\n",
		pl.cols, pl.rows, humanize.Bytes(uint64(pl.pageSize)), pl.nodes.count)
	for n := pl.nodes.first; n != nil; n = n.next {
		fmt.Fprintf(&b, "--- node size=%dx%d cap=%dx%d ---\n",
			n.page.Size().Cols, n.page.Size().Rows, n.page.Capacity().Cols, n.page.Capacity().Rows)
		b.WriteString(n.page.DebugString())
	}
	return b.String()
}

// LogSummary emits a structured log line summarizing the list's current
// size, tagged with this process's session id.
func (pl *PageList) LogSummary() {
	slog.Info(logPrefix+"summary",
		"session", sessionID,
		"cols", pl.cols,
		"rows", pl.rows,
		"page_size", humanize.Bytes(uint64(pl.pageSize)),
		"nodes", pl.nodes.count,
		"total_rows", pl.TotalRows(),
	)
}

// WriteUTF8 walks the row iterator from top to bot and writes each
// row's text to w as UTF-8, one row per line. When unwrap is true, rows
// with the wrap flag set are joined to the next row without a newline so
// a soft-wrapped logical line comes out as one line of output.
func (pl *PageList) WriteUTF8(w io.Writer, top, bot Pin, unwrap bool) error {
	rows := NewRowIterator(top, bot, RightDown)
	for {
		rowPin, ok := rows.Next()
		if !ok {
			return nil
		}
		page := rowPin.node.page
		sz := page.Size()
		for x := 0; x < sz.Cols; x++ {
			c, err := page.Cell(rowPin.y, x)
			if err != nil {
				return err
			}
			if c.Wide == cellpage.WideSpacerTail {
				continue
			}
			if c.HasText() {
				if _, err := io.WriteString(w, string(c.Codepoint)); err != nil {
					return err
				}
				if c.ContentTag == cellpage.ContentCodepointGrapheme && c.GraphemeID != 0 {
					for _, cp := range page.LookupGrapheme(c.GraphemeID) {
						if _, err := io.WriteString(w, string(cp)); err != nil {
							return err
						}
					}
				}
			} else {
				if _, err := io.WriteString(w, " "); err != nil {
					return err
				}
			}
		}
		if unwrap && page.Wrap(rowPin.y) {
			continue
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
}
