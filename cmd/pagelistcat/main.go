// pagelistcat replays a small scripted sequence of page list operations
// and prints the resulting diagram, mirroring cmd/server's flag+viper
// config loading and plain log.Printf reporting but for offline
// inspection instead of serving connections.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tuannm99/novaterm"
)

func main() {
	var (
		cfgPath string
		cols    int
		rows    int
		maxSize int
		preheat int
		script  string
	)
	flag.StringVar(&cfgPath, "config", "", "Path to pagelistcat yaml config (optional)")
	flag.IntVar(&cols, "cols", 80, "terminal column count")
	flag.IntVar(&rows, "rows", 24, "active area row count")
	flag.IntVar(&maxSize, "max-size", 0, "explicit byte ceiling (0 = derive from rows)")
	flag.IntVar(&preheat, "preheat", 0, "standard pages to allocate up front")
	flag.StringVar(&script, "script", "hello\\nworld\\n", "text to type, \\n splits lines")
	flag.Parse()

	cfg := novaterm.Config{Cols: cols, Rows: rows, ExplicitMaxSize: maxSize, Preheat: preheat}
	if cfgPath != "" {
		fc, err := loadConfig(cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = novaterm.Config{Cols: fc.Cols, Rows: fc.Rows, ExplicitMaxSize: fc.MaxSize, Preheat: fc.Preheat}
	}

	pl, err := novaterm.Init(cfg)
	if err != nil {
		log.Fatalf("init page list: %v", err)
	}
	defer pl.Deinit()

	if err := replay(pl, script); err != nil {
		log.Fatalf("replay: %v", err)
	}

	fmt.Println(pl.String())
	fmt.Printf("page_size: %s\n", humanize.Bytes(uint64(pl.PageSize())))
}

// replay types s into the bottom of the active area, growing a new row on
// each '\n' the same way a shell session would.
func replay(pl *novaterm.PageList, s string) error {
	s = strings.ReplaceAll(s, `\n`, "\n")

	n, err := pl.Grow()
	if err != nil {
		return err
	}
	if n == nil {
		n = lastWithSpareOrTail(pl)
	}
	y := n.Page().Size().Rows - 1
	x := 0

	for _, r := range s {
		if r == '\n' {
			nn, err := pl.Grow()
			if err != nil {
				return err
			}
			if nn != nil {
				n = nn
			} else {
				n = lastWithSpareOrTail(pl)
			}
			y = n.Page().Size().Rows - 1
			x = 0
			continue
		}
		if x >= n.Page().Size().Cols {
			continue
		}
		if err := n.Page().SetCell(y, x, novaterm.Cell{Codepoint: r}); err != nil {
			return err
		}
		x++
	}
	return nil
}

func lastWithSpareOrTail(pl *novaterm.PageList) *novaterm.Node {
	return pl.TailNode()
}
