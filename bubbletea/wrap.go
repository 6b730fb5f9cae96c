package bubbletea

import (
	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// truncate shortens s to fit width terminal cells, appending an ellipsis
// when anything was cut. Widths are measured per grapheme cluster so
// double-width characters and combined emoji count correctly.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if uniseg.StringWidth(s) <= width {
		return s
	}
	const ellipsis = "…"
	budget := width - rw.StringWidth(ellipsis)

	var out []byte
	used := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w := g.Width()
		if used+w > budget {
			break
		}
		out = append(out, g.Bytes()...)
		used += w
	}
	return string(out) + ellipsis
}
