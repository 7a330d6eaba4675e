package app

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// copyCellReport puts a plain-text report of the selected cell on the
// system clipboard.
func (a *App) copyCellReport() {
	ed := a.active()
	key, l, ok := ed.Selected()
	if !ok {
		a.flash("no cell selected")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- hexcarta cell report ---\n")
	fmt.Fprintf(&b, "map=%s orientation=%s grid=%dx%d\n", a.mapKey, a.doc.Orientation, a.doc.Cols, a.doc.Rows)
	if a.town != nil {
		fmt.Fprintf(&b, "town=%s (%dx%d)\n", a.townKey, a.townGrid.Cols, a.townGrid.Rows)
	}
	fmt.Fprintf(&b, "key=%s label=(%d,%d)\n", key, l.X, l.Y)

	g := a.grid
	if a.town != nil {
		g = a.townGrid
	}
	if c, ok := g.CellByKey(key); ok {
		if !g.Square {
			fmt.Fprintf(&b, "axial=(%d,%d) s=%d\n", c.Axial.Q, c.Axial.R, c.Axial.S())
		}
		fmt.Fprintf(&b, "fill=%s\n", orNone(c.Fill))
		fmt.Fprintf(&b, "notes=%s\n", orNone(c.Notes))
		if a.town == nil {
			fmt.Fprintf(&b, "town_marker=%t\n", c.Town)
			if td, ok := a.doc.Towns[key]; ok {
				fmt.Fprintf(&b, "town_doc=%dx%d authored_cells=%d\n", td.Cols, td.Rows, len(td.Cells))
			}
		} else {
			fmt.Fprintf(&b, "occupied=%t\n", c.Town)
		}
	}

	if err := clipboard.WriteAll(b.String()); err != nil {
		a.log.Warnf("clipboard: %v", err)
		a.flash("clipboard unavailable")
		return
	}
	a.flash("cell report copied")
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
