package world

import "fmt"

// FillCategory pairs a paintable fill name with its display color.
type FillCategory struct {
	Name  string `json:"name"`
	Color string `json:"color"` // #rrggbb
}

// Cell is one grid location together with its authored attributes. Town
// handles double duty as the marker flag: on the world grid it means the
// cell hosts a town, on a town grid it means the cell is occupied.
type Cell struct {
	Key   string
	Axial Axial // meaningful on hex grids only
	Label Label
	Fill  string
	Notes string
	Town  bool
}

// Grid is the generated cell set for one map surface. Hex world grids key
// cells by axial coordinate, square town grids by label; both index the
// same dense label rectangle.
type Grid struct {
	Cols, Rows  int
	Orientation Orientation
	Square      bool

	byKey   map[string]*Cell
	byLabel []*Cell // row-major, index l.Y*Cols + l.X
}

// NewHexGrid generates a cols x rows hex grid at the given orientation.
// Identities derive from axial coordinates, which the offset conversion
// guarantees unique per label.
func NewHexGrid(cols, rows int, o Orientation) *Grid {
	g := &Grid{
		Cols:        cols,
		Rows:        rows,
		Orientation: o,
		byKey:       make(map[string]*Cell, cols*rows),
		byLabel:     make([]*Cell, cols*rows),
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			l := Label{X: x, Y: y}
			a := LabelToAxial(l, cols, rows, o)
			c := &Cell{Key: a.Key(), Axial: a, Label: l}
			g.byKey[c.Key] = c
			g.byLabel[y*cols+x] = c
		}
	}
	return g
}

// NewTownGrid generates a cols x rows square grid keyed by label.
func NewTownGrid(cols, rows int) *Grid {
	g := &Grid{
		Cols:    cols,
		Rows:    rows,
		Square:  true,
		byKey:   make(map[string]*Cell, cols*rows),
		byLabel: make([]*Cell, cols*rows),
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			l := Label{X: x, Y: y}
			c := &Cell{Key: l.Key(), Label: l}
			g.byKey[c.Key] = c
			g.byLabel[y*cols+x] = c
		}
	}
	return g
}

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.byLabel) }

// InBounds reports whether a label addresses a cell of this grid.
func (g *Grid) InBounds(l Label) bool {
	return l.X >= 0 && l.X < g.Cols && l.Y >= 0 && l.Y < g.Rows
}

// CellByLabel returns the cell at a label, or ok=false out of bounds.
func (g *Grid) CellByLabel(l Label) (*Cell, bool) {
	if !g.InBounds(l) {
		return nil, false
	}
	return g.byLabel[l.Y*g.Cols+l.X], true
}

// CellByKey returns the cell with the given identity key.
func (g *Grid) CellByKey(key string) (*Cell, bool) {
	c, ok := g.byKey[key]
	return c, ok
}

// KeyAt returns the identity key for a label, or ok=false out of bounds.
func (g *Grid) KeyAt(l Label) (string, bool) {
	c, ok := g.CellByLabel(l)
	if !ok {
		return "", false
	}
	return c.Key, true
}

// ForEach visits every cell in label order.
func (g *Grid) ForEach(fn func(*Cell)) {
	for _, c := range g.byLabel {
		fn(c)
	}
}

// Regenerate builds a fresh hex grid at the new orientation and carries
// every cell's fill, notes and town marker over by label. Axial identities
// differ between orientations for the same visual cell, so the join is on
// labels, never on keys.
func (g *Grid) Regenerate(o Orientation) (*Grid, error) {
	if g.Square {
		return nil, fmt.Errorf("regenerate: square grids have no orientation")
	}
	ng := NewHexGrid(g.Cols, g.Rows, o)
	for _, c := range g.byLabel {
		nc, ok := ng.CellByLabel(c.Label)
		if !ok {
			continue
		}
		nc.Fill = c.Fill
		nc.Notes = c.Notes
		nc.Town = c.Town
	}
	return ng, nil
}
