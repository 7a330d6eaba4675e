package world

import "fmt"

// CellRecord is the persisted form of one cell's authored state. The label
// rides along so documents saved under one orientation can still be joined
// onto a grid generated under another.
type CellRecord struct {
	Coordinates Label  `json:"coordinates"`
	Fill        string `json:"fillCategoryName"`
	Notes       string `json:"notes,omitempty"`
	Occupied    bool   `json:"occupiedFlag,omitempty"`
}

// Background positions an image under the grid.
type Background struct {
	Ref     string  `json:"ref"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Sticker is a small decorative image pinned to a world position.
type Sticker struct {
	ID    string  `json:"id"`
	Ref   string  `json:"ref"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// TownDocument is the square sub-grid carved out under one world cell.
type TownDocument struct {
	Cols  int                   `json:"cols"`
	Rows  int                   `json:"rows"`
	Cells map[string]CellRecord `json:"cells"`
}

// Document is the serialized map: everything needed to regenerate the grid
// and its authored content at the saved orientation.
type Document struct {
	Name        string                  `json:"name"`
	Orientation string                  `json:"orientation"`
	Cols        int                     `json:"cols"`
	Rows        int                     `json:"rows"`
	Cells       map[string]CellRecord   `json:"cells"`
	Paths       []Path                  `json:"paths"`
	Towns       map[string]TownDocument `json:"towns,omitempty"`
	Background  *Background             `json:"background,omitempty"`
	Stickers    []Sticker               `json:"stickers,omitempty"`
}

// Snapshot flattens the grid's authored state into document records. Blank
// cells are omitted; they regenerate from coordinates alone.
func (g *Grid) Snapshot() map[string]CellRecord {
	out := make(map[string]CellRecord)
	for _, c := range g.byLabel {
		if c.Fill == "" && c.Notes == "" && !c.Town {
			continue
		}
		out[c.Key] = CellRecord{
			Coordinates: c.Label,
			Fill:        c.Fill,
			Notes:       c.Notes,
			Occupied:    c.Town,
		}
	}
	return out
}

// Apply writes document records onto a freshly generated grid. Records
// match by identity key first; a record whose key no longer resolves falls
// back to its stored label, which covers documents written under another
// orientation. Records matching neither are skipped.
func (g *Grid) Apply(records map[string]CellRecord) {
	for key, rec := range records {
		c, ok := g.CellByKey(key)
		if !ok {
			c, ok = g.CellByLabel(rec.Coordinates)
			if !ok {
				continue
			}
		}
		c.Fill = rec.Fill
		c.Notes = rec.Notes
		c.Town = rec.Occupied
	}
}

// NewDocument assembles the serializable form of a world grid.
func NewDocument(name string, g *Grid, paths []Path) *Document {
	return &Document{
		Name:        name,
		Orientation: g.Orientation.String(),
		Cols:        g.Cols,
		Rows:        g.Rows,
		Cells:       g.Snapshot(),
		Paths:       paths,
	}
}

// GridFromDocument regenerates the hex grid a document describes and
// applies its cell records.
func GridFromDocument(d *Document) (*Grid, error) {
	if d.Cols <= 0 || d.Rows <= 0 {
		return nil, fmt.Errorf("document %q: bad dimensions %dx%d", d.Name, d.Cols, d.Rows)
	}
	o, ok := ParseOrientation(d.Orientation)
	if !ok {
		return nil, fmt.Errorf("document %q: unknown orientation %q", d.Name, d.Orientation)
	}
	g := NewHexGrid(d.Cols, d.Rows, o)
	g.Apply(d.Cells)
	return g, nil
}

// TownGridFromDocument regenerates one town sub-grid.
func TownGridFromDocument(td TownDocument) (*Grid, error) {
	if td.Cols <= 0 || td.Rows <= 0 {
		return nil, fmt.Errorf("town document: bad dimensions %dx%d", td.Cols, td.Rows)
	}
	g := NewTownGrid(td.Cols, td.Rows)
	g.Apply(td.Cells)
	return g, nil
}

// TownDocumentOf snapshots a town grid into its document form.
func TownDocumentOf(g *Grid) TownDocument {
	return TownDocument{Cols: g.Cols, Rows: g.Rows, Cells: g.Snapshot()}
}
