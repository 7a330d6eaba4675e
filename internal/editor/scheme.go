package editor

import (
	"math"

	"hexcarta/internal/world"
)

// Rect is an axis-aligned rectangle in world pixels.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// LabelRect is an inclusive rectangle of cell labels.
type LabelRect struct {
	MinX, MinY, MaxX, MaxY int
}

// Empty reports whether the rectangle contains no labels.
func (r LabelRect) Empty() bool { return r.MinX > r.MaxX || r.MinY > r.MaxY }

// Contains reports whether a label lies inside the rectangle.
func (r LabelRect) Contains(l world.Label) bool {
	return l.X >= r.MinX && l.X <= r.MaxX && l.Y >= r.MinY && l.Y <= r.MaxY
}

// Count returns the number of labels covered.
func (r LabelRect) Count() int {
	if r.Empty() {
		return 0
	}
	return (r.MaxX - r.MinX + 1) * (r.MaxY - r.MinY + 1)
}

// Scheme supplies the per-tessellation coordinate math. The world map uses
// the hex scheme and town sub-grids the square one; gesture and render
// logic are shared and never branch on cell shape.
type Scheme interface {
	// Size returns the grid dimensions in labels.
	Size() (cols, rows int)
	// CellAt resolves a world-pixel position to the label it lands in.
	CellAt(x, y float64) (world.Label, bool)
	// Center returns the world-pixel center of a label's cell.
	Center(l world.Label) (x, y float64)
	// Key is the canonical identity of a label's cell.
	Key(l world.Label) string
	// Polygon returns the cell outline in world pixels.
	Polygon(l world.Label) []world.Point
	// LabelBounds returns the inclusive label rectangle whose cells can
	// intersect the world rectangle, grown by pad cells and clamped to
	// the grid.
	LabelBounds(r Rect, pad int) LabelRect
}

// HexScheme projects hex cells under one orientation.
type HexScheme struct {
	Cols, Rows  int
	CellSize    float64
	Orientation world.Orientation
}

func (s HexScheme) Size() (int, int) { return s.Cols, s.Rows }

func (s HexScheme) CellAt(x, y float64) (world.Label, bool) {
	a := world.PixelToAxial(x, y, s.CellSize, s.Orientation).Round()
	return world.AxialToLabel(a, s.Cols, s.Rows, s.Orientation)
}

func (s HexScheme) Center(l world.Label) (float64, float64) {
	a := world.LabelToAxial(l, s.Cols, s.Rows, s.Orientation)
	return world.AxialToPixel(a, s.CellSize, s.Orientation)
}

func (s HexScheme) Key(l world.Label) string {
	return world.LabelToAxial(l, s.Cols, s.Rows, s.Orientation).Key()
}

func (s HexScheme) Polygon(l world.Label) []world.Point {
	cx, cy := s.Center(l)
	corners := world.HexCorners(cx, cy, s.CellSize, s.Orientation)
	return corners[:]
}

func (s HexScheme) LabelBounds(r Rect, pad int) LabelRect {
	corners := [4][2]float64{
		{r.MinX, r.MinY}, {r.MaxX, r.MinY}, {r.MinX, r.MaxY}, {r.MaxX, r.MaxY},
	}
	minC, minV := math.MaxInt, math.MaxInt
	maxC, maxV := math.MinInt, math.MinInt
	for _, c := range corners {
		a := world.PixelToAxial(c[0], c[1], s.CellSize, s.Orientation).Round()
		col, vRow := world.OffsetOf(a, s.Orientation)
		minC = min(minC, col)
		maxC = max(maxC, col)
		minV = min(minV, vRow)
		maxV = max(maxV, vRow)
	}
	// One extra cell absorbs the offset stagger between columns/rows.
	pad++
	minC -= pad
	maxC += pad
	minV -= pad
	maxV += pad
	return LabelRect{
		MinX: max(minC, 0),
		MinY: max(s.Rows-1-maxV, 0),
		MaxX: min(maxC, s.Cols-1),
		MaxY: min(s.Rows-1-minV, s.Rows-1),
	}
}

// SquareScheme projects town cells on a plain square lattice. The label
// origin stays bottom-left, so visual rows are reflected like hex grids.
type SquareScheme struct {
	Cols, Rows int
	CellSize   float64
}

func (s SquareScheme) Size() (int, int) { return s.Cols, s.Rows }

func (s SquareScheme) CellAt(x, y float64) (world.Label, bool) {
	col := int(math.Floor(x / s.CellSize))
	vRow := int(math.Floor(y / s.CellSize))
	l := world.Label{X: col, Y: s.Rows - 1 - vRow}
	if col < 0 || col >= s.Cols || l.Y < 0 || l.Y >= s.Rows {
		return world.Label{}, false
	}
	return l, true
}

func (s SquareScheme) Center(l world.Label) (float64, float64) {
	vRow := s.Rows - 1 - l.Y
	return (float64(l.X) + 0.5) * s.CellSize, (float64(vRow) + 0.5) * s.CellSize
}

func (s SquareScheme) Key(l world.Label) string { return l.Key() }

func (s SquareScheme) Polygon(l world.Label) []world.Point {
	vRow := s.Rows - 1 - l.Y
	x0 := float64(l.X) * s.CellSize
	y0 := float64(vRow) * s.CellSize
	return []world.Point{
		{X: x0, Y: y0},
		{X: x0 + s.CellSize, Y: y0},
		{X: x0 + s.CellSize, Y: y0 + s.CellSize},
		{X: x0, Y: y0 + s.CellSize},
	}
}

func (s SquareScheme) LabelBounds(r Rect, pad int) LabelRect {
	minC := int(math.Floor(r.MinX/s.CellSize)) - pad
	maxC := int(math.Floor(r.MaxX/s.CellSize)) + pad
	minV := int(math.Floor(r.MinY/s.CellSize)) - pad
	maxV := int(math.Floor(r.MaxY/s.CellSize)) + pad
	return LabelRect{
		MinX: max(minC, 0),
		MinY: max(s.Rows-1-maxV, 0),
		MaxX: min(maxC, s.Cols-1),
		MaxY: min(s.Rows-1-minV, s.Rows-1),
	}
}
