package world

import (
	"fmt"
	"math"
)

// Axial is a hex coordinate. The third cube component is derived, so
// Q + R + S() is zero by construction.
type Axial struct {
	Q int
	R int
}

// S returns the derived cube component.
func (a Axial) S() int { return -a.Q - a.R }

// Key is the canonical identity string for a hex cell. Every producer and
// consumer of hex identities goes through this one function.
func (a Axial) Key() string { return fmt.Sprintf("%d,%d", a.Q, a.R) }

// ParseAxialKey inverts Key.
func ParseAxialKey(key string) (Axial, error) {
	var a Axial
	if _, err := fmt.Sscanf(key, "%d,%d", &a.Q, &a.R); err != nil {
		return Axial{}, fmt.Errorf("parse axial key %q: %w", key, err)
	}
	return a, nil
}

// axialNeighbors lists the six adjacent direction offsets, starting east
// of the cell and proceeding counter-clockwise.
var axialNeighbors = [6]Axial{
	{1, 0}, {1, -1}, {0, -1}, {-1, 0}, {-1, 1}, {0, 1},
}

// Neighbors returns the six adjacent axial coordinates.
func (a Axial) Neighbors() [6]Axial {
	var out [6]Axial
	for i, d := range axialNeighbors {
		out[i] = Axial{Q: a.Q + d.Q, R: a.R + d.R}
	}
	return out
}

// Distance is the hex distance in cells.
func (a Axial) Distance(b Axial) int {
	dq := absInt(a.Q - b.Q)
	dr := absInt(a.R - b.R)
	ds := absInt(a.S() - b.S())
	return max(dq, max(dr, ds))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FracAxial is a fractional hex coordinate, usually produced by inverse
// pixel projection.
type FracAxial struct {
	Q, R, S float64
}

// Round snaps a fractional coordinate to the hex containing it. Components
// are rounded independently and the one with the largest rounding error is
// recomputed from the other two, which keeps q+r+s exactly zero even when
// independent rounding would break it. Ties resolve the same way every
// time, so boundary points land deterministically.
func (f FracAxial) Round() Axial {
	q := math.Round(f.Q)
	r := math.Round(f.R)
	s := math.Round(f.S)
	dq := math.Abs(q - f.Q)
	dr := math.Abs(r - f.R)
	ds := math.Abs(s - f.S)
	switch {
	case dq > dr && dq > ds:
		q = -r - s
	case dr > ds:
		r = -q - s
	}
	return Axial{Q: int(q), R: int(r)}
}

// Label is the user-facing grid coordinate: origin at the bottom-left
// cell, Y increasing upward. Town grids use labels directly as identity.
type Label struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key is the canonical identity string for a square-grid cell.
func (l Label) Key() string { return fmt.Sprintf("%d,%d", l.X, l.Y) }

// ParseLabelKey inverts Label.Key.
func ParseLabelKey(key string) (Label, error) {
	var l Label
	if _, err := fmt.Sscanf(key, "%d,%d", &l.X, &l.Y); err != nil {
		return Label{}, fmt.Errorf("parse label key %q: %w", key, err)
	}
	return l, nil
}

// Point is a position in world pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the distance to another point.
func (p Point) Dist(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// LineLabels walks the integer segment from a to b inclusive. Each step
// advances the axis with the larger accumulated error, stepping both on
// exact diagonals, so a fast drag sampled at only two positions still
// yields every cell along the line.
func LineLabels(a, b Label) []Label {
	dx := absInt(b.X - a.X)
	dy := -absInt(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	out := make([]Label, 0, dx-dy+1)
	x, y := a.X, a.Y
	for {
		out = append(out, Label{X: x, Y: y})
		if x == b.X && y == b.Y {
			return out
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}
