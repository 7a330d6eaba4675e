package world

import "math"

// Orientation selects the hex tessellation. Every orientation-dependent
// constant lives in the projection table below; nothing else in the repo
// branches on orientation for pixel math.
type Orientation uint8

const (
	// FlatTop hexes have a flat upper edge and stagger columns (even-q).
	FlatTop Orientation = iota
	// PointyTop hexes have a vertex on top and stagger rows (even-r).
	PointyTop
	orientationCount // sentinel
)

func (o Orientation) String() string {
	switch o {
	case FlatTop:
		return "flat"
	case PointyTop:
		return "pointy"
	default:
		return "unknown"
	}
}

// Other returns the opposite orientation.
func (o Orientation) Other() Orientation {
	if o == FlatTop {
		return PointyTop
	}
	return FlatTop
}

// ParseOrientation maps a stored document value back to an Orientation.
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "flat", "flat-top":
		return FlatTop, true
	case "pointy", "pointy-top":
		return PointyTop, true
	}
	return FlatTop, false
}

const sqrt3 = 1.7320508075688772

// projection holds one orientation's pixel transform: the forward matrix
// (axial to pixel), its inverse, and the angle of the hexagon's first
// corner.
type projection struct {
	f0, f1, f2, f3 float64
	b0, b1, b2, b3 float64
	cornerAngle    float64
}

var projections = [orientationCount]projection{
	FlatTop: {
		f0: 1.5, f1: 0, f2: sqrt3 / 2, f3: sqrt3,
		b0: 2.0 / 3.0, b1: 0, b2: -1.0 / 3.0, b3: sqrt3 / 3.0,
		cornerAngle: 0,
	},
	PointyTop: {
		f0: sqrt3, f1: sqrt3 / 2, f2: 0, f3: 1.5,
		b0: sqrt3 / 3.0, b1: -1.0 / 3.0, b2: 0, b3: 2.0 / 3.0,
		cornerAngle: math.Pi / 6,
	},
}

// AxialToPixel projects an axial coordinate to its hex center in world
// pixels, for cells of the given size (center-to-corner radius).
func AxialToPixel(a Axial, size float64, o Orientation) (x, y float64) {
	p := projections[o]
	x = size * (p.f0*float64(a.Q) + p.f1*float64(a.R))
	y = size * (p.f2*float64(a.Q) + p.f3*float64(a.R))
	return x, y
}

// PixelToAxial is the inverse projection. The result is fractional; use
// FracAxial.Round to snap to the containing cell.
func PixelToAxial(x, y, size float64, o Orientation) FracAxial {
	p := projections[o]
	fq := (p.b0*x + p.b1*y) / size
	fr := (p.b2*x + p.b3*y) / size
	return FracAxial{Q: fq, R: fr, S: -fq - fr}
}

// CornerAngle returns the angle of a hexagon's first outline vertex:
// 0 for flat-top, 30 degrees for pointy-top.
func CornerAngle(o Orientation) float64 { return projections[o].cornerAngle }

// HexCorners returns the six outline vertices of the hex centered at
// (cx, cy), ordered counter-clockwise from the first corner.
func HexCorners(cx, cy, size float64, o Orientation) [6]Point {
	var out [6]Point
	start := projections[o].cornerAngle
	for i := 0; i < 6; i++ {
		a := start + float64(i)*math.Pi/3
		out[i] = Point{X: cx + size*math.Cos(a), Y: cy + size*math.Sin(a)}
	}
	return out
}

// LabelToAxial converts a user label to the axial coordinate of its cell.
// Labels count from the bottom-left with Y up; axial offset math wants
// visual rows counted from the top, so Y is reflected first. Flat-top
// grids use even-q offsets, pointy-top grids even-r. The two conversions
// are independent formulas and cannot be shared.
func LabelToAxial(l Label, cols, rows int, o Orientation) Axial {
	vRow := (rows - 1) - l.Y
	switch o {
	case FlatTop:
		// even-q: (x + (x&1)) is always even, so / is exact.
		return Axial{Q: l.X, R: vRow - (l.X+(l.X&1))/2}
	case PointyTop:
		return Axial{Q: l.X - (vRow+(vRow&1))/2, R: vRow}
	default:
		panic("world: unknown orientation")
	}
}

// OffsetOf returns the visual offset column and row of an axial coordinate
// without bounds checking. vRow counts from the grid's top edge.
func OffsetOf(a Axial, o Orientation) (col, vRow int) {
	switch o {
	case FlatTop:
		return a.Q, a.R + (a.Q+(a.Q&1))/2
	case PointyTop:
		return a.Q + (a.R+(a.R&1))/2, a.R
	default:
		panic("world: unknown orientation")
	}
}

// AxialToLabel is the exact inverse of LabelToAxial. ok is false when the
// axial coordinate falls outside the grid; out-of-bounds is an expected
// lookup miss, not an error.
func AxialToLabel(a Axial, cols, rows int, o Orientation) (Label, bool) {
	col, vRow := OffsetOf(a, o)
	y := (rows - 1) - vRow
	if col < 0 || col >= cols || y < 0 || y >= rows {
		return Label{}, false
	}
	return Label{X: col, Y: y}, true
}
