package world

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Path is one free-draw stroke in world pixels. Points are append-only
// while the gesture is live and frozen once finalized; erasing never edits
// points in place, it replaces the path with trimmed copies.
type Path struct {
	ID          string  `json:"id"`
	Points      []Point `json:"points"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// NewPathID mints a stable id for a new path.
func NewPathID() string { return uuid.NewString() }

// Clone returns a deep copy of the path.
func (p Path) Clone() Path {
	pts := make([]Point, len(p.Points))
	copy(pts, p.Points)
	p.Points = pts
	return p
}

// EraseAt drops every point within radius of at and splits the remainder
// into contiguous runs. Each surviving run of at least two points becomes
// a new path with a derived id; shorter runs are dropped. One path can
// come back as zero, one or many paths. changed is false when no point was
// inside the radius, in which case the caller keeps the original.
func (p Path) EraseAt(at Point, radius float64) (out []Path, changed bool) {
	r2 := radius * radius
	var run []Point
	flush := func() {
		if len(run) >= 2 {
			out = append(out, Path{
				ID:          fmt.Sprintf("%s.%d", p.ID, len(out)+1),
				Points:      run,
				Color:       p.Color,
				StrokeWidth: p.StrokeWidth,
			})
		}
		run = nil
	}
	for _, pt := range p.Points {
		dx := pt.X - at.X
		dy := pt.Y - at.Y
		if dx*dx+dy*dy <= r2 {
			changed = true
			flush()
			continue
		}
		run = append(run, pt)
	}
	flush()
	return out, changed
}

// ErasePaths applies EraseAt across a path list, replacing every hit path
// with its surviving segments. The input slice is not modified.
func ErasePaths(paths []Path, at Point, radius float64) ([]Path, bool) {
	out := make([]Path, 0, len(paths))
	any := false
	for _, p := range paths {
		segs, changed := p.EraseAt(at, radius)
		if !changed {
			out = append(out, p)
			continue
		}
		any = true
		out = append(out, segs...)
	}
	return out, any
}

// GridPixelBounds returns the approximate outer pixel rectangle of a hex
// grid, padded by one cell size: the label-corner centers bound the lattice
// to within a cell.
func GridPixelBounds(cols, rows int, size float64, o Orientation) (minX, minY, maxX, maxY float64) {
	corners := [4]Label{{0, 0}, {cols - 1, 0}, {0, rows - 1}, {cols - 1, rows - 1}}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, l := range corners {
		a := LabelToAxial(l, cols, rows, o)
		x, y := AxialToPixel(a, size, o)
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return minX - size, minY - size, maxX + size, maxY + size
}

// ReprojectPaths remaps path points between the pixel spaces of two
// orientations by normalizing against the old grid's pixel bounding box
// and rescaling into the new one. Relative shape is preserved; exact cell
// alignment is not. Ids and styles carry over unchanged.
func ReprojectPaths(paths []Path, cols, rows int, size float64, from, to Orientation) []Path {
	fMinX, fMinY, fMaxX, fMaxY := GridPixelBounds(cols, rows, size, from)
	tMinX, tMinY, tMaxX, tMaxY := GridPixelBounds(cols, rows, size, to)
	fw, fh := fMaxX-fMinX, fMaxY-fMinY
	tw, th := tMaxX-tMinX, tMaxY-tMinY
	if fw <= 0 || fh <= 0 {
		return paths
	}
	out := make([]Path, len(paths))
	for i, p := range paths {
		np := p
		np.Points = make([]Point, len(p.Points))
		for j, pt := range p.Points {
			u := (pt.X - fMinX) / fw
			v := (pt.Y - fMinY) / fh
			np.Points[j] = Point{X: tMinX + u*tw, Y: tMinY + v*th}
		}
		out[i] = np
	}
	return out
}
