package editor

import "math"

// Viewport owns the camera: a pan offset in screen pixels and a clamped
// zoom factor. The transform is screen = world*zoom + offset. Nothing else
// mutates these; other components read positions through the conversion
// methods.
type Viewport struct {
	OffsetX, OffsetY float64
	Zoom             float64
	MinZoom, MaxZoom float64
	ZoomStep         float64 // zoom multiplier per wheel notch
	ScreenW, ScreenH int
	PanThreshold     float64 // cumulative px before a drag becomes a pan

	pan panState
}

type panState struct {
	active         bool
	confirmed      bool
	startX, startY float64
	lastX, lastY   float64
	moved          float64
}

// ScreenToWorld converts a screen position to world pixels.
func (v *Viewport) ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx - v.OffsetX) / v.Zoom, (sy - v.OffsetY) / v.Zoom
}

// WorldToScreen converts a world position to screen pixels.
func (v *Viewport) WorldToScreen(wx, wy float64) (float64, float64) {
	return wx*v.Zoom + v.OffsetX, wy*v.Zoom + v.OffsetY
}

// ZoomAt applies wheel steps anchored at screen point (sx, sy): the world
// point under the cursor before the zoom is still under it afterwards.
// Reports whether the zoom actually changed.
func (v *Viewport) ZoomAt(steps, sx, sy float64) bool {
	old := v.Zoom
	z := clampF(old*math.Pow(v.ZoomStep, steps), v.MinZoom, v.MaxZoom)
	if z == old {
		return false
	}
	wx, wy := v.ScreenToWorld(sx, sy)
	v.Zoom = z
	v.OffsetX = sx - wx*z
	v.OffsetY = sy - wy*z
	return true
}

// CenterOn positions the camera so a world point sits at screen center.
func (v *Viewport) CenterOn(wx, wy float64) {
	v.OffsetX = float64(v.ScreenW)/2 - wx*v.Zoom
	v.OffsetY = float64(v.ScreenH)/2 - wy*v.Zoom
}

// WorldRect returns the world-pixel rectangle the screen currently shows.
func (v *Viewport) WorldRect() Rect {
	x0, y0 := v.ScreenToWorld(0, 0)
	x1, y1 := v.ScreenToWorld(float64(v.ScreenW), float64(v.ScreenH))
	return Rect{
		MinX: math.Min(x0, x1), MinY: math.Min(y0, y1),
		MaxX: math.Max(x0, x1), MaxY: math.Max(y0, y1),
	}
}

// BeginPan arms a drag that becomes a pan once cumulative movement passes
// the threshold. Until then the gesture still counts as a click.
func (v *Viewport) BeginPan(sx, sy float64) {
	v.pan = panState{active: true, startX: sx, startY: sy, lastX: sx, lastY: sy}
}

// MovePan feeds pointer motion into an armed drag and reports whether the
// drag is a confirmed pan. The offset only moves after confirmation; the
// pre-threshold delta is applied in full at that moment so no motion is
// lost.
func (v *Viewport) MovePan(sx, sy float64) bool {
	if !v.pan.active {
		return false
	}
	dx := sx - v.pan.lastX
	dy := sy - v.pan.lastY
	v.pan.moved += math.Hypot(dx, dy)
	v.pan.lastX, v.pan.lastY = sx, sy
	if !v.pan.confirmed {
		if v.pan.moved <= v.PanThreshold {
			return false
		}
		v.pan.confirmed = true
		dx = sx - v.pan.startX
		dy = sy - v.pan.startY
	}
	v.OffsetX += dx
	v.OffsetY += dy
	return true
}

// EndPan closes the drag and reports whether it had become a pan. A false
// return means the whole gesture stayed inside the click threshold.
func (v *Viewport) EndPan() bool {
	was := v.pan.confirmed
	v.pan = panState{}
	return was
}

// Panning reports whether a confirmed pan drag is in progress.
func (v *Viewport) Panning() bool { return v.pan.active && v.pan.confirmed }

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
