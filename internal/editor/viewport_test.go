package editor

import (
	"math"
	"testing"
)

func newTestViewport() *Viewport {
	return &Viewport{
		Zoom:         1,
		MinZoom:      0.25,
		MaxZoom:      4,
		ZoomStep:     1.5,
		ScreenW:      800,
		ScreenH:      600,
		PanThreshold: 5,
	}
}

func TestViewport_ZoomAtKeepsCursorAnchored(t *testing.T) {
	v := newTestViewport()

	anchors := [][2]float64{{200, 150}, {0, 0}, {799, 599}, {400, 300}}
	steps := []float64{1, 2, -1, -3, 0.5}

	for _, a := range anchors {
		for _, s := range steps {
			wx, wy := v.ScreenToWorld(a[0], a[1])
			if !v.ZoomAt(s, a[0], a[1]) {
				continue // clamped, nothing to verify
			}
			sx, sy := v.WorldToScreen(wx, wy)
			if math.Abs(sx-a[0]) > 1e-9 || math.Abs(sy-a[1]) > 1e-9 {
				t.Fatalf("anchor %v drifted to (%.12f, %.12f) after %v steps", a, sx, sy, s)
			}
		}
	}
}

func TestViewport_ZoomClampedToRange(t *testing.T) {
	v := newTestViewport()

	if !v.ZoomAt(100, 400, 300) {
		t.Fatal("zooming toward the cap reported no change")
	}
	if v.Zoom != v.MaxZoom {
		t.Fatalf("zoom %v, want clamped to max %v", v.Zoom, v.MaxZoom)
	}
	offX, offY := v.OffsetX, v.OffsetY
	if v.ZoomAt(1, 400, 300) {
		t.Fatal("zooming past the cap reported a change")
	}
	if v.OffsetX != offX || v.OffsetY != offY {
		t.Fatal("clamped zoom moved the offset")
	}

	if !v.ZoomAt(-100, 400, 300) {
		t.Fatal("zooming toward the floor reported no change")
	}
	if v.Zoom != v.MinZoom {
		t.Fatalf("zoom %v, want clamped to min %v", v.Zoom, v.MinZoom)
	}
}

func TestViewport_DragBelowThresholdIsClick(t *testing.T) {
	v := newTestViewport()

	v.BeginPan(100, 100)
	if v.MovePan(102, 100) {
		t.Fatal("2px of movement confirmed a pan")
	}
	if v.MovePan(104, 100) {
		t.Fatal("4px cumulative movement confirmed a pan")
	}
	if v.EndPan() {
		t.Fatal("sub-threshold drag ended as a pan")
	}
	if v.OffsetX != 0 || v.OffsetY != 0 {
		t.Fatalf("sub-threshold drag moved the offset to (%v, %v)", v.OffsetX, v.OffsetY)
	}
}

func TestViewport_ConfirmedPanAppliesFullDelta(t *testing.T) {
	v := newTestViewport()

	v.BeginPan(100, 100)
	if v.MovePan(103, 100) {
		t.Fatal("confirmed too early")
	}
	if !v.MovePan(107, 100) {
		t.Fatal("7px cumulative movement did not confirm")
	}
	// The pre-threshold distance lands in full at confirmation.
	if v.OffsetX != 7 || v.OffsetY != 0 {
		t.Fatalf("offset (%v, %v) after confirmation, want (7, 0)", v.OffsetX, v.OffsetY)
	}
	if !v.MovePan(110, 100) {
		t.Fatal("move after confirmation not treated as pan")
	}
	if v.OffsetX != 10 {
		t.Fatalf("offset %v after follow-up move, want 10", v.OffsetX)
	}
	if !v.EndPan() {
		t.Fatal("confirmed pan ended as a click")
	}
}

func TestViewport_ZigzagAccumulatesTowardThreshold(t *testing.T) {
	v := newTestViewport()

	// Net displacement stays tiny; cumulative movement does not.
	v.BeginPan(100, 100)
	v.MovePan(102, 100)
	v.MovePan(100, 100)
	if !v.MovePan(103, 100) {
		t.Fatal("7px of cumulative zigzag did not confirm a pan")
	}
}

func TestViewport_CenterOnPutsWorldPointAtScreenCenter(t *testing.T) {
	v := newTestViewport()
	v.Zoom = 2

	v.CenterOn(100, 50)
	wx, wy := v.ScreenToWorld(400, 300)
	if math.Abs(wx-100) > 1e-9 || math.Abs(wy-50) > 1e-9 {
		t.Fatalf("screen center maps to (%v, %v), want (100, 50)", wx, wy)
	}
}

func TestViewport_WorldRectTracksTransform(t *testing.T) {
	v := newTestViewport()
	v.Zoom = 1.5
	v.OffsetX, v.OffsetY = -100, -75

	r := v.WorldRect()
	wantMinX := 100.0 / 1.5
	wantMaxX := 900.0 / 1.5
	wantMinY := 75.0 / 1.5
	wantMaxY := 675.0 / 1.5
	if math.Abs(r.MinX-wantMinX) > 1e-9 || math.Abs(r.MaxX-wantMaxX) > 1e-9 ||
		math.Abs(r.MinY-wantMinY) > 1e-9 || math.Abs(r.MaxY-wantMaxY) > 1e-9 {
		t.Fatalf("world rect %+v, want [%v,%v]x[%v,%v]", r, wantMinX, wantMaxX, wantMinY, wantMaxY)
	}
}
