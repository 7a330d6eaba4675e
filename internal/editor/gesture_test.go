package editor

import (
	"testing"
	"time"

	"hexcarta/internal/world"
)

// sinkLog records raw gesture-machine emissions, below the editor layer.
type sinkLog struct {
	live     []PaintedCell
	batches  [][]PaintedCell
	selects  []world.Label
	previews []world.Path
	finals   []world.Path
	erases   []world.Point
}

func newSinkGestures(cfg GestureConfig, scheme Scheme) (*Gestures, *sinkLog) {
	log := &sinkLog{}
	g := newGestures(cfg, scheme, gestureSinks{
		livePaint: func(key, fill string) { log.live = append(log.live, PaintedCell{Key: key, Fill: fill}) },
		batch:     func(cells []PaintedCell) { log.batches = append(log.batches, cells) },
		selectEnd: func(l world.Label) { log.selects = append(log.selects, l) },
		pathLive:  func(p world.Path) { log.previews = append(log.previews, p) },
		pathDone:  func(p world.Path) { log.finals = append(log.finals, p) },
		erase:     func(at world.Point, _ float64) { log.erases = append(log.erases, at) },
	})
	return g, log
}

func testGestureConfig() GestureConfig {
	return GestureConfig{
		MinDrawSpacing: 5,
		EraseRadius:    16,
		EraseInterval:  40 * time.Millisecond,
	}
}

func centerPoint(s Scheme, x, y int) world.Point {
	cx, cy := s.Center(world.Label{X: x, Y: y})
	return world.Point{X: cx, Y: cy}
}

var testStroke = StrokeStyle{Color: "#2d4a6b", Width: 2.5}

func TestGestures_PaintGestureFlushesOneBatch(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	g.PointerDown(ToolPaint, false, "Water", testStroke, centerPoint(s, 0, 0), at(0))
	g.PointerMove(centerPoint(s, 1, 0), at(16))
	g.PointerMove(centerPoint(s, 2, 0), at(32))
	g.PointerUp(centerPoint(s, 2, 0), at(48))

	if len(log.batches) != 1 {
		t.Fatalf("%d batch flushes, want exactly 1", len(log.batches))
	}
	want := []PaintedCell{
		{Key: "0,0", Fill: "Water"},
		{Key: "1,0", Fill: "Water"},
		{Key: "2,0", Fill: "Water"},
	}
	got := log.batches[0]
	if len(got) != len(want) {
		t.Fatalf("batch %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("batch[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if len(log.selects) != 1 || log.selects[0] != (world.Label{X: 2, Y: 0}) {
		t.Fatalf("selects %v, want the last painted cell (2,0)", log.selects)
	}
	if g.State() != StateIdle {
		t.Fatalf("state %v after pointer-up, want Idle", g.State())
	}
}

func TestGestures_LivePaintPrecedesFlush(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	g.PointerDown(ToolPaint, false, "Grass", testStroke, centerPoint(s, 3, 3), at(0))
	if len(log.live) != 1 || log.live[0].Key != "3,3" {
		t.Fatalf("live patches %v before any flush, want the start cell", log.live)
	}
	if len(log.batches) != 0 {
		t.Fatal("batch flushed before pointer-up")
	}
}

func TestGestures_FastDragInterpolatesSkippedCells(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	// Two samples only: down at (0,0), one move landing at (5,5).
	g.PointerDown(ToolPaint, false, "Water", testStroke, centerPoint(s, 0, 0), at(0))
	g.PointerMove(centerPoint(s, 5, 5), at(16))
	g.PointerUp(centerPoint(s, 5, 5), at(32))

	if len(log.batches) != 1 {
		t.Fatalf("%d batches, want 1", len(log.batches))
	}
	got := log.batches[0]
	if len(got) != 6 {
		t.Fatalf("batch covers %d cells %v, want the 6 diagonal cells", len(got), got)
	}
	for i, pc := range got {
		want := world.Label{X: i, Y: i}.Key()
		if pc.Key != want {
			t.Fatalf("batch[%d] key %q, want %q", i, pc.Key, want)
		}
	}
}

func TestGestures_SingleClickPaintsStartCell(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	p := centerPoint(s, 4, 4)
	g.PointerDown(ToolPaint, false, "Water", testStroke, p, at(0))
	g.PointerUp(p, at(16))

	if len(log.batches) != 1 || len(log.batches[0]) != 1 || log.batches[0][0].Key != "4,4" {
		t.Fatalf("batches %v, want one single-cell batch for 4,4", log.batches)
	}
}

func TestGestures_RevisitedCellNotDuplicated(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	g.PointerDown(ToolPaint, false, "Water", testStroke, centerPoint(s, 1, 1), at(0))
	g.PointerMove(centerPoint(s, 2, 1), at(16))
	g.PointerMove(centerPoint(s, 1, 1), at(32))
	g.PointerUp(centerPoint(s, 1, 1), at(48))

	if len(log.batches[0]) != 2 {
		t.Fatalf("batch %v, want 2 unique cells", log.batches[0])
	}
	// The revisited cell still counts as last painted.
	if log.selects[0] != (world.Label{X: 1, Y: 1}) {
		t.Fatalf("selected %v, want the revisited cell (1,1)", log.selects[0])
	}
}

func TestGestures_OffGridPressPaintsNothing(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	g.PointerDown(ToolPaint, false, "Water", testStroke, world.Point{X: -500, Y: -500}, at(0))
	g.PointerUp(world.Point{X: -500, Y: -500}, at(16))

	if len(log.batches) != 0 || len(log.selects) != 0 {
		t.Fatalf("batches=%v selects=%v for an off-grid press, want none", log.batches, log.selects)
	}
}

func TestGestures_DrawSamplesByMinSpacing(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	g.PointerDown(ToolGeography, false, "", testStroke, world.Point{X: 10, Y: 10}, at(0))
	g.PointerMove(world.Point{X: 12, Y: 10}, at(16)) // under the spacing, dropped
	g.PointerMove(world.Point{X: 16, Y: 10}, at(32)) // accepted
	g.PointerUp(world.Point{X: 16, Y: 10}, at(48))

	if len(log.previews) != 1 {
		t.Fatalf("%d previews, want 1 per accepted point", len(log.previews))
	}
	if len(log.finals) != 1 {
		t.Fatalf("%d finalized paths, want 1", len(log.finals))
	}
	p := log.finals[0]
	if len(p.Points) != 2 || p.Points[0] != (world.Point{X: 10, Y: 10}) || p.Points[1] != (world.Point{X: 16, Y: 10}) {
		t.Fatalf("path points %v, want the pressed point and the accepted sample", p.Points)
	}
	if p.ID == "" {
		t.Fatal("finalized path has no id")
	}
	if p.Color != testStroke.Color || p.StrokeWidth != testStroke.Width {
		t.Fatalf("path stroke %q/%v, want the active stroke", p.Color, p.StrokeWidth)
	}
}

func TestGestures_DegenerateDrawDiscarded(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	p := world.Point{X: 10, Y: 10}
	g.PointerDown(ToolGeography, false, "", testStroke, p, at(0))
	g.PointerUp(p, at(16))

	if len(log.finals) != 0 {
		t.Fatalf("degenerate draw produced %d paths", len(log.finals))
	}
}

func TestGestures_EraseImmediateThenThrottled(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	g.PointerDown(ToolGeography, true, "", testStroke, world.Point{X: 10, Y: 10}, at(0))
	if len(log.erases) != 1 {
		t.Fatalf("%d erases after press, want an immediate one", len(log.erases))
	}
	g.PointerMove(world.Point{X: 12, Y: 10}, at(10))
	g.PointerMove(world.Point{X: 14, Y: 10}, at(20))
	if len(log.erases) != 1 {
		t.Fatalf("%d erases inside the throttle interval, want still 1", len(log.erases))
	}
	g.PointerMove(world.Point{X: 16, Y: 10}, at(40))
	g.PointerMove(world.Point{X: 18, Y: 10}, at(60))
	g.PointerMove(world.Point{X: 20, Y: 10}, at(80))
	g.PointerUp(world.Point{X: 20, Y: 10}, at(90))

	if len(log.erases) != 3 {
		t.Fatalf("%d erases over 80ms at a 40ms throttle, want 3", len(log.erases))
	}
}

func TestGestures_PanPreemptionDiscardsWithoutCommit(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	g.PointerDown(ToolPaint, false, "Water", testStroke, centerPoint(s, 0, 0), at(0))
	g.PointerMove(centerPoint(s, 1, 0), at(16))
	g.EnterPan()
	if g.State() != StatePanning {
		t.Fatalf("state %v after pan preemption, want Panning", g.State())
	}
	g.ExitPan()
	g.PointerUp(centerPoint(s, 1, 0), at(32))

	if len(log.batches) != 0 || len(log.selects) != 0 {
		t.Fatalf("batches=%v selects=%v after preempted paint, want none", log.batches, log.selects)
	}

	g.PointerDown(ToolGeography, false, "", testStroke, world.Point{X: 10, Y: 10}, at(48))
	g.PointerMove(world.Point{X: 30, Y: 10}, at(64))
	g.EnterPan()
	g.ExitPan()
	g.PointerUp(world.Point{X: 30, Y: 10}, at(80))

	if len(log.finals) != 0 {
		t.Fatalf("%d paths finalized after preempted draw, want none", len(log.finals))
	}
}

func TestGestures_CancelResetsToIdle(t *testing.T) {
	s := SquareScheme{Cols: 10, Rows: 10, CellSize: 10}
	g, log := newSinkGestures(testGestureConfig(), s)

	g.PointerDown(ToolGeography, false, "", testStroke, world.Point{X: 10, Y: 10}, at(0))
	g.PointerMove(world.Point{X: 30, Y: 10}, at(16))
	g.Cancel()

	if g.State() != StateIdle {
		t.Fatalf("state %v after cancel, want Idle", g.State())
	}
	g.PointerUp(world.Point{X: 30, Y: 10}, at(32))
	if len(log.finals) != 0 {
		t.Fatal("cancelled draw still finalized a path")
	}
}
