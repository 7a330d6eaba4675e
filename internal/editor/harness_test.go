package editor

import (
	"time"

	"hexcarta/internal/world"
)

// testEpoch anchors every fake-clock test at one fixed instant.
var testEpoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// at returns the instant ms milliseconds after the epoch.
func at(ms int) time.Time { return testEpoch.Add(time.Duration(ms) * time.Millisecond) }

// testClock hands out deterministic frame times to editor entry points.
type testClock struct{ now time.Time }

func newTestClock() *testClock { return &testClock{now: testEpoch} }

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// townSelect is one recorded OnSelectTownCell invocation.
type townSelect struct {
	label world.Label
	ok    bool
}

// intentLog records every outbound mutation intent an editor emits, in
// arrival order, so tests can assert on exact counts and payloads.
type intentLog struct {
	clicks  []string
	batches [][]PaintedCell
	created []world.Path
	erases  []world.Point
	towns   []townSelect
}

func (il *intentLog) callbacks() Callbacks {
	return Callbacks{
		OnCellClick: func(key string, _ world.Label) {
			il.clicks = append(il.clicks, key)
		},
		OnPaintBatch: func(cells []PaintedCell) {
			il.batches = append(il.batches, cells)
		},
		OnPathCreated: func(p world.Path) {
			il.created = append(il.created, p)
		},
		OnPathsErased: func(at world.Point, _ float64) {
			il.erases = append(il.erases, at)
		},
		OnSelectTownCell: func(l world.Label, ok bool) {
			il.towns = append(il.towns, townSelect{label: l, ok: ok})
		},
	}
}

func (il *intentLog) intentCount() int {
	return len(il.clicks) + len(il.batches) + len(il.created) + len(il.erases) + len(il.towns)
}

// newTestEditor builds an editor over the given scheme with a small fixed
// screen, a Water/Grass palette and the log's callbacks wired in.
func newTestEditor(scheme Scheme, il *intentLog) *Editor {
	return NewEditor(Options{
		Scheme:    scheme,
		Callbacks: il.callbacks(),
		Fills: []world.FillCategory{
			{Name: "Water", Color: "#3a76c4"},
			{Name: "Grass", Color: "#7bb24e"},
		},
		ScreenW:       640,
		ScreenH:       480,
		PanThreshold:  5,
		RecomputeWait: 120 * time.Millisecond,
	})
}

// screenAt projects a label's cell center through the editor's camera.
func screenAt(e *Editor, l world.Label) (float64, float64) {
	wx, wy := e.Scheme().Center(l)
	offX, offY, zoom := e.Camera()
	return wx*zoom + offX, wy*zoom + offY
}

// paintDrag runs one full primary-button gesture across the given label
// centers, one pointer sample per label.
func paintDrag(e *Editor, c *testClock, labels ...world.Label) {
	sx, sy := screenAt(e, labels[0])
	e.PointerDown(sx, sy, false, c.Now())
	for _, l := range labels[1:] {
		sx, sy = screenAt(e, l)
		e.PointerMove(sx, sy, c.Advance(16*time.Millisecond))
	}
	e.PointerUp(sx, sy, c.Advance(16*time.Millisecond))
}
