package editor

import (
	"time"

	"hexcarta/internal/world"
)

// Tool is the active authoring mode.
type Tool uint8

const (
	ToolSelect Tool = iota
	ToolPaint
	ToolGeography
	toolCount // sentinel
)

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolPaint:
		return "paint"
	case ToolGeography:
		return "geography"
	default:
		return "unknown"
	}
}

// GestureState is the pointer state machine's current state.
type GestureState uint8

const (
	StateIdle GestureState = iota
	StatePanning
	StatePainting
	StateDrawing
	StateErasing
)

func (s GestureState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePanning:
		return "panning"
	case StatePainting:
		return "painting"
	case StateDrawing:
		return "drawing"
	case StateErasing:
		return "erasing"
	default:
		return "unknown"
	}
}

// PaintedCell is one entry of an atomic paint batch.
type PaintedCell struct {
	Key  string
	Fill string
}

// StrokeStyle is the pen used for new free-draw paths.
type StrokeStyle struct {
	Color string
	Width float64
}

// GestureConfig bounds gesture sampling.
type GestureConfig struct {
	MinDrawSpacing float64       // min world px between recorded path points
	EraseRadius    float64       // erase brush radius in world px
	EraseInterval  time.Duration // steady rate cap for erase during motion
}

// gestureSinks are the machine's outputs, wired by the orchestrator. The
// machine hands over only finished values; its working batch and path
// never escape.
type gestureSinks struct {
	livePaint func(key, fill string)
	batch     func(cells []PaintedCell)
	selectEnd func(l world.Label)
	pathLive  func(p world.Path)
	pathDone  func(p world.Path)
	erase     func(at world.Point, radius float64)
}

// Gestures disambiguates pointer input into paint batches, free-draw
// paths and erase requests. One instance serves one grid. Pan handling
// lives in the viewport; a confirmed pan preempts this machine through
// EnterPan.
type Gestures struct {
	cfg    GestureConfig
	scheme Scheme
	sinks  gestureSinks

	state GestureState

	// painting
	fill     string
	batch    []PaintedCell
	batched  map[string]bool
	lastCell world.Label
	hasLast  bool

	// drawing
	path world.Path

	// erasing
	eraseGate throttle
}

func newGestures(cfg GestureConfig, scheme Scheme, sinks gestureSinks) *Gestures {
	return &Gestures{cfg: cfg, scheme: scheme, sinks: sinks}
}

// State returns the machine's current state.
func (g *Gestures) State() GestureState { return g.state }

// PointerDown begins a gesture for the given tool at world point w.
// Select resolves on pointer-up, after the pan threshold has ruled a drag
// out, so it is not handled here.
func (g *Gestures) PointerDown(tool Tool, erasing bool, fill string, stroke StrokeStyle, w world.Point, now time.Time) {
	if g.state != StateIdle {
		return
	}
	switch {
	case tool == ToolPaint:
		g.state = StatePainting
		g.fill = fill
		g.batch = nil
		g.batched = make(map[string]bool)
		g.hasLast = false
		if l, ok := g.scheme.CellAt(w.X, w.Y); ok {
			g.paintCell(l)
		}
	case tool == ToolGeography && !erasing:
		g.state = StateDrawing
		g.path = world.Path{
			ID:          world.NewPathID(),
			Points:      []world.Point{w},
			Color:       stroke.Color,
			StrokeWidth: stroke.Width,
		}
	case tool == ToolGeography && erasing:
		g.state = StateErasing
		g.eraseGate = newThrottle(g.cfg.EraseInterval)
		if g.eraseGate.Allow(now) {
			g.sinks.erase(w, g.cfg.EraseRadius)
		}
	}
}

// PointerMove advances the active gesture.
func (g *Gestures) PointerMove(w world.Point, now time.Time) {
	switch g.state {
	case StatePainting:
		l, ok := g.scheme.CellAt(w.X, w.Y)
		if !ok {
			return
		}
		if !g.hasLast {
			g.paintCell(l)
			return
		}
		if l == g.lastCell {
			return
		}
		// Interpolate at cell granularity so fast drags cannot skip cells.
		steps := world.LineLabels(g.lastCell, l)
		for _, step := range steps[1:] {
			g.paintCell(step)
		}
	case StateDrawing:
		last := g.path.Points[len(g.path.Points)-1]
		if w.Dist(last) < g.cfg.MinDrawSpacing {
			return
		}
		g.path.Points = append(g.path.Points, w)
		g.sinks.pathLive(g.path.Clone())
	case StateErasing:
		if g.eraseGate.Allow(now) {
			g.sinks.erase(w, g.cfg.EraseRadius)
		}
	}
}

// PointerUp finishes the active gesture. Paint flushes its batch as one
// atomic update and then selects the last painted cell; draw finalizes
// paths of at least two points and discards degenerate ones.
func (g *Gestures) PointerUp(w world.Point, now time.Time) {
	switch g.state {
	case StatePainting:
		if len(g.batch) > 0 {
			out := make([]PaintedCell, len(g.batch))
			copy(out, g.batch)
			g.sinks.batch(out)
			g.sinks.selectEnd(g.lastCell)
		}
	case StateDrawing:
		if len(g.path.Points) >= 2 {
			g.sinks.pathDone(g.path.Clone())
		}
	}
	g.reset()
}

// Cancel discards any in-progress gesture with no partial commit.
func (g *Gestures) Cancel() { g.reset() }

// EnterPan discards the live gesture and parks the machine in Panning.
func (g *Gestures) EnterPan() {
	g.reset()
	g.state = StatePanning
}

// ExitPan returns to Idle after a pan drag ends.
func (g *Gestures) ExitPan() {
	if g.state == StatePanning {
		g.state = StateIdle
	}
}

func (g *Gestures) reset() {
	g.state = StateIdle
	g.batch = nil
	g.batched = nil
	g.path = world.Path{}
	g.hasLast = false
}

// paintCell adds a cell to the running batch once and emits the immediate
// live patch for it.
func (g *Gestures) paintCell(l world.Label) {
	key := g.scheme.Key(l)
	if !g.batched[key] {
		g.batched[key] = true
		g.batch = append(g.batch, PaintedCell{Key: key, Fill: g.fill})
		g.sinks.livePaint(key, g.fill)
	}
	g.lastCell = l
	g.hasLast = true
}
