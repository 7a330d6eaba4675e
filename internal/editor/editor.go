package editor

import (
	"time"

	"hexcarta/internal/logx"
	"hexcarta/internal/world"
)

// CellData is the externally supplied authored state of one cell.
type CellData struct {
	Fill     string
	Notes    string
	Occupied bool
}

// Snapshot is the wholesale data push from the owner: cell states keyed by
// identity plus the current paths. The editor never diffs snapshots; each
// push replaces the previous one entirely.
type Snapshot struct {
	Cells map[string]CellData
	Paths []world.Path
}

// Callbacks are the editor's outbound mutation intents. All are optional
// and fire-and-forget: the editor applies its optimistic local patch
// regardless of what the owner does with the callback.
type Callbacks struct {
	OnCellClick      func(key string, l world.Label)
	OnPaintBatch     func(cells []PaintedCell)
	OnPathCreated    func(p world.Path)
	OnPathsErased    func(at world.Point, radius float64)
	OnSelectTownCell func(l world.Label, ok bool)
}

// Options configure one editor instance. Zero fields fall back to the
// defaults below.
type Options struct {
	Scheme    Scheme
	Callbacks Callbacks
	Fills     []world.FillCategory
	Log       logx.Logger

	ScreenW, ScreenH int
	MinZoom, MaxZoom float64
	ZoomStep         float64
	PanThreshold     float64
	BoundsPad        int
	RecomputeWait    time.Duration
	RetainPasses     int
	Gesture          GestureConfig
	Stroke           StrokeStyle
}

func (o *Options) normalize() {
	if o.Log == nil {
		o.Log = logx.Nop()
	}
	if o.ScreenW <= 0 {
		o.ScreenW = 1280
	}
	if o.ScreenH <= 0 {
		o.ScreenH = 800
	}
	if o.MinZoom <= 0 {
		o.MinZoom = 0.25
	}
	if o.MaxZoom < o.MinZoom {
		o.MaxZoom = 4.0
	}
	if o.ZoomStep <= 1 {
		o.ZoomStep = 1.12
	}
	if o.PanThreshold <= 0 {
		o.PanThreshold = 5
	}
	if o.BoundsPad <= 0 {
		o.BoundsPad = 2
	}
	if o.RecomputeWait <= 0 {
		o.RecomputeWait = 120 * time.Millisecond
	}
	if o.RetainPasses <= 0 {
		o.RetainPasses = 8
	}
	if o.Gesture.MinDrawSpacing <= 0 {
		o.Gesture.MinDrawSpacing = 3
	}
	if o.Gesture.EraseRadius <= 0 {
		o.Gesture.EraseRadius = 16
	}
	if o.Gesture.EraseInterval <= 0 {
		o.Gesture.EraseInterval = 40 * time.Millisecond
	}
	if o.Stroke.Color == "" {
		o.Stroke.Color = "#2d4a6b"
	}
	if o.Stroke.Width <= 0 {
		o.Stroke.Width = 2.5
	}
}

// Editor composes one grid's scheme, viewport, renderer and gesture
// machine, and owns the wiring between them: viewport changes trigger
// debounced visible-set recomputes, gesture intents become mutation
// callbacks plus an immediate optimistic patch of the local model.
type Editor struct {
	scheme   Scheme
	vp       *Viewport
	renderer *Renderer
	gestures *Gestures
	cb       Callbacks
	log      logx.Logger

	fills   []world.FillCategory
	fillIdx map[string]world.FillCategory

	tool    Tool
	erasing bool
	fill    string
	stroke  StrokeStyle

	cells    map[string]CellData
	paths    []world.Path
	livePath *world.Path

	selected      string
	selectedLabel world.Label

	pad       int
	recompute *debounce
	frame     frameFlag

	pointerDown bool
	panArmed    bool

	alive bool
}

// NewEditor builds an editor over a grid scheme. The initial visible set
// is computed immediately so the first frame has content.
func NewEditor(o Options) *Editor {
	o.normalize()
	e := &Editor{
		scheme:    o.Scheme,
		cb:        o.Callbacks,
		log:       o.Log,
		tool:      ToolSelect,
		stroke:    o.Stroke,
		cells:     make(map[string]CellData),
		pad:       o.BoundsPad,
		recompute: newDebounce(o.RecomputeWait),
		alive:     true,
	}
	e.vp = &Viewport{
		Zoom:         1,
		MinZoom:      o.MinZoom,
		MaxZoom:      o.MaxZoom,
		ZoomStep:     o.ZoomStep,
		ScreenW:      o.ScreenW,
		ScreenH:      o.ScreenH,
		PanThreshold: o.PanThreshold,
	}
	e.renderer = NewRenderer(o.Scheme, o.RetainPasses)
	e.gestures = newGestures(o.Gesture, o.Scheme, gestureSinks{
		livePaint: e.applyLivePaint,
		batch:     e.flushBatch,
		selectEnd: e.selectCell,
		pathLive:  e.previewPath,
		pathDone:  e.finishPath,
		erase:     e.eraseAt,
	})
	e.SetFills(o.Fills)
	if len(e.fills) > 0 {
		e.fill = e.fills[0].Name
	}
	e.CenterOnGrid()
	e.recomputeNow()
	return e
}

// CenterOnGrid frames the middle of the grid at the current zoom.
func (e *Editor) CenterOnGrid() {
	cols, rows := e.scheme.Size()
	cx, cy := e.scheme.Center(world.Label{X: cols / 2, Y: rows / 2})
	e.vp.CenterOn(cx, cy)
	e.frame.Set()
}

// UpdateData replaces the editor's local model wholesale and resyncs the
// visible set right away.
func (e *Editor) UpdateData(s Snapshot) {
	if !e.alive {
		return
	}
	e.cells = make(map[string]CellData, len(s.Cells))
	for k, v := range s.Cells {
		e.cells[k] = v
	}
	e.paths = make([]world.Path, len(s.Paths))
	copy(e.paths, s.Paths)
	e.renderer.Touch()
	e.recomputeNow()
}

// SetTool switches the authoring mode, discarding any live gesture.
func (e *Editor) SetTool(t Tool) {
	if !e.alive || t >= toolCount || t == e.tool {
		return
	}
	e.gestures.Cancel()
	e.tool = t
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SetErasing flips the geography tool between drawing and erasing.
func (e *Editor) SetErasing(erasing bool) {
	if !e.alive || e.erasing == erasing {
		return
	}
	e.gestures.Cancel()
	e.erasing = erasing
}

// Erasing reports whether the geography tool erases.
func (e *Editor) Erasing() bool { return e.erasing }

// SetFills replaces the fill palette.
func (e *Editor) SetFills(fills []world.FillCategory) {
	if !e.alive {
		return
	}
	e.fills = make([]world.FillCategory, len(fills))
	copy(e.fills, fills)
	e.fillIdx = make(map[string]world.FillCategory, len(fills))
	for _, f := range fills {
		e.fillIdx[f.Name] = f
	}
}

// Fills returns a copy of the palette in display order.
func (e *Editor) Fills() []world.FillCategory {
	out := make([]world.FillCategory, len(e.fills))
	copy(out, e.fills)
	return out
}

// FillCategory looks a palette entry up by name.
func (e *Editor) FillCategory(name string) (world.FillCategory, bool) {
	f, ok := e.fillIdx[name]
	return f, ok
}

// SetFill selects the paint fill category. Unknown names are allowed but
// logged; the palette owner validates upstream.
func (e *Editor) SetFill(name string) {
	if !e.alive {
		return
	}
	if _, ok := e.fillIdx[name]; !ok && name != "" {
		e.log.Warnf("fill %q is not in the palette", name)
	}
	e.fill = name
}

// Fill returns the selected fill category name.
func (e *Editor) Fill() string { return e.fill }

// SetStroke sets the pen for new free-draw paths.
func (e *Editor) SetStroke(s StrokeStyle) {
	if !e.alive {
		return
	}
	if s.Width > 0 && s.Color != "" {
		e.stroke = s
	}
}

// Stroke returns the current pen.
func (e *Editor) Stroke() StrokeStyle { return e.stroke }

// SetLayerVisible toggles one render layer.
func (e *Editor) SetLayerVisible(l Layer, visible bool) {
	if !e.alive {
		return
	}
	e.renderer.SetLayerVisible(l, visible)
}

// LayerVisible reports one layer's visibility.
func (e *Editor) LayerVisible(l Layer) bool { return e.renderer.LayerVisible(l) }

// State returns the gesture machine's current state.
func (e *Editor) State() GestureState { return e.gestures.State() }

// Selected returns the selected cell, ok=false when nothing is selected.
func (e *Editor) Selected() (string, world.Label, bool) {
	return e.selected, e.selectedLabel, e.selected != ""
}

// Deselect clears the selection and notifies the town-selection callback.
func (e *Editor) Deselect() {
	if !e.alive {
		return
	}
	e.clearSelection()
}

// CellData returns the local model's state for a cell key.
func (e *Editor) CellData(key string) (CellData, bool) {
	cd, ok := e.cells[key]
	return cd, ok
}

// Scheme returns the coordinate scheme in use.
func (e *Editor) Scheme() Scheme { return e.scheme }

// SetScheme swaps the coordinate scheme, as on an orientation switch.
// The live gesture is discarded and every retained renderable is rebuilt
// against the new geometry; a fresh Snapshot should follow via UpdateData.
func (e *Editor) SetScheme(s Scheme) {
	if !e.alive || s == nil {
		return
	}
	e.gestures.Cancel()
	e.gestures.scheme = s
	e.scheme = s
	e.selected = ""
	e.selectedLabel = world.Label{}
	e.renderer.rebase(s)
	e.CenterOnGrid()
	e.recomputeNow()
}

// Paths returns the local path list. Finalized paths are immutable, so
// sharing their point storage with the caller is safe.
func (e *Editor) Paths() []world.Path {
	out := make([]world.Path, len(e.paths))
	copy(out, e.paths)
	return out
}

// LivePath returns the in-progress free-draw preview, if any.
func (e *Editor) LivePath() (world.Path, bool) {
	if e.livePath == nil {
		return world.Path{}, false
	}
	return *e.livePath, true
}

// EachVisibleCell calls fn with a copy of every visible retained sprite.
func (e *Editor) EachVisibleCell(fn func(CellSprite)) { e.renderer.EachVisible(fn) }

// Bounds returns the padded label rect of the last visible-set recompute.
func (e *Editor) Bounds() LabelRect { return e.renderer.Bounds() }

// Generation mirrors the renderer's change counter.
func (e *Editor) Generation() uint64 { return e.renderer.Generation() }

// ScreenToWorld converts through the viewport.
func (e *Editor) ScreenToWorld(sx, sy float64) (float64, float64) {
	return e.vp.ScreenToWorld(sx, sy)
}

// Camera returns the current pan offset and zoom for draw transforms.
func (e *Editor) Camera() (offX, offY, zoom float64) {
	return e.vp.OffsetX, e.vp.OffsetY, e.vp.Zoom
}

// Zoom returns the current zoom factor.
func (e *Editor) Zoom() float64 { return e.vp.Zoom }

// Resize updates the screen size and recomputes the visible set.
func (e *Editor) Resize(w, h int) {
	if !e.alive || (w == e.vp.ScreenW && h == e.vp.ScreenH) {
		return
	}
	e.vp.ScreenW, e.vp.ScreenH = w, h
	e.frame.Set()
	e.recomputeNow()
}

// PointerDown handles a press at screen coordinates. middle presses pan
// under any tool; primary presses pan only under the select tool and
// otherwise start the active tool's gesture.
func (e *Editor) PointerDown(sx, sy float64, middle bool, now time.Time) {
	if !e.alive {
		return
	}
	e.pointerDown = true
	if middle || e.tool == ToolSelect {
		e.vp.BeginPan(sx, sy)
		e.panArmed = true
		return
	}
	wx, wy := e.vp.ScreenToWorld(sx, sy)
	e.gestures.PointerDown(e.tool, e.erasing, e.fill, e.stroke, world.Point{X: wx, Y: wy}, now)
}

// PointerMove handles motion while the pointer is down.
func (e *Editor) PointerMove(sx, sy float64, now time.Time) {
	if !e.alive || !e.pointerDown {
		return
	}
	if e.panArmed {
		if e.vp.MovePan(sx, sy) {
			if e.gestures.State() != StatePanning {
				// A confirmed pan preempts whatever gesture was live.
				e.gestures.EnterPan()
			}
			e.frame.Set()
			e.recompute.Trigger(now)
		}
		return
	}
	wx, wy := e.vp.ScreenToWorld(sx, sy)
	e.gestures.PointerMove(world.Point{X: wx, Y: wy}, now)
}

// PointerUp handles release. A select-tool release inside the pan
// threshold is a click and resolves the cell under the pointer; the end
// of a confirmed pan forces one immediate visible-set recompute.
func (e *Editor) PointerUp(sx, sy float64, now time.Time) {
	if !e.alive {
		return
	}
	e.pointerDown = false
	if e.panArmed {
		e.panArmed = false
		panned := e.vp.EndPan()
		e.gestures.ExitPan()
		if panned {
			e.recompute.Cancel()
			e.recomputeNow()
			e.frame.Set()
			return
		}
		if e.tool == ToolSelect {
			wx, wy := e.vp.ScreenToWorld(sx, sy)
			if l, ok := e.scheme.CellAt(wx, wy); ok {
				e.selectCell(l)
			} else {
				e.clearSelection()
			}
		}
		return
	}
	wx, wy := e.vp.ScreenToWorld(sx, sy)
	e.gestures.PointerUp(world.Point{X: wx, Y: wy}, now)
}

// Wheel applies zoom steps anchored at the cursor.
func (e *Editor) Wheel(steps, sx, sy float64, now time.Time) {
	if !e.alive || steps == 0 {
		return
	}
	if e.vp.ZoomAt(steps, sx, sy) {
		e.frame.Set()
		e.recompute.Trigger(now)
	}
}

// Tick runs the per-frame cooperative work: fire a due debounced
// recompute and consume the transform flag. Returns true when the visual
// transform changed this frame.
func (e *Editor) Tick(now time.Time) bool {
	if !e.alive {
		return false
	}
	if e.recompute.Ready(now) {
		e.recomputeNow()
	}
	return e.frame.Consume()
}

// Destroy tears the editor down: callbacks stop firing, scheduled work is
// dropped, retained renderables are released. Safe to call twice.
func (e *Editor) Destroy() {
	if !e.alive {
		return
	}
	e.alive = false
	e.recompute.Cancel()
	e.gestures.Cancel()
	e.renderer.clear()
	e.cb = Callbacks{}
}

// Alive reports whether the editor still accepts input.
func (e *Editor) Alive() bool { return e.alive }

func (e *Editor) recomputeNow() {
	if !e.alive {
		return
	}
	bounds := e.scheme.LabelBounds(e.vp.WorldRect(), e.pad)
	st := e.renderer.Sync(bounds, e.fillOf)
	if !st.zero() {
		e.log.Debugf("visible sync: cells=%d created=%d updated=%d hidden=%d evicted=%d",
			bounds.Count(), st.Created, st.Updated, st.Hidden, st.Evicted)
	}
}

func (e *Editor) fillOf(key string) string {
	return e.cells[key].Fill
}

// applyLivePaint patches one cell locally the moment it is painted, ahead
// of the batch flush.
func (e *Editor) applyLivePaint(key, fill string) {
	cd := e.cells[key]
	cd.Fill = fill
	e.cells[key] = cd
	e.renderer.PatchFill(key, fill)
}

func (e *Editor) flushBatch(cells []PaintedCell) {
	if e.cb.OnPaintBatch != nil {
		e.cb.OnPaintBatch(cells)
	}
}

func (e *Editor) selectCell(l world.Label) {
	key := e.scheme.Key(l)
	if e.selected != key {
		e.selected = key
		e.selectedLabel = l
		e.renderer.Touch()
	}
	if e.cb.OnCellClick != nil {
		e.cb.OnCellClick(key, l)
	}
	if e.cb.OnSelectTownCell != nil {
		e.cb.OnSelectTownCell(l, e.cells[key].Occupied)
	}
}

func (e *Editor) clearSelection() {
	if e.selected == "" {
		return
	}
	e.selected = ""
	e.selectedLabel = world.Label{}
	e.renderer.Touch()
	if e.cb.OnSelectTownCell != nil {
		e.cb.OnSelectTownCell(world.Label{}, false)
	}
}

func (e *Editor) previewPath(p world.Path) {
	e.livePath = &p
	e.renderer.Touch()
}

func (e *Editor) finishPath(p world.Path) {
	e.livePath = nil
	e.paths = append(e.paths, p)
	e.renderer.Touch()
	if e.cb.OnPathCreated != nil {
		e.cb.OnPathCreated(p)
	}
}

func (e *Editor) eraseAt(at world.Point, radius float64) {
	next, changed := world.ErasePaths(e.paths, at, radius)
	if !changed {
		return
	}
	e.paths = next
	e.renderer.Touch()
	if e.cb.OnPathsErased != nil {
		e.cb.OnPathsErased(at, radius)
	}
}
