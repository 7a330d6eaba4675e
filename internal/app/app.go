package app

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sqweek/dialog"

	"hexcarta/internal/assets"
	"hexcarta/internal/config"
	"hexcarta/internal/editor"
	"hexcarta/internal/logx"
	"hexcarta/internal/store"
	"hexcarta/internal/world"
)

var (
	windowFill    = color.RGBA{R: 23, G: 27, B: 34, A: 255}
	baseCellFill  = color.RGBA{R: 42, G: 50, B: 64, A: 255}
	gridLineColor = color.RGBA{R: 74, G: 86, B: 108, A: 255}
	highlightLine = color.RGBA{R: 255, G: 214, B: 64, A: 255}
	townMarkFill  = color.RGBA{R: 196, G: 92, B: 60, A: 255}
	townMarkLine  = color.RGBA{R: 240, G: 226, B: 200, A: 255}
	dimOverlay    = color.RGBA{R: 0, G: 0, B: 0, A: 150}
)

// statusFor is how long a status flash stays on screen.
const statusFor = 2500 * time.Millisecond

// App drives the editor core from ebiten: it translates raw input into
// pointer/wheel/tick calls, renders the retained cell set, and owns the
// authoritative document the editor's mutation callbacks write into.
type App struct {
	cfg config.Config
	log logx.Logger
	st  *store.Store
	lib *assets.Library

	mapKey string
	doc    *world.Document
	grid   *world.Grid

	ed *editor.Editor // world map editor, always present

	// Town overlay. Non-nil while a town sub-grid is open; the world
	// editor stays alive underneath but receives no input.
	town     *editor.Editor
	townGrid *world.Grid
	townKey  string

	sprites *spriteCache
	images  map[string]*ebiten.Image // decoded asset refs; nil entry = known missing

	width, height int

	prevKeys   map[ebiten.Key]bool
	prevLeft   bool
	prevMiddle bool

	// Autosave: every mutation re-arms the quiet period.
	dirty   bool
	dirtyAt time.Time

	showHUD  bool
	status   string
	statusAt time.Time
}

// New builds the app around a loaded document.
func New(cfg config.Config, log logx.Logger, st *store.Store, lib *assets.Library, mapKey string, doc *world.Document) (*App, error) {
	grid, err := world.GridFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", mapKey, err)
	}
	a := &App{
		cfg:      cfg,
		log:      log,
		st:       st,
		lib:      lib,
		mapKey:   mapKey,
		doc:      doc,
		grid:     grid,
		sprites:  newSpriteCache(),
		images:   make(map[string]*ebiten.Image),
		width:    cfg.WindowW,
		height:   cfg.WindowH,
		prevKeys: make(map[ebiten.Key]bool),
		showHUD:  true,
	}
	a.ed = a.newEditor(a.worldScheme(a.orientation()), cfg.Biomes, grid)
	a.ed.UpdateData(snapshotOf(grid, doc.Paths))
	return a, nil
}

func (a *App) orientation() world.Orientation {
	o, ok := world.ParseOrientation(a.doc.Orientation)
	if !ok {
		a.log.Warnf("document orientation %q unknown, using flat", a.doc.Orientation)
		return world.FlatTop
	}
	return o
}

func (a *App) worldScheme(o world.Orientation) editor.Scheme {
	return editor.HexScheme{Cols: a.doc.Cols, Rows: a.doc.Rows, CellSize: a.cfg.CellSize, Orientation: o}
}

func (a *App) townCellSize() float64 { return a.cfg.CellSize * 1.6 }

// newEditor wires one editor instance whose mutation callbacks land in
// the given grid. The editor patches its own copy optimistically; the
// grid is the document-backed model the next save reads.
func (a *App) newEditor(scheme editor.Scheme, fills []world.FillCategory, g *world.Grid) *editor.Editor {
	return editor.NewEditor(editor.Options{
		Scheme: scheme,
		Fills:  fills,
		Log:    a.log,
		Callbacks: editor.Callbacks{
			OnCellClick: func(key string, l world.Label) {
				a.log.Debugf("cell click %s (%d,%d)", key, l.X, l.Y)
			},
			OnPaintBatch: func(cells []editor.PaintedCell) {
				for _, pc := range cells {
					if c, ok := g.CellByKey(pc.Key); ok {
						c.Fill = pc.Fill
					}
				}
				a.markDirty()
			},
			OnPathCreated: func(world.Path) { a.markDirty() },
			OnPathsErased: func(world.Point, float64) { a.markDirty() },
		},
		ScreenW:       a.width,
		ScreenH:       a.height,
		MinZoom:       a.cfg.MinZoom,
		MaxZoom:       a.cfg.MaxZoom,
		ZoomStep:      a.cfg.ZoomStep,
		PanThreshold:  a.cfg.PanThreshold,
		BoundsPad:     a.cfg.BoundsPad,
		RecomputeWait: time.Duration(a.cfg.RecomputeMS) * time.Millisecond,
		RetainPasses:  a.cfg.RetainPasses,
		Gesture: editor.GestureConfig{
			MinDrawSpacing: a.cfg.MinDrawSpacing,
			EraseRadius:    a.cfg.EraseRadius,
			EraseInterval:  time.Duration(a.cfg.EraseMS) * time.Millisecond,
		},
		Stroke: editor.StrokeStyle{Color: a.cfg.StrokeColor, Width: a.cfg.StrokeWidth},
	})
}

// active returns the editor receiving input: the town overlay when open,
// the world map otherwise.
func (a *App) active() *editor.Editor {
	if a.town != nil {
		return a.town
	}
	return a.ed
}

func (a *App) markDirty() {
	a.dirty = true
	a.dirtyAt = time.Now()
}

func (a *App) flash(msg string) {
	a.status = msg
	a.statusAt = time.Now()
}

// snapshotOf flattens a grid into the editor's wholesale input form.
func snapshotOf(g *world.Grid, paths []world.Path) editor.Snapshot {
	s := editor.Snapshot{Cells: make(map[string]editor.CellData), Paths: paths}
	g.ForEach(func(c *world.Cell) {
		if c.Fill == "" && c.Notes == "" && !c.Town {
			return
		}
		s.Cells[c.Key] = editor.CellData{Fill: c.Fill, Notes: c.Notes, Occupied: c.Town}
	})
	return s
}

func (a *App) Update() error {
	now := time.Now()
	a.handleKeys()
	a.handleMouse(now)
	a.active().Tick(now)

	if a.dirty && a.cfg.AutosaveMS > 0 && now.Sub(a.dirtyAt) >= time.Duration(a.cfg.AutosaveMS)*time.Millisecond {
		a.save()
	}
	return nil
}

func (a *App) handleMouse(now time.Time) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	ed := a.active()

	if _, wy := ebiten.Wheel(); wy != 0 {
		ed.Wheel(wy, x, y, now)
	}

	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left && !a.prevLeft {
		ed.PointerDown(x, y, false, now)
	}
	if middle && !a.prevMiddle {
		ed.PointerDown(x, y, true, now)
	}
	if left || middle {
		ed.PointerMove(x, y, now)
	}
	if (!left && a.prevLeft) || (!middle && a.prevMiddle) {
		ed.PointerUp(x, y, now)
	}
	a.prevLeft, a.prevMiddle = left, middle
}

// handleKeys processes edge-triggered key bindings.
func (a *App) handleKeys() {
	cur := map[ebiten.Key]bool{}
	press := func(k ebiten.Key) bool {
		cur[k] = ebiten.IsKeyPressed(k)
		return cur[k] && !a.prevKeys[k]
	}
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	mx, my := ebiten.CursorPosition()

	if press(ebiten.KeyTab) {
		a.cycleTool()
	}
	if press(ebiten.KeyE) {
		ed := a.active()
		ed.SetErasing(!ed.Erasing())
	}
	if press(ebiten.KeyBracketLeft) {
		a.cycleFill(-1)
	}
	if press(ebiten.KeyBracketRight) {
		a.cycleFill(1)
	}
	if press(ebiten.KeyB) {
		a.toggleLayer(editor.LayerBackground)
	}
	if press(ebiten.KeyG) {
		a.toggleLayer(editor.LayerGridLines)
	}
	if press(ebiten.KeyP) {
		a.toggleLayer(editor.LayerPaths)
	}
	if press(ebiten.KeyK) {
		a.toggleLayer(editor.LayerStickers)
	}
	if press(ebiten.KeyH) {
		a.showHUD = !a.showHUD
	}
	if press(ebiten.KeyO) {
		a.switchOrientation()
	}
	if press(ebiten.KeyT) {
		a.toggleTownMarker()
	}
	if press(ebiten.KeyEnter) {
		a.openTown()
	}
	if press(ebiten.KeyEscape) {
		if a.town != nil {
			a.closeTown()
		} else {
			a.ed.Deselect()
		}
	}
	if press(ebiten.KeyC) {
		a.copyCellReport()
	}
	if press(ebiten.KeyF) {
		if shift {
			a.clearBackground()
		} else {
			a.pickBackground()
		}
	}
	if press(ebiten.KeyX) {
		a.placeSticker(float64(mx), float64(my))
	}
	if press(ebiten.KeyDelete) {
		a.removeNearestSticker(float64(mx), float64(my))
	}
	if press(ebiten.KeyR) {
		a.active().CenterOnGrid()
	}
	if press(ebiten.KeyS) {
		a.save()
	}
	a.prevKeys = cur
}

func (a *App) cycleTool() {
	ed := a.active()
	switch ed.Tool() {
	case editor.ToolSelect:
		ed.SetTool(editor.ToolPaint)
	case editor.ToolPaint:
		if a.town != nil {
			// Towns have no geography layer; paths live on the world map.
			ed.SetTool(editor.ToolSelect)
		} else {
			ed.SetTool(editor.ToolGeography)
		}
	default:
		ed.SetTool(editor.ToolSelect)
	}
	a.flash("tool: " + ed.Tool().String())
}

func (a *App) cycleFill(dir int) {
	ed := a.active()
	fills := ed.Fills()
	if len(fills) == 0 {
		return
	}
	idx := 0
	for i, f := range fills {
		if f.Name == ed.Fill() {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(fills)) % len(fills)
	ed.SetFill(fills[idx].Name)
	a.flash("fill: " + fills[idx].Name)
}

func (a *App) toggleLayer(l editor.Layer) {
	ed := a.active()
	next := !ed.LayerVisible(l)
	ed.SetLayerVisible(l, next)
	state := "off"
	if next {
		state = "on"
	}
	a.flash(fmt.Sprintf("layer %s: %s", l, state))
}

// switchOrientation regenerates the world grid under the other hex
// orientation and rejoins authored content by label. Paths rescale by
// bounding box so drawings keep their place relative to the grid.
func (a *App) switchOrientation() {
	if a.town != nil {
		return
	}
	from := a.orientation()
	to := from.Other()
	next, err := a.grid.Regenerate(to)
	if err != nil {
		a.log.Errorf("regenerate grid: %v", err)
		return
	}
	paths := world.ReprojectPaths(a.ed.Paths(), a.doc.Cols, a.doc.Rows, a.cfg.CellSize, from, to)
	a.grid = next
	a.doc.Orientation = to.String()
	a.ed.SetScheme(a.worldScheme(to))
	a.ed.UpdateData(snapshotOf(a.grid, paths))
	a.markDirty()
	a.flash("orientation: " + to.String())
}

func (a *App) toggleTownMarker() {
	if a.town != nil {
		return
	}
	key, _, ok := a.ed.Selected()
	if !ok {
		a.flash("select a cell first")
		return
	}
	c, ok := a.grid.CellByKey(key)
	if !ok {
		return
	}
	c.Town = !c.Town
	a.ed.UpdateData(snapshotOf(a.grid, a.ed.Paths()))
	a.markDirty()
	if c.Town {
		a.flash("town marker set")
	} else {
		a.flash("town marker cleared")
	}
}

// openTown opens the square sub-grid editor for the selected town cell.
func (a *App) openTown() {
	if a.town != nil {
		return
	}
	key, _, ok := a.ed.Selected()
	if !ok {
		a.flash("select a town cell first")
		return
	}
	c, ok := a.grid.CellByKey(key)
	if !ok || !c.Town {
		a.flash("cell has no town (press T to mark one)")
		return
	}

	tg := world.NewTownGrid(a.cfg.TownCols, a.cfg.TownRows)
	if td, ok := a.doc.Towns[key]; ok {
		g, err := world.TownGridFromDocument(td)
		if err != nil {
			a.log.Warnf("town %s document: %v, starting blank", key, err)
		} else {
			tg = g
		}
	}

	scheme := editor.SquareScheme{Cols: tg.Cols, Rows: tg.Rows, CellSize: a.townCellSize()}
	a.townGrid = tg
	a.townKey = key
	a.town = a.newEditor(scheme, a.cfg.Materials, tg)
	a.town.UpdateData(snapshotOf(tg, nil))
	a.log.Infof("town %s opened (%dx%d)", key, tg.Cols, tg.Rows)
}

// closeTown flushes the town grid into the document and tears the
// overlay editor down.
func (a *App) closeTown() {
	if a.town == nil {
		return
	}
	td := world.TownDocumentOf(a.townGrid)
	if a.doc.Towns == nil {
		a.doc.Towns = make(map[string]world.TownDocument)
	}
	if len(td.Cells) == 0 {
		delete(a.doc.Towns, a.townKey)
	} else {
		a.doc.Towns[a.townKey] = td
	}
	a.town.Destroy()
	a.town = nil
	a.townGrid = nil
	a.log.Infof("town %s closed", a.townKey)
	a.townKey = ""
	a.markDirty()
}

func (a *App) pickBackground() {
	if a.town != nil {
		return
	}
	path, err := dialog.File().Filter("Images", "png", "jpg", "jpeg").Title("Choose background image").Load()
	if err != nil {
		a.log.Debugf("background dialog: %v", err)
		return
	}
	a.doc.Background = &world.Background{Ref: path, Scale: 1}
	delete(a.images, path)
	a.markDirty()
	a.flash("background set")
}

func (a *App) clearBackground() {
	if a.town != nil || a.doc.Background == nil {
		return
	}
	a.doc.Background = nil
	a.markDirty()
	a.flash("background cleared")
}

func (a *App) placeSticker(sx, sy float64) {
	if a.town != nil {
		return
	}
	path, err := dialog.File().Filter("Images", "png", "jpg", "jpeg").Title("Choose sticker image").Load()
	if err != nil {
		a.log.Debugf("sticker dialog: %v", err)
		return
	}
	wx, wy := a.ed.ScreenToWorld(sx, sy)
	a.doc.Stickers = append(a.doc.Stickers, world.Sticker{
		ID: uuid.NewString(), Ref: path, X: wx, Y: wy, Scale: 1,
	})
	a.markDirty()
	a.flash("sticker placed")
}

func (a *App) removeNearestSticker(sx, sy float64) {
	if a.town != nil || len(a.doc.Stickers) == 0 {
		return
	}
	wx, wy := a.ed.ScreenToWorld(sx, sy)
	best := -1
	bestD := 48.0 // grab radius in world px
	for i, s := range a.doc.Stickers {
		d := math.Hypot(s.X-wx, s.Y-wy)
		if d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		a.flash("no sticker near cursor")
		return
	}
	a.doc.Stickers = append(a.doc.Stickers[:best], a.doc.Stickers[best+1:]...)
	a.markDirty()
	a.flash("sticker removed")
}

// syncDocument pulls the authoritative state back into the document
// before persisting.
func (a *App) syncDocument() {
	a.doc.Cells = a.grid.Snapshot()
	a.doc.Paths = a.ed.Paths()
	if a.town != nil {
		if a.doc.Towns == nil {
			a.doc.Towns = make(map[string]world.TownDocument)
		}
		a.doc.Towns[a.townKey] = world.TownDocumentOf(a.townGrid)
	}
}

func (a *App) save() {
	if err := a.SaveNow(); err != nil {
		a.log.Errorf("save map %q: %v", a.mapKey, err)
		a.flash("save failed")
		return
	}
	a.flash("saved")
}

// SaveNow persists the document immediately. The shutdown path calls it
// after the game loop exits.
func (a *App) SaveNow() error {
	a.syncDocument()
	if err := a.st.Save(a.mapKey, a.doc); err != nil {
		return err
	}
	a.dirty = false
	a.log.Debugf("map %q saved", a.mapKey)
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(windowFill)
	a.drawEditor(screen, a.ed, a.grid, a.cfg.CellSize, true)
	if a.town != nil {
		vector.FillRect(screen, 0, 0, float32(a.width), float32(a.height), dimOverlay, false)
		a.drawEditor(screen, a.town, a.townGrid, a.townCellSize(), false)
	}
	a.drawHUD(screen)
}

// drawEditor paints one editor's layers in z-order: background, cell
// fills, grid lines, paths, stickers and markers, selection highlight.
func (a *App) drawEditor(dst *ebiten.Image, ed *editor.Editor, g *world.Grid, cellSize float64, isWorld bool) {
	offX, offY, zoom := ed.Camera()
	scheme := ed.Scheme()

	if isWorld && ed.LayerVisible(editor.LayerBackground) && a.doc.Background != nil {
		if img := a.assetImage(a.doc.Background.Ref); img != nil {
			bg := a.doc.Background
			s := bg.Scale
			if s <= 0 {
				s = 1
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(s*zoom, s*zoom)
			op.GeoM.Translate(bg.OffsetX*zoom+offX, bg.OffsetY*zoom+offY)
			dst.DrawImage(img, op)
		}
	}

	fillOn := ed.LayerVisible(editor.LayerFill)
	linesOn := ed.LayerVisible(editor.LayerGridLines)
	if fillOn || linesOn {
		lineSprite := a.sprites.cell(scheme, color.RGBA{}, gridLineColor, 1.2)
		ed.EachVisibleCell(func(sp editor.CellSprite) {
			if fillOn {
				fc := baseCellFill
				if cat, ok := ed.FillCategory(sp.Fill); ok {
					fc = parseHexColor(cat.Color)
				}
				a.sprites.cell(scheme, fc, color.RGBA{}, 0).blit(dst, sp.X, sp.Y, offX, offY, zoom)
			}
			if linesOn {
				lineSprite.blit(dst, sp.X, sp.Y, offX, offY, zoom)
			}
		})
	}

	if ed.LayerVisible(editor.LayerPaths) {
		for _, p := range ed.Paths() {
			a.strokePath(dst, p, offX, offY, zoom)
		}
		if lp, ok := ed.LivePath(); ok {
			a.strokePath(dst, lp, offX, offY, zoom)
		}
	}

	if ed.LayerVisible(editor.LayerStickers) {
		if isWorld {
			for _, s := range a.doc.Stickers {
				img := a.assetImage(s.Ref)
				if img == nil {
					continue
				}
				sc := s.Scale
				if sc <= 0 {
					sc = 1
				}
				b := img.Bounds()
				op := &ebiten.DrawImageOptions{}
				op.GeoM.Scale(sc*zoom, sc*zoom)
				op.GeoM.Translate(
					s.X*zoom+offX-float64(b.Dx())/2*sc*zoom,
					s.Y*zoom+offY-float64(b.Dy())/2*sc*zoom,
				)
				dst.DrawImage(img, op)
			}
		}
		marker := a.sprites.disc(cellSize*0.3, townMarkFill, townMarkLine)
		ed.EachVisibleCell(func(sp editor.CellSprite) {
			if c, ok := g.CellByKey(sp.Key); ok && c.Town {
				marker.blit(dst, sp.X, sp.Y, offX, offY, zoom)
			}
		})
	}

	if ed.LayerVisible(editor.LayerHighlight) {
		if _, l, ok := ed.Selected(); ok {
			cx, cy := scheme.Center(l)
			a.sprites.cell(scheme, color.RGBA{}, highlightLine, 2.5).blit(dst, cx, cy, offX, offY, zoom)
		}
	}
}

func (a *App) strokePath(dst *ebiten.Image, p world.Path, offX, offY, zoom float64) {
	if len(p.Points) < 2 {
		return
	}
	col := parseHexColor(p.Color)
	w := float32(p.StrokeWidth * zoom)
	if w < 1 {
		w = 1
	}
	for i := 1; i < len(p.Points); i++ {
		x0 := float32(p.Points[i-1].X*zoom + offX)
		y0 := float32(p.Points[i-1].Y*zoom + offY)
		x1 := float32(p.Points[i].X*zoom + offX)
		y1 := float32(p.Points[i].Y*zoom + offY)
		vector.StrokeLine(dst, x0, y0, x1, y1, w, col, false)
	}
}

// assetImage resolves a ref through the library, converting once and
// caching. Failures cache a nil so a broken ref logs a single warning
// instead of one per frame.
func (a *App) assetImage(ref string) *ebiten.Image {
	if ref == "" {
		return nil
	}
	if img, ok := a.images[ref]; ok {
		return img
	}
	src, err := a.lib.Load(ref)
	if err != nil {
		a.log.Warnf("asset %q unavailable, layer skipped: %v", ref, err)
		a.images[ref] = nil
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	a.images[ref] = img
	return img
}

func (a *App) drawHUD(screen *ebiten.Image) {
	ed := a.active()

	mode := "world"
	if a.town != nil {
		mode = "town " + a.townKey
	}
	erase := ""
	if ed.Erasing() {
		erase = " [erase]"
	}
	unsaved := ""
	if a.dirty {
		unsaved = " *"
	}
	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("%s%s | %s | tool: %s%s | fill: %s | zoom: %.2f",
			a.mapKey, unsaved, mode, ed.Tool(), erase, ed.Fill(), ed.Zoom()),
		6, 6)

	if key, l, ok := ed.Selected(); ok {
		cd, _ := ed.CellData(key)
		line := fmt.Sprintf("cell %s (%d,%d)", key, l.X, l.Y)
		if cd.Fill != "" {
			line += " fill: " + cd.Fill
		}
		if cd.Occupied {
			line += " [town]"
		}
		if cd.Notes != "" {
			line += " notes: " + cd.Notes
		}
		ebitenutil.DebugPrintAt(screen, line, 6, 20)
	}

	if a.showHUD {
		ebitenutil.DebugPrintAt(screen,
			"tab tool  e erase  [/] fill  lmb paint/draw  mmb pan  wheel zoom  r center  s save",
			6, a.height-44)
		ebitenutil.DebugPrintAt(screen,
			"t town  enter open  esc close  o orientation  x/del sticker  f bg  b/g/p/k layers  c copy  h help",
			6, a.height-30)
	}

	if a.status != "" && time.Since(a.statusAt) < statusFor {
		ebitenutil.DebugPrintAt(screen, a.status, 6, a.height-16)
	}
}

func (a *App) Layout(outsideW, outsideH int) (int, int) {
	if outsideW > 0 && outsideH > 0 && (outsideW != a.width || outsideH != a.height) {
		a.width, a.height = outsideW, outsideH
		a.ed.Resize(outsideW, outsideH)
		if a.town != nil {
			a.town.Resize(outsideW, outsideH)
		}
	}
	return a.width, a.height
}
