package editor

import "hexcarta/internal/world"

// Layer identifies one independently-toggleable render pass. The numeric
// order is the fixed paint order, bottom to top.
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerFill
	LayerGridLines
	LayerPaths
	LayerStickers
	LayerHighlight
	layerCount // sentinel
)

func (l Layer) String() string {
	switch l {
	case LayerBackground:
		return "background"
	case LayerFill:
		return "fill"
	case LayerGridLines:
		return "gridlines"
	case LayerPaths:
		return "paths"
	case LayerStickers:
		return "stickers"
	case LayerHighlight:
		return "highlight"
	default:
		return "unknown"
	}
}

// Layers lists all toggleable layers in paint order.
func Layers() []Layer {
	return []Layer{LayerBackground, LayerFill, LayerGridLines, LayerPaths, LayerStickers, LayerHighlight}
}

// CellSprite is the retained renderable for one materialized cell.
type CellSprite struct {
	Key     string
	Label   world.Label
	X, Y    float64 // world-pixel center
	Fill    string
	Visible bool

	lastSeen uint64
}

// RenderStats counts what one sync pass did.
type RenderStats struct {
	Created int
	Updated int
	Shown   int
	Hidden  int
	Evicted int
}

func (s RenderStats) zero() bool {
	return s.Created == 0 && s.Updated == 0 && s.Shown == 0 && s.Hidden == 0 && s.Evicted == 0
}

// Renderer keeps one renderable per materialized cell, keyed by identity,
// and reuses them across passes instead of recreating them. Sprites that
// leave the visible bounds are hidden for cheap re-entry and evicted once
// they have been out of view for retainPasses passes, which bounds memory
// while the user pans across a huge grid.
type Renderer struct {
	scheme       Scheme
	sprites      map[string]*CellSprite
	visible      [layerCount]bool
	pass         uint64
	retainPasses uint64
	bounds       LabelRect
	gen          uint64
}

// NewRenderer builds a renderer for one grid scheme.
func NewRenderer(scheme Scheme, retainPasses int) *Renderer {
	if retainPasses < 1 {
		retainPasses = 1
	}
	r := &Renderer{
		scheme:       scheme,
		sprites:      make(map[string]*CellSprite),
		retainPasses: uint64(retainPasses),
		bounds:       LabelRect{MinX: 0, MinY: 0, MaxX: -1, MaxY: -1},
	}
	for i := range r.visible {
		r.visible[i] = true
	}
	return r
}

// Sync materializes the padded visible bounds against the current fill
// lookup: missing sprites are created, changed fills updated in place,
// leavers hidden, and long-hidden sprites evicted.
func (r *Renderer) Sync(bounds LabelRect, fillOf func(key string) string) RenderStats {
	r.pass++
	var st RenderStats
	if !bounds.Empty() {
		for y := bounds.MinY; y <= bounds.MaxY; y++ {
			for x := bounds.MinX; x <= bounds.MaxX; x++ {
				l := world.Label{X: x, Y: y}
				key := r.scheme.Key(l)
				sp, ok := r.sprites[key]
				if !ok {
					cx, cy := r.scheme.Center(l)
					sp = &CellSprite{Key: key, Label: l, X: cx, Y: cy}
					r.sprites[key] = sp
					st.Created++
				}
				fill := fillOf(key)
				if sp.Fill != fill {
					if ok {
						st.Updated++
					}
					sp.Fill = fill
				}
				if !sp.Visible {
					sp.Visible = true
					if ok {
						st.Shown++
					}
				}
				sp.lastSeen = r.pass
			}
		}
	}
	for key, sp := range r.sprites {
		if sp.lastSeen == r.pass {
			continue
		}
		if sp.Visible {
			sp.Visible = false
			st.Hidden++
		}
		if r.pass-sp.lastSeen > r.retainPasses {
			delete(r.sprites, key)
			st.Evicted++
		}
	}
	r.bounds = bounds
	if !st.zero() {
		r.gen++
	}
	return st
}

// PatchFill updates one retained sprite's fill immediately, for optimistic
// paint feedback between syncs. Unknown keys are ignored; the next sync
// will materialize them with the right fill.
func (r *Renderer) PatchFill(key, fill string) {
	if sp, ok := r.sprites[key]; ok && sp.Fill != fill {
		sp.Fill = fill
		r.gen++
	}
}

// SetLayerVisible toggles one layer's render pass.
func (r *Renderer) SetLayerVisible(l Layer, visible bool) {
	if l >= layerCount || r.visible[l] == visible {
		return
	}
	r.visible[l] = visible
	r.gen++
}

// LayerVisible reports one layer's visibility flag.
func (r *Renderer) LayerVisible(l Layer) bool {
	if l >= layerCount {
		return false
	}
	return r.visible[l]
}

// Touch marks retained visuals stale without structural changes, for
// selection moves and path edits drawn by shared layers.
func (r *Renderer) Touch() { r.gen++ }

// Generation increments whenever retained state or layer flags change.
// Drawing shells compare it to skip repainting frames where nothing moved.
func (r *Renderer) Generation() uint64 { return r.gen }

// Bounds returns the label rect of the last sync.
func (r *Renderer) Bounds() LabelRect { return r.bounds }

// SpriteCount returns the number of retained sprites, visible or hidden.
func (r *Renderer) SpriteCount() int { return len(r.sprites) }

// EachVisible calls fn with a copy of every visible sprite. Copies keep
// the retained map owned by the renderer alone.
func (r *Renderer) EachVisible(fn func(CellSprite)) {
	for _, sp := range r.sprites {
		if sp.Visible {
			fn(*sp)
		}
	}
}

// clear drops every retained sprite, for teardown and scheme swaps.
func (r *Renderer) clear() {
	r.sprites = make(map[string]*CellSprite)
	r.bounds = LabelRect{MinX: 0, MinY: 0, MaxX: -1, MaxY: -1}
	r.gen++
}

// rebase swaps the scheme and rebuilds from nothing. Layer visibility is
// user state and survives the swap.
func (r *Renderer) rebase(scheme Scheme) {
	r.scheme = scheme
	r.clear()
}
