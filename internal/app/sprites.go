package app

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"

	"hexcarta/internal/editor"
	"hexcarta/internal/world"
)

// ssaa is the supersampling factor for rasterized shapes. Sprites render
// at 2x and blit at zoom/2, so they stay crisp up to 200% zoom without a
// per-zoom cache.
const ssaa = 2.0

// shape is one pre-rasterized cell image. halfW/halfH are the world-pixel
// half extents at 1x, used to position the blit around the cell center.
type shape struct {
	img          *ebiten.Image
	halfW, halfH float64
}

// spriteCache rasterizes cell polygons and markers once per
// (geometry, style) pair. Every visible cell of a scheme shares the same
// outline, so the cache stays small: one entry per fill color plus one
// per marker kind.
type spriteCache struct {
	shapes map[string]shape
	polys  map[string][]world.Point
}

func newSpriteCache() *spriteCache {
	return &spriteCache{
		shapes: make(map[string]shape),
		polys:  make(map[string][]world.Point),
	}
}

// schemeKey identifies a scheme's cell geometry.
func schemeKey(s editor.Scheme) string {
	switch t := s.(type) {
	case editor.HexScheme:
		return fmt.Sprintf("hex|%s|%g", t.Orientation, t.CellSize)
	case editor.SquareScheme:
		return fmt.Sprintf("sq|%g", t.CellSize)
	default:
		cols, rows := s.Size()
		return fmt.Sprintf("scheme|%d|%d", cols, rows)
	}
}

// localPolygon returns the cell outline relative to the cell center. All
// cells of one scheme share it.
func (c *spriteCache) localPolygon(s editor.Scheme) []world.Point {
	key := schemeKey(s)
	if poly, ok := c.polys[key]; ok {
		return poly
	}
	origin := world.Label{}
	cx, cy := s.Center(origin)
	src := s.Polygon(origin)
	poly := make([]world.Point, len(src))
	for i, p := range src {
		poly[i] = world.Point{X: p.X - cx, Y: p.Y - cy}
	}
	c.polys[key] = poly
	return poly
}

// cell returns the sprite for one cell polygon with the given fill and
// outline. A zero-alpha fill yields an outline-only sprite and vice versa.
func (c *spriteCache) cell(s editor.Scheme, fill, line color.RGBA, lineWidth float64) shape {
	key := fmt.Sprintf("%s|f%02x%02x%02x%02x|l%02x%02x%02x%02x|w%g",
		schemeKey(s), fill.R, fill.G, fill.B, fill.A, line.R, line.G, line.B, line.A, lineWidth)
	if sh, ok := c.shapes[key]; ok {
		return sh
	}

	poly := c.localPolygon(s)
	var halfW, halfH float64
	for _, p := range poly {
		halfW = math.Max(halfW, math.Abs(p.X))
		halfH = math.Max(halfH, math.Abs(p.Y))
	}
	pad := lineWidth + 1
	halfW += pad
	halfH += pad

	dc := gg.NewContext(int(2*halfW*ssaa+0.5), int(2*halfH*ssaa+0.5))
	dc.MoveTo((poly[0].X+halfW)*ssaa, (poly[0].Y+halfH)*ssaa)
	for _, p := range poly[1:] {
		dc.LineTo((p.X+halfW)*ssaa, (p.Y+halfH)*ssaa)
	}
	dc.ClosePath()
	if fill.A > 0 {
		dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
		if line.A > 0 {
			dc.FillPreserve()
		} else {
			dc.Fill()
		}
	}
	if line.A > 0 {
		dc.SetRGBA255(int(line.R), int(line.G), int(line.B), int(line.A))
		dc.SetLineWidth(lineWidth * ssaa)
		dc.Stroke()
	}

	sh := shape{img: ebiten.NewImageFromImage(dc.Image()), halfW: halfW, halfH: halfH}
	c.shapes[key] = sh
	return sh
}

// disc returns a filled circle sprite, used for town markers.
func (c *spriteCache) disc(radius float64, fill, line color.RGBA) shape {
	key := fmt.Sprintf("disc|%g|f%02x%02x%02x%02x|l%02x%02x%02x%02x",
		radius, fill.R, fill.G, fill.B, fill.A, line.R, line.G, line.B, line.A)
	if sh, ok := c.shapes[key]; ok {
		return sh
	}

	half := radius + 2
	dc := gg.NewContext(int(2*half*ssaa+0.5), int(2*half*ssaa+0.5))
	dc.DrawCircle(half*ssaa, half*ssaa, radius*ssaa)
	dc.SetRGBA255(int(fill.R), int(fill.G), int(fill.B), int(fill.A))
	dc.FillPreserve()
	dc.SetRGBA255(int(line.R), int(line.G), int(line.B), int(line.A))
	dc.SetLineWidth(1.5 * ssaa)
	dc.Stroke()

	sh := shape{img: ebiten.NewImageFromImage(dc.Image()), halfW: half, halfH: half}
	c.shapes[key] = sh
	return sh
}

// blit draws a cached shape centered on a world position under the camera
// transform.
func (sh shape) blit(dst *ebiten.Image, wx, wy, offX, offY, zoom float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(zoom/ssaa, zoom/ssaa)
	op.GeoM.Translate(wx*zoom+offX-sh.halfW*zoom, wy*zoom+offY-sh.halfH*zoom)
	dst.DrawImage(sh.img, op)
}

// parseHexColor decodes "#rrggbb". Bad input falls back to grey so a typo
// in a palette never breaks rendering.
func parseHexColor(s string) color.RGBA {
	var r, g, b uint8
	if len(s) == 7 && s[0] == '#' {
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}
