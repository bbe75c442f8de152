package hexmap

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// renderLayer tags each op with the z-band it belongs to. The build order
// already encodes the final z-order; the tag exists so tests can assert it.
type renderLayer uint8

const (
	layerHexFill renderLayer = iota
	layerPattern
	layerHexStroke
	layerHover
	layerSelection
	layerLabel
	layerMarker
)

type opKind uint8

const (
	opFill   opKind = iota // filled polygon
	opStroke               // stroked polyline (optionally closed)
	opText                 // text anchored at a world-space point
)

// renderOp is a single draw instruction in world space. The renderer builds
// the full op list for a frame, then submits it through the viewport
// transform. Keeping the list inspectable makes the z-order and hex ordering
// testable without a GPU.
type renderOp struct {
	kind   opKind
	layer  renderLayer
	pts    []Vec2
	closed bool
	col    color.RGBA
	width  float64 // stroke width in world units
	text   string
	x, y   float64 // text anchor (world space, centered)
	plate  bool    // text: draw a background plate sized to the metrics
}

// Brush appends pattern ops with a fixed color and stroke width. Pattern
// strategies draw through it so they stay independent of the op list layout.
type Brush struct {
	ops   *[]renderOp
	col   color.RGBA
	width float64
}

// Line strokes a single segment.
func (b *Brush) Line(x1, y1, x2, y2 float64) {
	b.Polyline(Vec2{X: x1, Y: y1}, Vec2{X: x2, Y: y2})
}

// Polyline strokes an open path through pts.
func (b *Brush) Polyline(pts ...Vec2) {
	if len(pts) < 2 {
		return
	}
	*b.ops = append(*b.ops, renderOp{
		kind: opStroke, layer: layerPattern, pts: pts, col: b.col, width: b.width,
	})
}

// Ring strokes a closed path through pts.
func (b *Brush) Ring(pts ...Vec2) {
	if len(pts) < 3 {
		return
	}
	*b.ops = append(*b.ops, renderOp{
		kind: opStroke, layer: layerPattern, pts: pts, closed: true, col: b.col, width: b.width,
	})
}

// Polygon fills the polygon with vertices pts.
func (b *Brush) Polygon(pts ...Vec2) {
	if len(pts) < 3 {
		return
	}
	*b.ops = append(*b.ops, renderOp{
		kind: opFill, layer: layerPattern, pts: pts, col: b.col,
	})
}

// theme holds the fixed visual constants of the widget.
type theme struct {
	background   color.RGBA
	grid         color.RGBA
	gridSpacing  float64
	hover        color.RGBA
	selection    color.RGBA
	selectionRim color.RGBA
	plate        color.RGBA
	labelText    color.RGBA
	markerText   color.RGBA
}

func defaultTheme() theme {
	return theme{
		background:   color.RGBA{R: 0x1c, G: 0x1e, B: 0x26, A: 0xff},
		grid:         color.RGBA{R: 0x2a, G: 0x2d, B: 0x38, A: 0xff},
		gridSpacing:  48,
		hover:        color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x40},
		selection:    color.RGBA{R: 0xff, G: 0xc8, B: 0x3d, A: 0x55},
		selectionRim: color.RGBA{R: 0xff, G: 0xc8, B: 0x3d, A: 0xff},
		plate:        color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xa0},
		labelText:    color.RGBA{R: 0xf2, G: 0xf2, B: 0xf2, A: 0xff},
		markerText:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

const (
	patternAlpha     = 0xa8  // fixed overlay alpha for all pattern drawing
	outerStrokeScale = 0.085 // outer border width as a fraction of hex size
	innerStrokeScale = 0.05  // inner border width as a fraction of hex size
	innerRimScale    = 0.88  // inner border hexagon shrink factor
	labelOffsetScale = 0.42  // label center offset below hex center
	markerRiseScale  = 0.55  // marker glyph offset above hex center
)

// Renderer draws the full widget state each pass: background and reference
// grid, populated hexes with biome fill and pattern overlay, hover and
// selection highlights, labels, and markers, in that fixed order.
type Renderer struct {
	store   Store
	view    *Viewport
	hexSize float64
	face    text.Face
	theme   theme

	ops []renderOp

	// Reused ebiten submission buffers.
	path     vector.Path
	vs       []ebiten.Vertex
	is       []uint16
	whiteImg *ebiten.Image
}

func newRenderer(store Store, view *Viewport, hexSize float64, face text.Face) *Renderer {
	return &Renderer{
		store:   store,
		view:    view,
		hexSize: hexSize,
		face:    face,
		theme:   defaultTheme(),
		vs:      make([]ebiten.Vertex, 0, 64),
		is:      make([]uint16, 0, 64),
	}
}

// resolvedBiome is the per-pass view of a biome: parsed fill plus pattern.
type resolvedBiome struct {
	fill    color.RGBA
	pattern PatternKind
}

// resolveBiome looks up a record's biome and parses its color. A dangling
// biome id or malformed color falls back to the neutral fill; the hex is
// always drawn.
func (r *Renderer) resolveBiome(cache map[string]resolvedBiome, id string) resolvedBiome {
	if rb, ok := cache[id]; ok {
		return rb
	}
	rb := resolvedBiome{fill: neutralFill}
	if biome, ok := r.store.GetBiome(id); ok {
		if fill, ok := ParseColor(biome.Color); ok {
			rb.fill = fill
		}
		rb.pattern = biome.Pattern
	}
	cache[id] = rb
	return rb
}

// buildOps rebuilds the frame's op list. Hexes are ordered by (R, Q)
// regardless of store iteration order, so two passes over identical state
// produce identical lists (pattern jitter is seeded per cell).
func (r *Renderer) buildOps(hover, selected *Axial) []renderOp {
	r.ops = r.ops[:0]

	hexes := r.store.ListHexes()
	sortHexRecords(hexes)

	biomes := make(map[string]resolvedBiome, 8)
	for _, rec := range hexes {
		r.buildHex(rec, biomes)
	}

	if hover != nil {
		r.buildHighlight(*hover, layerHover, r.theme.hover, color.RGBA{})
	}
	// Selection is built after hover so it wins visually on overlap.
	if selected != nil {
		r.buildHighlight(*selected, layerSelection, r.theme.selection, r.theme.selectionRim)
	}

	for _, rec := range hexes {
		if rec.Label == "" {
			continue
		}
		cx, cy := rec.Coord().ToPixel(r.hexSize)
		r.ops = append(r.ops, renderOp{
			kind: opText, layer: layerLabel,
			text: rec.Label,
			x:    cx, y: cy + r.hexSize*labelOffsetScale,
			col: r.theme.labelText, plate: true,
		})
	}

	for _, m := range r.store.ListMarkers() {
		cx, cy := (Axial{Q: m.Q, R: m.R}).ToPixel(r.hexSize)
		r.ops = append(r.ops, renderOp{
			kind: opText, layer: layerMarker,
			text: m.Icon,
			x:    cx, y: cy - r.hexSize*markerRiseScale,
			col: r.theme.markerText,
		})
	}

	return r.ops
}

// buildHex emits fill, pattern overlay, and the outer/inner borders for one
// populated cell.
func (r *Renderer) buildHex(rec HexRecord, biomes map[string]resolvedBiome) {
	coord := rec.Coord()
	cx, cy := coord.ToPixel(r.hexSize)
	rb := r.resolveBiome(biomes, rec.BiomeID)

	corners := Corners(cx, cy, r.hexSize)
	r.ops = append(r.ops, renderOp{
		kind: opFill, layer: layerHexFill, pts: corners[:], col: rb.fill,
	})

	if fn, ok := patternRegistry[rb.pattern]; ok {
		overlay := shade(rb.fill, -70)
		if luminance(rb.fill) < 90 {
			overlay = shade(rb.fill, 70)
		}
		overlay.A = patternAlpha
		brush := &Brush{ops: &r.ops, col: overlay, width: r.hexSize * 0.06}
		rng := rand.New(rand.NewSource(patternSeed(coord)))
		fn(brush, cx, cy, r.hexSize, rng)
	}

	r.ops = append(r.ops, renderOp{
		kind: opStroke, layer: layerHexStroke, pts: corners[:], closed: true,
		col: shade(rb.fill, -60), width: r.hexSize * outerStrokeScale,
	})
	inner := Corners(cx, cy, r.hexSize*innerRimScale)
	r.ops = append(r.ops, renderOp{
		kind: opStroke, layer: layerHexStroke, pts: inner[:], closed: true,
		col: shade(rb.fill, 40), width: r.hexSize * innerStrokeScale,
	})
}

// buildHighlight emits a translucent hexagon over coord, with a rim stroke
// when rim has any alpha.
func (r *Renderer) buildHighlight(coord Axial, layer renderLayer, fill, rim color.RGBA) {
	cx, cy := coord.ToPixel(r.hexSize)
	corners := Corners(cx, cy, r.hexSize)
	r.ops = append(r.ops, renderOp{
		kind: opFill, layer: layer, pts: corners[:], col: fill,
	})
	if rim.A != 0 {
		r.ops = append(r.ops, renderOp{
			kind: opStroke, layer: layer, pts: corners[:], closed: true,
			col: rim, width: r.hexSize * outerStrokeScale,
		})
	}
}

// Draw repaints the whole widget into dst: background, screen-space reference
// grid, then the world-space op list through the viewport transform.
func (r *Renderer) Draw(dst *ebiten.Image, hover, selected *Axial) {
	if r.whiteImg == nil {
		r.whiteImg = ebiten.NewImage(1, 1)
		r.whiteImg.Fill(color.White)
	}

	dst.Fill(r.theme.background)
	r.drawGrid(dst)

	for _, op := range r.buildOps(hover, selected) {
		switch op.kind {
		case opFill:
			r.submitPoly(dst, op.pts, op.col, true, 0, false)
		case opStroke:
			r.submitPoly(dst, op.pts, op.col, false, op.width, op.closed)
		case opText:
			r.submitText(dst, op)
		}
	}
}

// drawGrid draws the fixed-spacing screen-space reference grid. It is a
// static visual texture, independent of zoom and pan.
func (r *Renderer) drawGrid(dst *ebiten.Image) {
	b := dst.Bounds()
	w := float32(b.Dx())
	h := float32(b.Dy())
	step := float32(r.theme.gridSpacing)
	for x := step; x < w; x += step {
		vector.StrokeLine(dst, x, 0, x, h, 1, r.theme.grid, false)
	}
	for y := step; y < h; y += step {
		vector.StrokeLine(dst, 0, y, w, y, 1, r.theme.grid, false)
	}
}

// submitPoly fills or strokes a world-space polygon/polyline after mapping
// each point through the viewport.
func (r *Renderer) submitPoly(dst *ebiten.Image, pts []Vec2, col color.RGBA, fill bool, width float64, closed bool) {
	r.path.Reset()
	for i, p := range pts {
		sx, sy := r.view.ToScreen(p.X, p.Y)
		if i == 0 {
			r.path.MoveTo(float32(sx), float32(sy))
		} else {
			r.path.LineTo(float32(sx), float32(sy))
		}
	}
	if fill || closed {
		r.path.Close()
	}

	if fill {
		r.vs, r.is = r.path.AppendVerticesAndIndicesForFilling(r.vs[:0], r.is[:0])
	} else {
		sw := float32(math.Max(width*r.view.Zoom, 1))
		r.vs, r.is = r.path.AppendVerticesAndIndicesForStroke(r.vs[:0], r.is[:0], &vector.StrokeOptions{
			Width:    sw,
			LineJoin: vector.LineJoinRound,
			LineCap:  vector.LineCapRound,
		})
	}

	for i := range r.vs {
		r.vs[i].ColorR = float32(col.R) / 255
		r.vs[i].ColorG = float32(col.G) / 255
		r.vs[i].ColorB = float32(col.B) / 255
		r.vs[i].ColorA = float32(col.A) / 255
	}
	dst.DrawTriangles(r.vs, r.is, r.whiteImg, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
	})
}

// submitText draws a label or marker glyph, scaled with the viewport zoom so
// text stays attached to its hex. Labels get a background plate sized to the
// text metrics for legibility over arbitrary fills.
func (r *Renderer) submitText(dst *ebiten.Image, op renderOp) {
	if r.face == nil || op.text == "" {
		return
	}
	tw, th := text.Measure(op.text, r.face, 0)
	zoom := r.view.Zoom
	sx, sy := r.view.ToScreen(op.x, op.y)

	if op.plate {
		const pad = 3.0
		pw := float32((tw + pad*2) * zoom)
		ph := float32((th + pad*2) * zoom)
		vector.DrawFilledRect(dst,
			float32(sx)-pw/2, float32(sy)-ph/2, pw, ph,
			r.theme.plate, true)
	}

	topt := &text.DrawOptions{}
	topt.GeoM.Translate(-tw/2, -th/2)
	topt.GeoM.Scale(zoom, zoom)
	topt.GeoM.Translate(sx, sy)
	topt.ColorScale.ScaleWithColor(op.col)
	text.Draw(dst, op.text, r.face, topt)
}

// shade adds delta to each color channel, clamping to [0, 255].
func shade(c color.RGBA, delta int) color.RGBA {
	clampCh := func(v int) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{
		R: clampCh(int(c.R) + delta),
		G: clampCh(int(c.G) + delta),
		B: clampCh(int(c.B) + delta),
		A: c.A,
	}
}

// opsByLayer returns the layer sequence of an op list. Test helper.
func opsByLayer(ops []renderOp) []renderLayer {
	out := make([]renderLayer, len(ops))
	for i, op := range ops {
		out[i] = op.layer
	}
	return out
}
