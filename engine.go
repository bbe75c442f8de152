package hexmap

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween/ease"
)

// Host is the container surface the widget is mounted in. It only has to
// report its current box size; the engine owns everything inside it.
type Host interface {
	Size() (width, height int)
}

// SelectFunc receives the clicked cell and its record; ok is false when the
// cell is unpopulated.
type SelectFunc func(coord Axial, rec HexRecord, ok bool)

// HoverFunc receives the newly hovered cell on every hover-cell change; ok is
// false when the cell is unpopulated.
type HoverFunc func(coord Axial, rec HexRecord, ok bool)

// Config sets up an Engine. The zero value is usable: every field has a
// working default.
type Config struct {
	// HexSize is the hex circumradius in world units. Default 30.
	HexSize float64
	// MinZoom and MaxZoom clamp the viewport zoom. Defaults 0.25 and 4.
	MinZoom, MaxZoom float64
	// Face renders labels and marker glyphs. When nil, text is skipped.
	Face text.Face
	// DragDeadZone is the click-vs-drag threshold in pixels. Default 0:
	// any pointer movement between press and release suppresses the click.
	DragDeadZone float64
	// Logger receives diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

const (
	defaultHexSize = 30.0
	// Button zoom applies a fixed step anchored at the canvas center,
	// unlike wheel zoom which anchors at the cursor.
	buttonZoomStep = 1.2
)

// Engine composes the viewport, interaction controller, and renderer over an
// injected Store, and exposes the widget surface to a host application.
// Engines are plain instances: several map widgets can coexist, each owning
// its own viewport and interaction state.
//
// All methods must be called from the game loop goroutine. Before a
// successful Init, every method is a safe no-op.
type Engine struct {
	store Store
	cfg   Config
	log   *slog.Logger

	host     Host
	view     *Viewport
	ctrl     *Controller
	renderer *Renderer
	input    *inputAdapter
	surface  *ebiten.Image

	onSelect SelectFunc
	onHover  HoverFunc

	dirty bool
	debug bool
}

// New creates an engine over the given store. Call Init to mount it.
func New(store Store, cfg Config) *Engine {
	if cfg.HexSize <= 0 {
		cfg.HexSize = defaultHexSize
	}
	if cfg.MinZoom <= 0 {
		cfg.MinZoom = defaultMinZoom
	}
	if cfg.MaxZoom <= 0 {
		cfg.MaxZoom = defaultMaxZoom
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	view := NewViewport()
	view.MinZoom = cfg.MinZoom
	view.MaxZoom = cfg.MaxZoom

	ctrl := NewController(view, cfg.HexSize)
	ctrl.SetDragDeadZone(cfg.DragDeadZone)

	e := &Engine{
		store:    store,
		cfg:      cfg,
		log:      cfg.Logger,
		view:     view,
		ctrl:     ctrl,
		renderer: newRenderer(store, view, cfg.HexSize, cfg.Face),
		input:    newInputAdapter(ctrl),
	}

	ctrl.onChange = func() { e.dirty = true }
	ctrl.onSelect = func(c Axial) {
		if e.onSelect == nil {
			return
		}
		rec, ok := e.store.GetHex(c.Q, c.R)
		e.onSelect(c, rec, ok)
	}
	ctrl.onHover = func(c Axial, entered bool) {
		if e.onHover == nil || !entered {
			return
		}
		rec, ok := e.store.GetHex(c.Q, c.R)
		e.onHover(c, rec, ok)
	}

	return e
}

// Init mounts the engine in a host container: allocates the drawing surface,
// centers the view on the store's map bounds, and paints the first frame.
//
// A nil or zero-sized host is reported through the logger and leaves the
// engine disabled rather than failing; hosts may call Init speculatively.
func (e *Engine) Init(host Host) {
	if host == nil {
		e.log.Warn("hexmap: init without a host container, engine disabled")
		return
	}
	w, h := host.Size()
	if w <= 0 || h <= 0 {
		e.log.Warn("hexmap: host reports empty size, engine disabled",
			"width", w, "height", h)
		return
	}
	e.host = host
	e.surface = ebiten.NewImage(w, h)
	e.centerView()
	e.Render()
}

func (e *Engine) ready() bool {
	return e.surface != nil
}

// Resize re-reads the host's box size, reallocates the backing surface when
// it changed, and repaints. Without this, a host resize leaves stale or
// clipped content.
func (e *Engine) Resize() {
	if !e.ready() {
		return
	}
	w, h := e.host.Size()
	if w <= 0 || h <= 0 {
		return
	}
	b := e.surface.Bounds()
	if w == b.Dx() && h == b.Dy() {
		return
	}
	e.surface.Deallocate()
	e.surface = ebiten.NewImage(w, h)
	e.Render()
}

// Update polls input and advances viewport animations. Call once per tick
// from the host's game loop.
func (e *Engine) Update() {
	if !e.ready() {
		return
	}
	b := e.surface.Bounds()
	e.input.poll(b.Dx(), b.Dy())

	dt := float32(1.0 / float64(ebiten.TPS()))
	if e.view.update(dt) {
		e.dirty = true
	}
	if e.dirty {
		e.Render()
	}
}

// Render repaints the widget surface from current store contents and
// interaction state. Update calls it automatically after any state-affecting
// event; hosts call it directly after editing the store out-of-band.
func (e *Engine) Render() {
	if !e.ready() {
		return
	}
	timer := e.startFrame()

	var hover, selected *Axial
	if c, ok := e.ctrl.Hovered(); ok {
		hover = &c
	}
	if c, ok := e.ctrl.Selected(); ok {
		selected = &c
	}
	e.renderer.Draw(e.surface, hover, selected)
	e.dirty = false

	e.endFrame(timer)
}

// Draw blits the widget surface onto the screen. Call from the host's Draw.
func (e *Engine) Draw(screen *ebiten.Image) {
	if !e.ready() {
		return
	}
	screen.DrawImage(e.surface, nil)
}

// ZoomIn applies a fixed 1.2x zoom step anchored at the canvas center.
func (e *Engine) ZoomIn() {
	e.buttonZoom(buttonZoomStep)
}

// ZoomOut applies a fixed 1/1.2x zoom step anchored at the canvas center.
func (e *Engine) ZoomOut() {
	e.buttonZoom(1 / buttonZoomStep)
}

func (e *Engine) buttonZoom(factor float64) {
	if !e.ready() {
		return
	}
	b := e.surface.Bounds()
	e.view.ZoomAt(float64(b.Dx())/2, float64(b.Dy())/2, factor)
	e.Render()
}

// ResetView restores zoom 1 and re-centers on the store's map bounds.
func (e *Engine) ResetView() {
	if !e.ready() {
		return
	}
	e.view.Zoom = clamp(1, e.view.MinZoom, e.view.MaxZoom)
	e.centerView()
	e.Render()
}

// CenterOnHex animates the view so the given cell ends up centered, over
// duration seconds. Duration <= 0 snaps immediately.
func (e *Engine) CenterOnHex(q, r int, duration float32) {
	if !e.ready() {
		return
	}
	wx, wy := (Axial{Q: q, R: r}).ToPixel(e.cfg.HexSize)
	b := e.surface.Bounds()
	e.view.FlyTo(wx, wy, float64(b.Dx()), float64(b.Dy()), duration, ease.OutQuad)
	e.dirty = true
}

// SetOnSelect installs the host's selection callback. A single slot: setting
// a new callback replaces the previous one. Invoked synchronously from the
// click path with the clicked coordinate and its record, if any.
func (e *Engine) SetOnSelect(fn SelectFunc) {
	e.onSelect = fn
}

// SetOnHover installs the optional hover callback, invoked on every
// hover-cell change.
func (e *Engine) SetOnHover(fn HoverFunc) {
	e.onHover = fn
}

// Selected returns the currently selected cell, if any.
func (e *Engine) Selected() (Axial, bool) {
	return e.ctrl.Selected()
}

// Hovered returns the currently hovered cell, if any.
func (e *Engine) Hovered() (Axial, bool) {
	return e.ctrl.Hovered()
}

// ClearSelection drops the current selection and repaints.
func (e *Engine) ClearSelection() {
	if !e.ready() {
		return
	}
	e.ctrl.ClearSelection()
	if e.dirty {
		e.Render()
	}
}

// Viewport exposes the engine's viewport for reading. Hosts must mutate the
// view only through engine operations so the zoom-anchor and click/drag
// invariants hold.
func (e *Engine) Viewport() *Viewport {
	return e.view
}

// centerView centers the viewport on the store's authored map extent,
// treating the map as symmetric about the hex origin.
func (e *Engine) centerView() {
	bw, bh := e.store.MapBounds()
	worldW := float64(bw) * e.cfg.HexSize * 1.5
	worldH := float64(bh) * e.cfg.HexSize * sqrt3
	b := e.surface.Bounds()
	e.view.CenterOn(
		Rect{X: -worldW / 2, Y: -worldH / 2, Width: worldW, Height: worldH},
		float64(b.Dx()), float64(b.Dy()),
	)
	e.dirty = true
}
