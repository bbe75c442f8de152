package hexmap

// Wheel zoom factors: one notch of scroll applies exactly one factor, with no
// debounce.
const (
	wheelZoomInFactor  = 1.1
	wheelZoomOutFactor = 0.9
)

// Controller is the pointer/wheel state machine: drag-to-pan, hover tracking,
// click-to-select, and wheel-to-zoom-at-point. It is host-agnostic: a real
// event source (the Ebitengine adapter in input.go, or a test) feeds it
// through PointerDown/PointerMove/PointerUp/PointerLeave/Wheel.
//
// A click is a press and release with total movement inside the drag dead
// zone. The dead zone defaults to 0 px: any detected movement between press
// and release suppresses the select, even if the pointer returns to its
// starting pixel. Hosts on imprecise input devices should raise it with
// SetDragDeadZone.
type Controller struct {
	view    *Viewport
	hexSize float64

	dragDeadZone float64

	down     bool
	moved    bool // exceeded the dead zone at any point in this gesture
	dragging bool

	startX, startY         float64
	viewStartX, viewStartY float64

	hovered     Axial
	hasHovered  bool
	selected    Axial
	hasSelected bool

	onSelect func(Axial)
	onHover  func(Axial, bool)
	onChange func() // repaint trigger, fired after every state-affecting event
}

// NewController creates a controller driving the given viewport, hit-testing
// against hexes of the given circumradius.
func NewController(view *Viewport, hexSize float64) *Controller {
	return &Controller{view: view, hexSize: hexSize}
}

// SetDragDeadZone sets the movement threshold in pixels below which a
// press/release still counts as a click.
func (c *Controller) SetDragDeadZone(pixels float64) {
	c.dragDeadZone = pixels
}

// Hovered returns the currently hovered cell, if any.
func (c *Controller) Hovered() (Axial, bool) {
	return c.hovered, c.hasHovered
}

// Selected returns the currently selected cell, if any. Selection persists
// across drags and hovers until the next click replaces it.
func (c *Controller) Selected() (Axial, bool) {
	return c.selected, c.hasSelected
}

// ClearSelection drops the current selection.
func (c *Controller) ClearSelection() {
	if c.hasSelected {
		c.hasSelected = false
		c.fireChange()
	}
}

// Dragging reports whether a pan gesture is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// PointerDown begins a gesture at the given screen point.
func (c *Controller) PointerDown(x, y float64) {
	c.down = true
	c.moved = false
	c.dragging = false
	c.startX, c.startY = x, y
	c.viewStartX, c.viewStartY = c.view.OffsetX, c.view.OffsetY
}

// PointerMove updates a drag in progress or, with no button down, tracks the
// hovered cell.
func (c *Controller) PointerMove(x, y float64) {
	if c.down {
		dx := x - c.startX
		dy := y - c.startY
		if !c.moved && dx*dx+dy*dy > c.dragDeadZone*c.dragDeadZone {
			c.moved = true
			c.dragging = true
		}
		if c.dragging {
			c.view.OffsetX = c.viewStartX + dx
			c.view.OffsetY = c.viewStartY + dy
			c.fireChange()
		}
		return
	}

	hex := c.hexAt(x, y)
	if !c.hasHovered || hex != c.hovered {
		c.hovered = hex
		c.hasHovered = true
		if c.onHover != nil {
			c.onHover(hex, true)
		}
		c.fireChange()
	}
}

// PointerUp ends the gesture. A release that never left the dead zone selects
// the cell under the pointer; a release after a drag must not also select.
func (c *Controller) PointerUp(x, y float64) {
	wasClick := c.down && !c.moved
	c.down = false
	c.dragging = false
	if !wasClick {
		return
	}

	c.selected = c.hexAt(x, y)
	c.hasSelected = true
	c.fireChange()
	if c.onSelect != nil {
		c.onSelect(c.selected)
	}
}

// PointerLeave cancels any gesture unconditionally, even mid-drag, and
// clears the hovered cell.
func (c *Controller) PointerLeave() {
	c.down = false
	c.dragging = false
	if c.hasHovered {
		c.hasHovered = false
		if c.onHover != nil {
			c.onHover(Axial{}, false)
		}
		c.fireChange()
	}
}

// Wheel applies one zoom step anchored at the cursor's screen position.
// dy > 0 zooms in, dy < 0 zooms out; every event applies immediately.
func (c *Controller) Wheel(x, y, dy float64) {
	if dy == 0 {
		return
	}
	factor := wheelZoomInFactor
	if dy < 0 {
		factor = wheelZoomOutFactor
	}
	c.view.ZoomAt(x, y, factor)
	c.fireChange()
}

// hexAt converts a screen point to the cell under it.
func (c *Controller) hexAt(x, y float64) Axial {
	wx, wy := c.view.ToWorld(x, y)
	return PixelToHex(wx, wy, c.hexSize)
}

func (c *Controller) fireChange() {
	if c.onChange != nil {
		c.onChange()
	}
}
